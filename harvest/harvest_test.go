package harvest

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wiki-explorer/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<html><body>
<p><a href="/wiki/Alan_Turing">Alan Turing</a> founded
<a href="/wiki/Computer_science">computer science</a>.</p>
<a href="/wiki/File:Turing.jpg">picture</a>
<a href="/wiki/Category:Mathematicians">category</a>
<a href="https://example.com/wiki/External">external</a>
<a href="#History">fragment</a>
<a href="/w/index.php?title=Edit">edit</a>
<a href="/wiki/Alan_Turing">Turing again</a>
</body></html>`

func newTestHarvester(t *testing.T, handler http.HandlerFunc) *Harvester {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "wiki-explorer-test", 5*time.Second, nil)
}

func TestOutgoingLinksFiltersNonArticles(t *testing.T) {
	h := newTestHarvester(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/Computability", r.URL.Path)
		fmt.Fprint(w, articleHTML)
	})

	links, err := h.OutgoingLinks(context.Background(), "Computability")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alan Turing", "Computer science", "Alan Turing"}, links)
}

func TestOutgoingLinksEscapesTitle(t *testing.T) {
	h := newTestHarvester(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/Go_(programming_language)", r.URL.Path)
		fmt.Fprint(w, "<html><body></body></html>")
	})

	links, err := h.OutgoingLinks(context.Background(), "Go (programming language)")
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestOutgoingLinksDropsSelfLinks(t *testing.T) {
	h := newTestHarvester(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="/wiki/Loop">self</a><a href="/wiki/Other">other</a>`)
	})

	links, err := h.OutgoingLinks(context.Background(), "Loop")
	require.NoError(t, err)
	assert.Equal(t, []string{"Other"}, links)
}

func TestOutgoingLinksFetchError(t *testing.T) {
	h := newTestHarvester(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := h.OutgoingLinks(context.Background(), "Missing")
	assert.Error(t, err)
}

func TestWriteTSVRoundTripsThroughLoader(t *testing.T) {
	edges := []Edge{
		{FromTitle: "A", ToTitle: "B"},
		{FromTitle: "A", ToTitle: "C"},
		{FromTitle: "B", ToTitle: "C"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, edges))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "page_id_from\tpage_title_from\tpage_id_to\tpage_title_to", lines[0])

	g := graph.New(nil)
	require.NoError(t, g.Load(strings.NewReader(buf.String())))

	assert.Equal(t, []string{"B", "C"}, g.OutLinks("A"))
	assert.Equal(t, []string{"C"}, g.OutLinks("B"))
	assert.True(t, g.Contains("C"))
}

func TestWriteTSVAssignsStableIDs(t *testing.T) {
	edges := []Edge{
		{FromTitle: "A", ToTitle: "B"},
		{FromTitle: "B", ToTitle: "A"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, edges))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1\tA\t2\tB", lines[1])
	assert.Equal(t, "2\tB\t1\tA", lines[2])
}
