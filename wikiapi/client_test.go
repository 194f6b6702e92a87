package wikiapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoriesJSON(cats ...string) string {
	body := `{"query":{"pages":{"42":{"categories":[`
	for i, c := range cats {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"title":%q}`, c)
	}
	return body + `]}}}}`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "wiki-explorer-test", 5*time.Second, nil)
	require.NoError(t, err)
	return c
}

func TestCategoriesParsesResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "query", r.URL.Query().Get("action"))
		assert.Equal(t, "categories", r.URL.Query().Get("prop"))
		assert.Equal(t, "Go (programming language)", r.URL.Query().Get("titles"))
		fmt.Fprint(w, categoriesJSON("Category:Programming languages", "Category:Google software"))
	})

	set := c.Categories(context.Background(), "Go (programming language)")
	assert.Equal(t, map[string]bool{
		"Category:Programming languages": true,
		"Category:Google software":       true,
	}, set)
}

func TestCategoriesServerErrorIsEmptySet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	set := c.Categories(context.Background(), "Anything")
	assert.Empty(t, set)
}

func TestCategoriesBadJSONIsEmptySet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not the api</html>")
	})

	set := c.Categories(context.Background(), "Anything")
	assert.Empty(t, set)
}

func TestCategoriesUnreachableServerIsEmptySet(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := NewClient(srv.URL, "wiki-explorer-test", time.Second, nil)
	require.NoError(t, err)

	set := c.Categories(context.Background(), "Anything")
	assert.Empty(t, set)
}

func TestCategoriesCachesLookups(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, categoriesJSON("Category:Cached"))
	})

	ctx := context.Background()
	first := c.Categories(ctx, "Page")
	second := c.Categories(ctx, "Page")

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestCommonCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("titles") {
		case "Alpha":
			fmt.Fprint(w, categoriesJSON("Category:Shared", "Category:Alpha only", "Category:Both"))
		case "Beta":
			fmt.Fprint(w, categoriesJSON("Category:Both", "Category:Shared", "Category:Beta only"))
		default:
			fmt.Fprint(w, categoriesJSON())
		}
	})

	common := c.CommonCategories(context.Background(), "Alpha", "Beta")
	assert.Equal(t, []string{"Category:Both", "Category:Shared"}, common)
}

func TestCommonCategoriesNoneShared(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("titles") == "Alpha" {
			fmt.Fprint(w, categoriesJSON("Category:Alpha only"))
			return
		}
		fmt.Fprint(w, categoriesJSON("Category:Beta only"))
	})

	assert.Empty(t, c.CommonCategories(context.Background(), "Alpha", "Beta"))
}
