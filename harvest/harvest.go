// Package harvest turns a live Wikipedia article into edge records in the
// tab-separated dump format, so a seed edge file can be produced without
// downloading a full dump. Harvesting happens before the graph is loaded;
// it is a one-shot fetch, not a crawl.
package harvest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://en.wikipedia.org"

// Edge is one directed link between two article titles.
type Edge struct {
	FromTitle string
	ToTitle   string
}

type Harvester struct {
	client    *http.Client
	limiter   *rate.Limiter
	baseURL   string
	userAgent string
	log       *zap.Logger
}

func New(baseURL, userAgent string, timeout time.Duration, log *zap.Logger) *Harvester {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Harvester{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(5), 10),
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		log:       log,
	}
}

// OutgoingLinks fetches the article page for title and returns the titles
// of the articles it links to, in document order. Non-article links
// (other namespaces, external targets, fragments) are dropped.
func (h *Harvester) OutgoingLinks(ctx context.Context, title string) ([]string, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	pageURL := h.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %q: status %d", title, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", title, err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if target, ok := articleTitle(href); ok && target != title {
			links = append(links, target)
		}
	})

	h.log.Debug("article harvested", zap.String("title", title), zap.Int("links", len(links)))
	return links, nil
}

// Edges returns one directed edge per outgoing article link of title.
func (h *Harvester) Edges(ctx context.Context, title string) ([]Edge, error) {
	links, err := h.OutgoingLinks(ctx, title)
	if err != nil {
		return nil, err
	}
	edges := make([]Edge, 0, len(links))
	for _, to := range links {
		edges = append(edges, Edge{FromTitle: title, ToTitle: to})
	}
	return edges, nil
}

// articleTitle maps an href to an article title. Only /wiki/ paths count;
// namespaced pages such as File:, Category:, and Special: are rejected, as
// are fragment-only and external links.
func articleTitle(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Host != "" {
		return "", false
	}
	name := strings.TrimPrefix(u.Path, "/wiki/")
	if name == "" || name == u.Path || strings.Contains(name, ":") {
		return "", false
	}
	return strings.ReplaceAll(name, "_", " "), true
}

// WriteTSV writes edges in the dump format ingested by the graph loader:
// a header line, then page_id_from, page_title_from, page_id_to,
// page_title_to per record. Ids are synthetic but consistent per title.
func WriteTSV(w io.Writer, edges []Edge) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "page_id_from\tpage_title_from\tpage_id_to\tpage_title_to"); err != nil {
		return err
	}

	ids := make(map[string]int)
	idOf := func(title string) int {
		if id, ok := ids[title]; ok {
			return id
		}
		ids[title] = len(ids) + 1
		return ids[title]
	}

	for _, e := range edges {
		if _, err := fmt.Fprintf(bw, "%d\t%s\t%d\t%s\n",
			idOf(e.FromTitle), e.FromTitle, idOf(e.ToTitle), e.ToTitle); err != nil {
			return err
		}
	}
	return bw.Flush()
}
