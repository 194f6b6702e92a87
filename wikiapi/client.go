// Package wikiapi looks up page categories through the MediaWiki action
// API. The engine treats this as a best-effort collaborator: transport
// failures, bad replies, and pages without categories all collapse to an
// empty category set.
package wikiapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultEndpoint = "https://en.wikipedia.org/w/api.php"

// cacheSize bounds the LRU of category lookups; repeat menu queries for the
// same titles should not re-fetch.
const cacheSize = 512

type Client struct {
	client    *http.Client
	limiter   *rate.Limiter
	cache     *lru.Cache[string, map[string]bool]
	endpoint  string
	userAgent string
	log       *zap.Logger
}

func NewClient(endpoint, userAgent string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = zap.NewNop()
	}

	cache, err := lru.New[string, map[string]bool](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("init category cache: %w", err)
	}

	return &Client{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(10), 20),
		cache:     cache,
		endpoint:  endpoint,
		userAgent: userAgent,
		log:       log,
	}, nil
}

type categoriesResponse struct {
	Query struct {
		Pages map[string]struct {
			Categories []struct {
				Title string `json:"title"`
			} `json:"categories"`
		} `json:"pages"`
	} `json:"query"`
}

// Categories returns the set of category names for title. Failures of any
// kind yield an empty set; callers needing finer error granularity should
// wrap this client.
func (c *Client) Categories(ctx context.Context, title string) map[string]bool {
	if set, ok := c.cache.Get(title); ok {
		return set
	}

	set := c.fetchCategories(ctx, title)
	c.cache.Add(title, set)
	return set
}

func (c *Client) fetchCategories(ctx context.Context, title string) map[string]bool {
	set := make(map[string]bool)

	if err := c.limiter.Wait(ctx); err != nil {
		return set
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("titles", title)
	params.Set("prop", "categories")
	params.Set("cllimit", "max")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		c.log.Warn("category request build failed", zap.String("title", title), zap.Error(err))
		return set
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("category lookup failed", zap.String("title", title), zap.Error(err))
		return set
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("category lookup failed",
			zap.String("title", title),
			zap.Int("status", resp.StatusCode))
		return set
	}

	var decoded categoriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.log.Warn("category response decode failed", zap.String("title", title), zap.Error(err))
		return set
	}

	for _, page := range decoded.Query.Pages {
		for _, cat := range page.Categories {
			set[cat.Title] = true
		}
	}
	return set
}

// CommonCategories intersects the category sets of two pages and returns
// the shared names sorted for stable presentation.
func (c *Client) CommonCategories(ctx context.Context, title1, title2 string) []string {
	set1 := c.Categories(ctx, title1)
	set2 := c.Categories(ctx, title2)

	var common []string
	for name := range set1 {
		if set2[name] {
			common = append(common, name)
		}
	}
	sort.Strings(common)
	return common
}
