// Package query answers structural queries over a loaded link graph:
// shortest path between two pages, link-based article recommendations, and
// degree reports. All queries are read-only, so a single Engine can serve
// concurrent callers; per-caller state lives in Session.
package query

import (
	"errors"
	"sort"

	"wiki-explorer/graph"

	"go.uber.org/zap"
)

var (
	// ErrNotFound reports that a query target is absent from the graph.
	// Absence is an expected outcome for free-text titles, not an abort.
	ErrNotFound = errors.New("page not found in graph")

	// ErrNoRecommendations reports that a page exists but shares no links
	// with any other page. Distinct from ErrNotFound.
	ErrNoRecommendations = errors.New("no articles share links with the page")
)

type Engine struct {
	g   *graph.Graph
	log *zap.Logger
}

func NewEngine(g *graph.Graph, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{g: g, log: log}
}

// ShortestPath returns the minimum-step directed path from start to end,
// endpoints inclusive. A start equal to end yields a one-element path (zero
// steps). If either endpoint is unknown, or no directed path exists, the
// result is ErrNotFound.
//
// Ties between equal-length paths resolve by discovery order, which follows
// the insertion order of the edge list.
func (e *Engine) ShortestPath(start, end string) ([]string, error) {
	if !e.g.Contains(start) || !e.g.Contains(end) {
		return nil, ErrNotFound
	}
	if start == end {
		return []string{start}, nil
	}

	type node struct {
		title string
		path  []string
	}

	queue := []node{{title: start, path: []string{start}}}
	visited := map[string]bool{start: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.title == end {
			e.log.Debug("path found",
				zap.String("start", start),
				zap.String("end", end),
				zap.Int("steps", len(cur.path)-1))
			return cur.path, nil
		}

		for _, next := range e.g.OutLinks(cur.title) {
			if visited[next] {
				continue
			}
			// Mark at enqueue, not dequeue, so a node reachable from
			// several predecessors is queued exactly once.
			visited[next] = true
			path := make([]string, len(cur.path), len(cur.path)+1)
			copy(path, cur.path)
			queue = append(queue, node{title: next, path: append(path, next)})
		}
	}

	return nil, ErrNotFound
}

// Recommendation pairs a candidate article with the number of out-links it
// shares with the queried page.
type Recommendation struct {
	Title       string
	SharedLinks int
}

// Recommend ranks every other page by the size of the intersection of its
// out-link set with title's out-link set. Out-links are treated as sets, so
// duplicate edges never inflate a score. Candidates sharing nothing are
// excluded; equal scores order lexicographically by title. At most topN
// results are returned; topN <= 0 means no limit.
func (e *Engine) Recommend(title string, topN int) ([]Recommendation, error) {
	if !e.g.Contains(title) {
		return nil, ErrNotFound
	}

	base := make(map[string]bool, e.g.OutDegree(title))
	for _, l := range e.g.OutLinks(title) {
		base[l] = true
	}

	var recs []Recommendation
	e.g.Each(func(other string, out []string) {
		if other == title {
			return
		}
		shared := 0
		seen := make(map[string]bool, len(out))
		for _, l := range out {
			if seen[l] {
				continue
			}
			seen[l] = true
			if base[l] {
				shared++
			}
		}
		if shared > 0 {
			recs = append(recs, Recommendation{Title: other, SharedLinks: shared})
		}
	})

	if len(recs) == 0 {
		return nil, ErrNoRecommendations
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].SharedLinks != recs[j].SharedLinks {
			return recs[i].SharedLinks > recs[j].SharedLinks
		}
		return recs[i].Title < recs[j].Title
	})

	if topN > 0 && len(recs) > topN {
		recs = recs[:topN]
	}
	return recs, nil
}

// DegreeReport holds both degree counts for a page.
type DegreeReport struct {
	OutDegree int
	InDegree  int
}

// Degrees never fails; an absent title reports zero for both counts.
func (e *Engine) Degrees(title string) DegreeReport {
	return DegreeReport{
		OutDegree: e.g.OutDegree(title),
		InDegree:  e.g.InDegree(title),
	}
}
