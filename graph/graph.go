// Package graph holds the in-memory Wikipedia link graph: a directed
// adjacency mapping from a page title to the ordered list of titles it
// links to. The graph is populated once, by Load or FromAdjacency, and is
// read-only afterwards, so concurrent readers need no locking.
package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ErrSourceUnreadable marks an edge-list source that could not be opened.
var ErrSourceUnreadable = errors.New("edge list source unreadable")

type Graph struct {
	adj     map[string][]string
	skipped int
	log     *zap.Logger
}

func New(log *zap.Logger) *Graph {
	if log == nil {
		log = zap.NewNop()
	}
	return &Graph{
		adj: make(map[string][]string),
		log: log,
	}
}

// FromAdjacency builds a graph from an existing title -> out-links mapping,
// for example one restored from the JSON cache. Destination titles missing
// from the mapping get an empty entry of their own, so every endpoint of
// every edge is a known page.
func FromAdjacency(adj map[string][]string, log *zap.Logger) *Graph {
	g := New(log)
	for title, out := range adj {
		g.adj[title] = append([]string(nil), out...)
		for _, to := range out {
			if _, ok := g.adj[to]; !ok {
				g.adj[to] = nil
			}
		}
	}
	return g
}

// Load ingests a tab-separated edge list. The first line is a header and is
// discarded unconditionally; every other record is expected to be
// page_id_from, page_title_from, page_id_to, page_title_to. The numeric ids
// are ignored. Records without exactly four fields are skipped and counted,
// never surfaced as errors: real dumps are noisy and a bad line should not
// abort a multi-gigabyte load.
func (g *Graph) Load(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	edges := 0
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		parts := strings.Split(strings.TrimSpace(sc.Text()), "\t")
		if len(parts) != 4 {
			g.skipped++
			continue
		}
		g.addEdge(parts[1], parts[3])
		edges++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading edge list: %w", err)
	}

	g.log.Info("edge list loaded",
		zap.Int("edges", edges),
		zap.Int("pages", len(g.adj)),
		zap.Int("skipped_records", g.skipped))
	return nil
}

// LoadFile opens path and ingests it with Load. A source that cannot be
// opened is fatal to the load and reported as ErrSourceUnreadable.
func (g *Graph) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	defer f.Close()
	return g.Load(f)
}

// addEdge records a directed edge and guarantees both endpoints an entry,
// even if the destination never links anywhere. Duplicate edges are kept.
func (g *Graph) addEdge(from, to string) {
	if _, ok := g.adj[to]; !ok {
		g.adj[to] = nil
	}
	g.adj[from] = append(g.adj[from], to)
}

// OutLinks returns the out-link sequence for title in ingestion order, or
// nil if the title is unknown. The returned slice is shared with the graph
// and must not be modified.
func (g *Graph) OutLinks(title string) []string {
	return g.adj[title]
}

func (g *Graph) OutDegree(title string) int {
	return len(g.adj[title])
}

// InDegree counts the pages that link to title. This is a full scan of the
// adjacency mapping on every call; no reverse index is kept. Callers that
// need repeated in-degree queries should build their own index.
func (g *Graph) InDegree(title string) int {
	n := 0
	for _, out := range g.adj {
		for _, to := range out {
			if to == title {
				n++
				break
			}
		}
	}
	return n
}

func (g *Graph) Contains(title string) bool {
	_, ok := g.adj[title]
	return ok
}

// Len returns the number of known pages.
func (g *Graph) Len() int {
	return len(g.adj)
}

// Skipped returns how many malformed records the last Load dropped.
func (g *Graph) Skipped() int {
	return g.skipped
}

// Each calls fn for every page and its out-link sequence. Iteration order
// is unspecified. The out slice is shared with the graph and must not be
// modified.
func (g *Graph) Each(fn func(title string, out []string)) {
	for title, out := range g.adj {
		fn(title, out)
	}
}
