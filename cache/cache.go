// Package cache persists a loaded graph as a plain JSON object: page title
// keys, ordered destination-title arrays as values. No envelope, version
// field, or checksum; the adjacency mapping is the sole persisted state.
package cache

import (
	"encoding/json"
	"fmt"
	"os"

	"wiki-explorer/graph"

	"go.uber.org/zap"
)

// Save writes the graph's adjacency mapping to path, replacing any
// previous snapshot.
func Save(path string, g *graph.Graph, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	adj := make(map[string][]string, g.Len())
	g.Each(func(title string, out []string) {
		if out == nil {
			out = []string{}
		}
		adj[title] = out
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create graph cache: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(adj); err != nil {
		f.Close()
		return fmt.Errorf("encode graph cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write graph cache: %w", err)
	}

	log.Info("graph cached", zap.String("path", path), zap.Int("pages", g.Len()))
	return nil
}

// Load restores a graph from a snapshot written by Save. A missing file is
// reported with the underlying open error so callers can distinguish
// "no cache yet" via os.IsNotExist.
func Load(path string, log *zap.Logger) (*graph.Graph, error) {
	if log == nil {
		log = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph cache: %w", err)
	}
	defer f.Close()

	var adj map[string][]string
	if err := json.NewDecoder(f).Decode(&adj); err != nil {
		return nil, fmt.Errorf("decode graph cache: %w", err)
	}

	g := graph.FromAdjacency(adj, log)
	log.Info("graph loaded from cache", zap.String("path", path), zap.Int("pages", g.Len()))
	return g, nil
}
