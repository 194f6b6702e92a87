package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"wiki-explorer/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adjacencyOf(g *graph.Graph) map[string][]string {
	adj := make(map[string][]string)
	g.Each(func(title string, out []string) {
		adj[title] = append([]string{}, out...)
	})
	return adj
}

func TestRoundTrip(t *testing.T) {
	g := graph.FromAdjacency(map[string][]string{
		"A": {"X", "Y", "Y"},
		"B": {"X"},
	}, nil)
	path := filepath.Join(t.TempDir(), "cache.json")

	require.NoError(t, Save(path, g, nil))
	restored, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, adjacencyOf(g), adjacencyOf(restored))
	assert.Equal(t, []string{"X", "Y", "Y"}, restored.OutLinks("A"))
}

func TestSnapshotIsPlainJSONObject(t *testing.T) {
	g := graph.FromAdjacency(map[string][]string{"A": {"B"}}, nil)
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, Save(path, g, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Decoding straight into the mapping shape must work: no envelope.
	var adj map[string][]string
	require.NoError(t, json.Unmarshal(raw, &adj))
	assert.Equal(t, map[string][]string{"A": {"B"}, "B": {}}, adj)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := Load(path, nil)
	assert.Error(t, err)
}
