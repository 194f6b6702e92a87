package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "wikigraph_cache.json", cfg.CacheFile)
	assert.Equal(t, "https://en.wikipedia.org/w/api.php", cfg.APIEndpoint)
	assert.Equal(t, 30, cfg.RequestTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CACHE_FILE", "/tmp/other_cache.json")
	t.Setenv("REQUEST_TIMEOUT", "5")

	cfg := Load()

	assert.Equal(t, "/tmp/other_cache.json", cfg.CacheFile)
	assert.Equal(t, 5, cfg.RequestTimeout)
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "not a number")

	cfg := Load()

	assert.Equal(t, 30, cfg.RequestTimeout)
}
