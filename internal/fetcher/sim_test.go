package fetcher

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocrawler/internal/parser"
)

func testPool() *URLPool {
	return NewURLPool(map[string][]string{
		"a.test": {"/1", "/2", "/3"},
		"b.test": {"/x", "/y"},
	})
}

func TestSimulatedFetch(t *testing.T) {
	sim := NewSimulated(SimOptions{LinksMin: 4, LinksMax: 4}, testPool(), nil)

	res, err := sim.Fetch(context.Background(), "https://a.test/1")
	require.NoError(t, err)
	assert.Equal(t, 200, res.Status)
	assert.Equal(t, "text/html", res.ContentType)
	assert.Equal(t, "https://a.test/1", res.FinalURL)

	links := parser.ExtractLinks(res.Body, res.ContentType)
	assert.Len(t, links, 4)
	for _, l := range links {
		assert.True(t, strings.HasPrefix(l, "https://a.test/") || strings.HasPrefix(l, "https://b.test/"), l)
	}
}

func TestSimulatedFetchDelay(t *testing.T) {
	sim := NewSimulated(SimOptions{Delay: 50 * time.Millisecond, LinksMin: 1, LinksMax: 1}, testPool(), nil)

	start := time.Now()
	_, err := sim.Fetch(context.Background(), "https://a.test/1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}

func TestSimulatedFetchCancelled(t *testing.T) {
	sim := NewSimulated(SimOptions{Delay: time.Second}, testPool(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := sim.Fetch(ctx, "https://a.test/1")
	require.Error(t, err)
	assert.Equal(t, KindCancelled, Classify(err))
}

func TestURLPoolRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.json")

	raw, err := json.Marshal(map[string]any{
		"urls_by_host": map[string][]string{"a.test": {"/1", "/2"}},
		"total":        2,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	pool, err := LoadURLPool(path)
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Total)

	links := pool.RandomLinks(5)
	assert.Len(t, links, 5)
	for _, l := range links {
		assert.True(t, strings.HasPrefix(l, "https://a.test/"), l)
	}
}

func TestURLPoolMissingFile(t *testing.T) {
	_, err := LoadURLPool(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestURLPoolEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"urls_by_host":{},"total":0}`), 0o644))
	_, err := LoadURLPool(path)
	assert.Error(t, err)
}
