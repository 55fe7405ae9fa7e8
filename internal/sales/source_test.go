package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingSource(c *Cache) (*Source, *[]string) {
	var paths []string
	src := NewSource(DefaultCatalog("sales"), c)
	src.read = func(path string) ([]Record, error) {
		paths = append(paths, path)
		return []Record{{FSA: "A101", TotalEV: 5}}, nil
	}
	return src, &paths
}

func TestSource_LoadsOnlySelectedFile(t *testing.T) {
	for i, label := range DefaultLabels {
		src, paths := recordingSource(nil)

		q, recs, err := src.Load(context.Background(), i)
		require.NoError(t, err)
		assert.Equal(t, label, q.Label)
		assert.Len(t, recs, 1)

		want, _ := src.catalog.At(i)
		assert.Equal(t, []string{want.Path}, *paths, "quarter %d", i)
	}
}

func TestSource_OutOfRange(t *testing.T) {
	src, paths := recordingSource(nil)
	_, _, err := src.Load(context.Background(), 10)
	assert.Error(t, err)
	assert.Empty(t, *paths)
}

func TestSource_UsesCache(t *testing.T) {
	src, paths := recordingSource(NewCache(10, time.Minute))

	for range 3 {
		_, _, err := src.Load(context.Background(), 2)
		require.NoError(t, err)
	}
	assert.Len(t, *paths, 1)

	_, _, err := src.Load(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, *paths, 2)
}

func TestSource_CachesEmptyQuarter(t *testing.T) {
	var reads int
	src := NewSource(DefaultCatalog("sales"), NewCache(10, time.Minute))
	src.read = func(string) ([]Record, error) {
		reads++
		return nil, nil
	}

	for range 3 {
		_, recs, err := src.Load(context.Background(), 5)
		require.NoError(t, err)
		assert.Empty(t, recs)
	}
	assert.Equal(t, 1, reads)
	assert.Equal(t, CacheStats{Quarters: 1, Capacity: 10, Hits: 2, Misses: 1}, src.CacheStats())
}

func TestSource_CacheStatsWithoutCache(t *testing.T) {
	src, _ := recordingSource(nil)
	_, _, err := src.Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, CacheStats{}, src.CacheStats())
}

func TestSource_ReadError(t *testing.T) {
	src := NewSource(DefaultCatalog("sales"), nil)
	src.read = func(string) ([]Record, error) { return nil, errors.New("boom") }

	_, _, err := src.Load(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Q1 2022")
}

func TestSource_Cancelled(t *testing.T) {
	src, paths := recordingSource(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := src.Load(ctx, 0)
	assert.Error(t, err)
	assert.Empty(t, *paths)
}
