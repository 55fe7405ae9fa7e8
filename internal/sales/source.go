package sales

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Source loads the sales table for a slider position.
type Source struct {
	catalog *Catalog
	cache   *Cache
	read    func(path string) ([]Record, error)
}

// NewSource creates a Source. cache may be nil.
func NewSource(catalog *Catalog, cache *Cache) *Source {
	return &Source{catalog: catalog, cache: cache, read: ReadFile}
}

// CacheStats reports the quarter cache counters. A source without a cache
// reports zeros.
func (s *Source) CacheStats() CacheStats {
	if s.cache == nil {
		return CacheStats{}
	}
	return s.cache.Stats()
}

// Load returns quarter i and its records. Only that quarter's file is read.
func (s *Source) Load(ctx context.Context, i int) (Quarter, []Record, error) {
	q, err := s.catalog.At(i)
	if err != nil {
		return Quarter{}, nil, err
	}
	if err := ctx.Err(); err != nil {
		return Quarter{}, nil, eris.Wrap(err, "sales: load cancelled")
	}

	if s.cache != nil {
		if records, ok := s.cache.Get(q.Label); ok {
			return q, records, nil
		}
	}

	records, err := s.read(q.Path)
	if err != nil {
		return Quarter{}, nil, eris.Wrapf(err, "sales: load %s", q.Label)
	}

	zap.L().Debug("sales table loaded",
		zap.String("component", "sales"),
		zap.String("quarter", q.Label),
		zap.String("path", q.Path),
		zap.Int("rows", len(records)),
	)

	if s.cache != nil {
		s.cache.Put(q.Label, records)
	}
	return q, records, nil
}
