// Package catalog owns the server's enriched listing pool: it loads the
// source file, runs the enrichment stages once, and hands the immutable
// result to request handlers. Reload swaps the whole batch atomically.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/stylerank/internal/domain/batch"
	"github.com/kailas-cloud/stylerank/internal/metrics"
)

// Service holds the enriched catalog batch.
type Service struct {
	path   string
	load   Loader
	enrich Enricher
	logger *zap.Logger

	mu      sync.RWMutex
	batch   batch.Batch
	skipped int
}

// New creates a catalog service over a source file.
func New(path string, load Loader, enrich Enricher, logger *zap.Logger) *Service {
	return &Service{path: path, load: load, enrich: enrich, logger: logger}
}

// Load reads and enriches the source file, then swaps the catalog in one
// step. Requests served concurrently keep seeing the previous batch until
// the swap.
func (s *Service) Load(ctx context.Context) error {
	res, err := s.load(s.path)
	if err != nil {
		return fmt.Errorf("load listings: %w", err)
	}
	metrics.ListingsSkippedTotal.Add(float64(res.Skipped))

	enriched, err := s.enrich.Enrich(ctx, res.Listings)
	if err != nil {
		return fmt.Errorf("enrich catalog: %w", err)
	}

	s.mu.Lock()
	s.batch = enriched
	s.skipped = res.Skipped
	s.mu.Unlock()

	s.logger.Info("Catalog loaded",
		zap.String("path", s.path),
		zap.Int("listings", enriched.Len()),
		zap.Int("skipped", res.Skipped),
	)
	return nil
}

// Batch returns the current enriched catalog.
func (s *Service) Batch() batch.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batch
}

// Size returns the number of listings in the current catalog.
func (s *Service) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batch.Len()
}

// Skipped returns how many source records the last load dropped.
func (s *Service) Skipped() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skipped
}
