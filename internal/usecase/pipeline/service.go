// Package pipeline orchestrates the full scoring flow: attribute enrichment,
// embedding, value scoring at catalog load time, then per-request taste
// modeling and rank fusion. Every stage is a pure batch transform; the
// orchestrator only sequences them and records observability.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/domain/batch"
	"github.com/kailas-cloud/stylerank/internal/metrics"
	"github.com/kailas-cloud/stylerank/internal/usecase/attribute"
	"github.com/kailas-cloud/stylerank/internal/usecase/index"
	"github.com/kailas-cloud/stylerank/internal/usecase/rank"
	"github.com/kailas-cloud/stylerank/internal/usecase/taste"
	"github.com/kailas-cloud/stylerank/internal/usecase/value"
)

// Service wires the pipeline stages together.
type Service struct {
	attrs  *attribute.Service
	index  *index.Service
	values *value.Service
	ranker *rank.Service
	logger *zap.Logger
}

// New creates a pipeline over the given stage services.
func New(
	attrs *attribute.Service,
	idx *index.Service,
	values *value.Service,
	ranker *rank.Service,
	logger *zap.Logger,
) *Service {
	return &Service{attrs: attrs, index: idx, values: values, ranker: ranker, logger: logger}
}

// RankRequest is one ranking call over an enriched batch.
type RankRequest struct {
	Query    string
	LikedIDs []string
	Mode     rank.Mode
	Weights  domain.FusionWeights
	TopK     int
}

// Enrich runs the load-time stages over raw listings: attributes, then
// embeddings, then value scores. The embedding stage is the only long-latency
// step; it is all-or-nothing and honors ctx through the provider call.
func (s *Service) Enrich(ctx context.Context, listings []domain.Listing) (batch.Batch, error) {
	runID := uuid.NewString()
	start := time.Now()
	b := batch.New(listings)
	metrics.ListingsProcessedTotal.Add(float64(b.Len()))

	b, err := stage("attributes", func() (batch.Batch, error) {
		return s.attrs.Apply(b)
	})
	if err != nil {
		return batch.Batch{}, fmt.Errorf("attribute stage: %w", err)
	}

	b, err = stage("embeddings", func() (batch.Batch, error) {
		out, _, encErr := s.index.Encode(ctx, b)
		return out, encErr
	})
	if err != nil {
		return batch.Batch{}, fmt.Errorf("embedding stage: %w", err)
	}

	b, err = stage("values", func() (batch.Batch, error) {
		return s.values.Apply(b)
	})
	if err != nil {
		return batch.Batch{}, fmt.Errorf("value stage: %w", err)
	}

	s.logger.Info("Batch enriched",
		zap.String("run_id", runID),
		zap.Int("listings", b.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return b, nil
}

// Rank executes one ranking request against an enriched batch. Bias-aware
// mode derives the taste column fresh from the request's liked ids; nothing
// is shared between requests.
func (s *Service) Rank(ctx context.Context, b batch.Batch, req RankRequest) ([]domain.RankedItem, error) {
	items, err := s.doRank(ctx, b, req)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RankRequestsTotal.WithLabelValues(string(req.Mode), status).Inc()
	return items, err
}

func (s *Service) doRank(ctx context.Context, b batch.Batch, req RankRequest) ([]domain.RankedItem, error) {
	switch req.Mode {
	case rank.ModeNaive:
		items, err := s.ranker.Naive(ctx, b, req.Query, req.TopK)
		if err != nil {
			return nil, fmt.Errorf("naive rank: %w", err)
		}
		return items, nil

	case rank.ModeBiasAware:
		tasteStart := time.Now()
		withTaste, _, err := taste.Apply(b, req.LikedIDs)
		if err != nil {
			return nil, fmt.Errorf("taste stage: %w", err)
		}
		metrics.PipelineStageDuration.WithLabelValues("taste").Observe(time.Since(tasteStart).Seconds())

		rankStart := time.Now()
		items, err := s.ranker.BiasAware(ctx, withTaste, req.Query, req.Weights, req.TopK)
		if err != nil {
			return nil, fmt.Errorf("bias-aware rank: %w", err)
		}
		metrics.PipelineStageDuration.WithLabelValues("rank").Observe(time.Since(rankStart).Seconds())
		return items, nil

	default:
		return nil, fmt.Errorf("unsupported rank mode %q", req.Mode)
	}
}

func stage(name string, fn func() (batch.Batch, error)) (batch.Batch, error) {
	start := time.Now()
	b, err := fn()
	if err == nil {
		metrics.PipelineStageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
	return b, err
}
