package httpapi

import (
	"context"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/domain/batch"
	"github.com/kailas-cloud/stylerank/internal/usecase/health"
	"github.com/kailas-cloud/stylerank/internal/usecase/pipeline"
)

// Catalog exposes the enriched listing pool to handlers.
type Catalog interface {
	Batch() batch.Batch
	Skipped() int
	Load(ctx context.Context) error
}

// Ranker executes ranking requests against an enriched batch.
type Ranker interface {
	Rank(ctx context.Context, b batch.Batch, req pipeline.RankRequest) ([]domain.RankedItem, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}
