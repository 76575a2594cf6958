package catalog

import (
	"context"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/domain/batch"
	"github.com/kailas-cloud/stylerank/internal/repository/listingfile"
)

// Loader reads a listing source file.
type Loader func(path string) (listingfile.LoadResult, error)

// Enricher runs the load-time pipeline stages over raw listings.
type Enricher interface {
	Enrich(ctx context.Context, listings []domain.Listing) (batch.Batch, error)
}
