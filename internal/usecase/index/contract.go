package index

import (
	"context"

	"github.com/kailas-cloud/stylerank/internal/domain"
)

// Embedder vectorizes a batch of texts. The indexer treats the call as
// all-or-nothing: a provider failure fails the whole encode.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
