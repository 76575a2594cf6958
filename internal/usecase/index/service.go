// Package index implements the embedding indexer: it builds the corpus text
// per listing, delegates vectorization to the shared embedder and attaches
// the embedding column with the unit-norm invariant enforced.
package index

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/domain/batch"
	"github.com/kailas-cloud/stylerank/internal/domain/vecmath"
)

// Service encodes listing batches into unit-length embeddings.
type Service struct {
	embed  Embedder
	logger *zap.Logger
}

// New creates an embedding indexer.
func New(embed Embedder, logger *zap.Logger) *Service {
	return &Service{embed: embed, logger: logger}
}

// Encode vectorizes every listing in b and returns the batch carrying the
// embedding column plus the corpus text that was encoded, one string per
// listing. Providers are expected to return unit-length vectors; Encode
// re-normalizes regardless so the norm invariant holds downstream.
func (s *Service) Encode(ctx context.Context, b batch.Batch) (batch.Batch, []string, error) {
	texts := make([]string, b.Len())
	for i := range texts {
		texts[i] = b.Listing(i).CorpusText()
	}

	if len(texts) == 0 {
		out, err := b.WithEmbeddings([][]float32{})
		if err != nil {
			return batch.Batch{}, nil, fmt.Errorf("attach embeddings: %w", err)
		}
		return out, texts, nil
	}

	start := time.Now()

	res, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return batch.Batch{}, nil, fmt.Errorf("encode batch: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return batch.Batch{}, nil, fmt.Errorf(
			"provider returned %d vectors for %d texts: %w",
			len(res.Embeddings), len(texts), domain.ErrEmbeddingProviderError)
	}

	vecs := make([][]float32, len(res.Embeddings))
	for i, v := range res.Embeddings {
		vecs[i] = vecmath.Normalize(v)
	}

	s.logger.Debug("Batch encoded",
		zap.Int("listings", len(texts)),
		zap.Int("dimensions", dim(vecs)),
		zap.Int("total_tokens", res.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)

	out, err := b.WithEmbeddings(vecs)
	if err != nil {
		return batch.Batch{}, nil, fmt.Errorf("attach embeddings: %w", err)
	}
	return out, texts, nil
}

// EncodeQuery vectorizes a single query string into a unit-length vector.
func (s *Service) EncodeQuery(ctx context.Context, query string) ([]float32, error) {
	res, err := s.embed.BatchEmbed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	if len(res.Embeddings) != 1 {
		return nil, fmt.Errorf("provider returned %d vectors for query: %w",
			len(res.Embeddings), domain.ErrEmbeddingProviderError)
	}
	return vecmath.Normalize(res.Embeddings[0]), nil
}

func dim(vecs [][]float32) int {
	if len(vecs) == 0 {
		return 0
	}
	return len(vecs[0])
}
