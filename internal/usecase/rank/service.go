// Package rank implements the final fusion: query relevance, personal taste
// and deal value combined into one ordering. Both modes are stateless batch
// transforms; ties keep their original row order (stable sort, no secondary
// key).
package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/domain/batch"
	"github.com/kailas-cloud/stylerank/internal/domain/vecmath"
)

// Service ranks encoded listing batches against a live query.
type Service struct {
	encoder QueryEncoder
}

// New creates a rank fusion service.
func New(encoder QueryEncoder) *Service {
	return &Service{encoder: encoder}
}

// Naive ranks by raw query similarity alone: no normalization, no other
// signals. Returns the top k items, all of the batch when k <= 0 or exceeds
// the batch size.
func (s *Service) Naive(ctx context.Context, b batch.Batch, query string, topK int) ([]domain.RankedItem, error) {
	sims, err := s.querySims(ctx, b, query)
	if err != nil {
		return nil, err
	}

	items := assemble(b, sims, nil)
	for i := range items {
		items[i].FinalScore = items[i].QuerySim
	}
	return order(items, topK), nil
}

// BiasAware fuses the three signals:
//
//	final = alpha*qnorm + beta*tnorm + gamma*(smart_buy/100)
//
// where qnorm and tnorm are independent batch-relative min-max rescales of the
// query similarities and taste scores (a constant column rescales to zeros),
// and the smart buy index is already well-formed in 0..100. The batch must
// carry taste scores and value components — asking for bias-aware ranking
// before those stages ran is a caller-ordering failure.
func (s *Service) BiasAware(
	ctx context.Context, b batch.Batch, query string,
	w domain.FusionWeights, topK int,
) ([]domain.RankedItem, error) {
	if !b.HasTasteScores() {
		return nil, fmt.Errorf("bias-aware rank needs the taste score column: %w", domain.ErrMissingColumn)
	}
	if !b.HasValues() {
		return nil, fmt.Errorf("bias-aware rank needs the value column: %w", domain.ErrMissingColumn)
	}

	sims, err := s.querySims(ctx, b, query)
	if err != nil {
		return nil, err
	}

	qNorm := vecmath.MinMax(sims)
	tNorm := vecmath.MinMax(b.TasteScores())

	items := assemble(b, qNorm, b.TasteScores())
	for i := range items {
		items[i].FinalScore = w.Alpha*qNorm[i] +
			w.Beta*tNorm[i] +
			w.Gamma*(items[i].Value.SmartBuyIndex/100)
	}
	return order(items, topK), nil
}

// querySims encodes the query and computes its cosine similarity against
// every listing embedding, in batch order.
func (s *Service) querySims(ctx context.Context, b batch.Batch, query string) ([]float64, error) {
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if !b.HasEmbeddings() {
		return nil, fmt.Errorf("ranking needs the embedding column: %w", domain.ErrMissingColumn)
	}

	qVec, err := s.encoder.EncodeQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	sims := make([]float64, b.Len())
	for i := range sims {
		emb := b.Embedding(i)
		if len(emb) != len(qVec) {
			return nil, fmt.Errorf("query dim %d, embedding %d dim %d: %w",
				len(qVec), i, len(emb), domain.ErrDimMismatch)
		}
		sims[i] = vecmath.Cosine(qVec, emb)
	}
	return sims, nil
}

// assemble builds one ranked item per listing with whatever derived columns
// the batch carries. tasteScores may be nil in naive mode.
func assemble(b batch.Batch, querySims, tasteScores []float64) []domain.RankedItem {
	items := make([]domain.RankedItem, b.Len())
	for i := range items {
		items[i] = domain.RankedItem{
			Listing:    b.Listing(i),
			Attributes: b.Attributes(i),
			Value:      b.Value(i),
			QuerySim:   querySims[i],
		}
		if tasteScores != nil {
			items[i].TasteScore = tasteScores[i]
		}
	}
	return items
}

// order sorts descending by final score, stable across ties, and truncates to
// topK when it is positive and smaller than the batch.
func order(items []domain.RankedItem, topK int) []domain.RankedItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].FinalScore > items[j].FinalScore
	})
	if topK > 0 && len(items) > topK {
		items = items[:topK]
	}
	return items
}
