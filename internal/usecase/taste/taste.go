// Package taste derives a user taste vector from liked listings and scores
// every listing against it. Pure vector math over an encoded batch — no
// external dependencies, no state between calls.
package taste

import (
	"fmt"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/domain/batch"
	"github.com/kailas-cloud/stylerank/internal/domain/vecmath"
)

// Vector builds the user taste vector: the unit-normalized mean of the
// embeddings of listings whose id appears in likedIDs. An empty intersection
// is a hard precondition failure (domain.ErrNoLikedMatches). A mean that
// cancels out to zero magnitude is returned unnormalized — degenerate data,
// not an error.
func Vector(b batch.Batch, likedIDs []string) ([]float32, error) {
	if !b.HasEmbeddings() {
		return nil, fmt.Errorf("taste vector needs the embedding column: %w", domain.ErrMissingColumn)
	}

	liked := make(map[string]struct{}, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = struct{}{}
	}

	var selected [][]float32
	for i := 0; i < b.Len(); i++ {
		if _, ok := liked[b.Listing(i).ID()]; ok {
			selected = append(selected, b.Embedding(i))
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%d liked ids requested: %w", len(likedIDs), domain.ErrNoLikedMatches)
	}

	mean := vecmath.Mean(selected)
	if vecmath.Norm(mean) == 0 {
		return mean, nil
	}
	return vecmath.Normalize(mean), nil
}

// Scores computes the cosine similarity between the taste vector and every
// listing embedding, in batch order. A dimension mismatch between the taste
// vector and any embedding is a hard precondition failure.
func Scores(tasteVec []float32, b batch.Batch) ([]float64, error) {
	if !b.HasEmbeddings() {
		return nil, fmt.Errorf("taste scores need the embedding column: %w", domain.ErrMissingColumn)
	}

	scores := make([]float64, b.Len())
	for i := range scores {
		emb := b.Embedding(i)
		if len(emb) != len(tasteVec) {
			return nil, fmt.Errorf("taste vector dim %d, embedding %d dim %d: %w",
				len(tasteVec), i, len(emb), domain.ErrDimMismatch)
		}
		scores[i] = vecmath.Cosine(tasteVec, emb)
	}
	return scores, nil
}

// Apply is the convenience composition: it builds the taste vector from
// likedIDs, scores the whole batch and returns the batch carrying the taste
// score column together with the vector itself.
func Apply(b batch.Batch, likedIDs []string) (batch.Batch, []float32, error) {
	vec, err := Vector(b, likedIDs)
	if err != nil {
		return batch.Batch{}, nil, err
	}

	scores, err := Scores(vec, b)
	if err != nil {
		return batch.Batch{}, nil, err
	}

	out, err := b.WithTasteScores(scores)
	if err != nil {
		return batch.Batch{}, nil, fmt.Errorf("attach taste scores: %w", err)
	}
	return out, vec, nil
}
