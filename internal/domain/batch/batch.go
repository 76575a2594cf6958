// Package batch implements the columnar listing table flowing through the
// pipeline. A Batch starts as raw listings; each stage derives a new column
// and attaches it with a With* call, producing a new Batch value. Inputs are
// never mutated — there is no listing lifecycle beyond monotonic column
// accumulation.
package batch

import (
	"fmt"

	"github.com/kailas-cloud/stylerank/internal/domain"
)

// Batch is an immutable listing table with optional derived columns.
// The zero Batch is empty and usable.
type Batch struct {
	listings    []domain.Listing
	attrs       []domain.Attributes
	embeddings  [][]float32
	tasteScores []float64
	values      []domain.ValueComponents
}

// New creates a batch over a copy of listings.
func New(listings []domain.Listing) Batch {
	cp := make([]domain.Listing, len(listings))
	copy(cp, listings)
	return Batch{listings: cp}
}

// Len returns the number of listings.
func (b Batch) Len() int { return len(b.listings) }

// Listing returns the i-th listing.
func (b Batch) Listing(i int) domain.Listing { return b.listings[i] }

// Listings returns the listing column. Callers must treat it as read-only.
func (b Batch) Listings() []domain.Listing { return b.listings }

// WithAttributes returns a copy of b carrying the attribute column.
func (b Batch) WithAttributes(attrs []domain.Attributes) (Batch, error) {
	if len(attrs) != b.Len() {
		return Batch{}, columnError("attributes", len(attrs), b.Len())
	}
	b.attrs = attrs
	return b, nil
}

// WithEmbeddings returns a copy of b carrying the embedding column.
func (b Batch) WithEmbeddings(embeddings [][]float32) (Batch, error) {
	if len(embeddings) != b.Len() {
		return Batch{}, columnError("embeddings", len(embeddings), b.Len())
	}
	b.embeddings = embeddings
	return b, nil
}

// WithTasteScores returns a copy of b carrying the taste score column.
func (b Batch) WithTasteScores(scores []float64) (Batch, error) {
	if len(scores) != b.Len() {
		return Batch{}, columnError("taste scores", len(scores), b.Len())
	}
	b.tasteScores = scores
	return b, nil
}

// WithValues returns a copy of b carrying the value component column.
func (b Batch) WithValues(values []domain.ValueComponents) (Batch, error) {
	if len(values) != b.Len() {
		return Batch{}, columnError("values", len(values), b.Len())
	}
	b.values = values
	return b, nil
}

// HasAttributes reports whether the attribute column is present.
// An empty batch counts as carrying every column.
func (b Batch) HasAttributes() bool { return b.attrs != nil || b.Len() == 0 }

// HasEmbeddings reports whether the embedding column is present.
func (b Batch) HasEmbeddings() bool { return b.embeddings != nil || b.Len() == 0 }

// HasTasteScores reports whether the taste score column is present.
func (b Batch) HasTasteScores() bool { return b.tasteScores != nil || b.Len() == 0 }

// HasValues reports whether the value component column is present.
func (b Batch) HasValues() bool { return b.values != nil || b.Len() == 0 }

// Attributes returns the i-th listing's derived attributes, zero when the
// column is absent.
func (b Batch) Attributes(i int) domain.Attributes {
	if b.attrs == nil {
		return domain.Attributes{}
	}
	return b.attrs[i]
}

// Embedding returns the i-th listing's embedding, nil when absent.
func (b Batch) Embedding(i int) []float32 {
	if b.embeddings == nil {
		return nil
	}
	return b.embeddings[i]
}

// Embeddings returns the embedding column. Read-only.
func (b Batch) Embeddings() [][]float32 { return b.embeddings }

// TasteScore returns the i-th listing's taste score, 0 when absent.
func (b Batch) TasteScore(i int) float64 {
	if b.tasteScores == nil {
		return 0
	}
	return b.tasteScores[i]
}

// TasteScores returns the taste score column. Read-only.
func (b Batch) TasteScores() []float64 { return b.tasteScores }

// Value returns the i-th listing's value components, zero when absent.
func (b Batch) Value(i int) domain.ValueComponents {
	if b.values == nil {
		return domain.ValueComponents{}
	}
	return b.values[i]
}

// Values returns the value component column. Read-only.
func (b Batch) Values() []domain.ValueComponents { return b.values }

func columnError(name string, got, want int) error {
	return fmt.Errorf("%s column has %d rows, batch has %d: %w",
		name, got, want, domain.ErrDimMismatch)
}
