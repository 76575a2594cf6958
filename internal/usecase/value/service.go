// Package value computes the smart buy index: a batch-relative 0..100 deal
// quality score blending discount depth, brand strength, material quality and
// normalized condition.
package value

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/domain/batch"
	"github.com/kailas-cloud/stylerank/internal/domain/vecmath"
)

// Service scores listing value from static tables and caller-supplied
// weights.
type Service struct {
	tables  domain.ScoreTables
	weights domain.ValueWeights
}

// New creates a value scorer.
func New(tables domain.ScoreTables, weights domain.ValueWeights) *Service {
	return &Service{tables: tables, weights: weights}
}

// NewDefault creates a value scorer over the stock tables and weights.
func NewDefault() *Service {
	return New(domain.DefaultScoreTables(), domain.DefaultValueWeights())
}

// Components computes the per-listing value components. Every lookup has a
// documented fallback, so the result is finite for any input; a missing or
// non-positive original price simply means no discount signal. The condition
// score reads the normalized condition attribute, not raw text.
func (s *Service) Components(l domain.Listing, attrs domain.Attributes) domain.ValueComponents {
	c := domain.ValueComponents{
		DiscountRatio:  discountRatio(l.Price, l.OriginalPrice),
		BrandScore:     lookup(s.tables.Brand, strings.TrimSpace(l.Brand), domain.DefaultBrandScore),
		MaterialScore:  lookup(s.tables.Material, strings.ToLower(strings.TrimSpace(l.Material)), domain.DefaultMaterialScore),
		ConditionScore: lookup(s.tables.Condition, attrs.ConditionNorm, domain.DefaultConditionScore),
	}
	c.RawIndex = s.weights.Discount*c.DiscountRatio +
		s.weights.Brand*c.BrandScore +
		s.weights.Material*c.MaterialScore +
		s.weights.Condition*c.ConditionScore
	return c
}

// Apply computes value components for every listing and attaches the column
// with the smart buy index filled in: the raw index min-max rescaled to
// 0..100 across this batch. A constant batch rescales to all zeros.
// Requires the attribute column (for normalized conditions).
func (s *Service) Apply(b batch.Batch) (batch.Batch, error) {
	if !b.HasAttributes() {
		return batch.Batch{}, fmt.Errorf("value scoring needs the attribute column: %w", domain.ErrMissingColumn)
	}

	values := make([]domain.ValueComponents, b.Len())
	raws := make([]float64, b.Len())
	for i := range values {
		values[i] = s.Components(b.Listing(i), b.Attributes(i))
		raws[i] = values[i].RawIndex
	}

	for i, scaled := range vecmath.MinMax(raws) {
		values[i].SmartBuyIndex = scaled * 100
	}

	out, err := b.WithValues(values)
	if err != nil {
		return batch.Batch{}, fmt.Errorf("attach values: %w", err)
	}
	return out, nil
}

// discountRatio is (orig - price) / orig clamped to [0,1]. Zero when the
// original price is missing or non-positive: negative prices carry no usable
// discount signal and are coerced, not rejected.
func discountRatio(price, original float64) float64 {
	if original <= 0 {
		return 0
	}
	return vecmath.Clamp((original-price)/original, 0, 1)
}

func lookup(table map[string]float64, key string, fallback float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}
