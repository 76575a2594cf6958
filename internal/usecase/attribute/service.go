// Package attribute implements the lexical attribute reasoner: a pure
// per-listing mapping from free text to structured color / category / style /
// condition fields, plus the batch combinator that attaches the derived
// column.
package attribute

import (
	"fmt"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/domain/batch"
	"github.com/kailas-cloud/stylerank/internal/domain/vocab"
)

// Service infers structured attributes from listing text. Vocabularies are
// injected per instance so they stay testable and swappable; there is no
// cross-listing state.
type Service struct {
	colors     vocab.Terms
	categories vocab.Terms
	styles     vocab.List
	conditions vocab.List
}

// New creates an attribute reasoner over the given vocabularies.
func New(colors, categories vocab.Terms, styles, conditions vocab.List) *Service {
	return &Service{
		colors:     colors,
		categories: categories,
		styles:     styles,
		conditions: conditions,
	}
}

// NewDefault creates an attribute reasoner over the stock vocabularies.
func NewDefault() *Service {
	return New(
		vocab.DefaultColors(), vocab.DefaultCategories(),
		vocab.DefaultStyles(), vocab.DefaultConditions(),
	)
}

// Infer derives attributes for a single listing. Pure: it never fails,
// unmatched attributes come back empty.
func (s *Service) Infer(l domain.Listing) domain.Attributes {
	text := l.AttributeText()

	attrs := domain.Attributes{}
	if color, ok := s.colors.FirstMatch(text); ok {
		attrs.Color = color
	}
	attrs.Category = s.inferCategory(text, l.CategoryHint)
	attrs.StyleTags = s.styles.AllLabels(text)
	if cond, ok := s.conditions.FirstLabel(text); ok {
		attrs.ConditionNorm = cond
	}
	return attrs
}

// inferCategory resolves the category: first vocabulary match singularized,
// falling back to the listing's own category hint.
func (s *Service) inferCategory(text, hint string) string {
	if raw, ok := s.categories.FirstMatch(text); ok {
		return vocab.Singularize(raw)
	}
	return hint
}

// Apply infers attributes for every listing in b and returns a batch carrying
// the attribute column.
func (s *Service) Apply(b batch.Batch) (batch.Batch, error) {
	attrs := make([]domain.Attributes, b.Len())
	for i := range attrs {
		attrs[i] = s.Infer(b.Listing(i))
	}

	out, err := b.WithAttributes(attrs)
	if err != nil {
		return batch.Batch{}, fmt.Errorf("attach attributes: %w", err)
	}
	return out, nil
}
