package domain

import (
	"fmt"
	"strings"
)

// Listing is one marketplace item flowing through the ranking pipeline.
// Title, URL and Price are required; everything else defaults to its zero
// value when the source record lacked it. URL doubles as the stable
// identifier used for dedup and for liked-item selection.
type Listing struct {
	Title         string
	URL           string
	Price         float64
	Description   string
	Brand         string
	Material      string
	ConditionNote string
	CategoryHint  string
	OriginalPrice float64
	ImageURL      string
}

// ID returns the stable listing identifier.
func (l Listing) ID() string { return l.URL }

// AttributeText is the case-folded basis text for lexical attribute inference:
// title, description and condition note joined by single spaces.
func (l Listing) AttributeText() string {
	return strings.ToLower(l.Title + " " + l.Description + " " + l.ConditionNote)
}

// CorpusText is the text a listing is embedded from. The field order is fixed;
// missing fields stay as empty strings so the shape is stable across listings.
func (l Listing) CorpusText() string {
	return fmt.Sprintf("%s %s Brand: %s", l.Title, l.Description, l.Brand)
}

// Attributes are the structured fields the attribute reasoner derives from
// listing text. Empty string / empty slice means "not inferred" — inference
// is lexical lookup and never fails outright.
type Attributes struct {
	Color         string
	Category      string
	StyleTags     []string
	ConditionNorm string
}

// ValueComponents hold the per-listing deal-quality signals. SmartBuyIndex is
// a batch-relative 0..100 rescale of RawIndex: it is comparable only within
// the batch it was computed from.
type ValueComponents struct {
	DiscountRatio  float64
	BrandScore     float64
	MaterialScore  float64
	ConditionScore float64
	RawIndex       float64
	SmartBuyIndex  float64
}
