package domain

// FusionWeights weight the three ranking signals in bias-aware mode.
// They are not required to sum to 1.
type FusionWeights struct {
	Alpha float64 // query similarity
	Beta  float64 // taste score
	Gamma float64 // smart buy index
}

// DefaultFusionWeights returns the stock fusion weighting.
func DefaultFusionWeights() FusionWeights {
	return FusionWeights{Alpha: 0.4, Beta: 0.3, Gamma: 0.3}
}

// ValueWeights weight the four value-index components. The absolute scale is
// immaterial: the raw index is min-max rescaled per batch afterwards.
type ValueWeights struct {
	Discount  float64
	Brand     float64
	Material  float64
	Condition float64
}

// DefaultValueWeights returns the stock value weighting.
func DefaultValueWeights() ValueWeights {
	return ValueWeights{Discount: 0.4, Brand: 0.2, Material: 0.2, Condition: 0.2}
}

// Fallback component scores for values absent from the static tables. They
// keep every listing's value index finite regardless of table coverage.
const (
	DefaultBrandScore     = 0.5
	DefaultMaterialScore  = 0.5
	DefaultConditionScore = 0.6
)

// ScoreTables hold the static component score lookups for the value scorer.
// Brand keys are matched case-sensitively; material keys must be lower case
// (lookups lowercase and trim the listing value); condition keys are the
// normalized condition labels produced by the attribute reasoner.
type ScoreTables struct {
	Brand     map[string]float64
	Material  map[string]float64
	Condition map[string]float64
}

// DefaultScoreTables returns the stock brand/material/condition tables.
func DefaultScoreTables() ScoreTables {
	return ScoreTables{
		Brand: map[string]float64{
			"Zara":            0.6,
			"Banana Republic": 0.65,
			"Everlane":        0.8,
			"Unknown":         0.4,
		},
		Material: map[string]float64{
			"leather":      0.9,
			"wool":         0.85,
			"cotton":       0.7,
			"cotton blend": 0.65,
			"polyester":    0.4,
		},
		Condition: map[string]float64{
			"like new":  0.95,
			"very good": 0.85,
			"good":      0.7,
			"fair":      0.5,
		},
	}
}
