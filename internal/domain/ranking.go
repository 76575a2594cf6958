package domain

// RankedItem is one row of the final ranking output: the listing plus every
// derived column the executed stages produced. In naive mode QuerySim is the
// raw cosine similarity and FinalScore equals it; in bias-aware mode QuerySim
// is the batch-normalized similarity and FinalScore is the weighted fusion.
type RankedItem struct {
	Listing    Listing
	Attributes Attributes
	Value      ValueComponents
	TasteScore float64
	QuerySim   float64
	FinalScore float64
}
