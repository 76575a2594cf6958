package vocab

// Stock vocabularies. Config may replace any of them wholesale; the defaults
// below are the reference tie-break order the tests pin down.

// DefaultColors returns the stock color vocabulary. "red" precedes "brown",
// "grey" precedes "gray" — first match wins.
func DefaultColors() Terms {
	return Terms{
		"black", "white", "cream", "red", "brown", "blue", "green",
		"beige", "tan", "navy", "grey", "gray", "pink", "yellow",
		"purple", "orange",
	}
}

// DefaultCategories returns the stock garment category vocabulary. Plural
// forms precede their singulars so "boots" matches before "boot".
func DefaultCategories() Terms {
	return Terms{
		"boots", "boot", "coat", "jacket", "dress", "trousers", "pants",
		"jeans", "skirt", "top", "blouse", "shirt", "sweater", "hoodie",
	}
}

// DefaultStyles returns the stock style-tag vocabulary.
func DefaultStyles() List {
	return List{
		{Label: "minimalist", Triggers: []string{"minimal", "minimalist", "simple", "clean"}},
		{Label: "vintage", Triggers: []string{"vintage", "retro"}},
		{Label: "party", Triggers: []string{"partywear", "party", "night out", "club"}},
		{Label: "workwear", Triggers: []string{"workwear", "office", "tailored"}},
		{Label: "statement", Triggers: []string{"statement", "bold"}},
		{Label: "classic", Triggers: []string{"classic", "timeless"}},
		{Label: "streetwear", Triggers: []string{"streetwear", "casual", "relaxed"}},
	}
}

// DefaultConditions returns the stock condition vocabulary, ordered best to
// worst. First label with a matching trigger wins.
func DefaultConditions() List {
	return List{
		{Label: "like new", Triggers: []string{"like new", "new with tags", "nwt", "excellent"}},
		{Label: "very good", Triggers: []string{"very good", "vgc"}},
		{Label: "good", Triggers: []string{"good", "gently worn", "lightly worn"}},
		{Label: "fair", Triggers: []string{"fair", "worn", "used"}},
	}
}
