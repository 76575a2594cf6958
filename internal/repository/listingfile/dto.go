package listingfile

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/stylerank/internal/domain"
)

// listingRow is the on-disk listing shape shared by the JSONL and parquet
// readers. Prices arrive as text ("$40.00") or numbers depending on how the
// scraper serialized them, so both fields are strings here and coerced later.
type listingRow struct {
	Title         string `json:"title" parquet:"title"`
	URL           string `json:"url" parquet:"url"`
	Price         string `json:"price" parquet:"price"`
	Description   string `json:"description" parquet:"description,optional"`
	Brand         string `json:"brand" parquet:"brand,optional"`
	Material      string `json:"material" parquet:"material,optional"`
	ConditionNote string `json:"condition_note" parquet:"condition_note,optional"`
	CategoryHint  string `json:"category_hint" parquet:"category_hint,optional"`
	OriginalPrice string `json:"original_price" parquet:"original_price,optional"`
	ImageURL      string `json:"image_url" parquet:"image_url,optional"`
}

// toDomain validates the required fields and coerces the rest. ok is false
// for rows the core contract says to skip: missing title/url or an
// unparsable price.
func (r listingRow) toDomain() (domain.Listing, bool) {
	title := strings.TrimSpace(r.Title)
	url := strings.TrimSpace(r.URL)
	if title == "" || url == "" {
		return domain.Listing{}, false
	}

	price, err := parsePrice(r.Price)
	if err != nil || price < 0 {
		return domain.Listing{}, false
	}

	// Optional: parse failure means no discount signal, not a bad row.
	original, err := parsePrice(r.OriginalPrice)
	if err != nil {
		original = 0
	}

	return domain.Listing{
		Title:         title,
		URL:           url,
		Price:         price,
		Description:   strings.TrimSpace(r.Description),
		Brand:         strings.TrimSpace(r.Brand),
		Material:      strings.TrimSpace(r.Material),
		ConditionNote: strings.TrimSpace(r.ConditionNote),
		CategoryHint:  strings.TrimSpace(r.CategoryHint),
		OriginalPrice: original,
		ImageURL:      strings.TrimSpace(r.ImageURL),
	}, true
}

// parsePrice coerces scraper price text: strips currency symbols, thousands
// separators and whitespace before parsing.
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	s = strings.NewReplacer("$", "", "£", "", "€", "", ",", "", " ", "").Replace(s)
	return strconv.ParseFloat(s, 64)
}
