package listingfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kailas-cloud/stylerank/internal/domain"
)

// rankedHeader is the output column set: original listing fields followed by
// every derived and score column, in pipeline order.
var rankedHeader = []string{
	"title", "url", "price", "original_price", "brand", "material",
	"condition_note", "category_hint", "image_url",
	"color", "category", "style_tags", "condition_norm",
	"discount_ratio", "brand_score", "material_score", "condition_score",
	"smart_buy_index", "taste_score", "query_sim", "final_score",
}

// WriteRankedCSV writes ranked results as UTF-8 CSV with a header row, one
// row per result, preserving the ranking order.
func WriteRankedCSV(w io.Writer, items []domain.RankedItem) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(rankedHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, it := range items {
		record := []string{
			it.Listing.Title,
			it.Listing.URL,
			num(it.Listing.Price),
			num(it.Listing.OriginalPrice),
			it.Listing.Brand,
			it.Listing.Material,
			it.Listing.ConditionNote,
			it.Listing.CategoryHint,
			it.Listing.ImageURL,
			it.Attributes.Color,
			it.Attributes.Category,
			strings.Join(it.Attributes.StyleTags, "|"),
			it.Attributes.ConditionNorm,
			num(it.Value.DiscountRatio),
			num(it.Value.BrandScore),
			num(it.Value.MaterialScore),
			num(it.Value.ConditionScore),
			num(it.Value.SmartBuyIndex),
			num(it.TasteScore),
			num(it.QuerySim),
			num(it.FinalScore),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
