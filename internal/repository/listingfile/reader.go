// Package listingfile reads listing records from scraper export files and
// writes ranked results back out as CSV. The readers model the scraping
// collaborator's contract: a sequence of listings possibly shorter than the
// file, with a count of skipped malformed or duplicate records.
package listingfile

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/stylerank/internal/domain"
)

// LoadResult is what a source file yielded: well-formed unique listings plus
// the number of records dropped on the way.
type LoadResult struct {
	Listings []domain.Listing
	Skipped  int
}

// Read loads a listing file, dispatching on extension: .csv, .jsonl/.ndjson
// or .parquet.
func Read(path string) (LoadResult, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return LoadResult{}, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".jsonl", ".ndjson":
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return LoadResult{}, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return ReadJSONL(f)
	case ".parquet":
		return ReadParquet(path)
	default:
		return LoadResult{}, fmt.Errorf("unsupported listing file extension %q", ext)
	}
}

// ReadCSV reads listings from CSV with a header row. Unknown columns are
// ignored; rows missing required fields are skipped and counted.
func ReadCSV(r io.Reader) (LoadResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // scraper exports are ragged at times

	header, err := cr.Read()
	if err != nil {
		return LoadResult{}, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "url", "price"} {
		if _, ok := cols[required]; !ok {
			return LoadResult{}, fmt.Errorf("csv header lacks required column %q", required)
		}
	}

	var res LoadResult
	seen := make(map[string]struct{})
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// One mangled row should not sink the batch.
			res.Skipped++
			continue
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		row := listingRow{
			Title:         field("title"),
			URL:           field("url"),
			Price:         field("price"),
			Description:   field("description"),
			Brand:         field("brand"),
			Material:      field("material"),
			ConditionNote: field("condition_note"),
			CategoryHint:  field("category_hint"),
			OriginalPrice: field("original_price"),
			ImageURL:      field("image_url"),
		}
		collect(&res, seen, row)
	}
	return res, nil
}

// ReadJSONL reads one JSON listing object per line.
func ReadJSONL(r io.Reader) (LoadResult, error) {
	var res LoadResult
	seen := make(map[string]struct{})

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var row listingRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			res.Skipped++
			continue
		}
		collect(&res, seen, row)
	}
	if err := sc.Err(); err != nil {
		return LoadResult{}, fmt.Errorf("scan jsonl: %w", err)
	}
	return res, nil
}

// ReadParquet reads listings from a parquet export.
func ReadParquet(path string) (LoadResult, error) {
	rows, err := parquet.ReadFile[listingRow](filepath.Clean(path))
	if err != nil {
		return LoadResult{}, fmt.Errorf("read parquet %s: %w", path, err)
	}

	var res LoadResult
	seen := make(map[string]struct{})
	for _, row := range rows {
		collect(&res, seen, row)
	}
	return res, nil
}

// collect appends a well-formed, first-seen listing or bumps the skip count.
// Duplicate URLs count as skipped: the URL is the identity.
func collect(res *LoadResult, seen map[string]struct{}, row listingRow) {
	l, ok := row.toDomain()
	if !ok {
		res.Skipped++
		return
	}
	if _, dup := seen[l.URL]; dup {
		res.Skipped++
		return
	}
	seen[l.URL] = struct{}{}
	res.Listings = append(res.Listings, l)
}
