package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fake-review-detector/internal/domain/dataset"
	"fake-review-detector/internal/domain/review"
)

// Required columns of a labeled review CSV
const (
	columnText   = "text_"
	columnRating = "rating"
	columnLabel  = "label"
)

// Optional metadata columns
const (
	columnOrderID     = "order_id"
	columnPurchaseID  = "purchase_id"
	columnVerified    = "verified_purchase"
	columnUserID      = "user_id"
	columnDays        = "days_after_purchase"
	columnReviewCount = "user_review_count"
	columnCategory    = "category"
)

// CSVRepository loads labeled reviews from a CSV file with a header
// row. Optional metadata columns may be absent or blank; required
// columns must exist and parse, and the loader fails fast with the row
// number when they do not.
type CSVRepository struct {
	path string
}

func NewCSVRepository(path string) *CSVRepository {
	return &CSVRepository{path: path}
}

// Load reads the whole file into a labeled dataset
func (r *CSVRepository) Load(ctx context.Context) (*dataset.Dataset, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	ds := dataset.New(1024)
	for row := 2; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		rec, target, err := cols.parse(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		ds.Append(rec, target)
	}
	if ds.Len() == 0 {
		return nil, dataset.ErrEmptyDataset
	}
	return ds, nil
}

// columnIndex maps column names to positions; -1 means absent
type columnIndex struct {
	text        int
	rating      int
	label       int
	orderID     int
	purchaseID  int
	verified    int
	userID      int
	days        int
	reviewCount int
	category    int
}

func indexColumns(header []string) (*columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(name)] = i
	}
	lookup := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}

	cols := &columnIndex{
		text:        lookup(columnText),
		rating:      lookup(columnRating),
		label:       lookup(columnLabel),
		orderID:     lookup(columnOrderID),
		purchaseID:  lookup(columnPurchaseID),
		verified:    lookup(columnVerified),
		userID:      lookup(columnUserID),
		days:        lookup(columnDays),
		reviewCount: lookup(columnReviewCount),
		category:    lookup(columnCategory),
	}
	for _, required := range []struct {
		name string
		pos  int
	}{
		{columnText, cols.text},
		{columnRating, cols.rating},
		{columnLabel, cols.label},
	} {
		if required.pos < 0 {
			return nil, fmt.Errorf("%w: %s", dataset.ErrMissingColumn, required.name)
		}
	}
	return cols, nil
}

func (c *columnIndex) parse(record []string) (*review.Review, int, error) {
	target, err := dataset.ParseLabel(cell(record, c.label))
	if err != nil {
		return nil, 0, err
	}

	text := cell(record, c.text)
	rec := &review.Review{
		Text:       &text,
		OrderID:    cell(record, c.orderID),
		PurchaseID: cell(record, c.purchaseID),
		UserID:     cell(record, c.userID),
		Category:   cell(record, c.category),
	}

	if raw := cell(record, c.rating); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid rating %q: %w", raw, err)
		}
		rec.Rating = &rating
	}
	if raw := cell(record, c.verified); raw != "" {
		verified, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return nil, 0, fmt.Errorf("invalid verified_purchase %q: %w", raw, err)
		}
		rec.VerifiedPurchase = verified
	}
	if raw := cell(record, c.days); raw != "" {
		days, err := parseIntCell(raw)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid days_after_purchase %q: %w", raw, err)
		}
		rec.DaysAfterPurchase = days
	}
	if raw := cell(record, c.reviewCount); raw != "" {
		count, err := parseIntCell(raw)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid user_review_count %q: %w", raw, err)
		}
		rec.UserReviewCount = count
	}
	return rec, target, nil
}

// parseIntCell accepts integral floats such as "30.0", which exported
// spreadsheets produce for integer columns.
func parseIntCell(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
