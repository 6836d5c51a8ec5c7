package parser

import (
	"fmt"
	"strings"

	"github.com/maltedev/fba-price-sync/internal/models"
)

// OfferRow is the rendered text of one seller row on an offer-listing page.
type OfferRow struct {
	Fulfilled     bool
	PriceText     string
	ConditionText string
}

// OfferSource yields the offer rows of a loaded offer-listing page in display order.
type OfferSource interface {
	URL() string
	OfferRows() ([]OfferRow, error)
}

// ExtractionError means the page did not have the expected offer-listing layout.
type ExtractionError struct {
	URL    string
	Row    int
	Reason string
}

func (e *ExtractionError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("unexpected offer page layout at %s (row %d): %s", e.URL, e.Row, e.Reason)
	}
	return fmt.Sprintf("unexpected offer page layout at %s: %s", e.URL, e.Reason)
}

// NewExtractionError builds a page-level ExtractionError.
func NewExtractionError(url, reason string) *ExtractionError {
	return &ExtractionError{URL: url, Row: -1, Reason: reason}
}

// Extract returns the fulfilled offers of src in display order.
func Extract(src OfferSource) ([]models.OfferRecord, error) {
	rows, err := src.OfferRows()
	if err != nil {
		return nil, err
	}

	records := make([]models.OfferRecord, 0, len(rows))
	for i, row := range rows {
		if !row.Fulfilled {
			continue
		}

		price := ParsePrice(row.PriceText)
		if price == "" {
			return nil, &ExtractionError{URL: src.URL(), Row: i, Reason: "fulfilled offer has no price"}
		}

		cond := ParseCondition(row.ConditionText)
		if cond == "" {
			return nil, &ExtractionError{URL: src.URL(), Row: i, Reason: "fulfilled offer has no condition"}
		}

		records = append(records, models.OfferRecord{Price: price, Condition: cond})
	}

	return records, nil
}

// ParsePrice keeps the first line of a price column and strips the currency symbol.
// "$21.51\n+ $3.99 shipping" becomes "21.51".
func ParsePrice(raw string) string {
	price := firstLine(raw)
	price = strings.TrimLeft(price, "$")
	return strings.TrimSpace(price)
}

// ParseCondition keeps the first line of a condition column; the rest is seller copy.
func ParseCondition(raw string) string {
	return firstLine(raw)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
