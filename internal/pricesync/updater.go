package pricesync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maltedev/fba-price-sync/internal/condition"
	"github.com/maltedev/fba-price-sync/internal/models"
	"github.com/maltedev/fba-price-sync/internal/parser"
)

// Pacer delays product-page visits. ratelimit.SimpleRateLimiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// RowResult describes what was written into one row.
type RowResult struct {
	ProductURL string
	Offers     []models.OfferRecord
	Fields     models.FieldValues
}

// RowUpdater copies the offers of one product page into its inventory row.
type RowUpdater struct {
	pacer  Pacer
	logger *slog.Logger
}

// NewRowUpdater returns an updater. pacer may be nil.
func NewRowUpdater(pacer Pacer, logger *slog.Logger) *RowUpdater {
	return &RowUpdater{
		pacer:  pacer,
		logger: logger.With("component", "row_updater"),
	}
}

// DeriveFields maps the offers of a product onto the row's form fields. The
// first offer sets price and condition, the second one the secondary price.
// Without offers the price is cleared and the condition falls back to
// condition.Lowest.
func DeriveFields(offers []models.OfferRecord) (models.FieldValues, error) {
	fields := models.FieldValues{Condition: condition.Lowest}

	if len(offers) > 0 {
		idx, err := condition.MapToIndex(offers[0].Condition)
		if err != nil {
			return models.FieldValues{}, err
		}
		fields.FBAPrice = offers[0].Price
		fields.Condition = idx
	}

	if len(offers) > 1 {
		fields.SecondaryFBAPrice = offers[1].Price
	}

	return fields, nil
}

// Update reads the offers linked from row and writes them into its edit form.
func (u *RowUpdater) Update(ctx context.Context, nav Navigator, row InventoryRow) (*RowResult, error) {
	url, err := row.ProductURL()
	if err != nil {
		return nil, fmt.Errorf("failed to read product link: %w", err)
	}

	if u.pacer != nil {
		if err := u.pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}

	offers, err := u.fetchOffers(ctx, nav, url)
	if err != nil {
		return nil, err
	}

	// Mapped before the row enters edit mode so a bad label leaves it untouched.
	fields, err := DeriveFields(offers)
	if err != nil {
		return nil, fmt.Errorf("offers of %s: %w", url, err)
	}

	if err := writeFields(row, fields); err != nil {
		return nil, fmt.Errorf("failed to update row for %s: %w", url, err)
	}

	u.logger.Debug("row updated",
		"url", url,
		"offers", len(offers),
		"fba_price", fields.FBAPrice,
		"secondary_fba_price", fields.SecondaryFBAPrice,
		"condition", fields.Condition.String())

	return &RowResult{ProductURL: url, Offers: offers, Fields: fields}, nil
}

// fetchOffers holds the secondary tab only for the duration of the extraction.
func (u *RowUpdater) fetchOffers(ctx context.Context, nav Navigator, url string) (offers []models.OfferRecord, err error) {
	page, err := nav.OpenProductPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open product page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			if err == nil {
				err = fmt.Errorf("failed to close product page: %w", cerr)
				return
			}
			u.logger.Warn("failed to close product page", "url", url, "error", cerr)
		}
	}()

	if actual := page.URL(); actual != url {
		return nil, &NavigationMismatchError{Requested: url, Actual: actual}
	}

	offers, err = parser.Extract(page)
	if err != nil {
		return nil, err
	}

	u.logger.Debug("found offers", "url", url, "count", len(offers))
	return offers, nil
}

// writeFields opens the edit form, fills it and saves with the same control.
func writeFields(row InventoryRow, fields models.FieldValues) error {
	if err := row.ToggleEdit(); err != nil {
		return fmt.Errorf("failed to enter edit mode: %w", err)
	}
	if err := row.SetFBAPrice(fields.FBAPrice); err != nil {
		return fmt.Errorf("failed to set fba_price: %w", err)
	}
	if err := row.SelectCondition(fields.Condition); err != nil {
		return fmt.Errorf("failed to select condition: %w", err)
	}
	if err := row.SetSecondaryFBAPrice(fields.SecondaryFBAPrice); err != nil {
		return fmt.Errorf("failed to set secondary_fba_price: %w", err)
	}
	if err := row.ToggleEdit(); err != nil {
		return fmt.Errorf("failed to save row: %w", err)
	}
	return nil
}
