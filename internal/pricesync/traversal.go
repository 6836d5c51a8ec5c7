package pricesync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maltedev/fba-price-sync/internal/models"
)

// Traversal walks the listings table from its last page to its first and
// updates every row, last row first.
type Traversal struct {
	updater *RowUpdater
	logger  *slog.Logger
}

func NewTraversal(updater *RowUpdater, logger *slog.Logger) *Traversal {
	return &Traversal{
		updater: updater,
		logger:  logger.With("component", "traversal"),
	}
}

// Run performs one full traversal. The first row error aborts it.
func (t *Traversal) Run(ctx context.Context, nav Navigator) (*models.RunStats, error) {
	stats := models.NewRunStats()
	t.logger.Info("beginning listings table update", "run_id", stats.RunID)

	err := t.run(ctx, nav, stats)
	stats.Finish(err)

	if err != nil {
		t.logger.Error("listings table update failed",
			"run_id", stats.RunID,
			"pages", stats.Pages,
			"rows_updated", stats.RowsUpdated,
			"error", err)
		return stats, err
	}

	t.logger.Info("listings table update completed",
		"run_id", stats.RunID,
		"pages", stats.Pages,
		"rows_updated", stats.RowsUpdated,
		"rows_with_offers", stats.RowsWithOffers,
		"rows_no_offers", stats.RowsNoOffers,
		"duration", stats.Duration())
	return stats, nil
}

func (t *Traversal) run(ctx context.Context, nav Navigator, stats *models.RunStats) error {
	page, err := nav.OpenListings(ctx)
	if err != nil {
		return fmt.Errorf("failed to open listings: %w", err)
	}

	paginated, err := page.HasPagination()
	if err != nil {
		return fmt.Errorf("failed to read pagination on %s: %w", page.URL(), err)
	}

	if !paginated {
		t.logger.Debug("one listing page found")
		return t.processPage(ctx, nav, page, stats)
	}

	t.logger.Debug("multiple listing pages found, starting at the last page")
	lastURL, err := t.link(page, PageLast)
	if err != nil {
		return err
	}
	if lastURL == "" {
		return fmt.Errorf("%w: no %q item on %s", ErrPaginationLinkMissing, PageLast, page.URL())
	}

	page, err = nav.Goto(ctx, lastURL)
	if err != nil {
		return fmt.Errorf("failed to open last page: %w", err)
	}

	visited := make(map[string]bool)
	for {
		if visited[page.URL()] {
			return fmt.Errorf("%w: %s", ErrPaginationCycle, page.URL())
		}
		visited[page.URL()] = true

		paginated, err := page.HasPagination()
		if err != nil {
			return fmt.Errorf("failed to read pagination on %s: %w", page.URL(), err)
		}
		if !paginated {
			return fmt.Errorf("%w: %s", ErrPaginationMissing, page.URL())
		}

		if err := t.processPage(ctx, nav, page, stats); err != nil {
			return err
		}

		prevURL, err := t.link(page, PagePrev)
		if err != nil {
			return err
		}
		if prevURL == "" {
			t.logger.Debug("reached first page")
			return nil
		}

		t.logger.Debug("navigating to previous page", "url", prevURL)
		page, err = nav.Goto(ctx, prevURL)
		if err != nil {
			return fmt.Errorf("failed to open previous page: %w", err)
		}
	}
}

// link returns "" when the named item is absent from the current page.
func (t *Traversal) link(page ListingsPage, name string) (string, error) {
	href, ok, err := page.PaginationLink(name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q link on %s: %w", name, page.URL(), err)
	}
	if !ok {
		return "", nil
	}
	if href == "" {
		return "", fmt.Errorf("%w: %q on %s", ErrPaginationLinkMissing, name, page.URL())
	}
	return href, nil
}

// processPage updates rows bottom-up; edits can shift the rows below them.
func (t *Traversal) processPage(ctx context.Context, nav Navigator, page ListingsPage, stats *models.RunStats) error {
	count, err := page.RowCount()
	if err != nil {
		return fmt.Errorf("failed to count rows on %s: %w", page.URL(), err)
	}

	t.logger.Info("updating listing page", "url", page.URL(), "rows", count)

	for i := count - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := page.Row(i)
		if err != nil {
			return fmt.Errorf("failed to resolve row %d on %s: %w", i, page.URL(), err)
		}

		result, err := t.updater.Update(ctx, nav, row)
		if err != nil {
			return fmt.Errorf("row %d on %s: %w", i, page.URL(), err)
		}

		stats.RowsUpdated++
		if len(result.Offers) > 0 {
			stats.RowsWithOffers++
		} else {
			stats.RowsNoOffers++
		}
	}

	stats.Pages++
	return nil
}
