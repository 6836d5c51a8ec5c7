// Package pricesync copies Amazon FBA offer data into the inventory table.
//
// Pages of both sites are reached only through the interfaces declared here;
// the playwright adapters live in internal/inventory and internal/scraper.
package pricesync

import (
	"context"
	"errors"
	"fmt"

	"github.com/maltedev/fba-price-sync/internal/condition"
	"github.com/maltedev/fba-price-sync/internal/parser"
)

var (
	// ErrPaginationLinkMissing is returned when a pagination item that must be
	// followed has no resolvable link.
	ErrPaginationLinkMissing = errors.New("pagination link missing")
	// ErrPaginationCycle is returned when a "prev" link leads back to a page
	// that was already processed in the same traversal.
	ErrPaginationCycle = errors.New("pagination revisited a page")
	// ErrPaginationMissing is returned when a page reached by paging has no
	// pagination control.
	ErrPaginationMissing = errors.New("pagination control missing")
)

// Pagination item names, matching the classes of the pagination control.
const (
	PageLast = "last"
	PagePrev = "prev"
)

// NavigationMismatchError means a product page did not end up at the requested
// location, e.g. after a redirect to a captcha or 404 page.
type NavigationMismatchError struct {
	Requested string
	Actual    string
}

func (e *NavigationMismatchError) Error() string {
	return fmt.Sprintf("navigation to Amazon listing page failed, requested page: %s, actual url: %s",
		e.Requested, e.Actual)
}

// Navigator is an authenticated browser session.
type Navigator interface {
	// OpenListings loads the first page of the listings table.
	OpenListings(ctx context.Context) (ListingsPage, error)
	// Goto loads another page of the listings table in the main tab.
	Goto(ctx context.Context, url string) (ListingsPage, error)
	// OpenProductPage opens url in a secondary tab and waits for it to settle.
	OpenProductPage(ctx context.Context, url string) (ProductOffersPage, error)
}

// ListingsPage is one loaded page of the inventory listings table.
type ListingsPage interface {
	URL() string
	HasPagination() (bool, error)
	// PaginationLink returns the href of the named pagination item. ok is false
	// when the item is absent; an item without a link is an error.
	PaginationLink(name string) (href string, ok bool, err error)
	// RowCount is the number of data rows, header excluded.
	RowCount() (int, error)
	// Row resolves the i-th data row against the live table.
	Row(i int) (InventoryRow, error)
}

// InventoryRow is one editable row of the listings table.
type InventoryRow interface {
	ProductURL() (string, error)
	// ToggleEdit clicks the edit/save control. The first click opens the edit
	// form, the second one saves it.
	ToggleEdit() error
	SetFBAPrice(value string) error
	SetSecondaryFBAPrice(value string) error
	SelectCondition(idx condition.Index) error
}

// ProductOffersPage is a product offer-listing page open in a secondary tab.
type ProductOffersPage interface {
	parser.OfferSource
	Close() error
}
