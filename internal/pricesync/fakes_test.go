package pricesync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/maltedev/fba-price-sync/internal/condition"
	"github.com/maltedev/fba-price-sync/internal/parser"
)

const listingsURL = "https://marketplace.example.com/listings"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// productPage describes what opening a product URL yields.
type productPage struct {
	redirect string
	rows     []parser.OfferRow
	err      error
	closeErr error
}

// fakeSite stands in for an authenticated session against both services.
type fakeSite struct {
	first    *fakeListingsPage
	pages    map[string]*fakeListingsPage
	products map[string]productPage

	gotos     []string
	visits    []string
	openTabs  int
	maxTabs   int
	tabsOpen  int
	tabsClose int
}

func (s *fakeSite) OpenListings(ctx context.Context) (ListingsPage, error) {
	return s.first, nil
}

func (s *fakeSite) Goto(ctx context.Context, url string) (ListingsPage, error) {
	s.gotos = append(s.gotos, url)
	page, ok := s.pages[url]
	if !ok {
		return nil, fmt.Errorf("no page at %s", url)
	}
	return page, nil
}

func (s *fakeSite) OpenProductPage(ctx context.Context, url string) (ProductOffersPage, error) {
	if s.openTabs != 0 {
		return nil, errors.New("secondary tab still open")
	}
	s.openTabs++
	s.tabsOpen++
	if s.openTabs > s.maxTabs {
		s.maxTabs = s.openTabs
	}

	p := s.products[url]
	actual := url
	if p.redirect != "" {
		actual = p.redirect
	}
	return &fakeOffersPage{site: s, url: actual, page: p}, nil
}

type fakeOffersPage struct {
	site *fakeSite
	url  string
	page productPage
}

func (p *fakeOffersPage) URL() string { return p.url }

func (p *fakeOffersPage) OfferRows() ([]parser.OfferRow, error) {
	return p.page.rows, p.page.err
}

func (p *fakeOffersPage) Close() error {
	p.site.openTabs--
	p.site.tabsClose++
	return p.page.closeErr
}

type fakeListingsPage struct {
	url       string
	paginated bool
	// links maps pagination item names to hrefs; "" means the item has no link.
	links map[string]string
	rows  []*fakeRow
}

func (p *fakeListingsPage) URL() string { return p.url }

func (p *fakeListingsPage) HasPagination() (bool, error) { return p.paginated, nil }

func (p *fakeListingsPage) PaginationLink(name string) (string, bool, error) {
	href, ok := p.links[name]
	return href, ok, nil
}

func (p *fakeListingsPage) RowCount() (int, error) { return len(p.rows), nil }

func (p *fakeListingsPage) Row(i int) (InventoryRow, error) {
	if i < 0 || i >= len(p.rows) {
		return nil, fmt.Errorf("row %d out of range", i)
	}
	return p.rows[i], nil
}

type rowValues struct {
	FBAPrice          string
	SecondaryFBAPrice string
	Condition         condition.Index
}

type fakeRow struct {
	site    *fakeSite
	id      string
	product string

	editing bool
	toggles int
	draft   rowValues
	saved   rowValues
}

func (r *fakeRow) ProductURL() (string, error) {
	r.site.visits = append(r.site.visits, r.id)
	return r.product, nil
}

func (r *fakeRow) ToggleEdit() error {
	r.toggles++
	if r.editing {
		r.saved = r.draft
	} else {
		r.draft = r.saved
	}
	r.editing = !r.editing
	return nil
}

func (r *fakeRow) SetFBAPrice(value string) error {
	if !r.editing {
		return errors.New("not in edit mode")
	}
	r.draft.FBAPrice = value
	return nil
}

func (r *fakeRow) SetSecondaryFBAPrice(value string) error {
	if !r.editing {
		return errors.New("not in edit mode")
	}
	r.draft.SecondaryFBAPrice = value
	return nil
}

func (r *fakeRow) SelectCondition(idx condition.Index) error {
	if !r.editing {
		return errors.New("not in edit mode")
	}
	r.draft.Condition = idx
	return nil
}

func pageURL(n int) string {
	return fmt.Sprintf("%s?page=%d", listingsURL, n)
}

func productURL(page, row int) string {
	return fmt.Sprintf("https://www.amazon.com/gp/offer-listing/P%dR%d", page, row)
}

// newSite builds a listings table of pageCount pages with rowsPerPage rows
// each. Every product has two fulfilled offers.
func newSite(pageCount, rowsPerPage int) *fakeSite {
	s := &fakeSite{
		pages:    make(map[string]*fakeListingsPage),
		products: make(map[string]productPage),
	}

	for n := 1; n <= pageCount; n++ {
		page := &fakeListingsPage{
			url:       pageURL(n),
			paginated: pageCount > 1,
			links:     map[string]string{},
		}
		if pageCount > 1 {
			page.links[PageLast] = pageURL(pageCount)
		}
		if n > 1 {
			page.links[PagePrev] = pageURL(n - 1)
		}
		for r := 1; r <= rowsPerPage; r++ {
			url := productURL(n, r)
			page.rows = append(page.rows, &fakeRow{site: s, id: fmt.Sprintf("p%dr%d", n, r), product: url})
			s.products[url] = productPage{rows: []parser.OfferRow{
				{Fulfilled: true, PriceText: fmt.Sprintf("$%d.%d0\n+ $3.99 shipping", n, r), ConditionText: "Used - Good\nShips fast"},
				{Fulfilled: false, PriceText: "$1.00", ConditionText: "New"},
				{Fulfilled: true, PriceText: fmt.Sprintf("$%d.%d5", n+10, r), ConditionText: "New"},
			}}
		}
		s.pages[page.url] = page
	}

	// The freshly loaded listings URL shows page 1 without a page parameter.
	first := *s.pages[pageURL(1)]
	first.url = listingsURL
	s.first = &first

	return s
}

func (s *fakeSite) row(id string) *fakeRow {
	for _, page := range s.pages {
		for _, r := range page.rows {
			if r.id == id {
				return r
			}
		}
	}
	return nil
}

// snapshot returns the saved values of every row by row id.
func (s *fakeSite) snapshot() map[string]rowValues {
	values := make(map[string]rowValues)
	for _, page := range s.pages {
		for _, r := range page.rows {
			values[r.id] = r.saved
		}
	}
	return values
}

type countingPacer struct {
	calls int
	err   error
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.calls++
	return p.err
}
