package inventory

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/maltedev/fba-price-sync/internal/condition"
	"github.com/maltedev/fba-price-sync/internal/pricesync"
	"github.com/playwright-community/playwright-go"
)

type listingsPage struct {
	page playwright.Page
}

func (p *listingsPage) URL() string {
	return p.page.URL()
}

func (p *listingsPage) HasPagination() (bool, error) {
	count, err := p.page.Locator(paginationSelector).Count()
	if err != nil {
		return false, fmt.Errorf("failed to query pagination: %w", err)
	}
	return count > 0, nil
}

func (p *listingsPage) PaginationLink(name string) (string, bool, error) {
	item := p.page.Locator(paginationSelector + " ." + name)
	count, err := item.Count()
	if err != nil {
		return "", false, err
	}
	if count == 0 {
		return "", false, nil
	}

	link := item.First().Locator("a[href]")
	if count, err = link.Count(); err != nil {
		return "", true, err
	}
	if count == 0 {
		return "", true, nil
	}

	href, err := link.First().GetAttribute("href")
	if err != nil {
		return "", true, err
	}

	resolved, err := resolveHref(p.page.URL(), href)
	if err != nil {
		return "", true, err
	}
	return resolved, true, nil
}

func (p *listingsPage) RowCount() (int, error) {
	count, err := p.page.Locator(rowSelector).Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count table rows: %w", err)
	}
	return dataRows(count), nil
}

func (p *listingsPage) Row(i int) (pricesync.InventoryRow, error) {
	count, err := p.RowCount()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= count {
		return nil, fmt.Errorf("row %d out of range, table has %d rows", i, count)
	}

	// +1 skips the header row.
	return &inventoryRow{page: p.page, loc: p.page.Locator(rowSelector).Nth(i + 1)}, nil
}

type inventoryRow struct {
	page playwright.Page
	loc  playwright.Locator
}

func (r *inventoryRow) ProductURL() (string, error) {
	href, err := r.loc.Locator(productLinkSelector).First().GetAttribute("href")
	if err != nil {
		return "", err
	}
	return productHref(r.page.URL(), href)
}

func (r *inventoryRow) ToggleEdit() error {
	return r.loc.Locator(editSaveSelector).First().Click()
}

func (r *inventoryRow) SetFBAPrice(value string) error {
	return r.loc.Locator(fbaPriceSelector).First().Fill(value)
}

func (r *inventoryRow) SetSecondaryFBAPrice(value string) error {
	return r.loc.Locator(secondarySelector).First().Fill(value)
}

func (r *inventoryRow) SelectCondition(idx condition.Index) error {
	_, err := r.loc.Locator(conditionSelector).First().SelectOption(playwright.SelectOptionValues{
		Indexes: &[]int{int(idx)},
	})
	return err
}

// dataRows excludes the header from a count of table rows.
func dataRows(total int) int {
	if total <= 1 {
		return 0
	}
	return total - 1
}

// productHref resolves a product link the way the browser's href property
// does, so it compares equal to the URL the product tab ends up on.
func productHref(base, href string) (string, error) {
	if href == "" {
		return "", fmt.Errorf("product link has no href")
	}
	return resolveHref(base, href)
}

// resolveHref makes an href absolute against the page it was read on and
// normalizes host case and an empty path like the browser does.
func resolveHref(base, href string) (string, error) {
	if href == "" {
		return "", nil
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid page url %q: %w", base, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}

	u := b.ResolveReference(ref)
	u.Host = strings.ToLower(u.Host)
	if u.Host != "" && u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}
