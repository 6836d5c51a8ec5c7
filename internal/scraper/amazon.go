package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maltedev/fba-price-sync/internal/browser"
	"github.com/maltedev/fba-price-sync/internal/parser"
	"github.com/playwright-community/playwright-go"
)

type AmazonScraper struct {
	browser   *browser.Browser
	selectors parser.Selectors
	logger    *slog.Logger
}

func NewAmazonScraper(b *browser.Browser, selectors parser.Selectors, logger *slog.Logger) *AmazonScraper {
	return &AmazonScraper{
		browser:   b,
		selectors: selectors,
		logger:    logger.With("component", "amazon_scraper"),
	}
}

// Open loads url in a new tab and waits for the navigation to finish. The
// caller owns the returned page and must close it.
func (s *AmazonScraper) Open(ctx context.Context, url string) (*OffersPage, error) {
	page, err := s.browser.NewPage()
	if err != nil {
		return nil, err
	}

	if err := s.browser.Navigate(page, url); err != nil {
		page.Close()
		return nil, err
	}

	if err := s.browser.WaitForLoad(page); err != nil {
		page.Close()
		return nil, err
	}

	return &OffersPage{
		ctx:     ctx,
		page:    page,
		scraper: s,
	}, nil
}

// OffersPage is an offer-listing page open in its own tab.
type OffersPage struct {
	// ctx bounds the readiness wait in OfferRows.
	ctx     context.Context
	page    playwright.Page
	scraper *AmazonScraper
}

func (p *OffersPage) URL() string {
	return p.page.URL()
}

// OfferRows waits for the offer list and reads every offer row in display order.
func (p *OffersPage) OfferRows() ([]parser.OfferRow, error) {
	sel := p.scraper.selectors
	url := p.page.URL()

	if err := p.scraper.browser.WaitForMarker(p.ctx, p.page, sel.OfferList); err != nil {
		if p.scraper.checkIfBlocked(p.page) {
			return nil, fmt.Errorf("%w: %w", ErrBlocked, parser.NewExtractionError(url, "captcha page instead of offer list"))
		}
		return nil, parser.NewExtractionError(url, err.Error())
	}

	offers, err := p.page.Locator(sel.OfferList + " " + sel.OfferRow).All()
	if err != nil {
		return nil, fmt.Errorf("failed to locate offer rows on %s: %w", url, err)
	}

	rows := make([]parser.OfferRow, 0, len(offers))
	for i, offer := range offers {
		badges, err := offer.Locator(sel.FulfilledBadge).Count()
		if err != nil {
			return nil, fmt.Errorf("failed to read badge of offer %d: %w", i, err)
		}

		price, err := columnText(offer, sel.PriceColumn)
		if err != nil {
			return nil, fmt.Errorf("failed to read price of offer %d: %w", i, err)
		}

		cond, err := columnText(offer, sel.ConditionColumn)
		if err != nil {
			return nil, fmt.Errorf("failed to read condition of offer %d: %w", i, err)
		}

		rows = append(rows, parser.OfferRow{
			Fulfilled:     badges > 0,
			PriceText:     price,
			ConditionText: cond,
		})
	}

	p.scraper.logger.Debug("read offer rows", "url", url, "rows", len(rows))
	return rows, nil
}

func (p *OffersPage) Close() error {
	if err := p.page.Close(); err != nil {
		return fmt.Errorf("failed to close tab: %w", err)
	}
	return nil
}

// columnText returns "" when the column is absent so the extractor can report it.
func columnText(offer playwright.Locator, selector string) (string, error) {
	column := offer.Locator(selector)
	count, err := column.Count()
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", nil
	}
	return column.First().InnerText()
}

func (s *AmazonScraper) checkIfBlocked(page playwright.Page) bool {
	captchaSelectors := []string{
		"#captchacharacters",
		"form[action*='Captcha']",
	}

	for _, selector := range captchaSelectors {
		if count, _ := page.Locator(selector).Count(); count > 0 {
			s.logger.Warn("detected captcha/block", "selector", selector, "url", page.URL())
			return true
		}
	}

	title, _ := page.Title()
	if strings.Contains(strings.ToLower(title), "robot") {
		s.logger.Warn("detected robot check in title", "title", title)
		return true
	}

	return false
}
