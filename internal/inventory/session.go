package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maltedev/fba-price-sync/internal/browser"
	"github.com/maltedev/fba-price-sync/internal/pricesync"
	"github.com/maltedev/fba-price-sync/internal/scraper"
	"github.com/playwright-community/playwright-go"
)

// Session is a signed-in marketplace session. The main tab shows the listings
// table; product pages open in short-lived extra tabs of the same context.
type Session struct {
	browser *browser.Browser
	page    playwright.Page
	opts    Options
	offers  *scraper.AmazonScraper
	logger  *slog.Logger
}

var _ pricesync.Navigator = (*Session)(nil)

// Login signs in with creds in a new tab of b.
func Login(ctx context.Context, b *browser.Browser, creds Credentials, opts Options, logger *slog.Logger) (*Session, error) {
	logger = logger.With("component", "inventory")

	page, err := b.NewPage()
	if err != nil {
		return nil, err
	}

	s := &Session{
		browser: b,
		page:    page,
		opts:    opts,
		offers:  scraper.NewAmazonScraper(b, opts.Offers, logger),
		logger:  logger,
	}

	if err := s.signIn(ctx, creds); err != nil {
		page.Close()
		return nil, err
	}

	logger.Info("signed in", "email", creds.Email)
	return s, nil
}

func (s *Session) signIn(ctx context.Context, creds Credentials) error {
	if err := s.browser.Navigate(s.page, s.opts.SignInURL); err != nil {
		return err
	}
	if err := s.browser.WaitForMarker(ctx, s.page, signInFormSelector); err != nil {
		return err
	}

	form := s.page.Locator(signInFormSelector)
	if err := form.Locator(emailSelector).Fill(creds.Email); err != nil {
		return fmt.Errorf("failed to fill email: %w", err)
	}
	if err := form.Locator(passwordSelector).Fill(creds.Password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}
	if err := form.Locator(submitSelector).First().Click(); err != nil {
		return fmt.Errorf("failed to submit sign-in form: %w", err)
	}

	// Either the location changes or the form reports an error.
	opts := s.browser.Options()
	err := browser.Poll(ctx, opts.PollInterval, opts.PageLoadWait, func() (bool, error) {
		if s.page.URL() != s.opts.SignInURL {
			return true, nil
		}
		count, err := s.page.Locator(signInErrSelector).Count()
		if err != nil {
			return false, err
		}
		return count > 0, nil
	})
	if err != nil && !errors.Is(err, browser.ErrNotReady) {
		return err
	}

	if s.page.URL() == s.opts.SignInURL {
		return &AuthError{Reason: s.signInError()}
	}

	return s.browser.WaitForLoad(s.page)
}

func (s *Session) signInError() string {
	msg := s.page.Locator(signInErrSelector)
	if count, _ := msg.Count(); count == 0 {
		return ""
	}
	text, err := msg.First().InnerText()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// Logout signs out through the account menu.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.page.Locator(accountMenuSel).First().Click(); err != nil {
		return fmt.Errorf("failed to open account menu: %w", err)
	}
	if err := s.page.Locator(accountMenuSel).Locator(signOutSelector).First().Click(); err != nil {
		return fmt.Errorf("failed to click sign out: %w", err)
	}
	if err := s.browser.WaitForLoad(s.page); err != nil {
		return err
	}

	s.logger.Info("signed out")
	return nil
}

// OpenListings loads the listings table. The first request after sign-in lands
// on the marketplace front page, so the URL is loaded twice.
func (s *Session) OpenListings(ctx context.Context) (pricesync.ListingsPage, error) {
	s.logger.Debug("opening listings, first navigation", "url", s.opts.ListingsURL)
	if err := s.browser.Navigate(s.page, s.opts.ListingsURL); err != nil {
		return nil, err
	}

	s.logger.Debug("opening listings, second navigation", "url", s.opts.ListingsURL, "landed_on", s.page.URL())
	return s.Goto(ctx, s.opts.ListingsURL)
}

// Goto loads url in the main tab and waits for the listings table.
func (s *Session) Goto(ctx context.Context, url string) (pricesync.ListingsPage, error) {
	if err := s.browser.Navigate(s.page, url); err != nil {
		return nil, err
	}
	if err := s.browser.WaitForMarker(ctx, s.page, tableSelector); err != nil {
		return nil, fmt.Errorf("listings table did not load: %w", err)
	}

	return &listingsPage{page: s.page}, nil
}

func (s *Session) OpenProductPage(ctx context.Context, url string) (pricesync.ProductOffersPage, error) {
	page, err := s.offers.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	return page, nil
}
