// Package app assembles one price sync run from configuration.
package app

import (
	"context"
	"log/slog"

	"github.com/maltedev/fba-price-sync/internal/browser"
	"github.com/maltedev/fba-price-sync/internal/config"
	"github.com/maltedev/fba-price-sync/internal/inventory"
	"github.com/maltedev/fba-price-sync/internal/models"
	"github.com/maltedev/fba-price-sync/internal/parser"
	"github.com/maltedev/fba-price-sync/internal/pricesync"
	"github.com/maltedev/fba-price-sync/internal/ratelimit"
)

type App struct {
	cfg    *config.Config
	pacer  *ratelimit.SimpleRateLimiter
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		pacer:  ratelimit.NewSimpleRateLimiter(cfg.Scraper.RateLimitMin, cfg.Scraper.RateLimitMax),
		logger: logger,
	}
}

// Run starts a fresh browser, signs in, updates the whole listings table,
// signs out and closes the browser. No state survives between runs.
func (a *App) Run(ctx context.Context) (*models.RunStats, error) {
	b, err := browser.New(BrowserOptions(a.cfg))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := b.Close(); err != nil {
			a.logger.Warn("failed to close browser", "error", err)
		}
	}()

	creds := inventory.Credentials{
		Email:    a.cfg.Inventory.Email,
		Password: a.cfg.Inventory.Password,
	}
	session, err := inventory.Login(ctx, b, creds, InventoryOptions(a.cfg), a.logger)
	if err != nil {
		return nil, err
	}
	// Also attempted after a failed traversal.
	defer func() {
		if err := session.Logout(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("failed to sign out", "error", err)
		}
	}()

	updater := pricesync.NewRowUpdater(a.pacer, a.logger)
	return pricesync.NewTraversal(updater, a.logger).Run(ctx, session)
}

func BrowserOptions(cfg *config.Config) *browser.Options {
	opts := browser.DefaultOptions()
	opts.Headless = cfg.Browser.Headless
	opts.Timeout = cfg.Browser.Timeout
	opts.PageLoadWait = cfg.Browser.PageLoadWait
	opts.PollInterval = cfg.Browser.PollInterval
	return opts
}

func InventoryOptions(cfg *config.Config) inventory.Options {
	return inventory.Options{
		SignInURL:   cfg.Inventory.SignInURL,
		ListingsURL: cfg.Inventory.ListingsURL,
		Offers:      OfferSelectors(cfg),
	}
}

func OfferSelectors(cfg *config.Config) parser.Selectors {
	sel := parser.DefaultSelectors()
	sel.OfferList = cfg.Scraper.OfferMarker
	return sel
}
