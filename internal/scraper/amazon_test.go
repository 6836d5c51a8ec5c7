package scraper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/maltedev/fba-price-sync/internal/browser"
	"github.com/maltedev/fba-price-sync/internal/models"
	"github.com/maltedev/fba-price-sync/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offerListing = `<html><body>
<div id="olpOfferList">
  <div class="a-row olpOffer">
    <div class="olpPriceColumn"><span>$19.02</span><br>+ $3.99 shipping</div>
    <div class="olpConditionColumn"><span>Used - Very Good</span><div>Ships from Texas.</div></div>
  </div>
  <div class="a-row olpOffer">
    <div class="olpPriceColumn"><span>$21.51</span><br><i class="a-icon a-icon-prime"></i></div>
    <div class="olpConditionColumn"><span>Used - Good</span><div>Over 1 Million Amazon Orders</div></div>
  </div>
</div>
</body></html>`

func newTestScraper(t *testing.T) (*AmazonScraper, func()) {
	t.Helper()

	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test")
	}

	b, err := browser.New(nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAmazonScraper(b, parser.DefaultSelectors(), logger), func() { b.Close() }
}

func TestOffersPageExtract(t *testing.T) {
	s, cleanup := newTestScraper(t)
	defer cleanup()

	page, err := s.browser.NewPage()
	require.NoError(t, err)
	require.NoError(t, page.SetContent(offerListing))

	offers := &OffersPage{ctx: context.Background(), page: page, scraper: s}
	defer offers.Close()

	records, err := parser.Extract(offers)
	require.NoError(t, err)
	assert.Equal(t, []models.OfferRecord{{Price: "21.51", Condition: "Used - Good"}}, records)
}

func TestOffersPageMissingOfferList(t *testing.T) {
	s, cleanup := newTestScraper(t)
	defer cleanup()

	page, err := s.browser.NewPage()
	require.NoError(t, err)
	require.NoError(t, page.SetContent(`<html><body><p>Page not found</p></body></html>`))

	offers := &OffersPage{ctx: context.Background(), page: page, scraper: s}
	defer offers.Close()

	_, err = offers.OfferRows()

	var extraction *parser.ExtractionError
	require.True(t, errors.As(err, &extraction))
	assert.False(t, errors.Is(err, ErrBlocked))
}
