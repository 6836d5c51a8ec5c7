package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

var ErrNotReady = errors.New("page not ready")

// Condition reports whether the awaited state has been reached.
type Condition func() (bool, error)

// Poll evaluates cond every interval until it returns true, it fails, the
// timeout elapses or ctx is done. cond is always evaluated at least once.
func Poll(ctx context.Context, interval, timeout time.Duration, cond Condition) error {
	deadline := time.Now().Add(timeout)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w after %s", ErrNotReady, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitForMarker polls until selector matches at least one element on page.
func (b *Browser) WaitForMarker(ctx context.Context, page playwright.Page, selector string) error {
	err := Poll(ctx, b.opts.PollInterval, b.opts.PageLoadWait, func() (bool, error) {
		count, err := page.Locator(selector).Count()
		if err != nil {
			return false, fmt.Errorf("failed to query %q: %w", selector, err)
		}
		return count > 0, nil
	})
	if err != nil {
		return fmt.Errorf("waiting for %q on %s: %w", selector, page.URL(), err)
	}
	return nil
}
