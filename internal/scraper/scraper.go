// Package scraper opens Amazon offer-listing pages in the shared browser
// context and exposes their offer rows to the extractor.
package scraper

import (
	"errors"
)

var (
	ErrBlocked = errors.New("blocked by Amazon anti-bot")
)
