// Package inventory drives the Zen Arbitrage marketplace: sign-in, the
// paginated listings table and its editable rows.
package inventory

import (
	"fmt"

	"github.com/maltedev/fba-price-sync/internal/parser"
)

const (
	DefaultSignInURL   = "https://account.zenarbitrage.com/sign-in"
	DefaultListingsURL = "https://marketplace.zenarbitrage.com/listings"
)

// Sign-in form.
const (
	signInFormSelector = ".greet-box"
	emailSelector      = "#user_email"
	passwordSelector   = "#user_password"
	submitSelector     = ".btn-success"
	signInErrSelector  = ".error-message"
	accountMenuSel     = ".navbar .dropdown"
	signOutSelector    = `a:has-text("Sign Out")`
)

// Listings table.
const (
	tableSelector       = "#products-table"
	rowSelector         = "#products-table tr"
	productLinkSelector = ".an-amazon-link[href]"
	editSaveSelector    = ".edit_save_btn"
	fbaPriceSelector    = "[data-field=fba_price] input"
	secondarySelector   = "[data-field=secondary_fba_price] input"
	conditionSelector   = "[data-field=condition] select"
	paginationSelector  = ".pagination"
)

type Credentials struct {
	Email    string
	Password string
}

type Options struct {
	SignInURL   string
	ListingsURL string
	Offers      parser.Selectors
}

func DefaultOptions() Options {
	return Options{
		SignInURL:   DefaultSignInURL,
		ListingsURL: DefaultListingsURL,
		Offers:      parser.DefaultSelectors(),
	}
}

// AuthError means the sign-in form was submitted but the session was refused.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "login failed"
	}
	return fmt.Sprintf("login failed: %s", e.Reason)
}
