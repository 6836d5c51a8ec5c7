package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors locate the parts of an Amazon offer-listing page.
type Selectors struct {
	OfferList       string
	OfferRow        string
	FulfilledBadge  string
	PriceColumn     string
	ConditionColumn string
}

func DefaultSelectors() Selectors {
	return Selectors{
		OfferList:       "#olpOfferList",
		OfferRow:        ".olpOffer",
		FulfilledBadge:  ".a-icon-prime",
		PriceColumn:     ".olpPriceColumn",
		ConditionColumn: ".olpConditionColumn",
	}
}

// HTMLSource reads offer rows from a saved offer-listing page.
type HTMLSource struct {
	url       string
	doc       *goquery.Document
	selectors Selectors
}

func NewHTMLSource(url, html string, selectors Selectors) (*HTMLSource, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return &HTMLSource{
		url:       url,
		doc:       doc,
		selectors: selectors,
	}, nil
}

func (s *HTMLSource) URL() string {
	return s.url
}

func (s *HTMLSource) OfferRows() ([]OfferRow, error) {
	list := s.doc.Find(s.selectors.OfferList)
	if list.Length() == 0 {
		return nil, NewExtractionError(s.url, fmt.Sprintf("offer list %q not found", s.selectors.OfferList))
	}

	var rows []OfferRow
	list.Find(s.selectors.OfferRow).Each(func(i int, sel *goquery.Selection) {
		rows = append(rows, OfferRow{
			Fulfilled:     sel.Find(s.selectors.FulfilledBadge).Length() > 0,
			PriceText:     InnerText(sel.Find(s.selectors.PriceColumn).First()),
			ConditionText: InnerText(sel.Find(s.selectors.ConditionColumn).First()),
		})
	})

	return rows, nil
}
