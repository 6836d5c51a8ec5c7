package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/maltedev/fba-price-sync/internal/condition"
)

// OfferRecord is one fulfilled-by-Amazon offer as shown on the offer-listing page.
type OfferRecord struct {
	Price     string `json:"price"`
	Condition string `json:"condition"`
}

// FieldValues are the values written into one inventory row's edit form.
type FieldValues struct {
	FBAPrice          string          `json:"fba_price"`
	SecondaryFBAPrice string          `json:"secondary_fba_price"`
	Condition         condition.Index `json:"condition"`
}

// RunStats summarizes one traversal of the listings table.
type RunStats struct {
	RunID          string     `json:"run_id"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	Pages          int        `json:"pages"`
	RowsUpdated    int        `json:"rows_updated"`
	RowsWithOffers int        `json:"rows_with_offers"`
	RowsNoOffers   int        `json:"rows_no_offers"`
	Error          string     `json:"error,omitempty"`
}

func NewRunStats() *RunStats {
	return &RunStats{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
}

// Finish stamps the end time and records err, if any.
func (s *RunStats) Finish(err error) {
	now := time.Now()
	s.FinishedAt = &now
	if err != nil {
		s.Error = err.Error()
	}
}

func (s *RunStats) Duration() time.Duration {
	if s.FinishedAt == nil {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
