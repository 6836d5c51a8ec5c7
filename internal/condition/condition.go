package condition

import (
	"fmt"
	"strings"
)

// Index is the position of a condition in the inventory form's condition selector.
type Index int

const (
	New Index = iota
	UsedLikeNew
	UsedVeryGood
	UsedGood
	UsedAcceptable
)

// Lowest is written when a product has no competitive offer.
const Lowest = UsedAcceptable

var labels = []string{
	"New",
	"Used - Like New",
	"Used - Very Good",
	"Used - Good",
	"Used - Acceptable",
}

// UnrecognizedError is returned for a label outside the fixed condition set.
type UnrecognizedError struct {
	Label string
	Valid []string
}

func (e *UnrecognizedError) Error() string {
	return fmt.Sprintf("condition not recognized: %q, should be one of [%s]",
		e.Label, strings.Join(e.Valid, ", "))
}

// Labels returns the valid labels in index order.
func Labels() []string {
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// MapToIndex returns the selector index for an offer-page condition label.
// Matching is exact.
func MapToIndex(label string) (Index, error) {
	for i, l := range labels {
		if l == label {
			return Index(i), nil
		}
	}
	return 0, &UnrecognizedError{Label: label, Valid: Labels()}
}

func (i Index) String() string {
	if i < 0 || int(i) >= len(labels) {
		return fmt.Sprintf("Index(%d)", int(i))
	}
	return labels[i]
}
