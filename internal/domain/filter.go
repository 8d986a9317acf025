package domain

import "fmt"

// FilterCriterion selects which transaction field a filter value is matched
// against. Only one criterion is active at a time.
type FilterCriterion string

const (
	FilterNone     FilterCriterion = ""
	FilterAmount   FilterCriterion = "amount"
	FilterCategory FilterCriterion = "category"
)

// ParseFilterCriterion parses a criterion from its wire form. The empty
// string means no filter.
func ParseFilterCriterion(s string) (FilterCriterion, error) {
	switch FilterCriterion(s) {
	case FilterNone, FilterAmount, FilterCategory:
		return FilterCriterion(s), nil
	default:
		return FilterNone, fmt.Errorf("%w: %q", ErrUnknownFilterCriterion, s)
	}
}
