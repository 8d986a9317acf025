package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxCategoryLength bounds the category field at entry time. Updates arriving
// through the remote store are not revalidated against it.
const MaxCategoryLength = 20

// ParseAmount parses a user-supplied amount string. Missing and unparsable
// values are distinguished so callers can report them separately.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrMissingAmount
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparsableAmount, s)
	}
	if amount.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}

	return amount, nil
}

// ValidateFields checks the entry-side constraints for a new transaction:
// all fields present, a known type, a non-negative amount, and a bounded
// category.
func ValidateFields(f TransactionFields) error {
	if f.Type == "" {
		return ErrMissingType
	}
	if !f.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, f.Type)
	}
	if f.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	category := strings.TrimSpace(f.Category)
	if category == "" {
		return ErrMissingCategory
	}
	if len(category) > MaxCategoryLength {
		return fmt.Errorf("%w: maximum is %d characters", ErrCategoryTooLong, MaxCategoryLength)
	}

	return nil
}
