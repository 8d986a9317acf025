package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/financify/financify/internal/domain"
)

// ApplyFilter returns the ordered subset of txs matching the criterion and
// value. Amount filtering parses value as a decimal and matches exactly, no
// tolerance; an unparsable value matches nothing rather than erroring.
// Category filtering is exact and case-sensitive. FilterNone returns the
// full input.
func ApplyFilter(txs []domain.Transaction, criterion domain.FilterCriterion, value string) []domain.Transaction {
	switch criterion {
	case domain.FilterAmount:
		return filterByAmount(txs, value)
	case domain.FilterCategory:
		return filterByCategory(txs, value)
	default:
		out := make([]domain.Transaction, len(txs))
		copy(out, txs)
		return out
	}
}

func filterByAmount(txs []domain.Transaction, value string) []domain.Transaction {
	out := []domain.Transaction{}

	want, err := decimal.NewFromString(value)
	if err != nil {
		return out
	}

	for _, tx := range txs {
		if tx.Amount.Equal(want) {
			out = append(out, tx)
		}
	}
	return out
}

func filterByCategory(txs []domain.Transaction, value string) []domain.Transaction {
	out := []domain.Transaction{}
	for _, tx := range txs {
		if tx.Category == value {
			out = append(out, tx)
		}
	}
	return out
}
