package usecase

import (
	"github.com/financify/financify/internal/domain"
)

// Aggregate derives income and expense totals from a full ledger. It always
// operates on the unfiltered ledger and recomputes from scratch; the O(n)
// cost per snapshot is accepted in exchange for totals that can never drift
// from the ledger contents.
func Aggregate(txs []domain.Transaction) domain.Totals {
	totals := domain.ZeroTotals()
	for _, tx := range txs {
		switch tx.Type {
		case domain.TypeIncome:
			totals.Income = totals.Income.Add(tx.Amount)
		case domain.TypeExpense:
			totals.Expense = totals.Expense.Add(tx.Amount)
		}
	}
	return totals
}
