package domain

import (
	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction as money in or money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// IsValid reports whether the type is one of the known values.
func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single ledger record. The ID is assigned by the remote
// store on creation and never changes afterwards.
type Transaction struct {
	ID       string
	Type     TransactionType
	Amount   decimal.Decimal
	Category string
}

// Fields returns the writable subset of the transaction, as sent to the
// remote store on append and update.
func (t Transaction) Fields() TransactionFields {
	return TransactionFields{
		Type:     t.Type,
		Amount:   t.Amount,
		Category: t.Category,
	}
}

// TransactionFields carries the user-editable fields of a transaction.
type TransactionFields struct {
	Type     TransactionType `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

// Totals holds the income and expense sums derived from a full ledger.
// They are recomputed wholesale on every snapshot, never patched.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// ZeroTotals returns totals for an empty ledger.
func ZeroTotals() Totals {
	return Totals{Income: decimal.Zero, Expense: decimal.Zero}
}
