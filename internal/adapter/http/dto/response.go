package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/financify/financify/internal/domain"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:       tx.ID,
		Type:     string(tx.Type),
		Amount:   tx.Amount,
		Category: tx.Category,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = TransactionFromDomain(tx)
	}
	return out
}

// ListTransactionsResponse is the transaction listing, possibly filtered.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
	Filter       string                `json:"filter,omitempty"`
	FilterValue  string                `json:"filter_value,omitempty"`
}

// SummaryResponse carries the full-ledger totals.
type SummaryResponse struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
}

// CategoriesResponse lists the distinct category suggestions.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// UndoResponse describes the pending undo record.
type UndoResponse struct {
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transaction_id"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// UndoFromDomain converts a domain undo record to a response.
func UndoFromDomain(record domain.UndoRecord) UndoResponse {
	return UndoResponse{
		Kind:          string(record.Kind),
		TransactionID: record.TransactionID,
		ExpiresAt:     record.ExpiresAt,
	}
}

// ErrorResponse is the error envelope for all failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
