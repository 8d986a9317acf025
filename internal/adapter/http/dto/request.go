package dto

import (
	"github.com/financify/financify/internal/domain"
)

// TransactionRequest carries the user-supplied fields for creating or
// editing a transaction. The amount arrives as a string, exactly as typed;
// parsing it is part of validation.
type TransactionRequest struct {
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
}

// ToFields parses the request into domain fields. An unparsable or negative
// amount is rejected here, before any write is attempted.
func (r *TransactionRequest) ToFields() (domain.TransactionFields, error) {
	amount, err := domain.ParseAmount(r.Amount)
	if err != nil {
		return domain.TransactionFields{}, err
	}

	return domain.TransactionFields{
		Type:     domain.TransactionType(r.Type),
		Amount:   amount,
		Category: r.Category,
	}, nil
}
