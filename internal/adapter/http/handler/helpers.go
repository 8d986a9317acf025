package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/financify/financify/internal/adapter/http/dto"
	"github.com/financify/financify/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNothingToUndo):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUndoExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrMissingType),
		errors.Is(err, domain.ErrInvalidType),
		errors.Is(err, domain.ErrMissingAmount),
		errors.Is(err, domain.ErrUnparsableAmount),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrMissingCategory),
		errors.Is(err, domain.ErrCategoryTooLong),
		errors.Is(err, domain.ErrUnknownFilterCriterion):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
