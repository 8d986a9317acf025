package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/financify/financify/internal/adapter/http/dto"
	"github.com/financify/financify/internal/adapter/http/middleware"
	"github.com/financify/financify/internal/domain"
	"github.com/financify/financify/internal/infrastructure/metrics"
	"github.com/financify/financify/internal/usecase"
)

// LedgerService provides per-user synchronized ledgers.
type LedgerService interface {
	Ledger(ctx context.Context, userID string) (*usecase.Ledger, error)
}

// MutationService executes writes and manages the undo slot.
type MutationService interface {
	Add(ctx context.Context, userID string, fields domain.TransactionFields) (string, error)
	Edit(ctx context.Context, userID, id string, fields domain.TransactionFields) error
	Delete(ctx context.Context, userID, id string) error
	Undo(ctx context.Context, userID string) error
	Pending(userID string) (domain.UndoRecord, bool)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	ledgers   LedgerService
	mutations MutationService
	metrics   *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgers LedgerService, mutations MutationService, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{ledgers: ledgers, mutations: mutations, metrics: m}
}

// List returns the user's ledger. With filter/value query parameters it
// activates that filter and returns the filtered view; without them any
// active filter is cleared and the full ledger is returned.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	ledger, err := h.ledgers.Ledger(r.Context(), user.UID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to open ledger", err.Error())
		return
	}

	query := r.URL.Query()
	criterion, err := domain.ParseFilterCriterion(query.Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}
	value := query.Get("value")

	if criterion == domain.FilterNone {
		ledger.ClearFilter()
	} else {
		ledger.SetFilter(criterion, value)
	}

	txs := ledger.Filtered()
	resp := dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txs),
		Total:        len(txs),
		Filter:       string(criterion),
		FilterValue:  value,
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	fields, err := req.ToFields()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid transaction", err.Error())
		return
	}

	id, err := h.mutations.Add(r.Context(), user.UID, fields)
	if err != nil {
		h.metrics.Mutations.WithLabelValues("add", "failure").Inc()
		writeError(w, mapDomainError(err), "failed to add transaction", err.Error())
		return
	}
	h.metrics.Mutations.WithLabelValues("add", "success").Inc()

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(domain.Transaction{
		ID:       id,
		Type:     fields.Type,
		Amount:   fields.Amount,
		Category: fields.Category,
	}))
}

// Update edits the transaction at id. On success the previous field values
// stay reversible until the undo window closes.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	fields, err := req.ToFields()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid transaction", err.Error())
		return
	}

	if err := h.mutations.Edit(r.Context(), user.UID, id, fields); err != nil {
		h.metrics.Mutations.WithLabelValues("edit", "failure").Inc()
		writeError(w, mapDomainError(err), "failed to edit transaction", err.Error())
		return
	}
	h.metrics.Mutations.WithLabelValues("edit", "success").Inc()
	h.metrics.UndoInstalled.Inc()

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(domain.Transaction{
		ID:       id,
		Type:     fields.Type,
		Amount:   fields.Amount,
		Category: fields.Category,
	}))
}

// Delete removes the transaction at id and reports the pending undo record.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	if err := h.mutations.Delete(r.Context(), user.UID, id); err != nil {
		h.metrics.Mutations.WithLabelValues("delete", "failure").Inc()
		writeError(w, mapDomainError(err), "failed to delete transaction", err.Error())
		return
	}
	h.metrics.Mutations.WithLabelValues("delete", "success").Inc()
	h.metrics.UndoInstalled.Inc()

	if record, ok := h.mutations.Pending(user.UID); ok {
		writeJSON(w, http.StatusOK, dto.UndoFromDomain(record))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Undo reverses the most recent edit or delete, if still inside the window.
func (h *TransactionHandler) Undo(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	if err := h.mutations.Undo(r.Context(), user.UID); err != nil {
		writeError(w, mapDomainError(err), "failed to undo", err.Error())
		return
	}
	h.metrics.UndoInvoked.Inc()

	writeJSON(w, http.StatusOK, map[string]string{"status": "undone"})
}

// PendingUndo reports the live undo record, if any.
func (h *TransactionHandler) PendingUndo(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	record, ok := h.mutations.Pending(user.UID)
	if !ok {
		writeError(w, http.StatusNotFound, "nothing to undo", "")
		return
	}
	writeJSON(w, http.StatusOK, dto.UndoFromDomain(record))
}

// Summary returns the full-ledger income and expense totals, independent of
// any active filter.
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	ledger, err := h.ledgers.Ledger(r.Context(), user.UID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to open ledger", err.Error())
		return
	}

	totals := ledger.Totals()
	writeJSON(w, http.StatusOK, dto.SummaryResponse{
		TotalIncome:  totals.Income,
		TotalExpense: totals.Expense,
	})
}

// Categories returns the distinct category suggestions for autocomplete.
func (h *TransactionHandler) Categories(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	ledger, err := h.ledgers.Ledger(r.Context(), user.UID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to open ledger", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoriesResponse{Categories: ledger.Categories()})
}
