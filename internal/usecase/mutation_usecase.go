package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/financify/financify/internal/domain"
	"github.com/financify/financify/internal/infrastructure/metrics"
)

// DefaultUndoWindow is how long a completed edit or delete stays reversible.
const DefaultUndoWindow = 5000 * time.Millisecond

// Mutation executes edit and delete requests against the remote store and
// keeps a single-slot, time-bounded undo record per user for the most recent
// one. A failed write never installs a record and leaves the ledger at its
// last known-good snapshot.
//
// Concurrent mutations for the same user are not serialized against the
// store; whichever write completes last owns the undo slot. Each record
// carries a generation so the expiry timer of a replaced record cannot clear
// its successor.
type Mutation struct {
	store   RemoteStore
	source  TransactionSource
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu         sync.Mutex
	slots      map[string]*undoSlot
	generation uint64
}

type undoSlot struct {
	record domain.UndoRecord
	timer  *time.Timer
}

// NewMutation creates a mutation controller. A non-positive window falls
// back to DefaultUndoWindow.
func NewMutation(store RemoteStore, source TransactionSource, window time.Duration, logger *slog.Logger) *Mutation {
	if window <= 0 {
		window = DefaultUndoWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mutation{
		store:  store,
		source: source,
		window: window,
		logger: logger,
		now:    time.Now,
		slots:  make(map[string]*undoSlot),
	}
}

// WithMetrics attaches instrumentation.
func (m *Mutation) WithMetrics(mx *metrics.Metrics) *Mutation {
	m.metrics = mx
	return m
}

// Add validates and appends a new transaction, returning the generated id.
// Additions are not undoable; only edit and delete install undo records.
func (m *Mutation) Add(ctx context.Context, userID string, fields domain.TransactionFields) (string, error) {
	if err := domain.ValidateFields(fields); err != nil {
		return "", err
	}

	id, err := m.store.Append(ctx, userID, fields)
	if err != nil {
		m.logger.Error("append failed", "user_id", userID, "error", err)
		return "", err
	}

	m.logger.Info("transaction added", "user_id", userID, "transaction_id", id)
	return id, nil
}

// Edit updates the transaction at id with the given fields. The pre-edit
// state is captured from the current ledger before the write; on success an
// edit undo record replaces any pending one and the expiry timer starts.
func (m *Mutation) Edit(ctx context.Context, userID, id string, fields domain.TransactionFields) error {
	if err := validateEditFields(fields); err != nil {
		return err
	}

	prior, err := m.source.Lookup(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := m.store.Update(ctx, userID, id, fields); err != nil {
		m.logger.Error("edit failed", "user_id", userID, "transaction_id", id, "error", err)
		return err
	}

	m.install(userID, domain.UndoEdit, prior)
	m.logger.Info("transaction edited", "user_id", userID, "transaction_id", id)
	return nil
}

// Delete removes the transaction at id. The full record is captured before
// the write so undo can re-create it at the same id.
func (m *Mutation) Delete(ctx context.Context, userID, id string) error {
	prior, err := m.source.Lookup(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := m.store.Remove(ctx, userID, id); err != nil {
		m.logger.Error("delete failed", "user_id", userID, "transaction_id", id, "error", err)
		return err
	}

	m.install(userID, domain.UndoDelete, prior)
	m.logger.Info("transaction deleted", "user_id", userID, "transaction_id", id)
	return nil
}

// Undo reverses the pending mutation for userID. A delete is undone by
// re-creating the record at its original id, an edit by restoring the prior
// field values. On success the record is cleared immediately; a second undo
// reports ErrNothingToUndo. Past the window it fails with ErrUndoExpired
// even if the expiry timer has not fired yet. A failed undo write leaves the
// record in place so the user can retry within the remaining window.
func (m *Mutation) Undo(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok := m.slots[userID]
	if !ok {
		return domain.ErrNothingToUndo
	}

	if slot.record.Expired(m.now()) {
		m.clearLocked(userID, slot)
		return domain.ErrUndoExpired
	}

	record := slot.record
	if err := m.store.Update(ctx, userID, record.TransactionID, record.Prior.Fields()); err != nil {
		m.logger.Error("undo failed", "user_id", userID,
			"transaction_id", record.TransactionID, "kind", record.Kind, "error", err)
		return err
	}

	m.clearLocked(userID, slot)
	m.logger.Info("mutation undone", "user_id", userID,
		"transaction_id", record.TransactionID, "kind", record.Kind)
	return nil
}

// Pending reports the live undo record for userID, if any. An expired but
// not yet reaped record is reported as absent.
func (m *Mutation) Pending(userID string) (domain.UndoRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok := m.slots[userID]
	if !ok || slot.record.Expired(m.now()) {
		return domain.UndoRecord{}, false
	}
	return slot.record, true
}

// install replaces userID's undo slot with a fresh record and expiry timer.
// The previous timer is stopped; if it already fired, the generation check
// in expire makes it a no-op.
func (m *Mutation) install(userID string, kind domain.UndoKind, prior domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.slots[userID]; ok {
		old.timer.Stop()
	}

	m.generation++
	gen := m.generation
	record := domain.UndoRecord{
		Kind:          kind,
		TransactionID: prior.ID,
		Prior:         prior,
		Generation:    gen,
		ExpiresAt:     m.now().Add(m.window),
	}

	m.slots[userID] = &undoSlot{
		record: record,
		timer:  time.AfterFunc(m.window, func() { m.expire(userID, gen) }),
	}
}

// expire discards the undo record the timer was armed for. Only the current
// record's own timer may clear the slot.
func (m *Mutation) expire(userID string, generation uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok := m.slots[userID]
	if !ok || slot.record.Generation != generation {
		return
	}

	delete(m.slots, userID)
	if m.metrics != nil {
		m.metrics.UndoExpired.Inc()
	}
	m.logger.Info("undo window expired", "user_id", userID,
		"transaction_id", slot.record.TransactionID, "kind", slot.record.Kind)
}

func (m *Mutation) clearLocked(userID string, slot *undoSlot) {
	slot.timer.Stop()
	delete(m.slots, userID)
}

// validateEditFields checks the edit constraints: all three fields present
// and a usable amount. The category length bound applies at entry time only,
// so it is deliberately not rechecked here.
func validateEditFields(f domain.TransactionFields) error {
	if f.Type == "" {
		return domain.ErrMissingType
	}
	if !f.Type.IsValid() {
		return domain.ErrInvalidType
	}
	if f.Amount.IsNegative() {
		return domain.ErrNegativeAmount
	}
	if strings.TrimSpace(f.Category) == "" {
		return domain.ErrMissingCategory
	}
	return nil
}
