package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/financify/financify/internal/domain"
)

// stubStore is a minimal RemoteStore for exercising the mutation controller
// in isolation. The gomock and in-memory mocks live in usecase/mocks, which
// this package cannot import.
type stubStore struct {
	appendErr error
	updateErr error
	removeErr error

	appends []domain.TransactionFields
	updates []stubUpdate
	removes []string
}

type stubUpdate struct {
	id     string
	fields domain.TransactionFields
}

func (s *stubStore) Subscribe(ctx context.Context, userID string, deliver func(Snapshot)) (func(), error) {
	deliver(nil)
	return func() {}, nil
}

func (s *stubStore) Append(ctx context.Context, userID string, fields domain.TransactionFields) (string, error) {
	if s.appendErr != nil {
		return "", s.appendErr
	}
	s.appends = append(s.appends, fields)
	return "tx-new", nil
}

func (s *stubStore) Update(ctx context.Context, userID, id string, fields domain.TransactionFields) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = append(s.updates, stubUpdate{id: id, fields: fields})
	return nil
}

func (s *stubStore) Remove(ctx context.Context, userID, id string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removes = append(s.removes, id)
	return nil
}

type stubSource struct {
	txs map[string]domain.Transaction
}

func (s *stubSource) Lookup(ctx context.Context, userID, id string) (domain.Transaction, error) {
	tx, ok := s.txs[id]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}
	return tx, nil
}

func priorTransaction() domain.Transaction {
	return domain.Transaction{
		ID:       "tx-1",
		Type:     domain.TypeExpense,
		Amount:   decimal.NewFromInt(40),
		Category: "food",
	}
}

func editedFields() domain.TransactionFields {
	return domain.TransactionFields{
		Type:     domain.TypeExpense,
		Amount:   decimal.NewFromInt(45),
		Category: "groceries",
	}
}

func newTestMutation(store *stubStore) *Mutation {
	source := &stubSource{txs: map[string]domain.Transaction{"tx-1": priorTransaction()}}
	return NewMutation(store, source, time.Minute, nil)
}

func TestMutationAddValidates(t *testing.T) {
	store := &stubStore{}
	m := newTestMutation(store)

	tests := []struct {
		name    string
		fields  domain.TransactionFields
		wantErr error
	}{
		{
			name:    "missing type",
			fields:  domain.TransactionFields{Amount: decimal.NewFromInt(1), Category: "food"},
			wantErr: domain.ErrMissingType,
		},
		{
			name:    "missing category",
			fields:  domain.TransactionFields{Type: domain.TypeIncome, Amount: decimal.NewFromInt(1)},
			wantErr: domain.ErrMissingCategory,
		},
		{
			name: "category too long",
			fields: domain.TransactionFields{
				Type: domain.TypeIncome, Amount: decimal.NewFromInt(1),
				Category: "extremely long category name",
			},
			wantErr: domain.ErrCategoryTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Add(context.Background(), "u1", tt.fields)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if len(store.appends) != 0 {
		t.Errorf("expected no writes for rejected input, got %d", len(store.appends))
	}
}

func TestMutationAdd(t *testing.T) {
	store := &stubStore{}
	m := newTestMutation(store)

	id, err := m.Add(context.Background(), "u1", domain.TransactionFields{
		Type: domain.TypeIncome, Amount: decimal.NewFromInt(100), Category: "salary",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "tx-new" {
		t.Errorf("expected generated id, got %q", id)
	}

	// Additions are not undoable.
	if _, ok := m.Pending("u1"); ok {
		t.Error("expected no undo record after add")
	}
}

func TestMutationEditInstallsUndoRecord(t *testing.T) {
	store := &stubStore{}
	m := newTestMutation(store)

	if err := m.Edit(context.Background(), "u1", "tx-1", editedFields()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record, ok := m.Pending("u1")
	if !ok {
		t.Fatal("expected a pending undo record")
	}
	if record.Kind != domain.UndoEdit {
		t.Errorf("expected edit record, got %s", record.Kind)
	}
	if record.TransactionID != "tx-1" {
		t.Errorf("expected tx-1, got %s", record.TransactionID)
	}
	// Prior state is the pre-edit snapshot, not the new fields.
	if record.Prior.Category != "food" || record.Prior.Amount.String() != "40" {
		t.Errorf("unexpected prior state: %+v", record.Prior)
	}
}

func TestMutationEditUnknownTransaction(t *testing.T) {
	store := &stubStore{}
	m := newTestMutation(store)

	err := m.Edit(context.Background(), "u1", "missing", editedFields())
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if len(store.updates) != 0 {
		t.Error("expected no write for unknown transaction")
	}
}

func TestMutationFailedWriteInstallsNoRecord(t *testing.T) {
	writeErr := errors.New("permission denied")
	store := &stubStore{updateErr: writeErr, removeErr: writeErr}
	m := newTestMutation(store)

	if err := m.Edit(context.Background(), "u1", "tx-1", editedFields()); !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}
	if err := m.Delete(context.Background(), "u1", "tx-1"); !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}

	if _, ok := m.Pending("u1"); ok {
		t.Error("expected no undo record after failed writes")
	}
}

func TestMutationUndoDeleteRestoresAtSameID(t *testing.T) {
	store := &stubStore{}
	m := newTestMutation(store)

	if err := m.Delete(context.Background(), "u1", "tx-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.removes) != 1 || store.removes[0] != "tx-1" {
		t.Fatalf("unexpected removes: %v", store.removes)
	}

	if err := m.Undo(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Undoing a delete is an update-by-id, not a re-append.
	if len(store.appends) != 0 {
		t.Error("expected no append during undo")
	}
	if len(store.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(store.updates))
	}
	up := store.updates[0]
	if up.id != "tx-1" {
		t.Errorf("expected restore at tx-1, got %s", up.id)
	}
	if up.fields.Category != "food" || up.fields.Amount.String() != "40" || up.fields.Type != domain.TypeExpense {
		t.Errorf("unexpected restored fields: %+v", up.fields)
	}
}

func TestMutationUndoIsSingleShot(t *testing.T) {
	store := &stubStore{}
	m := newTestMutation(store)

	if err := m.Edit(context.Background(), "u1", "tx-1", editedFields()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Undo(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.Undo(context.Background(), "u1"); !errors.Is(err, domain.ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestMutationUndoWithoutMutation(t *testing.T) {
	m := newTestMutation(&stubStore{})

	if err := m.Undo(context.Background(), "u1"); !errors.Is(err, domain.ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestMutationUndoExpiryBoundary(t *testing.T) {
	store := &stubStore{}
	m := newTestMutation(store)

	base := time.Now()
	m.now = func() time.Time { return base }

	if err := m.Edit(context.Background(), "u1", "tx-1", editedFields()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Exactly at the window boundary the undo is already expired.
	m.now = func() time.Time { return base.Add(m.window) }
	if err := m.Undo(context.Background(), "u1"); !errors.Is(err, domain.ErrUndoExpired) {
		t.Fatalf("expected ErrUndoExpired at the boundary, got %v", err)
	}

	// The expired record is gone, not retryable.
	if err := m.Undo(context.Background(), "u1"); !errors.Is(err, domain.ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo after expiry, got %v", err)
	}
}

func TestMutationUndoJustBeforeExpiry(t *testing.T) {
	store := &stubStore{}
	m := newTestMutation(store)

	base := time.Now()
	m.now = func() time.Time { return base }

	if err := m.Edit(context.Background(), "u1", "tx-1", editedFields()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.now = func() time.Time { return base.Add(m.window - time.Millisecond) }
	if err := m.Undo(context.Background(), "u1"); err != nil {
		t.Fatalf("expected undo inside the window to succeed, got %v", err)
	}
}

func TestMutationFailedUndoKeepsRecordForRetry(t *testing.T) {
	store := &stubStore{}
	m := newTestMutation(store)

	if err := m.Edit(context.Background(), "u1", "tx-1", editedFields()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	writeErr := errors.New("temporarily unavailable")
	store.updateErr = writeErr
	if err := m.Undo(context.Background(), "u1"); !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}

	if _, ok := m.Pending("u1"); !ok {
		t.Fatal("expected record to survive a failed undo")
	}

	store.updateErr = nil
	if err := m.Undo(context.Background(), "u1"); err != nil {
		t.Fatalf("expected retried undo to succeed, got %v", err)
	}
}

func TestMutationNewMutationReplacesRecord(t *testing.T) {
	store := &stubStore{}
	m := newTestMutation(store)

	if err := m.Delete(context.Background(), "u1", "tx-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Edit(context.Background(), "u1", "tx-1", editedFields()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record, ok := m.Pending("u1")
	if !ok {
		t.Fatal("expected a pending undo record")
	}
	if record.Kind != domain.UndoEdit {
		t.Errorf("expected the replacement edit record, got %s", record.Kind)
	}
}

func TestMutationStaleTimerCannotClearSuccessor(t *testing.T) {
	store := &stubStore{}
	m := newTestMutation(store)

	if err := m.Delete(context.Background(), "u1", "tx-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, ok := m.Pending("u1")
	if !ok {
		t.Fatal("expected a pending undo record")
	}

	if err := m.Edit(context.Background(), "u1", "tx-1", editedFields()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Fire the replaced record's expiry by hand; latest wins, so the new
	// record must survive.
	m.expire("u1", first.Generation)

	record, ok := m.Pending("u1")
	if !ok {
		t.Fatal("expected the replacement record to survive the stale timer")
	}
	if record.Generation == first.Generation {
		t.Error("expected a fresh generation for the replacement record")
	}
}

func TestMutationTimerExpiryClearsSlot(t *testing.T) {
	store := &stubStore{}
	source := &stubSource{txs: map[string]domain.Transaction{"tx-1": priorTransaction()}}
	m := NewMutation(store, source, 20*time.Millisecond, nil)

	if err := m.Delete(context.Background(), "u1", "tx-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		if _, ok := m.Pending("u1"); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected the expiry timer to clear the undo record")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := m.Undo(context.Background(), "u1"); !errors.Is(err, domain.ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo after expiry, got %v", err)
	}
}

func TestMutationSlotsArePerUser(t *testing.T) {
	store := &stubStore{}
	m := newTestMutation(store)

	if err := m.Delete(context.Background(), "u1", "tx-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := m.Pending("u2"); ok {
		t.Error("expected u2 to have no undo record")
	}
	if err := m.Undo(context.Background(), "u2"); !errors.Is(err, domain.ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo for u2, got %v", err)
	}
}
