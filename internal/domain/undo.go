package domain

import "time"

// UndoKind names the mutation an undo record can reverse.
type UndoKind string

const (
	UndoEdit   UndoKind = "edit"
	UndoDelete UndoKind = "delete"
)

// UndoRecord describes the single pending reversible mutation. At most one
// record is live per user; a new mutation replaces it. Generation identifies
// the record so a stale expiry timer from a replaced record cannot clear its
// successor.
type UndoRecord struct {
	Kind          UndoKind
	TransactionID string
	Prior         Transaction
	Generation    uint64
	ExpiresAt     time.Time
}

// Expired reports whether the record's window has elapsed at now.
func (r UndoRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
