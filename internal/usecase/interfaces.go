package usecase

import (
	"context"

	"github.com/financify/financify/internal/domain"
)

// Snapshot is a complete point-in-time view of one user's transaction
// collection, in remote storage order. Each delivery supersedes all prior
// ones; the local ledger is rebuilt from it wholesale, never patched.
type Snapshot []domain.Transaction

// RemoteStore defines the remote key-value store the ledger is synchronized
// against. All operations are scoped to a per-user namespace. Transient
// connectivity handling (retry, backoff) is the implementation's
// responsibility, not the caller's.
type RemoteStore interface {
	// Subscribe registers deliver for snapshot delivery on userID's
	// namespace. The current state is delivered immediately, then again
	// after every observed change, until the returned stop function is
	// called. ctx covers subscription setup only.
	Subscribe(ctx context.Context, userID string, deliver func(Snapshot)) (stop func(), err error)

	// Append stores a new record under a generated id and returns the id.
	Append(ctx context.Context, userID string, fields domain.TransactionFields) (string, error)

	// Update replaces the fields of the record at id. Updating a missing id
	// creates the record, which is how an undone delete is restored in
	// place.
	Update(ctx context.Context, userID, id string, fields domain.TransactionFields) error

	// Remove deletes the record at id.
	Remove(ctx context.Context, userID, id string) error
}

// TransactionSource resolves a transaction from the current local ledger.
// The mutation controller uses it to capture prior state before a write.
type TransactionSource interface {
	Lookup(ctx context.Context, userID, id string) (domain.Transaction, error)
}
