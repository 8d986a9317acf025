package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/financify/financify/internal/domain"
	"github.com/financify/financify/internal/infrastructure/metrics"
)

// Registry tracks one Ledger per authenticated user. Sessions open lazily on
// first access and are torn down on sign-out; a uid change simply resolves
// to a different session, so re-subscription falls out of the keying.
type Registry struct {
	store   RemoteStore
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	ledgers map[string]*Ledger
}

// NewRegistry creates an empty session registry over the given store.
func NewRegistry(store RemoteStore, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:   store,
		logger:  logger,
		ledgers: make(map[string]*Ledger),
	}
}

// WithMetrics attaches instrumentation, propagated to each opened ledger.
func (r *Registry) WithMetrics(m *metrics.Metrics) *Registry {
	r.metrics = m
	return r
}

// Ledger returns the synchronizer for userID, subscribing it on first use.
func (r *Registry) Ledger(ctx context.Context, userID string) (*Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.ledgers[userID]; ok {
		return l, nil
	}

	l := NewLedger(r.store, userID, r.logger).WithMetrics(r.metrics)
	if err := l.Start(ctx); err != nil {
		return nil, err
	}
	r.ledgers[userID] = l

	return l, nil
}

// Lookup resolves a transaction from userID's current ledger. It implements
// TransactionSource for the mutation controller.
func (r *Registry) Lookup(ctx context.Context, userID, id string) (domain.Transaction, error) {
	l, err := r.Ledger(ctx, userID)
	if err != nil {
		return domain.Transaction{}, err
	}

	tx, ok := l.Get(id)
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}
	return tx, nil
}

// Close tears down userID's session, if open.
func (r *Registry) Close(userID string) {
	r.mu.Lock()
	l, ok := r.ledgers[userID]
	delete(r.ledgers, userID)
	r.mu.Unlock()

	if ok {
		l.Stop()
	}
}

// CloseAll tears down every open session. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ledgers := r.ledgers
	r.ledgers = make(map[string]*Ledger)
	r.mu.Unlock()

	for _, l := range ledgers {
		l.Stop()
	}
}
