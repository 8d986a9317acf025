package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/financify/financify/internal/domain"
	"github.com/financify/financify/internal/infrastructure/metrics"
)

// Ledger owns the canonical local copy of one user's transaction collection.
// It subscribes to the remote store and rebuilds its state wholesale on
// every snapshot: the transaction map, the materialized order, the totals,
// the category-suggestion set, and any active filtered view. It performs no
// retry logic of its own; delivery reliability belongs to the store.
type Ledger struct {
	userID  string
	store   RemoteStore
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu          sync.RWMutex
	byID        map[string]domain.Transaction
	order       []string
	totals      domain.Totals
	categories  []string
	criterion   domain.FilterCriterion
	filterValue string
	filtered    []domain.Transaction
	stop        func()
}

// NewLedger creates a synchronizer for userID's namespace. Call Start to
// begin receiving snapshots.
func NewLedger(store RemoteStore, userID string, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		userID:   userID,
		store:    store,
		logger:   logger.With("user_id", userID),
		byID:     make(map[string]domain.Transaction),
		totals:   domain.ZeroTotals(),
		filtered: []domain.Transaction{},
	}
}

// WithMetrics attaches instrumentation. Call before Start.
func (l *Ledger) WithMetrics(m *metrics.Metrics) *Ledger {
	l.metrics = m
	return l
}

// Start subscribes to the remote namespace. The initial snapshot is applied
// before Start returns, per the store's subscribe contract.
func (l *Ledger) Start(ctx context.Context) error {
	stop, err := l.store.Subscribe(ctx, l.userID, l.Apply)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.stop = stop
	l.mu.Unlock()

	l.logger.Info("ledger subscription established")
	return nil
}

// Stop tears down the subscription. The last applied state remains readable.
func (l *Ledger) Stop() {
	l.mu.Lock()
	stop := l.stop
	l.stop = nil
	l.mu.Unlock()

	if stop != nil {
		stop()
		l.logger.Info("ledger subscription stopped")
	}
}

// Apply replaces the local ledger with the snapshot contents and recomputes
// every derived view. An empty snapshot is a valid state, not a failure: it
// resets the ledger, totals, and suggestions to empty.
func (l *Ledger) Apply(snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.byID = make(map[string]domain.Transaction, len(snap))
	l.order = make([]string, 0, len(snap))
	for _, tx := range snap {
		l.byID[tx.ID] = tx
		l.order = append(l.order, tx.ID)
	}

	l.totals = Aggregate(snap)
	l.categories = distinctCategories(snap)
	l.refilterLocked()

	if l.metrics != nil {
		l.metrics.SnapshotsApplied.WithLabelValues(l.userID).Inc()
		l.metrics.LedgerSize.WithLabelValues(l.userID).Set(float64(len(snap)))
	}

	l.logger.Debug("snapshot applied", "transactions", len(snap))
}

// Transactions returns the full ledger in snapshot order.
func (l *Ledger) Transactions() []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.materializeLocked()
}

// Get returns the transaction with the given id from the current ledger.
func (l *Ledger) Get(id string) (domain.Transaction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tx, ok := l.byID[id]
	return tx, ok
}

// Totals returns the income and expense sums over the full ledger,
// independent of any active filter.
func (l *Ledger) Totals() domain.Totals {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totals
}

// Categories returns the distinct category values across the full ledger,
// sorted. It drives autocomplete suggestions.
func (l *Ledger) Categories() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.categories))
	copy(out, l.categories)
	return out
}

// SetFilter activates a criterion and value and recomputes the filtered
// view. Switching criterion discards the previous view; while the value is
// empty an active criterion matches nothing until a value is supplied.
func (l *Ledger) SetFilter(criterion domain.FilterCriterion, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.criterion = criterion
	l.filterValue = value
	l.refilterLocked()
}

// ClearFilter deactivates filtering; the view becomes the full ledger.
func (l *Ledger) ClearFilter() {
	l.SetFilter(domain.FilterNone, "")
}

// Filtered returns the current filtered view. With no active criterion it
// equals the full ledger. The view is recomputed on every snapshot, so it
// never goes stale relative to the ledger.
func (l *Ledger) Filtered() []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Transaction, len(l.filtered))
	copy(out, l.filtered)
	return out
}

// Filter reports the active criterion and value.
func (l *Ledger) Filter() (domain.FilterCriterion, string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.criterion, l.filterValue
}

func (l *Ledger) refilterLocked() {
	txs := l.materializeLocked()
	switch {
	case l.criterion == domain.FilterNone:
		l.filtered = txs
	case l.filterValue == "":
		l.filtered = []domain.Transaction{}
	default:
		l.filtered = ApplyFilter(txs, l.criterion, l.filterValue)
	}
}

func (l *Ledger) materializeLocked() []domain.Transaction {
	out := make([]domain.Transaction, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out
}

func distinctCategories(txs []domain.Transaction) []string {
	seen := make(map[string]struct{}, len(txs))
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		if _, ok := seen[tx.Category]; ok {
			continue
		}
		seen[tx.Category] = struct{}{}
		out = append(out, tx.Category)
	}
	sort.Strings(out)
	return out
}
