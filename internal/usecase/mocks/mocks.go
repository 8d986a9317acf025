package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/financify/financify/internal/domain"
	"github.com/financify/financify/internal/usecase"
)

// MemoryRemoteStore is an in-memory implementation of usecase.RemoteStore
// with the same push-based snapshot semantics as the real adapter: every
// successful write re-delivers the full ordered collection to subscribers.
// Individual operations can be overridden via the Func fields.
type MemoryRemoteStore struct {
	mu      sync.Mutex
	records map[string]map[string]domain.Transaction
	subs    map[string]map[int]func(usecase.Snapshot)
	nextSub int
	nextID  int

	SubscribeFunc func(ctx context.Context, userID string, deliver func(usecase.Snapshot)) (func(), error)
	AppendFunc    func(ctx context.Context, userID string, fields domain.TransactionFields) (string, error)
	UpdateFunc    func(ctx context.Context, userID, id string, fields domain.TransactionFields) error
	RemoveFunc    func(ctx context.Context, userID, id string) error
}

func NewMemoryRemoteStore() *MemoryRemoteStore {
	return &MemoryRemoteStore{
		records: make(map[string]map[string]domain.Transaction),
		subs:    make(map[string]map[int]func(usecase.Snapshot)),
	}
}

func (s *MemoryRemoteStore) Subscribe(ctx context.Context, userID string, deliver func(usecase.Snapshot)) (func(), error) {
	if s.SubscribeFunc != nil {
		return s.SubscribeFunc(ctx, userID, deliver)
	}

	s.mu.Lock()
	if s.subs[userID] == nil {
		s.subs[userID] = make(map[int]func(usecase.Snapshot))
	}
	token := s.nextSub
	s.nextSub++
	s.subs[userID][token] = deliver
	snap := s.snapshotLocked(userID)
	s.mu.Unlock()

	deliver(snap)

	return func() {
		s.mu.Lock()
		delete(s.subs[userID], token)
		s.mu.Unlock()
	}, nil
}

func (s *MemoryRemoteStore) Append(ctx context.Context, userID string, fields domain.TransactionFields) (string, error) {
	if s.AppendFunc != nil {
		return s.AppendFunc(ctx, userID, fields)
	}

	s.mu.Lock()
	s.nextID++
	id := fmt.Sprintf("tx-%06d", s.nextID)
	s.setLocked(userID, id, fields)
	s.mu.Unlock()

	s.notify(userID)
	return id, nil
}

func (s *MemoryRemoteStore) Update(ctx context.Context, userID, id string, fields domain.TransactionFields) error {
	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, userID, id, fields)
	}

	s.mu.Lock()
	s.setLocked(userID, id, fields)
	s.mu.Unlock()

	s.notify(userID)
	return nil
}

func (s *MemoryRemoteStore) Remove(ctx context.Context, userID, id string) error {
	if s.RemoveFunc != nil {
		return s.RemoveFunc(ctx, userID, id)
	}

	s.mu.Lock()
	delete(s.records[userID], id)
	s.mu.Unlock()

	s.notify(userID)
	return nil
}

// Seed stores a record directly without notifying subscribers.
func (s *MemoryRemoteStore) Seed(userID string, tx domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(userID, tx.ID, tx.Fields())
}

// Notify redelivers the current snapshot to userID's subscribers.
func (s *MemoryRemoteStore) Notify(userID string) {
	s.notify(userID)
}

func (s *MemoryRemoteStore) setLocked(userID, id string, fields domain.TransactionFields) {
	if s.records[userID] == nil {
		s.records[userID] = make(map[string]domain.Transaction)
	}
	s.records[userID][id] = domain.Transaction{
		ID:       id,
		Type:     fields.Type,
		Amount:   fields.Amount,
		Category: fields.Category,
	}
}

func (s *MemoryRemoteStore) snapshotLocked(userID string) usecase.Snapshot {
	ids := make([]string, 0, len(s.records[userID]))
	for id := range s.records[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	snap := make(usecase.Snapshot, 0, len(ids))
	for _, id := range ids {
		snap = append(snap, s.records[userID][id])
	}
	return snap
}

func (s *MemoryRemoteStore) notify(userID string) {
	s.mu.Lock()
	snap := s.snapshotLocked(userID)
	delivers := make([]func(usecase.Snapshot), 0, len(s.subs[userID]))
	for _, deliver := range s.subs[userID] {
		delivers = append(delivers, deliver)
	}
	s.mu.Unlock()

	for _, deliver := range delivers {
		deliver(snap)
	}
}

// StaticSource is a usecase.TransactionSource backed by a fixed map.
type StaticSource struct {
	mu  sync.RWMutex
	txs map[string]domain.Transaction

	LookupFunc func(ctx context.Context, userID, id string) (domain.Transaction, error)
}

func NewStaticSource(txs ...domain.Transaction) *StaticSource {
	byID := make(map[string]domain.Transaction, len(txs))
	for _, tx := range txs {
		byID[tx.ID] = tx
	}
	return &StaticSource{txs: byID}
}

func (s *StaticSource) Lookup(ctx context.Context, userID, id string) (domain.Transaction, error) {
	if s.LookupFunc != nil {
		return s.LookupFunc(ctx, userID, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.txs[id]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}
	return tx, nil
}

// Set updates a record in the source.
func (s *StaticSource) Set(tx domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[tx.ID] = tx
}
