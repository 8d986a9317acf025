package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"log/slog"

	redislib "github.com/redis/go-redis/v9"

	"github.com/financify/financify/internal/domain"
	"github.com/financify/financify/internal/usecase"
)

// Store implements usecase.RemoteStore on Redis. Each user's collection
// lives in one hash keyed transactions:{uid}, one field per record id.
// Every successful write publishes on transactions:{uid}:changed;
// subscribers react by re-reading the full hash and delivering a complete
// ordered snapshot, so deliveries always supersede prior state.
type Store struct {
	client  *redislib.Client
	idGen   *ULIDGenerator
	retrier *Retrier
	logger  *slog.Logger
}

// NewStore creates a remote store over the given Redis client.
func NewStore(client *redislib.Client, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client:  client,
		idGen:   NewULIDGenerator(),
		retrier: NewRetrier(),
		logger:  logger,
	}
}

func hashKey(userID string) string {
	return "transactions:" + userID
}

func channel(userID string) string {
	return "transactions:" + userID + ":changed"
}

// record is the stored wire form of a transaction's fields.
type record struct {
	Type     domain.TransactionType `json:"type"`
	Amount   string                 `json:"amount"`
	Category string                 `json:"category"`
}

// Subscribe delivers the current snapshot immediately, then again after
// every published change, until stop is called. ctx covers setup only; the
// delivery goroutine lives until stop.
func (s *Store) Subscribe(ctx context.Context, userID string, deliver func(usecase.Snapshot)) (func(), error) {
	pubsub := s.client.Subscribe(ctx, channel(userID))

	// Force the SUBSCRIBE round trip so setup errors surface here.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel(userID), err)
	}

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		pubsub.Close()
		return nil, err
	}
	deliver(snap)

	streamCtx, cancel := context.WithCancel(context.Background())
	go s.stream(streamCtx, pubsub, userID, deliver)

	stop := func() {
		cancel()
		pubsub.Close()
	}
	return stop, nil
}

func (s *Store) stream(ctx context.Context, pubsub *redislib.PubSub, userID string, deliver func(usecase.Snapshot)) {
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			snap, err := s.snapshot(ctx, userID)
			if err != nil {
				s.logger.Error("snapshot read failed", "user_id", userID, "error", err)
				continue
			}
			deliver(snap)
		}
	}
}

// Append stores a new record under a generated ULID and returns the id.
func (s *Store) Append(ctx context.Context, userID string, fields domain.TransactionFields) (string, error) {
	id := s.idGen.Generate()
	if err := s.set(ctx, userID, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

// Update replaces the record at id, creating it if absent.
func (s *Store) Update(ctx context.Context, userID, id string, fields domain.TransactionFields) error {
	return s.set(ctx, userID, id, fields)
}

// Remove deletes the record at id.
func (s *Store) Remove(ctx context.Context, userID, id string) error {
	if err := s.client.HDel(ctx, hashKey(userID), id).Err(); err != nil {
		return fmt.Errorf("failed to remove transaction %s: %w", id, err)
	}
	return s.publish(ctx, userID)
}

func (s *Store) set(ctx context.Context, userID, id string, fields domain.TransactionFields) error {
	payload, err := json.Marshal(record{
		Type:     fields.Type,
		Amount:   fields.Amount.String(),
		Category: fields.Category,
	})
	if err != nil {
		return fmt.Errorf("failed to encode transaction: %w", err)
	}

	if err := s.client.HSet(ctx, hashKey(userID), id, payload).Err(); err != nil {
		return fmt.Errorf("failed to store transaction %s: %w", id, err)
	}
	return s.publish(ctx, userID)
}

func (s *Store) publish(ctx context.Context, userID string) error {
	if err := s.client.Publish(ctx, channel(userID), "changed").Err(); err != nil {
		return fmt.Errorf("failed to publish change notification: %w", err)
	}
	return nil
}

// snapshot reads the full collection and materializes it in id order.
// Transient read errors are retried with backoff before giving up.
func (s *Store) snapshot(ctx context.Context, userID string) (usecase.Snapshot, error) {
	var fields map[string]string

	err := s.retrier.Retry(ctx, func() error {
		var err error
		fields, err = s.client.HGetAll(ctx, hashKey(userID)).Result()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions for %s: %w", userID, err)
	}

	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	snap := make(usecase.Snapshot, 0, len(ids))
	for _, id := range ids {
		tx, err := decodeRecord(id, fields[id])
		if err != nil {
			s.logger.Warn("skipping malformed record", "user_id", userID, "transaction_id", id, "error", err)
			continue
		}
		snap = append(snap, tx)
	}
	return snap, nil
}

func decodeRecord(id, payload string) (domain.Transaction, error) {
	var rec record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return domain.Transaction{}, err
	}

	amount, err := domain.ParseAmount(rec.Amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	return domain.Transaction{
		ID:       id,
		Type:     rec.Type,
		Amount:   amount,
		Category: rec.Category,
	}, nil
}
