package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrTransactionNotFound covers both unknown transaction ids and ids
// that were already consumed by an earlier verify call.
var ErrTransactionNotFound = errors.New("transaction not found")

// Transaction is the authoritative record written at initiate time.
// Verify trusts this record, not its own query parameters.
type Transaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionStore keeps pending transactions in Redis until they are
// consumed exactly once or their TTL lapses.
type TransactionStore struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	ttl         time.Duration
}

func NewTransactionStore(redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *TransactionStore {
	return &TransactionStore{
		redisClient: redisClient,
		logger:      logger,
		ttl:         ttl,
	}
}

func transactionKey(id string) string {
	return fmt.Sprintf("payment:txn:%s", id)
}

// Save persists a pending transaction under its id.
func (s *TransactionStore) Save(ctx context.Context, txn *Transaction) error {
	payload, err := json.Marshal(txn)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	if err := s.redisClient.Set(ctx, transactionKey(txn.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store transaction: %w", err)
	}
	return nil
}

// Consume atomically fetches and deletes a pending transaction. GETDEL
// makes the initiated -> resolved transition exactly-once: a second
// verify with the same id sees ErrTransactionNotFound.
func (s *TransactionStore) Consume(ctx context.Context, id string) (*Transaction, error) {
	payload, err := s.redisClient.GetDel(ctx, transactionKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume transaction: %w", err)
	}

	var txn Transaction
	if err := json.Unmarshal([]byte(payload), &txn); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}
	return &txn, nil
}
