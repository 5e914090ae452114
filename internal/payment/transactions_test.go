package payment

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactionStore(t *testing.T) (*TransactionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewTransactionStore(redisClient, time.Hour, logger), mr
}

func TestTransactionStore_SaveAndConsume(t *testing.T) {
	store, _ := newTransactionStore(t)
	ctx := context.Background()

	txn := &Transaction{
		ID:        "txn_1700000000000_abc123def",
		UserID:    "user-1",
		Plan:      "premium",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Save(ctx, txn))

	got, err := store.Consume(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.UserID, got.UserID)
	assert.Equal(t, txn.Plan, got.Plan)

	// Consumed means gone
	_, err = store.Consume(ctx, txn.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestTransactionStore_ConsumeUnknown(t *testing.T) {
	store, _ := newTransactionStore(t)

	_, err := store.Consume(context.Background(), "txn_0_missing000")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestTransactionStore_PendingTTL(t *testing.T) {
	store, mr := newTransactionStore(t)
	ctx := context.Background()

	txn := &Transaction{ID: "txn_1700000000000_abc123def", UserID: "user-1", Plan: "basic"}
	require.NoError(t, store.Save(ctx, txn))

	mr.FastForward(2 * time.Hour)

	_, err := store.Consume(ctx, txn.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
