package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/cineflow/streaming-api/pkg/errors"

	"github.com/cineflow/streaming-api/internal/models"
)

// SubscriptionStore persists purchase events.
type SubscriptionStore interface {
	Create(ctx context.Context, sub *models.Subscription) error
	CountActive(ctx context.Context) (int64, error)
}

// MongoSubscriptionStore persists subscriptions in the subscriptions
// collection.
type MongoSubscriptionStore struct {
	coll   *mongo.Collection
	logger *logrus.Logger
}

// Create inserts a purchase record. Records are append-only in this
// service; status transitions are out of scope.
func (s *MongoSubscriptionStore) Create(ctx context.Context, sub *models.Subscription) error {
	if _, err := s.coll.InsertOne(ctx, sub); err != nil {
		return apperrors.New(apperrors.CodeInternalError, "failed to create subscription", err)
	}
	return nil
}

// CountActive returns the number of active subscription records.
func (s *MongoSubscriptionStore) CountActive(ctx context.Context) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"status": models.SubscriptionActive})
	if err != nil {
		return 0, apperrors.New(apperrors.CodeInternalError, "failed to count subscriptions", err)
	}
	return count, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
