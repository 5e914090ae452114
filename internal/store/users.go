package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/cineflow/streaming-api/pkg/errors"

	"github.com/cineflow/streaming-api/internal/models"
)

// UserStore is the contract handlers consume. The Mongo implementation
// below is the only production one; tests substitute stubs.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateSubscription(ctx context.Context, userID, tier string) error
	ToggleFavorite(ctx context.Context, userID, movieID string) (bool, error)
	HasFavorite(ctx context.Context, userID, movieID string) (bool, error)
	CountUsers(ctx context.Context) (int64, error)
}

// MongoUserStore persists users in the users collection.
type MongoUserStore struct {
	coll   *mongo.Collection
	logger *logrus.Logger
}

// toggleAttempts bounds the add/remove retry loop under heavy
// concurrent flipping of the same movie.
const toggleAttempts = 3

// CreateUser inserts a new user. A duplicate email maps to CONFLICT,
// whether it is caught by the pre-check at the handler or by the
// unique index here.
func (s *MongoUserStore) CreateUser(ctx context.Context, user *models.User) error {
	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.New(apperrors.CodeConflict, "email already registered", err)
		}
		return apperrors.New(apperrors.CodeInternalError, "failed to create user", err)
	}
	return nil
}

// GetByEmail looks a user up by their unique email.
func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// GetByID looks a user up by id.
func (s *MongoUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.New(apperrors.CodeNotFound, "user not found", err)
	}
	if err != nil {
		return nil, apperrors.New(apperrors.CodeInternalError, "failed to fetch user", err)
	}
	return &user, nil
}

// UpdateSubscription sets the user's subscription tier.
func (s *MongoUserStore) UpdateSubscription(ctx context.Context, userID, tier string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"subscription": tier, "updated_at": nowUTC()}},
	)
	if err != nil {
		return apperrors.New(apperrors.CodeInternalError, "failed to update subscription", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.New(apperrors.CodeNotFound, "user not found", nil)
	}
	return nil
}

// ToggleFavorite flips membership of movieID in the user's favorites
// set and reports the resulting state. Each branch is a single guarded
// server-side update, so two concurrent toggles of the same movie can
// never both add it: the $ne filter lets exactly one $addToSet match,
// and the loser falls through to the $pull branch.
func (s *MongoUserStore) ToggleFavorite(ctx context.Context, userID, movieID string) (bool, error) {
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		added, err := s.coll.UpdateOne(ctx,
			bson.M{"_id": userID, "favorites": bson.M{"$ne": movieID}},
			bson.M{"$addToSet": bson.M{"favorites": movieID}, "$set": bson.M{"updated_at": nowUTC()}},
		)
		if err != nil {
			return false, apperrors.New(apperrors.CodeInternalError, "failed to toggle favorite", err)
		}
		if added.MatchedCount == 1 {
			return true, nil
		}

		removed, err := s.coll.UpdateOne(ctx,
			bson.M{"_id": userID, "favorites": movieID},
			bson.M{"$pull": bson.M{"favorites": movieID}, "$set": bson.M{"updated_at": nowUTC()}},
		)
		if err != nil {
			return false, apperrors.New(apperrors.CodeInternalError, "failed to toggle favorite", err)
		}
		if removed.MatchedCount == 1 {
			return false, nil
		}

		// Neither branch matched: either the user is gone or a
		// concurrent toggle flipped the set between our two updates.
		if _, err := s.GetByID(ctx, userID); err != nil {
			return false, err
		}
	}
	return false, apperrors.New(apperrors.CodeConflict,
		fmt.Sprintf("favorite toggle contention for movie %s", movieID), nil)
}

// HasFavorite reports membership without mutating anything.
func (s *MongoUserStore) HasFavorite(ctx context.Context, userID, movieID string) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"_id": userID, "favorites": movieID})
	if err != nil {
		return false, apperrors.New(apperrors.CodeInternalError, "failed to check favorite", err)
	}
	return count > 0, nil
}

// CountUsers returns the total number of accounts.
func (s *MongoUserStore) CountUsers(ctx context.Context) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperrors.New(apperrors.CodeInternalError, "failed to count users", err)
	}
	return count, nil
}
