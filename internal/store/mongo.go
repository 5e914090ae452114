// Package store holds the document-store access layer. The Mongo client
// is constructed once at process start and closed at shutdown; nothing
// here is lazily initialized.
package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cineflow/streaming-api/internal/config"
)

const (
	usersCollection         = "users"
	subscriptionsCollection = "subscriptions"
)

// Client wraps the Mongo connection and the typed stores built on it.
type Client struct {
	mongo    *mongo.Client
	database *mongo.Database
	logger   *logrus.Logger
}

// Connect establishes the Mongo connection, verifies it with a ping and
// ensures the indexes the stores rely on.
func Connect(ctx context.Context, cfg *config.MongoConfig, logger *logrus.Logger) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	c := &Client{
		mongo:    client,
		database: client.Database(cfg.Database),
		logger:   logger,
	}

	if err := c.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.WithField("database", cfg.Database).Info("Connected to MongoDB")
	return c, nil
}

// ensureIndexes creates the unique email index backing the
// check-then-insert registration path.
func (c *Client) ensureIndexes(ctx context.Context) error {
	_, err := c.database.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}

	_, err = c.database.Collection(subscriptionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription index: %w", err)
	}
	return nil
}

// Ping checks store connectivity for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	return c.mongo.Ping(ctx, nil)
}

// Disconnect tears down the connection pool.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.mongo.Disconnect(ctx)
}

// Users returns the user store bound to this connection.
func (c *Client) Users() *MongoUserStore {
	return &MongoUserStore{coll: c.database.Collection(usersCollection), logger: c.logger}
}

// Subscriptions returns the subscription store bound to this connection.
func (c *Client) Subscriptions() *MongoSubscriptionStore {
	return &MongoSubscriptionStore{coll: c.database.Collection(subscriptionsCollection), logger: c.logger}
}
