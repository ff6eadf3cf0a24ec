// Package store owns the MongoDB handle: connection lifecycle, indexes, and
// the per-operation timeout every repository works under.
//
// The handle is opened once at process start and passed explicitly to each
// repository. No package-level connection state.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/canteen/config"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
)

// OpTimeout bounds every store operation. Operations that exceed it surface
// apperr.ErrStoreUnavailable to the caller.
const OpTimeout = 5 * time.Second

// Collection names.
const (
	UsersCollection    = "users"
	ProductsCollection = "products"
	OrdersCollection   = "orders"
)

// Store wraps the Mongo client and database for one deployment.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to MongoDB, verifies the connection, and creates the indexes
// the application relies on. Returns an error instead of exiting so the
// caller can shut down gracefully.
func Open(ctx context.Context) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.MongoURI()))
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	s := &Store{
		client: client,
		db:     client.Database(config.MongoDatabase()),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping verifies the connection is still live. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Collection returns a handle to a named collection.
func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// OpCtx derives the bounded context every single store operation runs under.
func OpCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, OpTimeout)
}

// ensureIndexes creates the indexes the data model depends on:
// username uniqueness is enforced here, not in application code.
func (s *Store) ensureIndexes(ctx context.Context) error {
	users := s.Collection(UsersCollection)
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("store: users username index: %w", err)
	}

	orders := s.Collection(OrdersCollection)
	_, err = orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("store: orders createdAt index: %w", err)
	}

	return nil
}

// WrapErr translates a mongo-driver failure into the domain taxonomy.
// Timeouts and topology failures become the retryable ErrStoreUnavailable;
// everything else is wrapped as-is for logging at the boundary.
func WrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err):
		return fmt.Errorf("%s: %w: %v", op, apperr.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// IsDuplicateKey reports whether err is a unique-index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
