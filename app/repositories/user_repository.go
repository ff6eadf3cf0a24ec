// Package repositories contains the document-store access layer. Each
// repository receives the store handle explicitly; none hold package-level
// connection state.
package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/internal/store"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/metrics"
)

// UserRepository handles document-store operations for User.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(s *store.Store) *UserRepository {
	return &UserRepository{col: s.Collection(store.UsersCollection)}
}

// Create persists a new user. A unique-index violation on username surfaces
// as apperr.ErrDuplicateUsername.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveStoreOp("insert", time.Now())
	ctx, cancel := store.OpCtx(ctx)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if store.IsDuplicateKey(err) {
			return apperr.ErrDuplicateUsername
		}
		return store.WrapErr("users.insert", err)
	}
	return nil
}

// FindByUsername looks a user up by their unique username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	defer metrics.ObserveStoreOp("find", time.Now())
	ctx, cancel := store.OpCtx(ctx)
	defer cancel()

	var user models.User
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.User{}, store.WrapErr("users.find", err)
	}
	return user, nil
}

// FindByID looks a user up by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	defer metrics.ObserveStoreOp("find", time.Now())
	oid, err := parseID(id)
	if err != nil {
		return models.User{}, apperr.ErrNotFound
	}

	ctx, cancel := store.OpCtx(ctx)
	defer cancel()

	var user models.User
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.User{}, store.WrapErr("users.find", err)
	}
	return user, nil
}
