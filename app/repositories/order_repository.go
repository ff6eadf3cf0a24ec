package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/internal/store"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/metrics"
)

// OrderRepository handles document-store operations for Order.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(s *store.Store) *OrderRepository {
	return &OrderRepository{col: s.Collection(store.OrdersCollection)}
}

// Create persists a new order. The ID is generated before the insert so the
// QR payload (the ID itself) can be stored on the document.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	defer metrics.ObserveStoreOp("insert", time.Now())
	ctx, cancel := store.OpCtx(ctx)
	defer cancel()

	order.ID = primitive.NewObjectID()
	order.QRCode = order.ID.Hex()

	if _, err := r.col.InsertOne(ctx, order); err != nil {
		return store.WrapErr("orders.insert", err)
	}
	return nil
}

// FindByID looks an order up by identifier.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (models.Order, error) {
	defer metrics.ObserveStoreOp("find", time.Now())
	oid, err := parseID(id)
	if err != nil {
		return models.Order{}, apperr.ErrNotFound
	}

	ctx, cancel := store.OpCtx(ctx)
	defer cancel()

	var order models.Order
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Order{}, store.WrapErr("orders.find", err)
	}
	return order, nil
}

// ListAll returns every order, newest first. Seller view.
func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, bson.M{})
}

// ListByUser returns one buyer's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx, bson.M{"user": userID})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	defer metrics.ObserveStoreOp("find", time.Now())
	ctx, cancel := store.OpCtx(ctx)
	defer cancel()

	// createdAt descending; _id descending breaks timestamp ties in
	// insertion order (ObjectIDs are monotonic per process).
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, store.WrapErr("orders.find", err)
	}

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, store.WrapErr("orders.decode", err)
	}
	return orders, nil
}

// Transition atomically moves an order from pending to a terminal status.
//
// The conditional filter on the current status makes concurrent transitions
// linearize in the store: exactly one caller wins, every other caller gets
// ErrInvalidTransition (or ErrNotFound if the order never existed).
func (r *OrderRepository) Transition(ctx context.Context, id string, next models.Status) (models.Order, error) {
	defer metrics.ObserveStoreOp("update", time.Now())
	oid, err := parseID(id)
	if err != nil {
		return models.Order{}, apperr.ErrNotFound
	}

	ctx, cancel := store.OpCtx(ctx)
	defer cancel()

	filter := bson.M{"_id": oid, "status": models.StatusPending}
	update := bson.M{"$set": bson.M{"status": next}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the order is absent or it is already terminal.
		// Distinguish with a plain read.
		current, findErr := r.FindByID(ctx, id)
		if findErr != nil {
			return models.Order{}, findErr
		}
		return current, apperr.ErrInvalidTransition
	}
	if err != nil {
		return models.Order{}, store.WrapErr("orders.transition", err)
	}
	return order, nil
}
