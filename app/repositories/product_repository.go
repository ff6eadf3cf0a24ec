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

// ProductRepository handles document-store operations for Product.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(s *store.Store) *ProductRepository {
	return &ProductRepository{col: s.Collection(store.ProductsCollection)}
}

// ListAvailable returns every product with the availability flag set,
// newest first. This is the public catalog view.
func (r *ProductRepository) ListAvailable(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, bson.M{"available": true})
}

// ListBySeller returns a seller's complete catalog, unavailable items
// included.
func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	return r.list(ctx, bson.M{"seller": sellerID})
}

func (r *ProductRepository) list(ctx context.Context, filter bson.M) ([]models.Product, error) {
	defer metrics.ObserveStoreOp("find", time.Now())
	ctx, cancel := store.OpCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, store.WrapErr("products.find", err)
	}

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, store.WrapErr("products.decode", err)
	}
	return products, nil
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	defer metrics.ObserveStoreOp("insert", time.Now())
	ctx, cancel := store.OpCtx(ctx)
	defer cancel()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}

	if _, err := r.col.InsertOne(ctx, product); err != nil {
		return store.WrapErr("products.insert", err)
	}
	return nil
}

// FindByID looks a product up by identifier.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	defer metrics.ObserveStoreOp("find", time.Now())
	oid, err := parseID(id)
	if err != nil {
		return models.Product{}, apperr.ErrNotFound
	}

	ctx, cancel := store.OpCtx(ctx)
	defer cancel()

	var product models.Product
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Product{}, store.WrapErr("products.find", err)
	}
	return product, nil
}

// Update overwrites the mutable fields of an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	defer metrics.ObserveStoreOp("update", time.Now())
	ctx, cancel := store.OpCtx(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"imageUrl":    product.ImageURL,
		"available":   product.Available,
	}}

	res, err := r.col.UpdateByID(ctx, product.ID, update)
	if err != nil {
		return store.WrapErr("products.update", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete permanently removes a product from the catalog.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	defer metrics.ObserveStoreOp("delete", time.Now())
	oid, err := parseID(id)
	if err != nil {
		return apperr.ErrNotFound
	}

	ctx, cancel := store.OpCtx(ctx)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return store.WrapErr("products.delete", err)
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
