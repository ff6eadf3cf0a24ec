package repositories

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
)

// In-memory repository implementations. They satisfy the same interfaces as
// the Mongo repositories and back the test suites, which must run without a
// live store. Same pattern as a queue's memory driver: identical contract,
// map + mutex underneath.

// MemoryUserRepository is an in-memory UserRepository equivalent.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User // keyed by ID hex
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]models.User{}}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return apperr.ErrDuplicateUsername
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID.Hex()] = *user
	return nil
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, apperr.ErrNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return models.User{}, apperr.ErrNotFound
	}
	return user, nil
}

// MemoryProductRepository is an in-memory ProductRepository equivalent.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
	seq      map[string]int // insertion order for stable sorting
	next     int
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: map[string]models.Product{},
		seq:      map[string]int{},
	}
}

func (r *MemoryProductRepository) ListAvailable(_ context.Context) ([]models.Product, error) {
	return r.list(func(p models.Product) bool { return p.Available }), nil
}

func (r *MemoryProductRepository) ListBySeller(_ context.Context, sellerID string) ([]models.Product, error) {
	return r.list(func(p models.Product) bool { return p.SellerID == sellerID }), nil
}

func (r *MemoryProductRepository) list(keep func(models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Product{}
	for _, p := range r.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID.Hex()] > r.seq[out[j].ID.Hex()]
	})
	return out
}

func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.next++
	r.seq[product.ID.Hex()] = r.next
	r.products[product.ID.Hex()] = *product
	return nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return models.Product{}, apperr.ErrNotFound
	}
	return product, nil
}

func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID.Hex()]; !ok {
		return apperr.ErrNotFound
	}
	r.products[product.ID.Hex()] = *product
	return nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// MemoryOrderRepository is an in-memory OrderRepository equivalent. Its
// Transition holds the write lock across the read-check-write, giving the
// same linearization guarantee as the store's conditional update.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
	seq    map[string]int
	next   int
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: map[string]models.Order{},
		seq:    map[string]int{},
	}
}

func (r *MemoryOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = primitive.NewObjectID()
	order.QRCode = order.ID.Hex()
	r.next++
	r.seq[order.ID.Hex()] = r.next
	r.orders[order.ID.Hex()] = *order
	return nil
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, id string) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return models.Order{}, apperr.ErrNotFound
	}
	return order, nil
}

func (r *MemoryOrderRepository) ListAll(_ context.Context) ([]models.Order, error) {
	return r.list(func(models.Order) bool { return true }), nil
}

func (r *MemoryOrderRepository) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	return r.list(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (r *MemoryOrderRepository) list(keep func(models.Order) bool) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Order{}
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID.Hex()] > r.seq[out[j].ID.Hex()]
	})
	return out
}

func (r *MemoryOrderRepository) Transition(_ context.Context, id string, next models.Status) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return models.Order{}, apperr.ErrNotFound
	}
	if !order.Status.CanTransitionTo(next) {
		return order, apperr.ErrInvalidTransition
	}

	order.Status = next
	r.orders[id] = order
	return order, nil
}
