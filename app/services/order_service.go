package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/auth"
	"github.com/shashiranjanraj/canteen/pkg/authz"
	"github.com/shashiranjanraj/canteen/pkg/event"
	"github.com/shashiranjanraj/canteen/pkg/metrics"
)

// OrderRepo is the slice of the order store the ledger needs.
type OrderRepo interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	Transition(ctx context.Context, id string, next models.Status) (models.Order, error)
}

// ItemInput is one checkout line as sent by the client.
type ItemInput struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderService is the order ledger: creation, role-scoped reads, and the
// status state machine.
type OrderService struct {
	orders OrderRepo
}

func NewOrderService(orders OrderRepo) *OrderService {
	return &OrderService{orders: orders}
}

// Create validates and persists a buyer's checkout. The total is recomputed
// server-side with exact decimal arithmetic; a client total that disagrees
// with the recomputed sum is rejected rather than trusted, and the stored
// total is always the server's sum. The new order starts pending.
func (s *OrderService) Create(ctx context.Context, claims *auth.Claims, items []ItemInput, clientTotal float64) (models.Order, error) {
	if claims == nil {
		return models.Order{}, apperr.ErrUnauthenticated
	}
	if !authz.Allow(claims, authz.Resource{Kind: authz.KindOrder}, authz.ActionCreate) {
		return models.Order{}, apperr.ErrForbidden
	}

	if len(items) == 0 {
		return models.Order{}, fmt.Errorf("%w: order needs at least one item", apperr.ErrInvalidInput)
	}

	sum := decimal.Zero
	lines := make([]models.OrderItem, 0, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return models.Order{}, fmt.Errorf("%w: item %d has no name", apperr.ErrInvalidInput, i)
		}
		if item.Quantity < 1 {
			return models.Order{}, fmt.Errorf("%w: item %d quantity must be at least 1", apperr.ErrInvalidInput, i)
		}
		if item.Price < 0 {
			return models.Order{}, fmt.Errorf("%w: item %d price must not be negative", apperr.ErrInvalidInput, i)
		}

		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)

		lines = append(lines, models.OrderItem{
			ProductID: item.ProductID,
			Name:      strings.TrimSpace(item.Name),
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	if !sum.Equal(decimal.NewFromFloat(clientTotal)) {
		return models.Order{}, fmt.Errorf("%w: total %v does not match item sum %s",
			apperr.ErrInvalidInput, clientTotal, sum)
	}

	order := models.Order{
		UserID:    claims.UserID,
		Items:     lines,
		Total:     sum.InexactFloat64(),
		Status:    models.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.orders.Create(ctx, &order); err != nil {
		return models.Order{}, err
	}

	metrics.OrdersCreated.Inc()
	event.FireAsync(event.OrderCreated, order)
	return order, nil
}

// Get returns one order. Buyers may only read their own; sellers read any.
func (s *OrderService) Get(ctx context.Context, claims *auth.Claims, id string) (models.Order, error) {
	if claims == nil {
		return models.Order{}, apperr.ErrUnauthenticated
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}

	res := authz.Resource{Kind: authz.KindOrder, OwnerID: order.UserID}
	if !authz.Allow(claims, res, authz.ActionRead) {
		return models.Order{}, apperr.ErrForbidden
	}
	return order, nil
}

// ListFor returns the caller's role-scoped order list, newest first:
// buyers their own orders, sellers every order.
func (s *OrderService) ListFor(ctx context.Context, claims *auth.Claims) ([]models.Order, error) {
	if claims == nil {
		return nil, apperr.ErrUnauthenticated
	}

	if claims.Role == authz.RoleSeller {
		return s.orders.ListAll(ctx)
	}
	return s.orders.ListByUser(ctx, claims.UserID)
}

// Transition moves an order to a terminal status. Seller only. Transitions
// out of a terminal state fail with ErrInvalidTransition; on that failure
// the order's current state is returned alongside the error so callers
// (the pickup flow) can tell completed from cancelled.
func (s *OrderService) Transition(ctx context.Context, claims *auth.Claims, id string, statusStr string) (models.Order, error) {
	if claims == nil {
		return models.Order{}, apperr.ErrUnauthenticated
	}
	if !authz.Allow(claims, authz.Resource{Kind: authz.KindOrder}, authz.ActionTransition) {
		return models.Order{}, apperr.ErrForbidden
	}

	next, ok := models.ParseStatus(statusStr)
	if !ok || !next.Terminal() {
		return models.Order{}, fmt.Errorf("%w: cannot transition to %q", apperr.ErrInvalidInput, statusStr)
	}

	order, err := s.orders.Transition(ctx, id, next)
	if err != nil {
		return order, err
	}

	metrics.OrderTransitions.WithLabelValues(string(next)).Inc()
	switch next {
	case models.StatusCompleted:
		event.FireAsync(event.OrderCompleted, order)
	case models.StatusCancelled:
		event.FireAsync(event.OrderCancelled, order)
	}
	return order, nil
}
