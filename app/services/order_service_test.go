package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
)

func newOrderService() *services.OrderService {
	return services.NewOrderService(repositories.NewMemoryOrderRepository())
}

func teaOrder() []services.ItemInput {
	return []services.ItemInput{
		{ProductID: "p1", Name: "Tea", Quantity: 2, Price: 1.50},
	}
}

func TestOrderCreate(t *testing.T) {
	svc := newOrderService()

	order, err := svc.Create(context.Background(), buyerClaims("u1"), teaOrder(), 3.00)
	require.NoError(t, err)

	assert.False(t, order.ID.IsZero())
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 3.00, order.Total)
	assert.Equal(t, order.ID.Hex(), order.QRCode, "the pickup payload is the order id")
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
}

// The server recomputes the total with decimal arithmetic, so sums that go
// wrong in binary floating point still reconcile. 0.1 + 0.2 is the classic.
func TestOrderCreateDecimalTotal(t *testing.T) {
	svc := newOrderService()

	items := []services.ItemInput{
		{ProductID: "p1", Name: "Toffee", Quantity: 1, Price: 0.10},
		{ProductID: "p2", Name: "Mint", Quantity: 1, Price: 0.20},
	}
	order, err := svc.Create(context.Background(), buyerClaims("u1"), items, 0.30)
	require.NoError(t, err)
	assert.Equal(t, 0.30, order.Total)

	items = []services.ItemInput{
		{ProductID: "p1", Name: "Toffee", Quantity: 3, Price: 0.10},
	}
	order, err = svc.Create(context.Background(), buyerClaims("u1"), items, 0.30)
	require.NoError(t, err)
	assert.Equal(t, 0.30, order.Total)
}

func TestOrderCreateRejectsMismatchedTotal(t *testing.T) {
	svc := newOrderService()

	_, err := svc.Create(context.Background(), buyerClaims("u1"), teaOrder(), 2.99)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Create(context.Background(), buyerClaims("u1"), teaOrder(), 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestOrderCreateValidation(t *testing.T) {
	svc := newOrderService()
	ctx := context.Background()

	_, err := svc.Create(ctx, buyerClaims("u1"), nil, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Create(ctx, buyerClaims("u1"), []services.ItemInput{
		{ProductID: "p1", Name: "", Quantity: 1, Price: 1},
	}, 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Create(ctx, buyerClaims("u1"), []services.ItemInput{
		{ProductID: "p1", Name: "Tea", Quantity: 0, Price: 1},
	}, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Create(ctx, buyerClaims("u1"), []services.ItemInput{
		{ProductID: "p1", Name: "Tea", Quantity: 1, Price: -1},
	}, -1)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestOrderCreateAuthorization(t *testing.T) {
	svc := newOrderService()

	_, err := svc.Create(context.Background(), nil, teaOrder(), 3.00)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = svc.Create(context.Background(), sellerClaims("s1"), teaOrder(), 3.00)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestOrderGetOwnership(t *testing.T) {
	svc := newOrderService()
	ctx := context.Background()

	order, err := svc.Create(ctx, buyerClaims("u1"), teaOrder(), 3.00)
	require.NoError(t, err)

	got, err := svc.Get(ctx, buyerClaims("u1"), order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.Get(ctx, buyerClaims("u2"), order.ID.Hex())
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Get(ctx, sellerClaims("s1"), order.ID.Hex())
	assert.NoError(t, err, "sellers read any order")

	_, err = svc.Get(ctx, buyerClaims("u1"), "64f1c0ffee0000000000abcd")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestOrderListScoping(t *testing.T) {
	svc := newOrderService()
	ctx := context.Background()

	first, err := svc.Create(ctx, buyerClaims("u1"), teaOrder(), 3.00)
	require.NoError(t, err)
	second, err := svc.Create(ctx, buyerClaims("u1"), teaOrder(), 3.00)
	require.NoError(t, err)
	_, err = svc.Create(ctx, buyerClaims("u2"), teaOrder(), 3.00)
	require.NoError(t, err)

	mine, err := svc.ListFor(ctx, buyerClaims("u1"))
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "newest order first")
	assert.Equal(t, first.ID, mine[1].ID)

	all, err := svc.ListFor(ctx, sellerClaims("s1"))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListFor(ctx, nil)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestOrderTransition(t *testing.T) {
	svc := newOrderService()
	ctx := context.Background()

	order, err := svc.Create(ctx, buyerClaims("u1"), teaOrder(), 3.00)
	require.NoError(t, err)

	done, err := svc.Transition(ctx, sellerClaims("s1"), order.ID.Hex(), "completed")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)

	// Terminal states are absorbing: no further transition, in either
	// direction, and the current order comes back with the error.
	current, err := svc.Transition(ctx, sellerClaims("s1"), order.ID.Hex(), "cancelled")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, models.StatusCompleted, current.Status)

	_, err = svc.Transition(ctx, sellerClaims("s1"), order.ID.Hex(), "completed")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestOrderTransitionValidation(t *testing.T) {
	svc := newOrderService()
	ctx := context.Background()

	order, err := svc.Create(ctx, buyerClaims("u1"), teaOrder(), 3.00)
	require.NoError(t, err)

	// Only the terminal states are legal targets.
	_, err = svc.Transition(ctx, sellerClaims("s1"), order.ID.Hex(), "pending")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Transition(ctx, sellerClaims("s1"), order.ID.Hex(), "shipped")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Transition(ctx, buyerClaims("u1"), order.ID.Hex(), "completed")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Transition(ctx, sellerClaims("s1"), "64f1c0ffee0000000000abcd", "completed")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
