package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/app/controllers"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/app/routes"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/router"
)

// newTestHandler wires the full API onto in-memory repositories, exactly the
// controller graph the server builds, minus the store and the middleware
// stack that wraps the mux.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	authSvc := services.NewAuthService(repositories.NewMemoryUserRepository())
	catalogSvc := services.NewCatalogService(repositories.NewMemoryProductRepository())
	orderSvc := services.NewOrderService(repositories.NewMemoryOrderRepository())
	pickupSvc := services.NewPickupService(orderSvc, repositories.ValidID)

	r := router.New()
	routes.RegisterAPI(r, routes.API{
		Auth:     controllers.NewAuthController(authSvc),
		Products: controllers.NewProductController(catalogSvc),
		Orders:   controllers.NewOrderController(orderSvc),
		Pickup:   controllers.NewPickupController(pickupSvc),
		Feed:     controllers.NewFeedController(),
	})
	return r.Handler()
}

type apiEnvelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) (int, apiEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env),
		"%s %s returned non-JSON body: %s", method, path, rec.Body.String())
	return rec.Code, env
}

func register(t *testing.T, h http.Handler, username, password, role string) string {
	t.Helper()

	code, env := do(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"password": password,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, code, "register %s: %s", username, env.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

// The counter flow end to end: the buyer orders, shows the QR code, the
// seller scans it once; the order completes exactly once.
func TestCounterFlow(t *testing.T) {
	h := newTestHandler(t)

	buyerToken := register(t, h, "alice", "secret1", "")
	sellerToken := register(t, h, "owner1", "owner123", "seller")

	// Seller stocks the catalog.
	code, env := do(t, h, http.MethodPost, "/api/products", sellerToken, map[string]interface{}{
		"name":  "Tea",
		"price": 1.50,
	})
	require.Equal(t, http.StatusCreated, code)

	var product struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))

	// Buyer checks out two teas.
	code, env = do(t, h, http.MethodPost, "/api/orders", buyerToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"productId": product.ID, "name": "Tea", "quantity": 2, "price": 1.50},
		},
		"total": 3.00,
	})
	require.Equal(t, http.StatusCreated, code)

	var order struct {
		ID     string  `json:"id"`
		Total  float64 `json:"total"`
		Status string  `json:"status"`
		QRCode string  `json:"qrCode"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, 3.00, order.Total)
	assert.Equal(t, "pending", order.Status)
	require.Equal(t, order.ID, order.QRCode)

	// Seller scans the code at the counter.
	code, env = do(t, h, http.MethodPost, "/api/pickup/scan", sellerToken, map[string]string{
		"payload": order.QRCode,
	})
	require.Equal(t, http.StatusOK, code)

	var scan struct {
		Outcome string `json:"outcome"`
		Order   struct {
			Status string `json:"status"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &scan))
	assert.Equal(t, "served", scan.Outcome)
	assert.Equal(t, "completed", scan.Order.Status)

	// A second scan of the same code cannot serve twice.
	code, env = do(t, h, http.MethodPost, "/api/pickup/scan", sellerToken, map[string]string{
		"payload": order.QRCode,
	})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &scan))
	assert.Equal(t, "already_served", scan.Outcome)

	// The buyer sees the completed order in their history.
	code, env = do(t, h, http.MethodGet, "/api/orders", buyerToken, nil)
	require.Equal(t, http.StatusOK, code)

	var orders []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
	assert.Equal(t, "completed", orders[0].Status)
}

func TestAuthRequiredOnOrders(t *testing.T) {
	h := newTestHandler(t)

	code, _ := do(t, h, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, h, http.MethodPost, "/api/orders", "garbage-token", map[string]interface{}{
		"items": []map[string]interface{}{},
		"total": 0,
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSellerOnlyRoutes(t *testing.T) {
	h := newTestHandler(t)

	buyerToken := register(t, h, "alice", "secret1", "")

	code, _ := do(t, h, http.MethodPost, "/api/products", buyerToken, map[string]interface{}{
		"name":  "Tea",
		"price": 1.50,
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, h, http.MethodPost, "/api/pickup/scan", buyerToken, map[string]string{
		"payload": "64f1c0ffee0000000000abcd",
	})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRegisterValidationErrors(t *testing.T) {
	h := newTestHandler(t)

	code, env := do(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"username": "a",
		"password": "",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Errors, &fields))
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "role")
}

func TestDuplicateUsernameConflict(t *testing.T) {
	h := newTestHandler(t)

	register(t, h, "alice", "secret1", "")
	code, _ := do(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice",
		"password": "secret2",
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestLoginEndpoint(t *testing.T) {
	h := newTestHandler(t)

	register(t, h, "customer1", "customer123", "")

	code, env := do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"username": "customer1",
		"password": "customer123",
	})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "customer1", data.User.Username)
	assert.Equal(t, "buyer", data.User.Role)

	// Wrong password and unknown user return the same status and message.
	codeWrong, envWrong := do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"username": "customer1",
		"password": "nope",
	})
	codeUnknown, envUnknown := do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"username": "ghost",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, codeWrong)
	assert.Equal(t, http.StatusUnauthorized, codeUnknown)
	assert.Equal(t, envWrong.Message, envUnknown.Message)
}

func TestPublicCatalog(t *testing.T) {
	h := newTestHandler(t)

	sellerToken := register(t, h, "owner1", "owner123", "seller")
	for i, name := range []string{"Tea", "Coffee"} {
		code, _ := do(t, h, http.MethodPost, "/api/products", sellerToken, map[string]interface{}{
			"name":  name,
			"price": float64(i) + 1.50,
		})
		require.Equal(t, http.StatusCreated, code)
	}

	// No token needed to browse.
	code, env := do(t, h, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, code)

	var products []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &products))
	assert.Len(t, products, 2)
}

func TestOrderTotalMismatchRejected(t *testing.T) {
	h := newTestHandler(t)

	buyerToken := register(t, h, "alice", "secret1", "")
	code, env := do(t, h, http.MethodPost, "/api/orders", buyerToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"productId": "p1", "name": "Tea", "quantity": 2, "price": 1.50},
		},
		"total": 4.00,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, env.Message)
}

func TestRouteReversal(t *testing.T) {
	r := router.New()
	orderSvc := services.NewOrderService(repositories.NewMemoryOrderRepository())

	routes.RegisterAPI(r, routes.API{
		Auth:     controllers.NewAuthController(services.NewAuthService(repositories.NewMemoryUserRepository())),
		Products: controllers.NewProductController(services.NewCatalogService(repositories.NewMemoryProductRepository())),
		Orders:   controllers.NewOrderController(orderSvc),
		Pickup:   controllers.NewPickupController(services.NewPickupService(orderSvc, repositories.ValidID)),
		Feed:     controllers.NewFeedController(),
	})

	url, err := r.URL("orders.get", map[string]string{"id": "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/abc123", url)

	_, err = r.URL("orders.get", nil)
	assert.Error(t, err, "missing path params must fail reversal")

	_, err = r.URL("no.such.route", nil)
	assert.Error(t, err)
}
