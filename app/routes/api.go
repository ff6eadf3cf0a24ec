package routes

import (
	"net/http"

	"github.com/shashiranjanraj/canteen/app/controllers"
	"github.com/shashiranjanraj/canteen/pkg/authz"
	"github.com/shashiranjanraj/canteen/pkg/middleware"
	"github.com/shashiranjanraj/canteen/pkg/router"
)

// API bundles the wired controllers the route table mounts. Built once in
// the server bootstrap and handed in; routes hold no construction logic.
type API struct {
	Auth     *controllers.AuthController
	Products *controllers.ProductController
	Orders   *controllers.OrderController
	Pickup   *controllers.PickupController
	Feed     *controllers.FeedController
	Health   http.HandlerFunc
}

// RegisterAPI mounts the REST surface. One canonical, authenticated variant
// per endpoint: order creation binds to the buyer token, product and order
// mutation require the seller role.
func RegisterAPI(r *router.Router, api API) {
	sellerOnly := middleware.RequireRole(authz.RoleSeller)

	root := r.Group("/api")

	root.Post("/register", "auth.register", api.Auth.Register)
	root.Post("/login", "auth.login", api.Auth.Login)

	// Catalog: the list is public, but a seller token switches it to that
	// seller's full catalog.
	root.Get("/products", "products.list", api.Products.List, middleware.OptionalAuth)
	root.Post("/products", "products.create", api.Products.Create, middleware.Auth, sellerOnly)
	root.Put("/products/{id}", "products.update", api.Products.Update, middleware.Auth, sellerOnly)
	root.Delete("/products/{id}", "products.delete", api.Products.Delete, middleware.Auth, sellerOnly)

	// Orders. The feed authenticates via query token inside the handler
	// because browsers cannot set headers on a WebSocket handshake.
	root.Get("/orders/feed", "orders.feed", api.Feed.Feed)
	root.Post("/orders", "orders.create", api.Orders.Create, middleware.Auth)
	root.Get("/orders", "orders.list", api.Orders.List, middleware.Auth)
	root.Get("/orders/{id}", "orders.get", api.Orders.Get, middleware.Auth)
	root.Patch("/orders/{id}", "orders.transition", api.Orders.UpdateStatus, middleware.Auth, sellerOnly)

	root.Post("/pickup/scan", "pickup.scan", api.Pickup.Scan, middleware.Auth, sellerOnly)

	if api.Health != nil {
		r.Get("/healthz", "health", api.Health)
	}
}
