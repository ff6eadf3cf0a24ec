// Package server wires the application together and runs it: configuration,
// store and cache lifecycle, the middleware stack, routes, and graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/canteen/app/controllers"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/app/routes"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/config"
	"github.com/shashiranjanraj/canteen/internal/store"
	"github.com/shashiranjanraj/canteen/pkg/cache"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/metrics"
	"github.com/shashiranjanraj/canteen/pkg/middleware"
	"github.com/shashiranjanraj/canteen/pkg/reqid"
	"github.com/shashiranjanraj/canteen/pkg/response"
	"github.com/shashiranjanraj/canteen/pkg/router"
)

// Start opens every external resource, serves the API, and tears down in
// reverse order on SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx)
	if err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		// The cache is an optimization; the API runs fine without it.
		logger.Warn("running without redis cache", "error", err)
	}

	r := buildRouter(st)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("canteen api listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Error("cache close", "error", err)
	}
	return st.Close(context.Background())
}

// BuildRoutes registers the full route table on a fresh router without
// opening any connection. Used by the route:list command.
func BuildRoutes() *router.Router {
	r := router.New()
	routes.RegisterAPI(r, buildAPI(nil, nil))
	return r
}

// Seed opens the store, runs fn against it, and closes. Used by the seed
// command so seeding shares the server's store lifecycle.
func Seed(fn func(ctx context.Context, s *store.Store) error) error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx := context.Background()
	st, err := store.Open(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx) //nolint:errcheck

	return fn(ctx, st)
}

func buildRouter(st *store.Store) *router.Router {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Recovery          — catches panics before they kill the goroutine
	//  3. Request ID        — inject unique ID before anything logs
	//  4. Logger            — logs request_id from context
	//  5. CORS              — browser client runs on another origin
	//  6. Rate limiter      — reject abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	// Prometheus endpoint — no auth, no rate limit concerns at this volume.
	r.HandleFunc("/metrics", metrics.Handler())

	routes.RegisterAPI(r, buildAPI(st, healthHandler(st)))
	return r
}

// buildAPI constructs the repository → service → controller graph. A nil
// store yields controllers whose handlers must never be invoked (route
// listing only).
func buildAPI(st *store.Store, health http.HandlerFunc) routes.API {
	var (
		userRepo    services.UserRepo
		productRepo services.ProductRepo
		orderRepo   services.OrderRepo
	)
	if st != nil {
		userRepo = repositories.NewUserRepository(st)
		productRepo = repositories.NewProductRepository(st)
		orderRepo = repositories.NewOrderRepository(st)
	}

	authSvc := services.NewAuthService(userRepo)
	catalogSvc := services.NewCatalogService(productRepo)
	orderSvc := services.NewOrderService(orderRepo)
	pickupSvc := services.NewPickupService(orderSvc, repositories.ValidID)

	return routes.API{
		Auth:     controllers.NewAuthController(authSvc),
		Products: controllers.NewProductController(catalogSvc),
		Orders:   controllers.NewOrderController(orderSvc),
		Pickup:   controllers.NewPickupController(pickupSvc),
		Feed:     controllers.NewFeedController(),
		Health:   health,
	}
}

func healthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "store unreachable")
			return
		}
		response.Success(w, map[string]string{"status": "ok"})
	}
}
