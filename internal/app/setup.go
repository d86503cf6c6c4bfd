// Package app contains the application setup for the cart service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/gocart/internal/cart"
	"github.com/abgdnv/gocart/internal/catalog"
	"github.com/abgdnv/gocart/internal/config"
	"github.com/abgdnv/gocart/internal/notify"
	"github.com/abgdnv/gocart/internal/store"
	"github.com/abgdnv/gocart/internal/transport/rest"
	gonats "github.com/abgdnv/gocart/pkg/nats"
	"github.com/abgdnv/gocart/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go/jetstream"
)

type Dependencies struct {
	CartService cart.CartService
	Logger      *slog.Logger
}

// SetupDependencies wires the cart service with its collaborators. In
// in-memory mode dbPool and js may be nil; snapshots then live in
// process memory and notifications go to the structured log.
func SetupDependencies(ctx context.Context, dbPool *pgxpool.Pool, js jetstream.JetStream, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	catalogClient := catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout, logger)

	var snapshots cart.SnapshotStore
	var notifier cart.Notifier
	if cfg.Cart.InMemory {
		snapshots = store.NewInMemoryStore()
		notifier = notify.NewLogNotifier(logger)
	} else {
		snapshots = store.NewPgStore(dbPool, cfg.Cart.SnapshotKey, logger)
		notifier = notify.NewNatsNotifier(gonats.NewNatsPublisher(js), logger)
	}

	cartService, err := cart.NewService(ctx, catalogClient, catalogClient, snapshots, notifier, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up cart service: %w", err)
	}

	return &Dependencies{
		CartService: cartService,
		Logger:      logger,
	}, nil
}

// SetupHttpHandler initializes the HTTP routes for the cart service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the cart service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	cartHandler := rest.NewHandler(deps.CartService, deps.Logger)
	cartHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the cart service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
