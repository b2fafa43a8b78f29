// Package app contains the application setup for the product catalog service.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/productcatalog/internal/config"
	"github.com/abgdnv/productcatalog/internal/product/handler"
	"github.com/abgdnv/productcatalog/internal/product/service"
	"github.com/abgdnv/productcatalog/internal/product/store"
	"github.com/abgdnv/productcatalog/pkg/server"
	"github.com/abgdnv/productcatalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	// Metrics is optional; requests are not instrumented when nil.
	Metrics *web.Metrics
	CORS    web.CORSOptions
}

// NewStore builds the in-memory store, seeded with the fixture when enabled.
func NewStore(cfg config.CatalogConfig, now time.Time) *store.InMemoryStore {
	if !cfg.Seed {
		return store.NewInMemoryStore()
	}
	return store.NewInMemoryStore(store.SeedProducts(now.UTC())...)
}

// SetupDependencies wires the store, service and metrics for the configured application.
func SetupDependencies(cfg *config.Config, productStore store.ProductStore, registerer prometheus.Registerer, logger *slog.Logger) *Dependencies {
	deps := &Dependencies{
		ProductService: service.NewService(productStore),
		Logger:         logger,
		CORS: web.CORSOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
			MaxAge:         cfg.CORS.MaxAge,
		},
	}
	if registerer != nil {
		deps.Metrics = web.NewMetrics(registerer)
	}
	return deps
}

// SetupHttpHandler initializes the router and routes for the catalog API.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	middlewares := []func(http.Handler) http.Handler{web.CORS(deps.CORS)}
	if deps.Metrics != nil {
		middlewares = append(middlewares, deps.Metrics.Middleware)
	}
	mux := server.NewChiRouter(deps.Logger, middlewares...)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog API.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := handler.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures the API HTTP server.
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
