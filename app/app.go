// Package app wires the results engine together: database, repositories,
// service, metrics and HTTP router.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/Infuseting/SAE301-sub003/api/handlers"
	resultsservice "github.com/Infuseting/SAE301-sub003/app/modules/results/application"
	"github.com/Infuseting/SAE301-sub003/config"
	"github.com/Infuseting/SAE301-sub003/db/bundb"
	"github.com/Infuseting/SAE301-sub003/internal/metrics"
)

// App holds the assembled application.
type App struct {
	Cfg            *config.Config
	ResultService  *resultsservice.ResultService
	Router         chi.Router
	db             *bundb.DBService
	logger         *slog.Logger
	metricRegistry *prometheus.Registry
}

// NewApp initializes the application with the necessary services and
// configuration.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	registry := metrics.NewRegistry()
	resultMetrics := metrics.NewResultMetrics(registry)

	service := resultsservice.NewResultService(
		dbService.ResultsDB,
		dbService.TeamsDB,
		dbService.RefsDB,
		logger,
		resultMetrics,
		dbService.GetDB(),
	)

	importLimiter := rate.NewLimiter(rate.Limit(cfg.Import.RatePerMinute/60), cfg.Import.Burst)
	handler := handlers.NewResultsHandler(service, logger)

	router := chi.NewRouter()
	router.Use(handlers.RequestID)
	router.Use(handlers.RequestLogger(logger))
	router.Mount("/api", handler.Routes(handlers.ImportRateLimit(importLimiter)))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbService.GetDB().PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	return &App{
		Cfg:            cfg,
		ResultService:  service,
		Router:         router,
		db:             dbService,
		logger:         logger,
		metricRegistry: registry,
	}, nil
}

// DB returns the database service.
func (app *App) DB() *bundb.DBService {
	return app.db
}

// Close releases held resources.
func (app *App) Close() error {
	return app.db.Close()
}
