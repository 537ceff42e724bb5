package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/retailops/order-intake/internal/api/rest/handler"
	"github.com/retailops/order-intake/internal/api/rest/middleware"
	"github.com/retailops/order-intake/internal/config"
	"github.com/retailops/order-intake/internal/extractor"
	"github.com/retailops/order-intake/internal/repository/sqlstore"
	"github.com/retailops/order-intake/internal/service"
	"github.com/retailops/order-intake/internal/version"
)

func main() {
	// Load .env when present; the environment wins otherwise.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("api_starting", "version", version.Version)

	cfg := config.FromEnv()

	// Storage: connects and auto-creates the schema.
	store, err := sqlstore.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("db_init_failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	// Extraction: assisted strategy only when a key is configured.
	var aiClient extractor.AIClient
	if cfg.OpenAIAPIKey != "" {
		aiClient = extractor.NewOpenAIClient(cfg.OpenAIAPIKey)
	}
	codeExtractor := extractor.New(aiClient, logger)
	logger.Info("extractor_ready", "assisted", codeExtractor.HasAssistedExtraction())

	svc := service.NewOrderService(store, codeExtractor, logger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metricsMiddleware := middleware.NewMetricsMiddleware(registry)

	// CORS
	corsMiddleware, err := middleware.NewCORSMiddleware(middleware.CORSConfig{
		Origins:       cfg.FrontendOrigins,
		OriginPattern: cfg.FrontendOriginPattern,
	})
	if err != nil {
		logger.Error("cors_init_failed", "error", err)
		os.Exit(1)
	}

	requestLog := middleware.NewRequestLogMiddleware(logger)

	// Routing
	mux := buildServeMux(
		handler.NewOrderHandler(svc, logger),
		handler.NewParseHandler(svc, logger),
		handler.NewExportHandler(svc, logger),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)

	// HTTP server with sensible timeouts
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           requestLog.Handler(corsMiddleware.Handler(metricsMiddleware.Handler(mux))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("api_listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("api_serve_failed", "error", err)
		os.Exit(1)
	}
}

// buildServeMux wires the five intake routes plus health and metrics.
func buildServeMux(
	orderHandler *handler.OrderHandler,
	parseHandler *handler.ParseHandler,
	exportHandler *handler.ExportHandler,
	metricsHandler http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /health", http.HandlerFunc(handleHealthCheck))
	mux.Handle("GET /metrics", metricsHandler)

	mux.Handle("POST /orders", http.HandlerFunc(orderHandler.CreateOrder))
	mux.Handle("POST /orders/{code}/payments", http.HandlerFunc(orderHandler.RecordPayment))
	mux.Handle("POST /orders/{code}/event", http.HandlerFunc(orderHandler.RecordEvent))
	mux.Handle("POST /parse", http.HandlerFunc(parseHandler.Parse))
	mux.Handle("GET /export/csv", http.HandlerFunc(exportHandler.ExportCSV))
	return mux
}

// handleHealthCheck returns a basic liveness acknowledgment.
func handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"ok":true}`))
}
