package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/Consilium/internal/adapter/heuristic"
	cshttp "github.com/Strob0t/Consilium/internal/adapter/http"
	csnats "github.com/Strob0t/Consilium/internal/adapter/nats"
	csotel "github.com/Strob0t/Consilium/internal/adapter/otel"
	"github.com/Strob0t/Consilium/internal/adapter/postgres"
	"github.com/Strob0t/Consilium/internal/adapter/ristretto"
	"github.com/Strob0t/Consilium/internal/adapter/ws"
	"github.com/Strob0t/Consilium/internal/config"
	"github.com/Strob0t/Consilium/internal/logger"
	"github.com/Strob0t/Consilium/internal/middleware"
	"github.com/Strob0t/Consilium/internal/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closeLogger := logger.New(cfg.Logging)
	defer closeLogger.Close()
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"consensus_threshold", cfg.Consensus.Threshold,
		"max_resolution_attempts", cfg.Consensus.MaxResolutionAttempts,
	)

	ctx := context.Background()

	// --- Telemetry ---
	var metrics *csotel.Metrics
	if cfg.Telemetry.Enabled {
		shutdown, err := csotel.Setup(ctx, cfg.Logging.Service, cfg.Telemetry.Endpoint)
		if err != nil {
			return fmt.Errorf("otel: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()

		metrics, err = csotel.NewMetrics()
		if err != nil {
			return fmt.Errorf("otel metrics: %w", err)
		}
	}

	// --- Infrastructure ---

	// PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	// NATS
	queue, err := csnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()

	// Outcome cache
	outcomeCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer outcomeCache.Close()

	// --- Services ---
	hub := ws.NewHub()
	store := postgres.NewStore(pool)
	histStore := postgres.NewHistoryStore(pool)
	prop := heuristic.NewProposer(log)
	directory := heuristic.NewStoreDirectory(store)

	orchestrator := service.NewOrchestratorService(
		cfg.Consensus, cfg.Panel, store, histStore, queue, hub, prop, directory, metrics, log)
	decisionSvc := service.NewDecisionService(store, histStore, outcomeCache, cfg.Cache.OutcomeTTL, log)
	panelSvc := service.NewPanelService(store, hub, log)

	// --- HTTP ---
	handlers := cshttp.NewHandlers(orchestrator, decisionSvc, panelSvc, cfg.Panel.HistoryLimit)

	r := chi.NewRouter()
	r.Use(cshttp.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(cshttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Telemetry.Enabled {
		r.Use(csotel.HTTPMiddleware(cfg.Logging.Service))
	}

	r.Get("/health", healthHandler(pool, queue, hub))
	r.Get("/ws", hub.HandleWS)
	cshttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// healthHandler returns an http.HandlerFunc that reports service health.
func healthHandler(pool *pgxpool.Pool, queue *csnats.Queue, hub *ws.Hub) http.HandlerFunc {
	type healthStatus struct {
		Status        string `json:"status"`
		Postgres      string `json:"postgres"`
		NATS          string `json:"nats"`
		WSConnections int    `json:"ws_connections"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{
			Status:        "ok",
			Postgres:      "up",
			NATS:          "up",
			WSConnections: hub.ConnectionCount(),
		}
		if err := pool.Ping(r.Context()); err != nil {
			status.Status = "degraded"
			status.Postgres = "down"
		}
		if !queue.IsConnected() {
			status.Status = "degraded"
			status.NATS = "down"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}
