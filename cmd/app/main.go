package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"colorrush/internal/clock"
	"colorrush/internal/config"
	"colorrush/internal/database"
	"colorrush/internal/draw"
	"colorrush/internal/event"
	"colorrush/internal/handler"
	"colorrush/internal/identity"
	"colorrush/internal/leaderboard"
	"colorrush/internal/ledger"
	"colorrush/internal/metrics"
	"colorrush/internal/persist"
	"colorrush/internal/round"
	"colorrush/internal/server"
	"colorrush/internal/session"
	"colorrush/internal/sse"
	"colorrush/internal/store"
	"colorrush/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		slog.Error("Environment validation failed", "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	handler.InitValidator()

	st, closeStore, err := buildStore(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err, "mode", cfg.PersistenceMode)
		os.Exit(1)
	}
	defer closeStore()

	clk := clock.New()
	bus := event.NewMemoryBus()

	collector := metrics.NewEventMetricsCollector()
	if err := collector.Register(bus); err != nil {
		slog.Error("Failed to register metrics collector", "error", err)
		os.Exit(1)
	}

	reconciler := persist.NewReconciler(st, clk)
	reconciler.Register(bus)

	hub := sse.NewHub()
	hub.Start()
	defer hub.Stop()

	subscriber := sse.NewSubscriber(hub, bus)
	subscriber.Subscribe()

	gameLedger := ledger.New(bus)
	engine := round.NewEngine(clk, draw.New(nil, nil), gameLedger, bus, subscriber.BroadcastRender)

	bridge, err := session.NewBridge(identity.NewDevProvider(), reconciler, bus, clk)
	if err != nil {
		slog.Error("Failed to create session bridge", "error", err)
		os.Exit(1)
	}
	if err := bridge.Attach(context.Background(), engine); err != nil {
		slog.Error("Failed to attach engine", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, st, engine, bridge, leaderboard.NewService(), hub)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	engine.Shutdown(ctx)

	// Let in-flight saves drain before the store closes
	if err := reconciler.Shutdown(ctx); err != nil {
		slog.Error("Persistence shutdown incomplete", "error", err)
	}
}

// buildStore selects the document store from the configured persistence
// mode. The returned closer is a no-op for the in-memory store.
func buildStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.PersistenceMode {
	case config.PersistencePostgres:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), 10, 5*time.Minute, 30*time.Minute)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(pool, migrations.FS); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store.NewPostgresStore(pool), pool.Close, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}
