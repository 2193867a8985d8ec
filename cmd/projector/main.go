package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/kerrokantasi/hearinggeo/internal/adapters/nats"
	"github.com/kerrokantasi/hearinggeo/internal/adapters/postgres"
	"github.com/kerrokantasi/hearinggeo/internal/adapters/valkey"
	"github.com/kerrokantasi/hearinggeo/internal/core/usecases"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/config"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/logging"
)

// durableName is the JetStream consumer shared by all projector replicas.
const durableName = "geometry-projector"

func main() {
	cfg, err := config.Load("hearinggeo-projector")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Shared read cache; without it there is nothing to project into
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		log.Fatalf("valkey: %v", err)
	}
	defer cache.Close()

	hearings := usecases.NewHearingService(postgres.NewHearingRepo(db), cache, cfg.Editor.CacheTTL, cfg.Map.ViewportPadMeters)
	projector := usecases.NewProjectorService(hearings)

	// NATS
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	if err := sub.SubscribeGeometryEvents(ctx, durableName, projector.ProcessGeometryEvent); err != nil {
		log.Fatalf("subscribe: %v", err)
	}
	slog.Info("geometry projector started", "durable", durableName)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down projector", "signal", sig.String())
}
