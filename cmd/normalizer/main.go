package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/kerrokantasi/hearinggeo/internal/adapters/nats"
	"github.com/kerrokantasi/hearinggeo/internal/adapters/postgres"
	"github.com/kerrokantasi/hearinggeo/internal/adapters/valkey"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/config"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/logging"
	"github.com/kerrokantasi/hearinggeo/internal/workflows"
)

func main() {
	cfg, err := config.Load("hearinggeo-normalizer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	acts := &workflows.NormalizeActivities{Hearings: postgres.NewHearingRepo(db)}

	if cache, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, read cache is not invalidated", "error", err)
	} else {
		defer cache.Close()
		acts.Cache = cache
	}

	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, rewrites are not announced", "error", err)
	} else {
		defer pub.Close()
		acts.Publisher = pub
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.NormalizeHearingGeometryWorkflow)
	w.RegisterActivity(acts)

	slog.Info("normalizer worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
