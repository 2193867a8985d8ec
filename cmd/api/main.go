package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/kerrokantasi/hearinggeo/internal/adapters/http"
	"github.com/kerrokantasi/hearinggeo/internal/adapters/memcache"
	natsadapter "github.com/kerrokantasi/hearinggeo/internal/adapters/nats"
	"github.com/kerrokantasi/hearinggeo/internal/adapters/postgres"
	"github.com/kerrokantasi/hearinggeo/internal/adapters/valkey"
	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/mapview"
	"github.com/kerrokantasi/hearinggeo/internal/core/ports"
	"github.com/kerrokantasi/hearinggeo/internal/core/usecases"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/config"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/logging"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/metrics"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("hearinggeo-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Session store: Valkey, or an in-process cache when it is unreachable
	var sessions ports.CacheService
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, sessions are kept in process", "error", err)
		local, err := memcache.New(int64(cfg.Editor.LocalCacheItems))
		if err != nil {
			log.Fatalf("local session cache: %v", err)
		}
		defer local.Close()
		sessions = local
	} else {
		defer vc.Close()
		sessions = vc
	}

	// NATS
	var publisher ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, geometry events are not published", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Repos
	hearingRepo := postgres.NewHearingRepo(db)

	// Use cases
	hearingSvc := usecases.NewHearingService(hearingRepo, sessions, cfg.Editor.CacheTTL, cfg.Map.ViewportPadMeters)
	editorSvc := usecases.NewEditorService(hearingRepo, sessions, publisher, cfg.Editor.SessionTTL)

	deps := &http.Dependencies{
		Hearings: hearingSvc,
		Editor:   editorSvc,
		Map: http.MapSettings{
			Center:              domain.GeoPoint{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon},
			Zoom:                cfg.Map.Zoom,
			TileURL:             cfg.Map.TileURL,
			HighContrastTileURL: cfg.Map.HighContrastTileURL,
			Icon:                mapview.DefaultMarkerIcon(cfg.Map.MarkerIconURL, cfg.Map.MarkerShadowURL, cfg.Map.MarkerRetinaURL),
		},
		NATS:            natsConn,
		DB:              db,
		Cache:           sessions,
		InvalidateDelay: time.Duration(cfg.Editor.InvalidateDelayMS) * time.Millisecond,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    6 * 1024 * 1024, // GeoJSON uploads up to 5 MB plus multipart framing
		AppName:      "Hearing Geometry API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:8086, https://*.hel.fi",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// reportPoolStats refreshes the database pool gauges until ctx is done.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if st, ok := db.Stat(); ok {
				metrics.UpdateDBPoolMetrics(st)
			}
		}
	}
}
