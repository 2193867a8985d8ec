package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kerrokantasi/hearinggeo/internal/core/ports"
)

// sessionProbeKey is read by the readiness check; it is never written.
const sessionProbeKey = "editor:session:__ready__"

// buildVersion is the main module version stamped by the Go toolchain,
// or the VCS revision for builds from a work tree.
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 12 {
			return s.Value[:12]
		}
	}
	return "devel"
}

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()
	version := buildVersion()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": version,
		})
	}
}

// ReadyHandler reports whether hearings can be read and edited: the hearing
// store and the session store must answer. Live map events are optional.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{
			"hearings":   hearingStoreStatus(ctx, deps),
			"sessions":   sessionStoreStatus(ctx, deps.Cache),
			"map_events": "disabled",
		}
		if deps.NATS != nil {
			checks["map_events"] = "ok"
			if !deps.NATS.IsConnected() {
				checks["map_events"] = "disconnected"
			}
		}

		if checks["hearings"] != "ok" || checks["sessions"] != "ok" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
				"checks": checks,
			})
		}
		return c.JSON(fiber.Map{"status": "ready", "checks": checks})
	}
}

func hearingStoreStatus(ctx context.Context, deps *Dependencies) string {
	if deps.DB == nil {
		return "not configured"
	}
	if err := deps.DB.Pool.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

// sessionStoreStatus treats a miss on the probe key as a healthy answer.
func sessionStoreStatus(ctx context.Context, sessions ports.CacheService) string {
	if sessions == nil {
		return "not configured"
	}
	if _, err := sessions.Get(ctx, sessionProbeKey); err != nil && !errors.Is(err, ports.ErrCacheMiss) {
		return "error: " + err.Error()
	}
	return "ok"
}
