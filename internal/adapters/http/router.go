package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/kerrokantasi/hearinggeo/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	app.Use(AccessLogMiddleware())

	// Rate limiting: 300 requests per minute per IP. Editing sends one
	// request per draw event.
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Hearings (read side)
	v1.Get("/hearings", timeout.NewWithContext(ListHearingsHandler(deps), requestTimeout))
	v1.Get("/hearings/slug/:slug", timeout.NewWithContext(GetHearingBySlugHandler(deps), requestTimeout))
	v1.Get("/hearings/:id", timeout.NewWithContext(GetHearingHandler(deps), requestTimeout))
	v1.Get("/hearings/:id/geometry", timeout.NewWithContext(HearingGeometryHandler(deps), requestTimeout))
	v1.Get("/hearings/:id/geojson", DeprecationMiddleware(deprecatedRoutes),
		timeout.NewWithContext(HearingGeometryHandler(deps), requestTimeout))
	v1.Get("/hearings/:id/map", timeout.NewWithContext(HearingMapHandler(deps), requestTimeout))
	v1.Get("/hearings/:id/summary", timeout.NewWithContext(HearingSummaryHandler(deps), requestTimeout))
	v1.Get("/map/config", MapConfigHandler(deps))

	// Editing sessions
	v1.Post("/hearings/:id/editor", timeout.NewWithContext(OpenEditorHandler(deps), requestTimeout))
	v1.Get("/editor/:session", timeout.NewWithContext(GetEditorHandler(deps), requestTimeout))
	v1.Delete("/editor/:session", timeout.NewWithContext(CancelEditorHandler(deps), requestTimeout))
	v1.Post("/editor/:session/created", timeout.NewWithContext(DrawCreatedHandler(deps), requestTimeout))
	v1.Post("/editor/:session/edited", timeout.NewWithContext(DrawEditedHandler(deps), requestTimeout))
	v1.Post("/editor/:session/deleted", timeout.NewWithContext(DrawDeletedHandler(deps), requestTimeout))
	v1.Post("/editor/:session/upload", timeout.NewWithContext(UploadHandler(deps), requestTimeout))
	v1.Post("/editor/:session/save", timeout.NewWithContext(SaveEditorHandler(deps), requestTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app, "api/openapi.yaml")

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS, deps.InvalidateDelay)))
}
