package http

import (
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kerrokantasi/hearinggeo/internal/adapters/postgres"
	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/mapview"
	"github.com/kerrokantasi/hearinggeo/internal/core/ports"
	"github.com/kerrokantasi/hearinggeo/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Hearings *usecases.HearingService
	Editor   *usecases.EditorService
	Map      MapSettings
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    ports.CacheService
	// InvalidateDelay coalesces geometry events on a websocket connection.
	InvalidateDelay time.Duration
}

// MapSettings is the static map widget configuration served to clients.
type MapSettings struct {
	Center              domain.GeoPoint
	Zoom                int
	TileURL             string
	HighContrastTileURL string
	Icon                mapview.MarkerIcon
}
