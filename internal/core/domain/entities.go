package domain

import (
	"encoding/json"
	"time"
)

// Hearing is a public consultation. GeoJSON holds the persisted geometry in
// whatever shape the platform stored it: [] (none), a bare geometry, or a
// FeatureCollection. Older records may also hold a plain array of geometries.
type Hearing struct {
	ID        string            `json:"id"`
	Slug      string            `json:"slug"`
	Title     map[string]string `json:"title"`
	GeoJSON   json.RawMessage   `json:"geojson"`
	Published bool              `json:"published"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// EditSession is one administrator's open map editor for a hearing.
// FeatureCollection records the shape the geometry was persisted in when the
// session was opened so that saving writes the same shape back.
type EditSession struct {
	ID                string             `json:"id"`
	HearingID         string             `json:"hearing_id"`
	Shapes            GeometryCollection `json:"shapes"`
	FeatureCollection bool               `json:"feature_collection"`
	Uploaded          bool               `json:"uploaded"`
	Dirty             bool               `json:"dirty"`
	OpenedAt          time.Time          `json:"opened_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// GeometryEventKind names what happened to a hearing's geometry.
type GeometryEventKind string

const (
	GeometryCreated  GeometryEventKind = "created"
	GeometryEdited   GeometryEventKind = "edited"
	GeometryDeleted  GeometryEventKind = "deleted"
	GeometryUploaded GeometryEventKind = "uploaded"
	GeometrySaved    GeometryEventKind = "saved"
)

// GeometryEvent is broadcast whenever an editing session changes or saves geometry.
type GeometryEvent struct {
	HearingID string            `json:"hearing_id"`
	SessionID string            `json:"session_id,omitempty"`
	Kind      GeometryEventKind `json:"kind"`
	Count     int               `json:"count"`
	At        time.Time         `json:"at"`
}
