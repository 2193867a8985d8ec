package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/geometry"
	"github.com/kerrokantasi/hearinggeo/internal/core/ports"
	"github.com/kerrokantasi/hearinggeo/internal/core/usecases"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/metrics"
)

// NormalizeActivities holds the activity implementations for the
// normalization workflow.
type NormalizeActivities struct {
	Hearings  ports.HearingRepository
	Cache     ports.CacheService   // optional; read cache dropped after a rewrite
	Publisher ports.EventPublisher // optional
}

// CanonicalizeInput is the stored geometry of one hearing.
type CanonicalizeInput struct {
	GeoJSON json.RawMessage
	DryRun  bool
}

// CanonicalGeometry is the canonical form of a stored geometry.
type CanonicalGeometry struct {
	GeoJSON json.RawMessage
	Changed bool
	Shapes  int
}

// LoadGeometry returns the stored geometry of a hearing.
func (a *NormalizeActivities) LoadGeometry(ctx context.Context, hearingID string) (json.RawMessage, error) {
	h, err := a.Hearings.GetByID(ctx, hearingID)
	if err != nil {
		return nil, fmt.Errorf("load hearing %s: %w", hearingID, err)
	}
	return h.GeoJSON, nil
}

// CanonicalizeGeometry rewrites a stored geometry into the shape the editor saves.
func (a *NormalizeActivities) CanonicalizeGeometry(ctx context.Context, in CanonicalizeInput) (CanonicalGeometry, error) {
	out, changed := geometry.Canonicalize(in.GeoJSON)
	shapes, _ := geometry.ToCollection(out)

	switch {
	case !changed:
		metrics.GeometriesCanonicalized.WithLabelValues("unchanged").Inc()
	case in.DryRun:
		metrics.GeometriesCanonicalized.WithLabelValues("dry_run").Inc()
	}
	return CanonicalGeometry{GeoJSON: out, Changed: changed, Shapes: len(shapes)}, nil
}

// SaveGeometry writes the canonical geometry back.
func (a *NormalizeActivities) SaveGeometry(ctx context.Context, hearingID string, geojson json.RawMessage) error {
	if err := a.write(ctx, hearingID, geojson); err != nil {
		return err
	}
	metrics.GeometriesCanonicalized.WithLabelValues("rewritten").Inc()
	slog.InfoContext(ctx, "hearing geometry canonicalized", "hearing_id", hearingID)
	return nil
}

// PublishNormalized announces the rewritten geometry to live map clients.
func (a *NormalizeActivities) PublishNormalized(ctx context.Context, hearingID string, shapes int) error {
	if a.Publisher == nil {
		return nil
	}
	return a.Publisher.PublishGeometryEvent(ctx, &domain.GeometryEvent{
		HearingID: hearingID,
		Kind:      domain.GeometrySaved,
		Count:     shapes,
		At:        time.Now(),
	})
}

// RestoreGeometry puts the original bytes back (saga compensation).
func (a *NormalizeActivities) RestoreGeometry(ctx context.Context, hearingID string, original json.RawMessage) error {
	if err := a.write(ctx, hearingID, original); err != nil {
		return err
	}
	metrics.GeometriesCanonicalized.WithLabelValues("restored").Inc()
	slog.WarnContext(ctx, "hearing geometry restored (saga compensation)", "hearing_id", hearingID)
	return nil
}

func (a *NormalizeActivities) write(ctx context.Context, hearingID string, geojson json.RawMessage) error {
	if _, err := a.Hearings.UpdateGeometry(ctx, hearingID, geojson); err != nil {
		return fmt.Errorf("update geometry of %s: %w", hearingID, err)
	}
	if a.Cache != nil {
		_ = a.Cache.Delete(ctx, usecases.GeometryCacheKey(hearingID))
	}
	return nil
}
