package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/geometry"
	"github.com/kerrokantasi/hearinggeo/internal/core/mapview"
	"github.com/kerrokantasi/hearinggeo/internal/core/ports"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/metrics"
)

// GeometryCacheKey is the cache key holding a hearing's HearingGeometry.
func GeometryCacheKey(hearingID string) string {
	return "hearings:geometry:" + hearingID
}

// HearingGeometry is a hearing's geometry in the shape the editor saves it,
// together with its decoded shapes.
type HearingGeometry struct {
	HearingID         string                    `json:"hearing_id"`
	Canonical         json.RawMessage           `json:"canonical"`
	Shapes            domain.GeometryCollection `json:"shapes"`
	FeatureCollection bool                      `json:"feature_collection"`
}

// HearingMap is what a map widget needs to display a hearing.
type HearingMap struct {
	HearingID string          `json:"hearing_id"`
	Layers    []mapview.Layer `json:"layers"`
	Viewport  *domain.Bounds  `json:"viewport,omitempty"`
}

// HearingService handles hearing reads.
type HearingService struct {
	hearings  ports.HearingRepository
	cache     ports.CacheService
	cacheTTL  int
	padMeters float64
}

// NewHearingService creates a new HearingService. cache may be nil.
func NewHearingService(hearings ports.HearingRepository, cache ports.CacheService, cacheTTL int, padMeters float64) *HearingService {
	return &HearingService{hearings: hearings, cache: cache, cacheTTL: cacheTTL, padMeters: padMeters}
}

// GetByID returns a single hearing.
func (s *HearingService) GetByID(ctx context.Context, id string) (*domain.Hearing, error) {
	return s.hearings.GetByID(ctx, id)
}

// GetBySlug returns a single hearing by its slug.
func (s *HearingService) GetBySlug(ctx context.Context, slug string) (*domain.Hearing, error) {
	if slug == "" {
		return nil, fmt.Errorf("slug must not be empty")
	}
	return s.hearings.GetBySlug(ctx, slug)
}

// List returns a page of hearings and the total number of hearings.
func (s *HearingService) List(ctx context.Context, limit, offset int) ([]domain.Hearing, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.hearings.List(ctx, limit, offset)
}

// Geometry returns the hearing's geometry, read through the cache.
func (s *HearingService) Geometry(ctx context.Context, id string) (*HearingGeometry, error) {
	key := GeometryCacheKey(id)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var hg HearingGeometry
			if err := json.Unmarshal(data, &hg); err == nil {
				metrics.CacheHits.WithLabelValues("geometry").Inc()
				return &hg, nil
			}
		} else if !errors.Is(err, ports.ErrCacheMiss) {
			slog.WarnContext(ctx, "geometry cache read failed", "hearing_id", id, "error", err)
		}
		metrics.CacheMisses.WithLabelValues("geometry").Inc()
	}

	h, err := s.hearings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	shapes, fc := geometry.ToCollection(h.GeoJSON)
	hg := &HearingGeometry{
		HearingID:         h.ID,
		Canonical:         geometry.ToPersisted(shapes, fc),
		Shapes:            shapes,
		FeatureCollection: fc,
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if data, err := json.Marshal(hg); err == nil {
			_ = s.cache.Set(ctx, key, data, s.cacheTTL)
		}
	}
	return hg, nil
}

// Refresh drops the cached geometry of a hearing and loads it again.
func (s *HearingService) Refresh(ctx context.Context, id string) (*HearingGeometry, error) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, GeometryCacheKey(id)); err != nil {
			return nil, fmt.Errorf("invalidate geometry %s: %w", id, err)
		}
	}
	return s.Geometry(ctx, id)
}

// MapView returns render layers and the viewport for a hearing.
func (s *HearingService) MapView(ctx context.Context, id string, p mapview.Platform) (*HearingMap, error) {
	hg, err := s.Geometry(ctx, id)
	if err != nil {
		return nil, err
	}

	m := &HearingMap{HearingID: hg.HearingID, Layers: mapview.Layers(hg.Shapes, p)}
	if m.Layers == nil {
		m.Layers = []mapview.Layer{}
	}
	if b, ok := mapview.Viewport(hg.Shapes, s.padMeters); ok {
		m.Viewport = &b
	}
	return m, nil
}

// Summary counts and measures the shapes of a hearing.
func (s *HearingService) Summary(ctx context.Context, id string) (*mapview.Summary, error) {
	hg, err := s.Geometry(ctx, id)
	if err != nil {
		return nil, err
	}
	sum := mapview.Summarize(hg.Shapes)
	return &sum, nil
}
