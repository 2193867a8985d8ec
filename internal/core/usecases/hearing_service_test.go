package usecases_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/mapview"
	"github.com/kerrokantasi/hearinggeo/internal/core/usecases"
)

func TestHearingService_List_ClampLimit(t *testing.T) {
	called := false
	repo := &mockHearingRepo{
		listFn: func(ctx context.Context, limit, offset int) ([]domain.Hearing, int, error) {
			called = true
			if limit != 20 {
				t.Errorf("expected limit clamped to 20, got %d", limit)
			}
			if offset != 0 {
				t.Errorf("expected negative offset reset to 0, got %d", offset)
			}
			return nil, 0, nil
		},
	}
	svc := usecases.NewHearingService(repo, nil, 60, 500)
	_, _, _ = svc.List(context.Background(), 999, -5)
	if !called {
		t.Error("repo was not called")
	}
}

func TestHearingService_GetBySlug_Empty(t *testing.T) {
	svc := usecases.NewHearingService(&mockHearingRepo{}, nil, 60, 500)
	if _, err := svc.GetBySlug(context.Background(), ""); err == nil {
		t.Error("expected error for empty slug")
	}
}

func TestHearingService_Geometry_ReadThrough(t *testing.T) {
	loads := 0
	repo := &mockHearingRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Hearing, error) {
			loads++
			return &domain.Hearing{ID: id, GeoJSON: json.RawMessage(`[{"type":"Point","coordinates":[24.9,60.2]}]`)}, nil
		},
	}
	cache := newMemCache()
	svc := usecases.NewHearingService(repo, cache, 60, 500)

	for i := 0; i < 3; i++ {
		hg, err := svc.Geometry(context.Background(), "h1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hg.Shapes) != 1 || !hg.FeatureCollection {
			t.Fatalf("unexpected geometry %+v", hg)
		}
		want := `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[24.9,60.2]}}]}`
		if string(hg.Canonical) != want {
			t.Errorf("expected legacy array re-emitted as FeatureCollection, got %s", hg.Canonical)
		}
	}
	if loads != 1 {
		t.Errorf("expected 1 repository load, got %d", loads)
	}

	if _, err := svc.Refresh(context.Background(), "h1"); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if loads != 2 {
		t.Errorf("expected refresh to reload, got %d loads", loads)
	}
}

func TestHearingService_Geometry_NotFound(t *testing.T) {
	svc := usecases.NewHearingService(&mockHearingRepo{}, newMemCache(), 60, 500)
	_, err := svc.Geometry(context.Background(), "missing")
	if !errors.Is(err, domain.ErrHearingNotFound) {
		t.Errorf("expected ErrHearingNotFound, got %v", err)
	}
}

func TestHearingService_MapView(t *testing.T) {
	repo := &mockHearingRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Hearing, error) {
			return &domain.Hearing{ID: id, GeoJSON: json.RawMessage(`{"type":"Point","coordinates":[24.9,60.2]}`)}, nil
		},
	}
	svc := usecases.NewHearingService(repo, nil, 60, 500)

	m, err := svc.MapView(context.Background(), "h1", mapview.Platform{Surface: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Layers) != 1 || m.Layers[0].Kind != mapview.LayerMarker {
		t.Errorf("expected one marker layer, got %+v", m.Layers)
	}
	if m.Viewport == nil || m.Viewport.IsPoint() {
		t.Errorf("expected padded viewport, got %+v", m.Viewport)
	}

	m, _ = svc.MapView(context.Background(), "h1", mapview.Platform{})
	if m.Layers == nil || len(m.Layers) != 0 {
		t.Errorf("expected empty layer list without a surface, got %v", m.Layers)
	}
}

func TestHearingService_Summary_NoGeometry(t *testing.T) {
	repo := &mockHearingRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Hearing, error) {
			return &domain.Hearing{ID: id, GeoJSON: json.RawMessage(`[]`)}, nil
		},
	}
	svc := usecases.NewHearingService(repo, nil, 60, 500)
	s, err := svc.Summary(context.Background(), "h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Points+s.Polygons+s.LineStrings+s.Other != 0 || s.Bounds != nil {
		t.Errorf("expected empty summary, got %+v", s)
	}
}
