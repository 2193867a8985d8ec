package usecases_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/usecases"
)

func TestProjectorService_RefreshesOnSave(t *testing.T) {
	geo := `[]`
	loads := 0
	repo := &mockHearingRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Hearing, error) {
			loads++
			return &domain.Hearing{ID: id, GeoJSON: json.RawMessage(geo)}, nil
		},
	}
	cache := newMemCache()
	hearings := usecases.NewHearingService(repo, cache, 60, 500)
	svc := usecases.NewProjectorService(hearings)

	if _, err := hearings.Geometry(context.Background(), "h1"); err != nil {
		t.Fatal(err)
	}

	geo = barePoint
	event := &domain.GeometryEvent{HearingID: "h1", Kind: domain.GeometrySaved}
	if err := svc.ProcessGeometryEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loads != 2 {
		t.Errorf("expected a reload, got %d loads", loads)
	}

	hg, _ := hearings.Geometry(context.Background(), "h1")
	if len(hg.Shapes) != 1 {
		t.Errorf("expected refreshed geometry, got %d shapes", len(hg.Shapes))
	}
	if loads != 2 {
		t.Errorf("expected cached read after refresh, got %d loads", loads)
	}
}

func TestProjectorService_IgnoresDrawEvents(t *testing.T) {
	repo := &mockHearingRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Hearing, error) {
			t.Fatal("draw events must not touch the repository")
			return nil, nil
		},
	}
	svc := usecases.NewProjectorService(usecases.NewHearingService(repo, newMemCache(), 60, 500))

	for _, kind := range []domain.GeometryEventKind{domain.GeometryCreated, domain.GeometryEdited, domain.GeometryDeleted, domain.GeometryUploaded} {
		if err := svc.ProcessGeometryEvent(context.Background(), &domain.GeometryEvent{HearingID: "h1", Kind: kind}); err != nil {
			t.Errorf("%s: unexpected error %v", kind, err)
		}
	}
}

func TestProjectorService_UnknownHearingAcked(t *testing.T) {
	svc := usecases.NewProjectorService(usecases.NewHearingService(&mockHearingRepo{}, newMemCache(), 60, 500))

	err := svc.ProcessGeometryEvent(context.Background(), &domain.GeometryEvent{HearingID: "gone", Kind: domain.GeometrySaved})
	if err != nil {
		t.Errorf("expected nil for unknown hearing, got %v", err)
	}
}

func TestProjectorService_StorageErrorRetried(t *testing.T) {
	repo := &mockHearingRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Hearing, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := usecases.NewProjectorService(usecases.NewHearingService(repo, newMemCache(), 60, 500))

	err := svc.ProcessGeometryEvent(context.Background(), &domain.GeometryEvent{HearingID: "h1", Kind: domain.GeometrySaved})
	if err == nil {
		t.Error("expected error so the event is redelivered")
	}
}
