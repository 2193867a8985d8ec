package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
)

// ProjectorService keeps the shared geometry read cache in step with
// geometry events published by editing sessions and the normalizer.
type ProjectorService struct {
	hearings *HearingService
}

// NewProjectorService creates a new ProjectorService.
func NewProjectorService(hearings *HearingService) *ProjectorService {
	return &ProjectorService{hearings: hearings}
}

// ProcessGeometryEvent reloads the cached geometry of a hearing once it has
// been saved. Other event kinds only concern live map clients.
func (s *ProjectorService) ProcessGeometryEvent(ctx context.Context, event *domain.GeometryEvent) error {
	if event.Kind != domain.GeometrySaved {
		return nil
	}

	hg, err := s.hearings.Refresh(ctx, event.HearingID)
	switch {
	case errors.Is(err, domain.ErrHearingNotFound):
		slog.WarnContext(ctx, "saved geometry for unknown hearing", "hearing_id", event.HearingID)
		return nil
	case err != nil:
		return fmt.Errorf("refresh geometry %s: %w", event.HearingID, err)
	}

	slog.DebugContext(ctx, "geometry cache refreshed", "hearing_id", event.HearingID, "shapes", len(hg.Shapes))
	return nil
}
