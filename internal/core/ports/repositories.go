package ports

import (
	"context"
	"encoding/json"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
)

// HearingRepository persists hearings.
type HearingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Hearing, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Hearing, error)
	// List returns one page of hearings ordered by creation time and the total count.
	List(ctx context.Context, limit, offset int) ([]domain.Hearing, int, error)
	Upsert(ctx context.Context, h *domain.Hearing) error
	UpsertBatch(ctx context.Context, hs []domain.Hearing) error
	// UpdateGeometry replaces the persisted geometry and returns the updated hearing.
	UpdateGeometry(ctx context.Context, id string, geojson json.RawMessage) (*domain.Hearing, error)
}
