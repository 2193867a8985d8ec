package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
)

const hearingColumns = `id, slug, title, COALESCE(geojson, '[]'::jsonb), published, created_at, updated_at`

// HearingRepo implements ports.HearingRepository with pgx.
type HearingRepo struct {
	db *DB
}

// NewHearingRepo creates a new HearingRepo.
func NewHearingRepo(db *DB) *HearingRepo {
	return &HearingRepo{db: db}
}

// GetByID returns a hearing by UUID.
func (r *HearingRepo) GetByID(ctx context.Context, id string) (*domain.Hearing, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+hearingColumns+` FROM hearings WHERE id = $1`, id)
	return scanHearing(row)
}

// GetBySlug returns a hearing by its slug.
func (r *HearingRepo) GetBySlug(ctx context.Context, slug string) (*domain.Hearing, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+hearingColumns+` FROM hearings WHERE slug = $1`, slug)
	return scanHearing(row)
}

// List returns a page of hearings, newest first, and the total count.
func (r *HearingRepo) List(ctx context.Context, limit, offset int) ([]domain.Hearing, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM hearings`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count hearings: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+hearingColumns+` FROM hearings ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list hearings: %w", err)
	}
	defer rows.Close()

	hearings := make([]domain.Hearing, 0, limit)
	for rows.Next() {
		h, err := scanHearing(rows)
		if err != nil {
			return nil, 0, err
		}
		hearings = append(hearings, *h)
	}
	return hearings, total, rows.Err()
}

// Upsert inserts or updates a single hearing.
func (r *HearingRepo) Upsert(ctx context.Context, h *domain.Hearing) error {
	title, geo, err := encodeHearing(h)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, upsertHearingSQL, h.ID, h.Slug, title, geo, h.Published)
	return err
}

// UpsertBatch inserts many hearings using pgx.Batch.
func (r *HearingRepo) UpsertBatch(ctx context.Context, hs []domain.Hearing) error {
	batch := &pgx.Batch{}
	for i := range hs {
		title, geo, err := encodeHearing(&hs[i])
		if err != nil {
			return err
		}
		batch.Queue(upsertHearingSQL, hs[i].ID, hs[i].Slug, title, geo, hs[i].Published)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range hs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// UpdateGeometry replaces the stored geometry and returns the updated row.
func (r *HearingRepo) UpdateGeometry(ctx context.Context, id string, geojson json.RawMessage) (*domain.Hearing, error) {
	row := r.db.Pool.QueryRow(ctx, `
		UPDATE hearings SET geojson = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+hearingColumns,
		id, []byte(geojson))
	return scanHearing(row)
}

const upsertHearingSQL = `
	INSERT INTO hearings (id, slug, title, geojson, published)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET slug = EXCLUDED.slug, title = EXCLUDED.title,
	    geojson = EXCLUDED.geojson, published = EXCLUDED.published,
	    updated_at = now()
`

func encodeHearing(h *domain.Hearing) (title, geo []byte, err error) {
	title, err = json.Marshal(h.Title)
	if err != nil {
		return nil, nil, fmt.Errorf("encode title of %s: %w", h.ID, err)
	}
	geo = h.GeoJSON
	if len(geo) == 0 {
		geo = []byte("[]")
	}
	return title, geo, nil
}

func scanHearing(row pgx.Row) (*domain.Hearing, error) {
	var (
		h     domain.Hearing
		title []byte
		geo   []byte
	)
	err := row.Scan(&h.ID, &h.Slug, &title, &geo, &h.Published, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrHearingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan hearing: %w", err)
	}
	if len(title) > 0 {
		if err := json.Unmarshal(title, &h.Title); err != nil {
			return nil, fmt.Errorf("decode title of %s: %w", h.ID, err)
		}
	}
	h.GeoJSON = json.RawMessage(geo)
	return &h, nil
}
