package usecases_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/ports"
)

// --- Mock HearingRepository ---

type mockHearingRepo struct {
	getByIDFn        func(ctx context.Context, id string) (*domain.Hearing, error)
	getBySlugFn      func(ctx context.Context, slug string) (*domain.Hearing, error)
	listFn           func(ctx context.Context, limit, offset int) ([]domain.Hearing, int, error)
	updateGeometryFn func(ctx context.Context, id string, geojson json.RawMessage) (*domain.Hearing, error)
}

func (m *mockHearingRepo) Upsert(ctx context.Context, h *domain.Hearing) error        { return nil }
func (m *mockHearingRepo) UpsertBatch(ctx context.Context, hs []domain.Hearing) error { return nil }

func (m *mockHearingRepo) GetByID(ctx context.Context, id string) (*domain.Hearing, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrHearingNotFound
}

func (m *mockHearingRepo) GetBySlug(ctx context.Context, slug string) (*domain.Hearing, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, domain.ErrHearingNotFound
}

func (m *mockHearingRepo) List(ctx context.Context, limit, offset int) ([]domain.Hearing, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockHearingRepo) UpdateGeometry(ctx context.Context, id string, geojson json.RawMessage) (*domain.Hearing, error) {
	if m.updateGeometryFn != nil {
		return m.updateGeometryFn(ctx, id, geojson)
	}
	return &domain.Hearing{ID: id, GeoJSON: geojson}, nil
}

// --- In-memory CacheService ---

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// --- Recording EventPublisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.GeometryEvent
	err    error
}

func (p *recordingPublisher) PublishGeometryEvent(ctx context.Context, event *domain.GeometryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return p.err
}

func (p *recordingPublisher) kinds() []domain.GeometryEventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.GeometryEventKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}
