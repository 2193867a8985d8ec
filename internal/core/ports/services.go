package ports

import (
	"context"
	"errors"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
)

// ErrCacheMiss is returned by CacheService.Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishGeometryEvent(ctx context.Context, event *domain.GeometryEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	// SubscribeGeometryEvents delivers events to handler under a durable consumer name.
	// A handler error asks the broker to redeliver.
	SubscribeGeometryEvents(ctx context.Context, durable string, handler func(ctx context.Context, event *domain.GeometryEvent) error) error
}

// CacheService provides read-through caching and session storage.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
