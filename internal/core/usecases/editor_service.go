package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/geometry"
	"github.com/kerrokantasi/hearinggeo/internal/core/ports"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/metrics"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/telemetry"
)

const (
	sessionKeyPrefix = "editor:session:"
	lockStripes      = 64
)

// EditorService hosts map editing sessions. A session holds the working
// GeometryCollection of one hearing between draw events and is written back
// to the hearing only on Save.
type EditorService struct {
	hearings  ports.HearingRepository
	sessions  ports.CacheService
	publisher ports.EventPublisher
	ttl       int

	locks  [lockStripes]sync.Mutex
	tracer trace.Tracer
	now    func() time.Time
}

// NewEditorService creates a new EditorService. Sessions expire ttlSeconds
// after their last change. publisher may be nil.
func NewEditorService(
	hearings ports.HearingRepository,
	sessions ports.CacheService,
	publisher ports.EventPublisher,
	ttlSeconds int,
) *EditorService {
	return &EditorService{
		hearings:  hearings,
		sessions:  sessions,
		publisher: publisher,
		ttl:       ttlSeconds,
		tracer:    otel.Tracer(telemetry.TracerName),
		now:       time.Now,
	}
}

// Open starts a session on the hearing's current geometry.
func (s *EditorService) Open(ctx context.Context, hearingID string) (*domain.EditSession, error) {
	ctx, span := s.tracer.Start(ctx, "EditorService.Open",
		trace.WithAttributes(attribute.String(telemetry.AttrHearingID, hearingID)))
	defer span.End()

	h, err := s.hearings.GetByID(ctx, hearingID)
	if err != nil {
		return nil, traceErr(span, fmt.Errorf("load hearing %s: %w", hearingID, err))
	}

	shapes, fc := geometry.ToCollection(h.GeoJSON)
	now := s.now()
	sess := &domain.EditSession{
		ID:                uuid.NewString(),
		HearingID:         h.ID,
		Shapes:            shapes,
		FeatureCollection: fc,
		OpenedAt:          now,
		UpdatedAt:         now,
	}
	if err := s.store(ctx, sess); err != nil {
		return nil, traceErr(span, err)
	}

	metrics.SessionsOpened.Inc()
	span.SetAttributes(
		attribute.String(telemetry.AttrSessionID, sess.ID),
		attribute.Int(telemetry.AttrShapeCount, len(sess.Shapes)),
	)
	slog.InfoContext(ctx, "editing session opened", "hearing_id", h.ID, "session_id", sess.ID, "shapes", len(shapes))
	return sess, nil
}

// Get returns a session. Unknown and expired sessions yield domain.ErrSessionNotFound.
func (s *EditorService) Get(ctx context.Context, sessionID string) (*domain.EditSession, error) {
	return s.load(ctx, sessionID)
}

// DrawCreated appends a newly drawn shape.
func (s *EditorService) DrawCreated(ctx context.Context, sessionID string, g domain.Geometry) (*domain.EditSession, error) {
	return s.mutate(ctx, sessionID, domain.GeometryCreated, func(sess *domain.EditSession) (bool, error) {
		sess.Shapes = geometry.ApplyDrawCreated(sess.Shapes, g)
		return true, nil
	})
}

// DrawEdited replaces original with edited. When original is not part of the
// session the edit is ignored and the session is returned unchanged.
func (s *EditorService) DrawEdited(ctx context.Context, sessionID string, edited, original domain.Geometry) (*domain.EditSession, error) {
	return s.mutate(ctx, sessionID, domain.GeometryEdited, func(sess *domain.EditSession) (bool, error) {
		shapes, err := geometry.ApplyDrawEdited(sess.Shapes, edited, original)
		if errors.Is(err, geometry.ErrEditTargetNotFound) {
			metrics.EditTargetMisses.Inc()
			slog.WarnContext(ctx, "edited shape not found in session",
				"session_id", sess.ID, "hearing_id", sess.HearingID, "type", original.Type)
			return false, nil
		}
		if err != nil {
			return false, err
		}
		sess.Shapes = shapes
		return true, nil
	})
}

// DrawDeleted removes every shape equal to one of deleted.
func (s *EditorService) DrawDeleted(ctx context.Context, sessionID string, deleted []domain.Geometry) (*domain.EditSession, error) {
	return s.mutate(ctx, sessionID, domain.GeometryDeleted, func(sess *domain.EditSession) (bool, error) {
		if len(deleted) == 0 {
			return false, nil
		}
		sess.Shapes = geometry.ApplyDrawDeleted(sess.Shapes, deleted)
		return true, nil
	})
}

// Upload replaces the session's shapes with the features of an uploaded
// FeatureCollection file. On *geometry.ParseError or *geometry.ValidationError
// the session is left as it was.
func (s *EditorService) Upload(ctx context.Context, sessionID string, raw []byte) (*domain.EditSession, error) {
	return s.mutate(ctx, sessionID, domain.GeometryUploaded, func(sess *domain.EditSession) (bool, error) {
		shapes, err := geometry.ParseUploadedFeatureCollection(raw)
		if err != nil {
			metrics.UploadRejections.WithLabelValues(geometry.Code(err)).Inc()
			slog.InfoContext(ctx, "uploaded file rejected", "session_id", sess.ID, "code", geometry.Code(err), "error", err)
			return false, err
		}
		sess.Shapes = shapes
		sess.FeatureCollection = true
		sess.Uploaded = true
		return true, nil
	})
}

// Save writes the session's shapes back to the hearing, in the shape the
// hearing stored them, and closes the session.
func (s *EditorService) Save(ctx context.Context, sessionID string) (*domain.Hearing, error) {
	ctx, span := s.tracer.Start(ctx, "EditorService.Save",
		trace.WithAttributes(attribute.String(telemetry.AttrSessionID, sessionID)))
	defer span.End()

	unlock := s.lock(sessionID)
	defer unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, traceErr(span, err)
	}

	persisted := geometry.ToPersisted(sess.Shapes, sess.FeatureCollection)
	h, err := s.hearings.UpdateGeometry(ctx, sess.HearingID, persisted)
	if err != nil {
		return nil, traceErr(span, fmt.Errorf("update hearing %s geometry: %w", sess.HearingID, err))
	}

	if err := s.sessions.Delete(ctx, GeometryCacheKey(sess.HearingID)); err != nil {
		slog.WarnContext(ctx, "geometry cache invalidation failed", "hearing_id", sess.HearingID, "error", err)
	}
	if err := s.sessions.Delete(ctx, sessionKeyPrefix+sess.ID); err != nil {
		slog.WarnContext(ctx, "session delete failed", "session_id", sess.ID, "error", err)
	}

	metrics.SessionsSaved.Inc()
	s.publish(ctx, sess, domain.GeometrySaved)
	slog.InfoContext(ctx, "editing session saved", "hearing_id", sess.HearingID, "session_id", sess.ID, "shapes", len(sess.Shapes))
	return h, nil
}

// Cancel discards a session without touching the hearing.
func (s *EditorService) Cancel(ctx context.Context, sessionID string) error {
	unlock := s.lock(sessionID)
	defer unlock()

	if _, err := s.load(ctx, sessionID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sessionKeyPrefix+sessionID)
}

// mutate loads a session under its lock, applies fn and stores the result
// when fn reports a change.
func (s *EditorService) mutate(
	ctx context.Context,
	sessionID string,
	kind domain.GeometryEventKind,
	fn func(sess *domain.EditSession) (bool, error),
) (*domain.EditSession, error) {
	ctx, span := s.tracer.Start(ctx, "EditorService.Draw",
		trace.WithAttributes(
			attribute.String(telemetry.AttrSessionID, sessionID),
			attribute.String(telemetry.AttrDrawKind, string(kind)),
		))
	defer span.End()

	unlock := s.lock(sessionID)
	defer unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, traceErr(span, err)
	}

	changed, err := fn(sess)
	if err != nil {
		return nil, traceErr(span, err)
	}
	if !changed {
		return sess, nil
	}

	sess.Dirty = true
	sess.UpdatedAt = s.now()
	if err := s.store(ctx, sess); err != nil {
		return nil, traceErr(span, err)
	}

	metrics.DrawEvents.WithLabelValues(string(kind)).Inc()
	span.SetAttributes(attribute.Int(telemetry.AttrShapeCount, len(sess.Shapes)))
	s.publish(ctx, sess, kind)
	return sess, nil
}

func (s *EditorService) load(ctx context.Context, sessionID string) (*domain.EditSession, error) {
	data, err := s.sessions.Get(ctx, sessionKeyPrefix+sessionID)
	if errors.Is(err, ports.ErrCacheMiss) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var sess domain.EditSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	if sess.Shapes == nil {
		sess.Shapes = domain.GeometryCollection{}
	}
	return &sess, nil
}

func (s *EditorService) store(ctx context.Context, sess *domain.EditSession) error {
	if sess.Shapes == nil {
		sess.Shapes = domain.GeometryCollection{}
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err := s.sessions.Set(ctx, sessionKeyPrefix+sess.ID, data, s.ttl); err != nil {
		return fmt.Errorf("store session %s: %w", sess.ID, err)
	}
	return nil
}

// publish logs and drops broker errors.
func (s *EditorService) publish(ctx context.Context, sess *domain.EditSession, kind domain.GeometryEventKind) {
	if s.publisher == nil {
		return
	}
	event := &domain.GeometryEvent{
		HearingID: sess.HearingID,
		SessionID: sess.ID,
		Kind:      kind,
		Count:     len(sess.Shapes),
		At:        s.now(),
	}
	if err := s.publisher.PublishGeometryEvent(ctx, event); err != nil {
		slog.WarnContext(ctx, "publish geometry event failed", "hearing_id", sess.HearingID, "kind", kind, "error", err)
	}
}

func (s *EditorService) lock(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	m := &s.locks[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}

func traceErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
