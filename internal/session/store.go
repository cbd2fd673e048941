// Package session persists the in-progress booking selection per browser
// session so the gateway can stay stateless across replicas. Only the
// customer's own selection lives here; every server-owned entity is
// re-fetched from the shop service.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/arcticauto/booking-gateway/internal/booking"
)

const selectionKeyPrefix = "booking_selection:"

const defaultTTL = 30 * time.Minute

// ErrNotFound is returned when no selection exists for a session.
var ErrNotFound = errors.New("session: selection not found")

// Store keeps selection state in redis, keyed by session ID.
type Store struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

// NewStore creates a selection store. A nil redis client yields a nil store;
// all methods on a nil store are no-ops so callers can run without redis.
func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	if redisClient == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		redis:  redisClient,
		tracer: otel.Tracer("arcticauto.internal.session"),
		ttl:    ttl,
	}
}

// NewSessionID mints an opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Save writes the selection state, refreshing its TTL.
func (s *Store) Save(ctx context.Context, sessionID string, st *booking.State) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if sessionID == "" {
		return errors.New("session: sessionID required")
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("session: marshal selection: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "session.save")
	defer span.End()

	if err := s.redis.Set(ctx, selectionKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: save selection: %w", err)
	}
	return nil
}

// Load reads the selection state for a session. Returns ErrNotFound when the
// session has no stored selection (or it expired).
func (s *Store) Load(ctx context.Context, sessionID string) (*booking.State, error) {
	if s == nil || s.redis == nil {
		return nil, ErrNotFound
	}
	if sessionID == "" {
		return nil, errors.New("session: sessionID required")
	}

	ctx, span := s.tracer.Start(ctx, "session.load")
	defer span.End()

	raw, err := s.redis.Get(ctx, selectionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("session: load selection: %w", err)
	}
	var st booking.State
	if err := json.Unmarshal(raw, &st); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: unmarshal selection: %w", err)
	}
	return &st, nil
}

// Delete removes the selection for a session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if s == nil || s.redis == nil {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "session.delete")
	defer span.End()

	if err := s.redis.Del(ctx, selectionKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: delete selection: %w", err)
	}
	return nil
}

func selectionKey(sessionID string) string {
	return selectionKeyPrefix + sessionID
}
