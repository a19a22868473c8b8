package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisStore keeps conversation history in Redis as JSON-encoded turn lists.
// A per-key in-process mutex serializes the read-modify-append sequence for
// a single user; different users only contend on Redis itself.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	tracer trace.Tracer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRedisStore builds a store on the provided client. A ttl of zero means
// histories never expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		tracer: otel.Tracer("travelmate.internal.session"),
		locks:  make(map[string]*sync.Mutex),
	}
}

var _ Store = (*RedisStore)(nil)

// History returns the user's stored history; a missing key is an empty
// session.
func (s *RedisStore) History(ctx context.Context, userID string) ([]Turn, error) {
	ctx, span := s.tracer.Start(ctx, "session.history")
	defer span.End()

	turns, err := s.load(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return turns, nil
}

// Append performs a locked read-modify-write of the user's history.
func (s *RedisStore) Append(ctx context.Context, userID string, turns ...Turn) error {
	if len(turns) == 0 {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "session.append")
	defer span.End()

	unlock := s.lockKey(userID)
	defer unlock()

	existing, err := s.load(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	updated := append(existing, turns...)

	data, err := json.Marshal(updated)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal history: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(userID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist history: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, userID string) ([]Turn, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("session: failed to load history: %w", err)
	}
	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("session: failed to decode history: %w", err)
	}
	return turns, nil
}

func (s *RedisStore) lockKey(userID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}
