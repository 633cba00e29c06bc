package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store counts hits per key within a fixed window
type Store interface {
	// Incr increments the counter of key and returns the new value. The counter
	// expires window after its first hit.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter allows at most Max hits per key and window
type Limiter struct {
	store  Store
	max    int64
	window time.Duration
	prefix string
}

// NewLimiter creates a limiter. A non-positive max disables limiting.
func NewLimiter(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		max:    int64(max),
		window: window,
		prefix: "linkbird:ratelimit:",
	}
}

// Window returns the length of a rate limit window
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Allow records a hit for key and reports whether it is within the limit
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.max <= 0 {
		return true, nil
	}
	n, err := l.store.Incr(ctx, l.prefix+key, l.window)
	if err != nil {
		return false, err
	}
	return n <= l.max, nil
}

// RedisStore keeps counters in Redis so limits hold across instances
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Incr increments key and reads its TTL in one transaction, then arms the
// expiry whenever the key has none. A lost EXPIRE is retried on the next hit.
func (r *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}

	n := incr.Val()
	// TTL is -1 for a key without expiry
	if ttl.Val() < 0 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return n, fmt.Errorf("redis expire %s: %w", key, err)
		}
	}
	return n, nil
}

// MemoryStore keeps counters in process memory. It is used when Redis is disabled.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	count   int64
	expires time.Time
}

// NewMemoryStore creates an in-process store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, entries: make(map[string]*memoryEntry)}
}

// Incr increments key, starting a new window when the previous one expired
func (m *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || !now.Before(e.expires) {
		e = &memoryEntry{expires: now.Add(window)}
		m.entries[key] = e
		m.sweep(now)
	}
	e.count++
	return e.count, nil
}

// sweep drops expired keys; callers hold mu
func (m *MemoryStore) sweep(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
		}
	}
}
