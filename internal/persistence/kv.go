package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyValueStore is string-keyed storage for browser-session state.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// MemoryKV keeps values in process memory. With a TTL, every write restarts
// the key's expiry, matching RedisKV.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryOption customizes a MemoryKV.
type MemoryOption func(*MemoryKV)

// WithTTL expires keys ttl after their last write. Zero keeps keys forever.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *MemoryKV) { m.ttl = ttl }
}

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryKV) { m.now = now }
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV(opts ...MemoryOption) *MemoryKV {
	m := &MemoryKV{data: make(map[string]memoryEntry), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.data[key]
	if !ok || entry.expired(m.now()) {
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.data[key] = entry
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// PurgeExpired drops expired keys and returns how many were removed.
func (m *MemoryKV) PurgeExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for key, entry := range m.data {
		if entry.expired(now) {
			delete(m.data, key)
			removed++
		}
	}
	return removed
}

// Snapshot returns a copy of every live pair.
func (m *MemoryKV) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.now()
	out := make(map[string]string, len(m.data))
	for k, entry := range m.data {
		if !entry.expired(now) {
			out[k] = entry.value
		}
	}
	return out
}

// RedisKV stores values in Redis with an optional sliding TTL.
type RedisKV struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisKV wraps a redis client. A zero ttl keeps keys forever.
func NewRedisKV(client redis.Cmdable, ttl time.Duration) *RedisKV {
	return &RedisKV{client: client, ttl: ttl}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

func (r *RedisKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// ScopedKV prefixes every key so many sessions can share one backend.
type ScopedKV struct {
	inner  KeyValueStore
	prefix string
}

// Scoped returns a view of inner restricted to keys under prefix.
func Scoped(inner KeyValueStore, prefix string) *ScopedKV {
	return &ScopedKV{inner: inner, prefix: prefix}
}

// SessionScope returns the storage view for one browser session.
func SessionScope(inner KeyValueStore, sessionID string) *ScopedKV {
	return Scoped(inner, "session:"+sessionID+":")
}

// DeviceScope returns the storage view for one browser, shared by every
// session opened from it.
func DeviceScope(inner KeyValueStore, deviceID string) *ScopedKV {
	return Scoped(inner, "device:"+deviceID+":")
}

func (s *ScopedKV) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *ScopedKV) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *ScopedKV) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = s.prefix + key
	}
	return s.inner.Delete(ctx, prefixed...)
}
