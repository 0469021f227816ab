package refcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Reference dataset keys. Callers scope them per account.
const (
	KeyTags   = "tags"
	KeyFields = "fields"
	KeyLists  = "lists"
)

// DefaultTTL is used when a lookup passes a non-positive ttl
const DefaultTTL = 10 * time.Minute

// Cache is a time-bounded read-through cache for reference datasets
type Cache struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	group  singleflight.Group
	logger zerolog.Logger
}

// Option configures a Cache
type Option func(*Cache)

// WithTTL sets the ttl used when a lookup does not pass one
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates a cache on top of store
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the default ttl
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Clear drops every cached dataset
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// GetOrFetch returns the payload stored under key while it is younger than
// ttl. Otherwise it calls fetch, stores the result with a fresh timestamp and
// returns it. A failed fetch stores nothing and leaves any old entry in place.
// Concurrent misses for the same key share one fetch.
func (c *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	if payload, ok := c.lookup(ctx, key, ttl); ok {
		return payload, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		// another caller may have refreshed the entry while we waited
		if payload, ok := c.lookup(ctx, key, ttl); ok {
			return payload, nil
		}

		payload, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		entry := Entry{Key: key, Payload: payload, FetchedAt: c.now()}
		if err := c.store.Save(ctx, entry); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Failed to store reference data")
		}

		c.logger.Debug().Str("key", key).Int("bytes", len(payload)).Msg("Fetched reference data")
		return payload, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		c.logger.Trace().Str("key", key).Msg("Shared reference data fetch")
	}
	return v.(json.RawMessage), nil
}

func (c *Cache) lookup(ctx context.Context, key string, ttl time.Duration) (json.RawMessage, bool) {
	entry, err := c.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn().Err(err).Str("key", key).Msg("Failed to read reference data cache")
		}
		return nil, false
	}
	if !entry.Fresh(c.now(), ttl) {
		return nil, false
	}
	return entry.Payload, true
}

// Get is the typed form of GetOrFetch
func Get[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	payload, err := c.GetOrFetch(ctx, key, ttl, func(ctx context.Context) (json.RawMessage, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		return data, nil
	})
	if err != nil {
		return zero, err
	}

	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return zero, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return v, nil
}
