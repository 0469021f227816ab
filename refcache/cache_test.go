package refcache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newTestCache(store Store) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	return New(store, WithClock(clock.Now), WithTTL(time.Minute)), clock
}

func TestGet_EmptyFetchesOnce(t *testing.T) {
	store := NewMemoryStore()
	cache, clock := newTestCache(store)

	var fetches atomic.Int32
	fetch := func(ctx context.Context) ([]tag, error) {
		fetches.Add(1)
		return []tag{{ID: 1, Name: "vip"}}, nil
	}

	tags, err := Get(context.Background(), cache, KeyTags, 0, fetch)
	require.NoError(t, err)
	assert.Equal(t, []tag{{ID: 1, Name: "vip"}}, tags)
	assert.Equal(t, int32(1), fetches.Load())

	entry, err := store.Load(context.Background(), KeyTags)
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), entry.FetchedAt)
	assert.JSONEq(t, `[{"id":1,"name":"vip"}]`, string(entry.Payload))
}

func TestGet_FreshAndStale(t *testing.T) {
	cache, clock := newTestCache(NewMemoryStore())

	var fetches atomic.Int32
	fetch := func(ctx context.Context) ([]tag, error) {
		n := fetches.Add(1)
		return []tag{{ID: int(n), Name: "vip"}}, nil
	}

	ctx := context.Background()
	first, err := Get(ctx, cache, KeyTags, time.Minute, fetch)
	require.NoError(t, err)

	// within ttl: no fetch, same payload
	clock.Advance(59 * time.Second)
	second, err := Get(ctx, cache, KeyTags, time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), fetches.Load())

	// exactly at ttl: stale, one refetch
	clock.Advance(time.Second)
	third, err := Get(ctx, cache, KeyTags, time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, third[0].ID)
	assert.Equal(t, int32(2), fetches.Load())

	// refreshed entry is fresh again
	_, err = Get(ctx, cache, KeyTags, time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestGet_FetchErrorKeepsOldEntry(t *testing.T) {
	store := NewMemoryStore()
	cache, clock := newTestCache(store)
	ctx := context.Background()

	_, err := Get(ctx, cache, KeyLists, 0, func(ctx context.Context) ([]string, error) {
		return []string{"newsletter"}, nil
	})
	require.NoError(t, err)
	before, err := store.Load(ctx, KeyLists)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	boom := errors.New("login failed")
	_, err = Get(ctx, cache, KeyLists, 0, func(ctx context.Context) ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	after, err := store.Load(ctx, KeyLists)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGet_FetchErrorOnEmptyStoresNothing(t *testing.T) {
	store := NewMemoryStore()
	cache, _ := newTestCache(store)

	_, err := Get(context.Background(), cache, KeyFields, 0, func(ctx context.Context) ([]string, error) {
		return nil, errors.New("down")
	})
	require.Error(t, err)

	_, err = store.Load(context.Background(), KeyFields)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrFetch_ConcurrentMissesShareFetch(t *testing.T) {
	cache, _ := newTestCache(NewMemoryStore())

	var fetches atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (json.RawMessage, error) {
		fetches.Add(1)
		<-release
		return json.RawMessage(`["a"]`), nil
	}

	var wg sync.WaitGroup
	results := make([]json.RawMessage, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload, err := cache.GetOrFetch(context.Background(), KeyTags, 0, fetch)
			assert.NoError(t, err)
			results[i] = payload
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), fetches.Load())
	for _, r := range results {
		assert.JSONEq(t, `["a"]`, string(r))
	}
}

func TestClear(t *testing.T) {
	cache, _ := newTestCache(NewMemoryStore())
	ctx := context.Background()

	var fetches atomic.Int32
	fetch := func(ctx context.Context) (int, error) {
		fetches.Add(1)
		return 1, nil
	}

	_, err := Get(ctx, cache, KeyTags, 0, fetch)
	require.NoError(t, err)
	require.NoError(t, cache.Clear(ctx))
	_, err = Get(ctx, cache, KeyTags, 0, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestEntryFresh(t *testing.T) {
	now := time.Now()
	e := Entry{FetchedAt: now.Add(-30 * time.Second)}
	assert.True(t, e.Fresh(now, time.Minute))
	assert.False(t, e.Fresh(now, 30*time.Second))
}
