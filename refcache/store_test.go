package refcache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"redis": func(t *testing.T) Store {
			server, err := miniredis.Run()
			require.NoError(t, err)
			t.Cleanup(server.Close)

			client := redis.NewClient(&redis.Options{Addr: server.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return NewRedisStore(client, "")
		},
		"sqlite": func(t *testing.T) Store {
			db, err := OpenSQLite(":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })

			store, err := NewSQLiteStore(db)
			require.NoError(t, err)
			return store
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			_, err := store.Load(ctx, KeyTags)
			assert.ErrorIs(t, err, ErrNotFound)

			fetchedAt := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
			entry := Entry{Key: KeyTags, Payload: json.RawMessage(`[{"id":1,"name":"vip"}]`), FetchedAt: fetchedAt}
			require.NoError(t, store.Save(ctx, entry))

			got, err := store.Load(ctx, KeyTags)
			require.NoError(t, err)
			assert.Equal(t, KeyTags, got.Key)
			assert.JSONEq(t, string(entry.Payload), string(got.Payload))
			assert.True(t, fetchedAt.Equal(got.FetchedAt))

			// overwrite
			entry.Payload = json.RawMessage(`[]`)
			entry.FetchedAt = fetchedAt.Add(time.Hour)
			require.NoError(t, store.Save(ctx, entry))
			got, err = store.Load(ctx, KeyTags)
			require.NoError(t, err)
			assert.JSONEq(t, `[]`, string(got.Payload))
			assert.True(t, entry.FetchedAt.Equal(got.FetchedAt))

			require.NoError(t, store.Save(ctx, Entry{Key: KeyLists, Payload: json.RawMessage(`[]`), FetchedAt: fetchedAt}))
			require.NoError(t, store.Clear(ctx))

			_, err = store.Load(ctx, KeyTags)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = store.Load(ctx, KeyLists)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRedisStore_ClearKeepsForeignKeys(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "other:key", "keep", 0).Err())

	store := NewRedisStore(client, "test:")
	require.NoError(t, store.Save(ctx, Entry{Key: KeyTags, Payload: json.RawMessage(`[]`), FetchedAt: time.Now()}))
	assert.True(t, server.Exists("test:tags"))

	require.NoError(t, store.Clear(ctx))
	assert.False(t, server.Exists("test:tags"))
	assert.True(t, server.Exists("other:key"))
}

func TestCache_SQLiteSurvivesReopen(t *testing.T) {
	path := t.TempDir() + "/cache.db"
	ctx := context.Background()

	open := func() (*Cache, func()) {
		db, err := OpenSQLite(path)
		require.NoError(t, err)
		store, err := NewSQLiteStore(db)
		require.NoError(t, err)
		return New(store, WithTTL(time.Hour)), func() { _ = db.Close() }
	}

	fetches := 0
	fetch := func(ctx context.Context) ([]string, error) {
		fetches++
		return []string{"newsletter"}, nil
	}

	cache, closeDB := open()
	_, err := Get(ctx, cache, KeyLists, 0, fetch)
	require.NoError(t, err)
	closeDB()

	cache, closeDB = open()
	defer closeDB()
	lists, err := Get(ctx, cache, KeyLists, 0, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"newsletter"}, lists)
	assert.Equal(t, 1, fetches)
}
