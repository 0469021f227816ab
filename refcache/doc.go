// Package refcache caches read-mostly reference datasets (tags, custom
// fields, opt-in lists) so nodes do not log in and refetch them on every
// message.
//
// An entry is valid while now - FetchedAt < ttl. A lookup on a missing or
// stale entry runs the caller's fetch function, which normally performs a
// full login/call/logout cycle, and stores the result. There is no active
// invalidation besides Clear.
//
// Entries live in a Store: MemoryStore for a single process, RedisStore to
// share one cache between processes, SQLiteStore to keep data across CLI
// runs.
//
//	cache := refcache.New(refcache.NewMemoryStore(), refcache.WithTTL(5*time.Minute))
//	tags, err := refcache.Get(ctx, cache, refcache.KeyTags, 0, fetchTags)
package refcache
