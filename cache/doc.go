// Package cache provides the read-through caching primitives the vehicle and
// offer services are decorated with.
//
// # Overview
//
// The package exports three pieces:
//
//   - CacheService: read-through get-or-fetch, single-key delete, and batch
//     invalidation over an in-process store
//   - KeySerializer: deterministic cache keys from a cache name plus the
//     arguments that identify an entry (IDs, criteria, page coordinates)
//   - KeyRegistry: a concurrent set of live keys enabling whole-cache
//     invalidation by key prefix
//
// Keys are structured as name::arg1::arg2, so every entry of a logical cache
// shares the name:: prefix. Decorated services track each key they write in a
// KeyRegistry; clearing a cache is a registry scan for the prefix followed by
// a batch InvalidateKeys, never a scan of the backing store.
//
// # Typed reads
//
// CacheService stores values as any. The typed wrapper recovers the static
// type at the call site:
//
//	v, err := cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) (*Vehicle, error) {
//		return store.ByID(ctx, id)
//	})
//
// A type mismatch between writer and reader of the same key surfaces as
// ErrInvalidResultType.
//
// # Bypass
//
// cache.WithBypass(ctx) makes typed reads go straight to the source of truth
// without populating the cache. Used by callers that need read-your-writes
// freshness stronger than the invalidation rules give them.
package cache
