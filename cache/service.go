package cache

import (
	"context"
	"errors"
)

// ErrInvalidResultType is returned by the typed GetOrFetch wrapper when a key
// holds a value of a different type than the caller asked for. That only
// happens when two call sites share a key with different result types, which
// is a programming error rather than a cache miss.
var ErrInvalidResultType = errors.New("cache: cached value has unexpected type")

// KeySerializer builds a cache key from a cache name plus arbitrary arguments.
// Implementations must produce identical keys for identical inputs so that
// repeated reads with the same criteria land on the same entry.
type KeySerializer interface {
	SerializeKey(name string, args ...any) string
}

// FetchFn loads a value from the source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService is the read-through cache the decorated services are built on.
// GetOrFetch returns the cached value for key or runs fetch, caches its result
// and returns it. InvalidateKeys drops a batch of entries, used by the key
// registry for prefix invalidation.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error)
	Delete(ctx context.Context, key string) error
	InvalidateKeys(ctx context.Context, keys []string) error
}

// GetOrFetch is the typed entry point over CacheService. When the context
// carries a bypass marker the fetch runs directly and nothing is cached.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetch FetchFn[T]) (T, error) {
	var zero T

	if Bypassed(ctx) {
		return fetch(ctx)
	}

	result, err := service.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := result.(T)
	if !ok {
		return zero, ErrInvalidResultType
	}
	return typed, nil
}

// GetOrFetchTracked is GetOrFetch plus registry bookkeeping. The registry
// only learns about a key once the value is already stored, so a prefix
// invalidation running in that window cannot see the entry. The generation
// snapshot detects exactly that interleaving, and the reader evicts its own
// entry so the next read refetches.
func GetOrFetchTracked[T any](ctx context.Context, service CacheService, keys *KeyRegistry, key string, fetch FetchFn[T]) (T, error) {
	var zero T

	if Bypassed(ctx) {
		return fetch(ctx)
	}

	gen := keys.Generation(key)
	result, err := GetOrFetch(ctx, service, key, fetch)
	if err != nil {
		return zero, err
	}
	keys.Track(key)

	if keys.Generation(key) != gen {
		if derr := keys.InvalidateKey(ctx, service, key); derr != nil {
			return zero, derr
		}
	}
	return result, nil
}
