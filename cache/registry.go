package cache

import (
	"context"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// KeyRegistry tracks every key a decorated service has written, so a whole
// logical cache (a key prefix) can be invalidated without scanning the
// backing store. Mutations record keys as they are cached and drop them as
// they are invalidated; the registry never holds values, only key names.
//
// Keys are tracked after the cache stores the value, so a prefix clear can
// run in between and miss the entry. The per-prefix generation counter closes
// that window: every invalidation bumps it, and a reader that sees the bump
// after tracking knows its entry may have been skipped and evicts it.
type KeyRegistry struct {
	keys *xsync.MapOf[string, struct{}]
	gens *xsync.MapOf[string, *xsync.Counter]
}

// NewKeyRegistry returns an empty registry.
func NewKeyRegistry() *KeyRegistry {
	return &KeyRegistry{
		keys: xsync.NewMapOf[string, struct{}](),
		gens: xsync.NewMapOf[string, *xsync.Counter](),
	}
}

// Track records a key as live in the cache.
func (r *KeyRegistry) Track(key string) {
	r.keys.Store(key, struct{}{})
}

// Generation returns the invalidation generation of the cache the key belongs
// to. Readers snapshot it before a fetch and compare it after tracking.
func (r *KeyRegistry) Generation(key string) int64 {
	return r.counter(keyPrefix(key)).Value()
}

// InvalidateKey removes one entry from the cache and the registry.
func (r *KeyRegistry) InvalidateKey(ctx context.Context, service CacheService, key string) error {
	r.counter(keyPrefix(key)).Inc()
	r.keys.Delete(key)
	return service.Delete(ctx, key)
}

// InvalidatePrefix removes every tracked key that starts with prefix. This is
// how a whole cache is cleared: the prefix is the cache name plus the key
// separator.
func (r *KeyRegistry) InvalidatePrefix(ctx context.Context, service CacheService, prefix string) error {
	// Bump before scanning, even when nothing matches: an entry stored but
	// not yet tracked is invisible here, and the bump is what tells its
	// reader to evict it.
	r.counter(prefix).Inc()

	var matched []string
	r.keys.Range(func(key string, _ struct{}) bool {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
		return true
	})

	if len(matched) == 0 {
		return nil
	}
	for _, key := range matched {
		r.keys.Delete(key)
	}
	return service.InvalidateKeys(ctx, matched)
}

func (r *KeyRegistry) counter(prefix string) *xsync.Counter {
	c, _ := r.gens.LoadOrCompute(prefix, xsync.NewCounter)
	return c
}

// keyPrefix cuts a key down to its cache name plus separator, matching the
// prefixes handed to InvalidatePrefix.
func keyPrefix(key string) string {
	if i := strings.Index(key, KeySeparator); i >= 0 {
		return key[:i+len(KeySeparator)]
	}
	return key
}

// Len reports how many keys are currently tracked.
func (r *KeyRegistry) Len() int {
	return r.keys.Size()
}
