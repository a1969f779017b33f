package cache

import "context"

type bypassKey struct{}

// WithBypass marks the context so typed reads skip the cache entirely: the
// fetch runs against the source of truth and the result is not stored.
func WithBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

// Bypassed reports whether the context carries the bypass marker.
func Bypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}
