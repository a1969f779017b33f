package cache

import (
	"context"
	"testing"
)

func TestRegistryInvalidatePrefix(t *testing.T) {
	svc := newFakeCacheService()
	reg := NewKeyRegistry()
	ctx := context.Background()

	keys := []string{
		"vehicle-by-id::1",
		"vehicle-by-id::2",
		"offer-by-id::1",
	}
	for _, k := range keys {
		svc.entries[k] = "v"
		reg.Track(k)
	}

	if err := reg.InvalidatePrefix(ctx, svc, "vehicle-by-id::"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if _, ok := svc.entries["vehicle-by-id::1"]; ok {
		t.Error("vehicle-by-id::1 should be gone")
	}
	if _, ok := svc.entries["vehicle-by-id::2"]; ok {
		t.Error("vehicle-by-id::2 should be gone")
	}
	if _, ok := svc.entries["offer-by-id::1"]; !ok {
		t.Error("offer-by-id::1 should survive")
	}
	if reg.Len() != 1 {
		t.Errorf("registry has %d keys, want 1", reg.Len())
	}
}

func TestRegistryInvalidateKey(t *testing.T) {
	svc := newFakeCacheService()
	reg := NewKeyRegistry()
	ctx := context.Background()

	svc.entries["offer-by-id::9"] = "v"
	reg.Track("offer-by-id::9")

	if err := reg.InvalidateKey(ctx, svc, "offer-by-id::9"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok := svc.entries["offer-by-id::9"]; ok {
		t.Error("entry should be gone")
	}
	if reg.Len() != 0 {
		t.Errorf("registry has %d keys, want 0", reg.Len())
	}
}

func TestRegistryInvalidatePrefixNoMatches(t *testing.T) {
	svc := newFakeCacheService()
	reg := NewKeyRegistry()

	if err := reg.InvalidatePrefix(context.Background(), svc, "nothing::"); err != nil {
		t.Fatalf("invalidate on empty registry: %v", err)
	}
}

func TestRegistryGenerationBumpsOnInvalidation(t *testing.T) {
	svc := newFakeCacheService()
	reg := NewKeyRegistry()
	ctx := context.Background()

	key := "offer-list::0::10"
	gen := reg.Generation(key)

	// A prefix clear with no tracked keys still bumps: the entry it missed
	// may simply not be tracked yet.
	if err := reg.InvalidatePrefix(ctx, svc, "offer-list::"); err != nil {
		t.Fatalf("invalidate prefix: %v", err)
	}
	if reg.Generation(key) == gen {
		t.Error("prefix clear must bump the generation even with no matches")
	}
	if reg.Generation("offer-by-id::1") != 0 {
		t.Error("other prefixes must keep their generation")
	}

	gen = reg.Generation(key)
	if err := reg.InvalidateKey(ctx, svc, key); err != nil {
		t.Fatalf("invalidate key: %v", err)
	}
	if reg.Generation(key) == gen {
		t.Error("key invalidation must bump its prefix generation")
	}
}
