package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSerializeKeyNoArgs(t *testing.T) {
	s := NewDefaultKeySerializer()
	if got := s.SerializeKey("vehicle-by-id"); got != "vehicle-by-id" {
		t.Errorf("got %q", got)
	}
}

func TestSerializeKeyIsDeterministic(t *testing.T) {
	s := NewDefaultKeySerializer()
	id := uuid.New()

	a := s.SerializeKey("vehicle-by-id", id)
	b := s.SerializeKey("vehicle-by-id", id)
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "vehicle-by-id"+KeySeparator) {
		t.Errorf("key %q missing cache-name prefix", a)
	}
	if !strings.Contains(a, id.String()) {
		t.Errorf("key %q missing id", a)
	}
}

func TestSerializeKeyDistinguishesArgs(t *testing.T) {
	s := NewDefaultKeySerializer()

	a := s.SerializeKey("offer-list", 0, 10)
	b := s.SerializeKey("offer-list", 1, 10)
	if a == b {
		t.Error("different pages must produce different keys")
	}
}

func TestSerializeKeyHandlesTime(t *testing.T) {
	s := NewDefaultKeySerializer()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	a := s.SerializeKey("offer-search", at)
	b := s.SerializeKey("offer-search", at.Add(time.Second))
	if a == b {
		t.Error("different times must produce different keys")
	}

	var nilTime *time.Time
	c := s.SerializeKey("offer-search", nilTime)
	if !strings.HasSuffix(c, "nil") {
		t.Errorf("nil time serialized as %q", c)
	}
}

func TestSerializeKeyHandlesStructs(t *testing.T) {
	type criteria struct {
		Brand string
		Year  *int
		Page  int
	}
	s := NewDefaultKeySerializer()

	year := 2020
	a := s.SerializeKey("vehicle-search", criteria{Brand: "Audi", Year: &year, Page: 0})
	b := s.SerializeKey("vehicle-search", criteria{Brand: "Audi", Year: &year, Page: 0})
	c := s.SerializeKey("vehicle-search", criteria{Brand: "Audi", Page: 0})

	if a != b {
		t.Error("identical criteria must produce identical keys")
	}
	if a == c {
		t.Error("different criteria must produce different keys")
	}
}

func TestSerializeKeyHandlesSlicesAndMaps(t *testing.T) {
	s := NewDefaultKeySerializer()

	a := s.SerializeKey("k", []int{1, 2, 3})
	b := s.SerializeKey("k", []int{3, 2, 1})
	if a == b {
		t.Error("order matters for slices")
	}

	m1 := s.SerializeKey("k", map[string]int{"a": 1, "b": 2})
	m2 := s.SerializeKey("k", map[string]int{"b": 2, "a": 1})
	if m1 != m2 {
		t.Error("maps must serialize deterministically regardless of insertion order")
	}
}
