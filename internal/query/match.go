package query

import (
	"strings"
	"time"
)

// FieldFn resolves a column name to a record's field value. The boolean is
// false when the record has no such column.
type FieldFn[T any] func(rec T, column string) (any, bool)

// MatchPlan reports whether rec satisfies every predicate in the plan. It is
// the in-memory twin of Plan.Apply and must agree with it on semantics:
// contains is case-insensitive, ranges are inclusive.
func MatchPlan[T any](p Plan, rec T, field FieldFn[T]) bool {
	for _, pr := range p.Predicates {
		v, ok := field(rec, pr.Column)
		if !ok {
			return false
		}
		switch pr.Op {
		case OpContains:
			fragment, _ := pr.Value.(string)
			s, _ := v.(string)
			if !strings.Contains(strings.ToLower(s), strings.ToLower(fragment)) {
				return false
			}
		case OpEq:
			if Compare(v, pr.Value) != 0 {
				return false
			}
		case OpGTE:
			if Compare(v, pr.Value) < 0 {
				return false
			}
		case OpLTE:
			if Compare(v, pr.Value) > 0 {
				return false
			}
		case OpBetween:
			if Compare(v, pr.Value) < 0 || Compare(v, pr.Upper) > 0 {
				return false
			}
		}
	}
	return true
}

// Compare orders two values of the same underlying kind. Numeric values are
// compared through float64 so int filters match int64 columns and vice versa.
// Unrelated types compare as unequal but unordered (0 for equal is never
// returned unless the values genuinely match).
func Compare(a, b any) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return -1
		}
		return strings.Compare(av, bv)
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return -1
		}
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	}
	return -1
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
