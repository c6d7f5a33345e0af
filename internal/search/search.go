package search

import (
	"sort"

	"github.com/bassista/go_core/internal/result"
)

// Comparison selects how KeysByValue compares each value to the threshold.
type Comparison string

const (
	Above Comparison = "above"
	Below Comparison = "below"
	Equal Comparison = "equal"
)

// KeysByValue returns the keys of data whose value compares true against
// threshold, sorted for determinism.
//
// Numbers compare numerically, strings lexicographically. Values of a type
// different from the threshold's are skipped for ordering comparisons and
// simply compare unequal for Equal. Container values (maps, slices) are
// always skipped; container thresholds are rejected.
func KeysByValue(data map[string]any, threshold any, cmp Comparison) result.Result {
	const ctx = "search.KeysByValue"

	if data == nil {
		return result.Failf(result.KindInvalidArgument, ctx, "data map is nil")
	}
	if isContainer(threshold) {
		return result.Failf(result.KindInvalidArgument, ctx, "threshold of type %T is not supported", threshold)
	}
	if cmp != Above && cmp != Below && cmp != Equal {
		return result.Failf(result.KindInvalidArgument, ctx, "comparison must be 'above', 'below' or 'equal', got %q", cmp)
	}

	matching := []string{}
	for key, value := range data {
		if isContainer(value) {
			continue
		}
		ord, comparable := compare(value, threshold)
		switch cmp {
		case Equal:
			if comparable && ord == 0 {
				matching = append(matching, key)
			}
		case Above:
			if comparable && ord > 0 {
				matching = append(matching, key)
			}
		case Below:
			if comparable && ord < 0 {
				matching = append(matching, key)
			}
		}
	}
	sort.Strings(matching)
	return result.Ok(matching)
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any, []string, []int, []float64:
		return true
	}
	return false
}

// compare orders value against threshold. The second return is false when
// the two are not of a comparable pair of types.
func compare(value, threshold any) (int, bool) {
	if vf, ok := asFloat(value); ok {
		tf, ok := asFloat(threshold)
		if !ok {
			return 0, false
		}
		switch {
		case vf < tf:
			return -1, true
		case vf > tf:
			return 1, true
		default:
			return 0, true
		}
	}

	if vs, ok := value.(string); ok {
		ts, ok := threshold.(string)
		if !ok {
			return 0, false
		}
		switch {
		case vs < ts:
			return -1, true
		case vs > ts:
			return 1, true
		default:
			return 0, true
		}
	}

	if vb, ok := value.(bool); ok {
		tb, ok := threshold.(bool)
		if !ok {
			return 0, false
		}
		if vb == tb {
			return 0, true
		}
		return 1, false // booleans have no order, only equality
	}

	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
