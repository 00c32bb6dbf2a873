package quality

import "strings"

// Predicate is one filter condition over a record.
type Predicate[T any] func(T) bool

// Apply returns the subsequence of items matching every predicate, preserving
// input order. No predicates means the input is returned unchanged, so
// clearing all filters is the identity and filtering is idempotent.
func Apply[T any](items []T, preds ...Predicate[T]) []T {
	if len(preds) == 0 {
		return items
	}

	out := make([]T, 0, len(items))
next:
	for _, item := range items {
		for _, pred := range preds {
			if !pred(item) {
				continue next
			}
		}
		out = append(out, item)
	}
	return out
}

// MatchText reports whether the query occurs, case-insensitively, in any of
// the fields. An empty query matches everything.
func MatchText(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// MatchExact reports whether value equals want. Empty or "all" filters are
// no-ops, matching the reference dashboard's select controls.
func MatchExact(want, value string) bool {
	w := strings.TrimSpace(want)
	if w == "" || strings.EqualFold(w, "all") {
		return true
	}
	return w == value
}

// WithinRange reports whether an RFC3339 timestamp falls inside the inclusive
// [from, to] range. Empty bounds are open. RFC3339 strings in UTC compare
// correctly as plain strings.
func WithinRange(ts, from, to string) bool {
	if from != "" && ts < from {
		return false
	}
	if to != "" && ts > to {
		return false
	}
	return true
}
