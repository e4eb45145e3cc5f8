package util

import (
	"cmp"
	"slices"
	"time"
)

// Ptr returns a pointer to the given value.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value pointed to by p, or the zero value if p is nil.
func Deref[T any](p *T) T {
	if p != nil {
		return *p
	}
	var zero T
	return zero
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Seconds converts d to seconds at millisecond resolution.
func Seconds(d time.Duration) float64 {
	return float64(d.Milliseconds()) / 1000.0
}

// SecondsSince reports the time elapsed since start in seconds at
// millisecond resolution.
func SecondsSince(start time.Time) float64 {
	return Seconds(time.Since(start))
}
