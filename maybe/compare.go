package maybe

import (
	"cmp"
	"hash/maphash"
	"iter"
)

// Holders compare, order and hash exactly as their values do. Whether a
// holder is owned or borrowed never takes part.

// Equal reports whether a and b hold equal values.
func Equal[T comparable](a, b Holder[T]) bool {
	return *a.Deref() == *b.Deref()
}

// EqualFunc compares holders of possibly different types with eq.
func EqualFunc[A, B any](a Holder[A], b Holder[B], eq func(*A, *B) bool) bool {
	return eq(a.Deref(), b.Deref())
}

// Compare returns -1, 0 or +1 following cmp.Compare of the held values.
func Compare[T cmp.Ordered](a, b Holder[T]) int {
	return cmp.Compare(*a.Deref(), *b.Deref())
}

// CompareFunc orders holders with a comparison on their values.
func CompareFunc[T any](a, b Holder[T], compare func(*T, *T) int) int {
	return compare(a.Deref(), b.Deref())
}

// Less reports whether a's value sorts before b's.
func Less[T cmp.Ordered](a, b Holder[T]) bool {
	return cmp.Less(*a.Deref(), *b.Deref())
}

// Hash hashes the held value with seed.
func Hash[T comparable](seed maphash.Seed, h Holder[T]) uint64 {
	return maphash.Comparable(seed, *h.Deref())
}

// Map is a map keyed by holders. Owned(k) and Borrowed(&k) address the same
// entry. The zero Map is ready to use.
type Map[K comparable, V any] struct {
	m map[K]V
}

// NewMap returns an empty Map with room for size entries.
func NewMap[K comparable, V any](size int) *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V, size)}
}

// Put stores v under the key held by k.
func (m *Map[K, V]) Put(k Holder[K], v V) {
	if m.m == nil {
		m.m = make(map[K]V)
	}
	m.m[*k.Deref()] = v
}

// Get looks up the key held by k.
func (m *Map[K, V]) Get(k Holder[K]) (V, bool) {
	v, ok := m.m[*k.Deref()]
	return v, ok
}

// Delete removes the key held by k.
func (m *Map[K, V]) Delete(k Holder[K]) {
	delete(m.m, *k.Deref())
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.m)
}

// All iterates over the entries in unspecified order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range m.m {
			if !yield(k, v) {
				return
			}
		}
	}
}
