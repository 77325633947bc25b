package maybe

// Cow is a copy-on-write value: an owned T or a shared pointer to one.
// The zero Cow is owned.
type Cow[T any] struct {
	owned    T
	borrowed *T
}

// CowOwned returns an owned Cow.
func CowOwned[T any](v T) Cow[T] {
	return Cow[T]{owned: v}
}

// CowBorrowed returns a Cow sharing *p. A nil p yields an owned zero Cow.
func CowBorrowed[T any](p *T) Cow[T] {
	return Cow[T]{borrowed: p}
}

// IsBorrowed reports whether c shares a value it does not own.
func (c Cow[T]) IsBorrowed() bool {
	return c.borrowed != nil
}

// Deref returns a pointer to the value c refers to. For an owned Cow the
// pointer addresses a copy held by the receiver.
func (c Cow[T]) Deref() *T {
	if c.borrowed != nil {
		return c.borrowed
	}
	return &c.owned
}

// IntoOwned returns the value, duplicating it when borrowed.
func (c Cow[T]) IntoOwned() T {
	if c.borrowed != nil {
		return duplicate(c.borrowed)
	}
	return c.owned
}

// FromCow converts c into a Ref, keeping its case: owned becomes Owned and
// borrowed becomes Borrowed.
func FromCow[T any](c Cow[T]) *Ref[T] {
	if c.borrowed != nil {
		return Borrow(c.borrowed)
	}
	return Own(c.owned)
}
