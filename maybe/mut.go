package maybe

import "maybeowned/trace"

// Mut holds either an owned T or an exclusive pointer to a T owned elsewhere.
//
// Unlike Ref, a borrowed Mut writes straight through to the external value:
// AsMut returns the external pointer and the owner sees every change. For
// the lifetime of a borrowed Mut nothing else may read or write the
// referent. Cell.BorrowMut checks that at run time; BorrowMut leaves it to
// the caller.
//
// The zero Mut is Owned(zero T).
type Mut[T any] struct {
	val      T
	ptr      *T
	state    State
	g        *guard
	released bool
}

// OwnMut returns an owned mutable holder for v.
func OwnMut[T any](v T) *Mut[T] {
	return &Mut[T]{val: v}
}

// BorrowMut returns a mutable holder writing through p. It panics if p is nil.
func BorrowMut[T any](p *T) *Mut[T] {
	if p == nil {
		panic(newError(CodeNilReference, "BorrowMut of nil *%s", typeName[T]()))
	}
	return &Mut[T]{ptr: p, state: StateBorrowed}
}

// DefaultMut returns Owned(zero T).
func DefaultMut[T any]() *Mut[T] {
	return &Mut[T]{}
}

// IsOwned reports whether the holder owns its value.
func (m *Mut[T]) IsOwned() bool {
	m.live()
	return m.state == StateOwned
}

// State returns the holder's discriminant.
func (m *Mut[T]) State() State {
	m.live()
	return m.state
}

// Deref returns a pointer to the contained value in either state.
func (m *Mut[T]) Deref() *T {
	m.live()
	if m.state == StateBorrowed {
		return m.ptr
	}
	return &m.val
}

// AsMut returns a writable pointer in either state. For a borrowed holder
// this is the external value itself; nothing is copied.
func (m *Mut[T]) AsMut() *T {
	return m.Deref()
}

// DerefMut is AsMut.
func (m *Mut[T]) DerefMut() *T {
	return m.Deref()
}

// Value returns a shallow copy of the contained value.
func (m *Mut[T]) Value() T {
	return *m.Deref()
}

// IntoOwned consumes the holder and returns its value, duplicating a
// borrowed referent. The holder is released.
func (m *Mut[T]) IntoOwned() T {
	m.live()
	var v T
	if m.state == StateBorrowed {
		v = duplicate(m.ptr)
		m.g.emit(trace.ScopeClone, "clone", "into_owned")
	} else {
		v = m.val
	}
	m.drop()
	return v
}

// MakeOwned detaches the holder from its referent by duplicating it and
// returns a pointer to the owned copy. Prefer AsMut: it writes through
// without the copy.
func (m *Mut[T]) MakeOwned() *T {
	m.live()
	if m.state == StateBorrowed {
		m.val = duplicate(m.ptr)
		m.g.emit(trace.ScopeClone, "clone", "make_owned")
		m.checkIn()
		m.ptr = nil
		m.state = StateOwned
	}
	return &m.val
}

// Release drops the holder and ends its exclusive access to the referent.
// Releasing twice is a no-op.
func (m *Mut[T]) Release() {
	if m.released {
		return
	}
	m.drop()
}

// Released reports whether the holder was consumed or released.
func (m *Mut[T]) Released() bool {
	return m.released
}

func (m *Mut[T]) checkIn() {
	if m.g != nil && m.state == StateBorrowed {
		m.g.releaseExclusive()
	}
	m.g = nil
}

func (m *Mut[T]) drop() {
	m.checkIn()
	var zero T
	m.val = zero
	m.ptr = nil
	m.released = true
}

func (m *Mut[T]) live() {
	if m.released {
		panic(newError(CodeUseAfterRelease, "Mut[%s] used after release", typeName[T]()))
	}
}

func (m *Mut[T]) reset(v T) {
	m.checkIn()
	m.val = v
	m.ptr = nil
	m.state = StateOwned
	m.released = false
}
