package maybe

import (
	"reflect"

	"maybeowned/trace"
)

// Ref holds either an owned T or a read-only pointer to a T owned elsewhere.
//
// A function that takes a *Ref[T] (or converts its argument with Of) accepts
// both owned and borrowed values without two versions of its API and without
// forcing the caller to copy. Reads go through Deref in either state. Writes
// need MakeOwned, which copies a borrowed value first, so a Ref never mutates
// data it does not own.
//
// The referent of a borrowed Ref must outlive it and must not be written
// while the Ref is alive. Holders checked out of a Cell get that guarantee
// checked at run time; holders built with Borrow rely on the caller.
//
// The zero Ref is Owned(zero T).
type Ref[T any] struct {
	val      T
	ptr      *T
	state    State
	g        *guard
	released bool
}

// Own returns an owned holder for v.
func Own[T any](v T) *Ref[T] {
	return &Ref[T]{val: v}
}

// Borrow returns a borrowed holder pointing at *p. It panics if p is nil.
func Borrow[T any](p *T) *Ref[T] {
	if p == nil {
		panic(newError(CodeNilReference, "Borrow of nil *%s", typeName[T]()))
	}
	return &Ref[T]{ptr: p, state: StateBorrowed}
}

// Default returns Owned(zero T).
func Default[T any]() *Ref[T] {
	return &Ref[T]{}
}

// IsOwned reports whether the holder owns its value.
func (r *Ref[T]) IsOwned() bool {
	r.live()
	return r.state == StateOwned
}

// State returns the holder's discriminant.
func (r *Ref[T]) State() State {
	r.live()
	return r.state
}

// Deref returns a pointer to the contained value in either state.
// The pointer must not be written through.
func (r *Ref[T]) Deref() *T {
	r.live()
	if r.state == StateBorrowed {
		return r.ptr
	}
	return &r.val
}

// Value returns a shallow copy of the contained value.
func (r *Ref[T]) Value() T {
	return *r.Deref()
}

// IntoOwned consumes the holder and returns its value. An owned value is
// returned as is; a borrowed one is duplicated. The holder is released.
func (r *Ref[T]) IntoOwned() T {
	r.live()
	var v T
	if r.state == StateBorrowed {
		v = duplicate(r.ptr)
		r.g.emit(trace.ScopeClone, "clone", "into_owned")
	} else {
		v = r.val
	}
	r.drop()
	return v
}

// MakeOwned returns a writable pointer to an owned value, duplicating the
// referent first if the holder is borrowed. The holder stays owned afterwards.
func (r *Ref[T]) MakeOwned() *T {
	r.live()
	if r.state == StateBorrowed {
		r.val = duplicate(r.ptr)
		r.g.emit(trace.ScopeClone, "clone", "make_owned")
		r.checkIn()
		r.ptr = nil
		r.state = StateOwned
	}
	return &r.val
}

// ToMut is the former name of MakeOwned.
//
// Deprecated: use MakeOwned.
func (r *Ref[T]) ToMut() *T {
	return r.MakeOwned()
}

// AsMut returns a writable pointer only when the holder is owned.
func (r *Ref[T]) AsMut() (*T, bool) {
	r.live()
	if r.state == StateBorrowed {
		return nil, false
	}
	return &r.val, true
}

// Clone duplicates an owned holder and shares the referent of a borrowed one.
func (r *Ref[T]) Clone() *Ref[T] {
	r.live()
	if r.state == StateOwned {
		return &Ref[T]{val: duplicate(&r.val)}
	}
	if r.g != nil {
		// r holds a shared checkout, so no exclusive one can exist.
		if err := r.g.acquireShared(); err != nil {
			panic(err)
		}
	}
	return &Ref[T]{ptr: r.ptr, state: StateBorrowed, g: r.g}
}

// ToCow consumes the holder and converts it to a Cow. A holder checked out
// of a Cell yields an owned Cow, since a Cow carries no checkout.
func (r *Ref[T]) ToCow() Cow[T] {
	r.live()
	var c Cow[T]
	switch {
	case r.state == StateOwned:
		c = CowOwned(r.val)
	case r.g != nil:
		c = CowOwned(duplicate(r.ptr))
		r.g.emit(trace.ScopeClone, "clone", "to_cow")
	default:
		c = CowBorrowed(r.ptr)
	}
	r.drop()
	return c
}

// Release drops the holder. A borrowed holder lets go of its referent
// without touching it. Releasing twice is a no-op.
func (r *Ref[T]) Release() {
	if r.released {
		return
	}
	r.drop()
}

// Released reports whether the holder was consumed or released.
func (r *Ref[T]) Released() bool {
	return r.released
}

func (r *Ref[T]) checkIn() {
	if r.g != nil && r.state == StateBorrowed {
		r.g.releaseShared()
	}
	r.g = nil
}

func (r *Ref[T]) drop() {
	r.checkIn()
	var zero T
	r.val = zero
	r.ptr = nil
	r.released = true
}

func (r *Ref[T]) live() {
	if r.released {
		panic(newError(CodeUseAfterRelease, "Ref[%s] used after release", typeName[T]()))
	}
}

// reset turns the holder into Owned(v), dropping any borrow.
func (r *Ref[T]) reset(v T) {
	r.checkIn()
	r.val = v
	r.ptr = nil
	r.state = StateOwned
	r.released = false
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
