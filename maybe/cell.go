package maybe

import (
	"strconv"
	"sync/atomic"

	"maybeowned/trace"
)

// guard is the borrow flag of a Cell. A positive count is the number of
// shared checkouts; -1 marks an exclusive checkout.
type guard struct {
	n      atomic.Int64
	name   string
	tracer trace.Tracer
}

const exclusive = -1

func (g *guard) acquireShared() error {
	for {
		n := g.n.Load()
		if n == exclusive {
			g.emit(trace.ScopeFault, "conflict", "shared borrow while mutably borrowed")
			return newError(CodeAliasing, "%s: already mutably borrowed", g.label())
		}
		if g.n.CompareAndSwap(n, n+1) {
			g.emit(trace.ScopeBorrow, "borrow", "readers="+strconv.FormatInt(n+1, 10))
			return nil
		}
	}
}

func (g *guard) acquireExclusive() error {
	if g.n.CompareAndSwap(0, exclusive) {
		g.emit(trace.ScopeBorrow, "borrow_mut", "")
		return nil
	}
	if g.n.Load() == exclusive {
		g.emit(trace.ScopeFault, "conflict", "mutable borrow while mutably borrowed")
		return newError(CodeAliasing, "%s: already mutably borrowed", g.label())
	}
	g.emit(trace.ScopeFault, "conflict", "mutable borrow while borrowed")
	return newError(CodeAliasing, "%s: already borrowed", g.label())
}

func (g *guard) releaseShared() {
	g.n.Add(-1)
	g.emit(trace.ScopeBorrow, "release", "shared")
}

func (g *guard) releaseExclusive() {
	g.n.Store(0)
	g.emit(trace.ScopeBorrow, "release", "exclusive")
}

func (g *guard) label() string {
	if g.name == "" {
		return "cell"
	}
	return "cell " + strconv.Quote(g.name)
}

func (g *guard) emit(scope trace.Scope, name, detail string) {
	if g == nil || g.tracer == nil {
		return
	}
	trace.Point(g.tracer, scope, g.label()+": "+name, detail)
}

// CellOption configures a Cell.
type CellOption func(*guard)

// WithName labels the cell in errors and trace events.
func WithName(name string) CellOption {
	return func(g *guard) { g.name = name }
}

// WithTracer reports checkouts, releases, conflicts and duplications of the
// cell's value to t.
func WithTracer(t trace.Tracer) CellOption {
	return func(g *guard) { g.tracer = t }
}

// Cell owns a value and hands out checked holders to it.
//
// Any number of Ref holders may be checked out at once, or a single Mut
// holder, never both. A conflicting checkout fails with ErrAliasing instead of
// producing an alias. Holders check back in on Release, IntoOwned and
// MakeOwned.
type Cell[T any] struct {
	val T
	g   guard
}

// NewCell creates a cell owning v.
func NewCell[T any](v T, opts ...CellOption) *Cell[T] {
	c := &Cell[T]{val: v}
	for _, opt := range opts {
		opt(&c.g)
	}
	return c
}

// Borrow checks out a shared borrowed holder.
func (c *Cell[T]) Borrow() (*Ref[T], error) {
	if err := c.g.acquireShared(); err != nil {
		return nil, err
	}
	return &Ref[T]{ptr: &c.val, state: StateBorrowed, g: &c.g}, nil
}

// BorrowMut checks out the exclusive borrowed holder.
func (c *Cell[T]) BorrowMut() (*Mut[T], error) {
	if err := c.g.acquireExclusive(); err != nil {
		return nil, err
	}
	return &Mut[T]{ptr: &c.val, state: StateBorrowed, g: &c.g}, nil
}

// Load returns a copy of the value. It fails while a Mut is checked out.
func (c *Cell[T]) Load() (T, error) {
	if c.g.n.Load() == exclusive {
		var zero T
		return zero, newError(CodeAliasing, "%s: read while mutably borrowed", c.g.label())
	}
	return c.val, nil
}

// Store replaces the value. It fails while any holder is checked out.
func (c *Cell[T]) Store(v T) error {
	if !c.g.n.CompareAndSwap(0, exclusive) {
		return newError(CodeAliasing, "%s: write while borrowed", c.g.label())
	}
	c.val = v
	c.g.n.Store(0)
	return nil
}

// Into returns the value once no holder is checked out.
func (c *Cell[T]) Into() (T, error) {
	if n := c.g.n.Load(); n != 0 {
		var zero T
		return zero, newError(CodeAliasing, "%s: %d outstanding borrow(s)", c.g.label(), abs(n))
	}
	return c.val, nil
}

// Readers returns the number of shared checkouts.
func (c *Cell[T]) Readers() int {
	n := c.g.n.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

// Exclusive reports whether a Mut is checked out.
func (c *Cell[T]) Exclusive() bool {
	return c.g.n.Load() == exclusive
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
