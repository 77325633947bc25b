package maybe

import (
	"slices"

	"maybeowned/trace"
)

// Table is a dispatch table of operators over holders of L and R.
//
// Registration checks eligibility once, so Apply only has to find the
// operator and match the operand states. A Table is meant to be filled at
// start-up and then only read; it is not safe for concurrent registration.
type Table[L, R, OUT any] struct {
	name   string
	binary map[Op]Binary[L, R, OUT]
	assign map[Op]Assign[L, R]
	unary  map[UnaryOp]Unary[L, OUT]
	tracer trace.Tracer
}

// NewTable returns an empty table labelled name.
func NewTable[L, R, OUT any](name string) *Table[L, R, OUT] {
	return &Table[L, R, OUT]{
		name:   name,
		binary: make(map[Op]Binary[L, R, OUT]),
		assign: make(map[Op]Assign[L, R]),
		unary:  make(map[UnaryOp]Unary[L, OUT]),
	}
}

// Name returns the table label.
func (t *Table[L, R, OUT]) Name() string {
	return t.name
}

// WithTracer reports every dispatch to tr at ScopeOp.
func (t *Table[L, R, OUT]) WithTracer(tr trace.Tracer) *Table[L, R, OUT] {
	t.tracer = tr
	return t
}

// Register adds a binary operator. It fails with ErrIneligible unless all
// four forms are present.
func (t *Table[L, R, OUT]) Register(op Op, b Binary[L, R, OUT]) error {
	if !op.valid() {
		return newError(CodeNoOperator, "%s: cannot register %s", t.name, op)
	}
	if err := b.check(); err != nil {
		return newError(CodeIneligible, "%s: %s: missing %s", t.name, op.Name(), b.missing())
	}
	t.binary[op] = b
	return nil
}

// RegisterAssign adds the assignment form of op.
func (t *Table[L, R, OUT]) RegisterAssign(op Op, a Assign[L, R]) error {
	if !op.valid() {
		return newError(CodeNoOperator, "%s: cannot register %s", t.name, op.AssignString())
	}
	if !a.Eligible() {
		return newError(CodeIneligible, "%s: %s: need both L %s R and L %s &R", t.name, op.Name()+"_assign", op.AssignString(), op.AssignString())
	}
	t.assign[op] = a
	return nil
}

// RegisterUnary adds a prefix operator on L.
func (t *Table[L, R, OUT]) RegisterUnary(op UnaryOp, u Unary[L, OUT]) error {
	if !u.Eligible() {
		return newError(CodeIneligible, "%s: unary %s: need both V and &V forms", t.name, op)
	}
	t.unary[op] = u
	return nil
}

// Has reports whether op is registered.
func (t *Table[L, R, OUT]) Has(op Op) bool {
	_, ok := t.binary[op]
	return ok
}

// HasAssign reports whether the assignment form of op is registered.
func (t *Table[L, R, OUT]) HasAssign(op Op) bool {
	_, ok := t.assign[op]
	return ok
}

// HasUnary reports whether op is registered.
func (t *Table[L, R, OUT]) HasUnary(op UnaryOp) bool {
	_, ok := t.unary[op]
	return ok
}

// Ops returns the registered binary operators in declaration order.
func (t *Table[L, R, OUT]) Ops() []Op {
	ops := make([]Op, 0, len(t.binary))
	for op := range t.binary {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}

// Apply evaluates l op r into a new owned holder.
func (t *Table[L, R, OUT]) Apply(op Op, l *Ref[L], r *Ref[R]) (*Ref[OUT], error) {
	b, ok := t.binary[op]
	if !ok {
		return nil, t.missing(op.String())
	}
	t.emit("apply", op.String(), l, r)
	return b.Apply(l, r)
}

// ApplyMut evaluates l op r on mutable holders into a new owned holder.
func (t *Table[L, R, OUT]) ApplyMut(op Op, l *Mut[L], r *Mut[R]) (*Mut[OUT], error) {
	b, ok := t.binary[op]
	if !ok {
		return nil, t.missing(op.String())
	}
	t.emit("apply", op.String(), l, r)
	return b.ApplyMut(l, r)
}

// Assign evaluates l op= r; a borrowed l becomes owned first.
func (t *Table[L, R, OUT]) Assign(op Op, l *Ref[L], r *Ref[R]) error {
	a, ok := t.assign[op]
	if !ok {
		return t.missing(op.AssignString())
	}
	t.emit("assign", op.AssignString(), l, r)
	return a.Apply(l, r)
}

// AssignMut evaluates l op= r through l's reference.
func (t *Table[L, R, OUT]) AssignMut(op Op, l *Mut[L], r *Mut[R]) error {
	a, ok := t.assign[op]
	if !ok {
		return t.missing(op.AssignString())
	}
	t.emit("assign", op.AssignString(), l, r)
	return a.ApplyMut(l, r)
}

// Unary evaluates op h into a bare value.
func (t *Table[L, R, OUT]) Unary(op UnaryOp, h *Ref[L]) (OUT, error) {
	u, ok := t.unary[op]
	if !ok {
		var zero OUT
		return zero, t.missing("unary " + op.String())
	}
	t.emitUnary(op, h)
	return u.Apply(h)
}

// UnaryMut evaluates op h on a mutable holder.
func (t *Table[L, R, OUT]) UnaryMut(op UnaryOp, h *Mut[L]) (OUT, error) {
	u, ok := t.unary[op]
	if !ok {
		var zero OUT
		return zero, t.missing("unary " + op.String())
	}
	t.emitUnary(op, h)
	return u.ApplyMut(h)
}

func (t *Table[L, R, OUT]) missing(op string) error {
	return newError(CodeNoOperator, "%s: no operator %s for %s and %s", t.name, op, typeName[L](), typeName[R]())
}

func (t *Table[L, R, OUT]) emit(kind, op string, l Holder[L], r Holder[R]) {
	if t.tracer == nil || !t.tracer.Enabled() {
		return
	}
	trace.Point(t.tracer, trace.ScopeOp, t.name+": "+kind+" "+op, l.State().String()+" "+op+" "+r.State().String())
}

func (t *Table[L, R, OUT]) emitUnary(op UnaryOp, h Holder[L]) {
	if t.tracer == nil || !t.tracer.Enabled() {
		return
	}
	trace.Point(t.tracer, trace.ScopeOp, t.name+": unary "+op.String(), h.State().String())
}
