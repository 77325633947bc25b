package maybe

import (
	"fmt"
	"strings"

	"maybeowned/trace"
)

// Op is a binary operator that can be lifted onto holders.
type Op uint8

const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpDiv
	OpShl
	OpShr
	OpBitAnd
	OpBitOr
	OpBitXor
)

// AllOps lists the binary operators in declaration order.
var AllOps = []Op{OpAdd, OpSub, OpMul, OpDiv, OpShl, OpShr, OpBitAnd, OpBitOr, OpBitXor}

var opTable = [...]struct {
	sym  string
	name string
}{
	OpAdd:    {"+", "add"},
	OpSub:    {"-", "sub"},
	OpMul:    {"*", "mul"},
	OpDiv:    {"/", "div"},
	OpShl:    {"<<", "shl"},
	OpShr:    {">>", "shr"},
	OpBitAnd: {"&", "bitand"},
	OpBitOr:  {"|", "bitor"},
	OpBitXor: {"^", "bitxor"},
}

func (o Op) valid() bool {
	return o >= OpAdd && o <= OpBitXor
}

// String returns the operator symbol, e.g. "+".
func (o Op) String() string {
	if !o.valid() {
		return fmt.Sprintf("Op(%d)", o)
	}
	return opTable[o].sym
}

// Name returns the operator name, e.g. "add".
func (o Op) Name() string {
	if !o.valid() {
		return fmt.Sprintf("op%d", o)
	}
	return opTable[o].name
}

// AssignString returns the assignment form, e.g. "+=".
func (o Op) AssignString() string {
	return o.String() + "="
}

// ParseOp accepts a symbol ("+", "+=") or a name ("add", "add_assign").
func ParseOp(s string) (Op, error) {
	s = strings.TrimSpace(s)
	base := strings.TrimSuffix(strings.TrimSuffix(s, "_assign"), "=")
	for _, op := range AllOps {
		if base == opTable[op].sym || strings.EqualFold(base, opTable[op].name) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("invalid operator: %q (expected one of + - * / << >> & | ^)", s)
}

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota + 1 // -x
	OpNot                    // !x for bool, ^x for integers
)

// String returns the operator symbol.
func (o UnaryOp) String() string {
	switch o {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	default:
		return fmt.Sprintf("UnaryOp(%d)", o)
	}
}

// Binary holds the four forms of an operator between L and R, one per
// owned/borrowed combination of the operands:
//
//	VV: L op R     VR: L op &R
//	RV: &L op R    RR: &L op &R
//
// A holder's state is only known at run time, so an operator is defined on
// holders only when all four forms exist. They share the result type OUT.
type Binary[L, R, OUT any] struct {
	VV func(l L, r R) (OUT, error)
	VR func(l L, r *R) (OUT, error)
	RV func(l *L, r R) (OUT, error)
	RR func(l *L, r *R) (OUT, error)
}

// Lift builds all four forms from the by-pointer one.
func Lift[L, R, OUT any](fn func(l *L, r *R) (OUT, error)) Binary[L, R, OUT] {
	return Binary[L, R, OUT]{
		VV: func(l L, r R) (OUT, error) { return fn(&l, &r) },
		VR: func(l L, r *R) (OUT, error) { return fn(&l, r) },
		RV: func(l *L, r R) (OUT, error) { return fn(l, &r) },
		RR: fn,
	}
}

// Total lifts an operator that cannot fail.
func Total[L, R, OUT any](fn func(l *L, r *R) OUT) Binary[L, R, OUT] {
	return Lift(func(l *L, r *R) (OUT, error) { return fn(l, r), nil })
}

// Eligible reports whether all four forms are present.
func (b Binary[L, R, OUT]) Eligible() bool {
	return b.VV != nil && b.VR != nil && b.RV != nil && b.RR != nil
}

func (b Binary[L, R, OUT]) missing() string {
	var forms []string
	if b.VV == nil {
		forms = append(forms, "L op R")
	}
	if b.VR == nil {
		forms = append(forms, "L op &R")
	}
	if b.RV == nil {
		forms = append(forms, "&L op R")
	}
	if b.RR == nil {
		forms = append(forms, "&L op &R")
	}
	return strings.Join(forms, ", ")
}

func (b Binary[L, R, OUT]) check() error {
	if b.Eligible() {
		return nil
	}
	return newError(CodeIneligible, "%s op %s: missing %s", typeName[L](), typeName[R](), b.missing())
}

// call picks the form matching the operands' states.
func (b Binary[L, R, OUT]) call(l Holder[L], r Holder[R]) (OUT, error) {
	lp, rp := l.Deref(), r.Deref()
	switch {
	case l.IsOwned() && r.IsOwned():
		return b.VV(*lp, *rp)
	case l.IsOwned():
		return b.VR(*lp, rp)
	case r.IsOwned():
		return b.RV(lp, *rp)
	default:
		return b.RR(lp, rp)
	}
}

// Apply evaluates l op r. The result is a new owned holder; the operands are
// left as they were.
func (b Binary[L, R, OUT]) Apply(l *Ref[L], r *Ref[R]) (*Ref[OUT], error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	out, err := b.call(l, r)
	if err != nil {
		return nil, err
	}
	return Own(out), nil
}

// ApplyMut is Apply for mutable holders.
func (b Binary[L, R, OUT]) ApplyMut(l *Mut[L], r *Mut[R]) (*Mut[OUT], error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	out, err := b.call(l, r)
	if err != nil {
		return nil, err
	}
	return OwnMut(out), nil
}

// Assign holds the in-place forms of an operator: the right operand by
// value (owned) or by pointer (borrowed).
type Assign[L, R any] struct {
	ByValue func(l *L, r R) error
	ByRef   func(l *L, r *R) error
}

// LiftAssign builds both forms from the by-pointer one.
func LiftAssign[L, R any](fn func(l *L, r *R) error) Assign[L, R] {
	return Assign[L, R]{
		ByValue: func(l *L, r R) error { return fn(l, &r) },
		ByRef:   fn,
	}
}

// Eligible reports whether both forms are present.
func (a Assign[L, R]) Eligible() bool {
	return a.ByValue != nil && a.ByRef != nil
}

func (a Assign[L, R]) check() error {
	if a.Eligible() {
		return nil
	}
	return newError(CodeIneligible, "%s op= %s: need both L op= R and L op= &R", typeName[L](), typeName[R]())
}

func (a Assign[L, R]) call(dst *L, r Holder[R]) error {
	if r.IsOwned() {
		return a.ByValue(dst, *r.Deref())
	}
	return a.ByRef(dst, r.Deref())
}

// Apply evaluates l op= r. A borrowed l is evaluated on a duplicate and
// becomes owned only when the operation succeeds, so the external value is
// never written and a failed assignment leaves l as it was.
func (a Assign[L, R]) Apply(l *Ref[L], r *Ref[R]) error {
	if err := a.check(); err != nil {
		return err
	}
	if l.IsOwned() {
		return a.call(l.MakeOwned(), r)
	}
	v := duplicate(l.Deref())
	if err := a.call(&v, r); err != nil {
		return err
	}
	l.g.emit(trace.ScopeClone, "clone", "make_owned")
	l.reset(v)
	return nil
}

// ApplyMut evaluates l op= r in place. A borrowed l stays borrowed and the
// external owner sees the result.
func (a Assign[L, R]) ApplyMut(l *Mut[L], r *Mut[R]) error {
	if err := a.check(); err != nil {
		return err
	}
	return a.call(l.AsMut(), r)
}

// Unary holds the two forms of a prefix operator: on an owned V and on a
// borrowed one. Both must exist and share OUT.
type Unary[V, OUT any] struct {
	Value func(v V) (OUT, error)
	Ref   func(v *V) (OUT, error)
}

// LiftUnary builds both forms from a total by-pointer operator.
func LiftUnary[V, OUT any](fn func(v *V) OUT) Unary[V, OUT] {
	return Unary[V, OUT]{
		Value: func(v V) (OUT, error) { return fn(&v), nil },
		Ref:   func(v *V) (OUT, error) { return fn(v), nil },
	}
}

// Eligible reports whether both forms are present.
func (u Unary[V, OUT]) Eligible() bool {
	return u.Value != nil && u.Ref != nil
}

func (u Unary[V, OUT]) eval(h Holder[V]) (OUT, error) {
	if !u.Eligible() {
		var zero OUT
		return zero, newError(CodeIneligible, "unary op on %s: need both V and &V forms", typeName[V]())
	}
	if h.IsOwned() {
		return u.Value(*h.Deref())
	}
	return u.Ref(h.Deref())
}

// Apply evaluates the operator. The result is a bare value, not a holder.
func (u Unary[V, OUT]) Apply(h *Ref[V]) (OUT, error) {
	return u.eval(h)
}

// ApplyMut is Apply for a mutable holder.
func (u Unary[V, OUT]) ApplyMut(h *Mut[V]) (OUT, error) {
	return u.eval(h)
}
