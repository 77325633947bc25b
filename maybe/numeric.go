package maybe

import (
	"fortio.org/safecast"
)

// Signed is the set of signed integer types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Float is the set of floating-point types.
type Float interface {
	~float32 | ~float64
}

// Integers returns a table with the nine binary operators, their
// assignment forms and bitwise complement (OpNot) for an integer type.
// Arithmetic wraps on overflow. Division by zero fails with ErrDivideByZero
// and a negative shift count with ErrShiftRange.
func Integers[T safecast.Integer]() *Table[T, T, T] {
	t := NewTable[T, T, T]("integers[" + typeName[T]() + "]")
	arith(t, OpAdd, func(a, b T) (T, error) { return a + b, nil })
	arith(t, OpSub, func(a, b T) (T, error) { return a - b, nil })
	arith(t, OpMul, func(a, b T) (T, error) { return a * b, nil })
	arith(t, OpDiv, func(a, b T) (T, error) {
		if b == 0 {
			return 0, newError(CodeDivideByZero, "%v / 0", a)
		}
		return a / b, nil
	})
	arith(t, OpShl, func(a, b T) (T, error) {
		n, err := shiftCount(b)
		if err != nil {
			return 0, err
		}
		return a << n, nil
	})
	arith(t, OpShr, func(a, b T) (T, error) {
		n, err := shiftCount(b)
		if err != nil {
			return 0, err
		}
		return a >> n, nil
	})
	arith(t, OpBitAnd, func(a, b T) (T, error) { return a & b, nil })
	arith(t, OpBitOr, func(a, b T) (T, error) { return a | b, nil })
	arith(t, OpBitXor, func(a, b T) (T, error) { return a ^ b, nil })
	mustRegister(t.RegisterUnary(OpNot, LiftUnary(func(v *T) T { return ^*v })))
	return t
}

// SignedIntegers returns Integers plus negation (OpNeg).
func SignedIntegers[T Signed]() *Table[T, T, T] {
	t := Integers[T]()
	mustRegister(t.RegisterUnary(OpNeg, LiftUnary(func(v *T) T { return -*v })))
	return t
}

// Floats returns a table with + - * /, their assignment forms and negation.
// Division follows IEEE 754 and never fails.
func Floats[T Float]() *Table[T, T, T] {
	t := NewTable[T, T, T]("floats[" + typeName[T]() + "]")
	arith(t, OpAdd, func(a, b T) (T, error) { return a + b, nil })
	arith(t, OpSub, func(a, b T) (T, error) { return a - b, nil })
	arith(t, OpMul, func(a, b T) (T, error) { return a * b, nil })
	arith(t, OpDiv, func(a, b T) (T, error) { return a / b, nil })
	mustRegister(t.RegisterUnary(OpNeg, LiftUnary(func(v *T) T { return -*v })))
	return t
}

// Bools returns a table with & | ^, their assignment forms and OpNot.
func Bools() *Table[bool, bool, bool] {
	t := NewTable[bool, bool, bool]("bools")
	arith(t, OpBitAnd, func(a, b bool) (bool, error) { return a && b, nil })
	arith(t, OpBitOr, func(a, b bool) (bool, error) { return a || b, nil })
	arith(t, OpBitXor, func(a, b bool) (bool, error) { return a != b, nil })
	mustRegister(t.RegisterUnary(OpNot, LiftUnary(func(v *bool) bool { return !*v })))
	return t
}

// Strings returns a table with concatenation (+ and +=).
func Strings() *Table[string, string, string] {
	t := NewTable[string, string, string]("strings")
	arith(t, OpAdd, func(a, b string) (string, error) { return a + b, nil })
	return t
}

// arith registers op and its assignment form from one evaluation function.
func arith[T any](t *Table[T, T, T], op Op, fn func(a, b T) (T, error)) {
	mustRegister(t.Register(op, Lift(func(l, r *T) (T, error) { return fn(*l, *r) })))
	mustRegister(t.RegisterAssign(op, LiftAssign(func(l, r *T) error {
		v, err := fn(*l, *r)
		if err != nil {
			return err
		}
		*l = v
		return nil
	})))
}

func shiftCount[T safecast.Integer](n T) (uint, error) {
	c, err := safecast.Conv[uint](n)
	if err != nil {
		return 0, newError(CodeShiftRange, "shift count %v: %v", n, err)
	}
	return c, nil
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
