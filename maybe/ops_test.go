package maybe_test

import (
	"errors"
	"slices"
	"testing"

	"maybeowned/maybe"
)

func combos(a, b *int) []struct {
	name string
	l, r *maybe.Ref[int]
} {
	return []struct {
		name string
		l, r *maybe.Ref[int]
	}{
		{"owned+owned", maybe.Own(*a), maybe.Own(*b)},
		{"owned+borrowed", maybe.Own(*a), maybe.Borrow(b)},
		{"borrowed+owned", maybe.Borrow(a), maybe.Own(*b)},
		{"borrowed+borrowed", maybe.Borrow(a), maybe.Borrow(b)},
	}
}

func TestAddAllCombinations(t *testing.T) {
	ints := maybe.SignedIntegers[int]()
	a, b := 33, 9
	for _, c := range combos(&a, &b) {
		out, err := ints.Apply(maybe.OpAdd, c.l, c.r)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if out.Value() != 42 || !out.IsOwned() {
			t.Fatalf("%s = %d (owned=%v), want owned 42", c.name, out.Value(), out.IsOwned())
		}
		if c.l.IsOwned() != (c.name[:5] == "owned") {
			t.Fatalf("%s: operand state changed", c.name)
		}
	}
	if a != 33 || b != 9 {
		t.Fatal("operands must not be modified")
	}
}

func TestScenarioBorrowedPlusOwned(t *testing.T) {
	n := 33
	h := maybe.Borrow(&n)
	out, err := maybe.Integers[int]().Apply(maybe.OpAdd, h, maybe.Own(9))
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsOwned() || !maybe.Equal[int](out, maybe.Own(42)) {
		t.Fatalf("got %v (owned=%v), want owned 42", out, out.IsOwned())
	}
}

func TestIntegerOperators(t *testing.T) {
	ints := maybe.Integers[int32]()
	cases := []struct {
		op   maybe.Op
		a, b int32
		want int32
	}{
		{maybe.OpSub, 50, 8, 42},
		{maybe.OpMul, 6, 7, 42},
		{maybe.OpDiv, 85, 2, 42},
		{maybe.OpShl, 21, 1, 42},
		{maybe.OpShr, 84, 1, 42},
		{maybe.OpBitAnd, 0b111010, 0b101110, 0b101010},
		{maybe.OpBitOr, 0b101000, 0b000010, 42},
		{maybe.OpBitXor, 0b101111, 0b000101, 42},
	}
	for _, tc := range cases {
		a, b := tc.a, tc.b
		out, err := ints.Apply(tc.op, maybe.Borrow(&a), maybe.Borrow(&b))
		if err != nil {
			t.Fatalf("%d %s %d: %v", tc.a, tc.op, tc.b, err)
		}
		if out.Value() != tc.want {
			t.Errorf("%d %s %d = %d, want %d", tc.a, tc.op, tc.b, out.Value(), tc.want)
		}
	}
}

func TestIntegerErrors(t *testing.T) {
	ints := maybe.SignedIntegers[int]()
	if _, err := ints.Apply(maybe.OpDiv, maybe.Own(1), maybe.Own(0)); !errors.Is(err, maybe.ErrDivideByZero) {
		t.Fatalf("div by zero: err = %v", err)
	}
	if _, err := ints.Apply(maybe.OpShl, maybe.Own(1), maybe.Own(-1)); !errors.Is(err, maybe.ErrShiftRange) {
		t.Fatalf("negative shift: err = %v", err)
	}
	if _, err := maybe.Strings().Apply(maybe.OpMul, maybe.Own("a"), maybe.Own("b")); !errors.Is(err, maybe.ErrNoOperator) {
		t.Fatalf("string mul: err = %v", err)
	}

	v := 5
	l := maybe.BorrowMut(&v)
	if err := ints.AssignMut(maybe.OpDiv, l, maybe.OwnMut(0)); !errors.Is(err, maybe.ErrDivideByZero) {
		t.Fatalf("div assign: err = %v", err)
	}
	if v != 5 {
		t.Fatal("failed assignment must leave the value alone")
	}
}

func TestAssignOnBorrowedRef(t *testing.T) {
	ints := maybe.Integers[int]()
	a := 40
	l := maybe.Borrow(&a)
	b := 2
	if err := ints.Assign(maybe.OpAdd, l, maybe.Borrow(&b)); err != nil {
		t.Fatal(err)
	}
	if !l.IsOwned() || l.Value() != 42 {
		t.Fatalf("l = %d (owned=%v), want owned 42", l.Value(), l.IsOwned())
	}
	if a != 40 {
		t.Fatal("assignment on a Ref must not write the referent")
	}
}

func TestFailedAssignKeepsBorrow(t *testing.T) {
	ints := maybe.SignedIntegers[int]()
	a := 7
	l := maybe.Borrow(&a)
	if err := ints.Assign(maybe.OpDiv, l, maybe.Own(0)); !errors.Is(err, maybe.ErrDivideByZero) {
		t.Fatalf("div assign: err = %v", err)
	}
	if l.IsOwned() || l.Deref() != &a {
		t.Fatalf("failed assignment changed the holder: owned=%v", l.IsOwned())
	}
	if a != 7 {
		t.Fatalf("a = %d, want 7", a)
	}
}

func TestAssignOnBorrowedMut(t *testing.T) {
	ints := maybe.Integers[int]()
	a := 40
	l := maybe.BorrowMut(&a)
	if err := ints.AssignMut(maybe.OpAdd, l, maybe.OwnMut(2)); err != nil {
		t.Fatal(err)
	}
	if l.IsOwned() {
		t.Fatal("assignment on a Mut must keep it borrowed")
	}
	if a != 42 {
		t.Fatalf("a = %d, want 42", a)
	}
}

func TestUnary(t *testing.T) {
	ints := maybe.SignedIntegers[int]()
	v := 5
	if got, err := ints.Unary(maybe.OpNeg, maybe.Borrow(&v)); err != nil || got != -5 {
		t.Fatalf("-&5 = %d, %v", got, err)
	}
	if got, err := ints.UnaryMut(maybe.OpNot, maybe.OwnMut(0)); err != nil || got != -1 {
		t.Fatalf("^0 = %d, %v", got, err)
	}
	if got, err := maybe.Bools().Unary(maybe.OpNot, maybe.Own(true)); err != nil || got {
		t.Fatalf("!true = %v, %v", got, err)
	}
	if _, err := maybe.Integers[uint]().Unary(maybe.OpNeg, maybe.Own[uint](1)); !errors.Is(err, maybe.ErrNoOperator) {
		t.Fatalf("unsigned negation: err = %v", err)
	}
	if v != 5 {
		t.Fatal("unary operators must not modify the operand")
	}
}

func TestMixedTypes(t *testing.T) {
	// []string * int -> string: repeat the joined slice n times.
	table := maybe.NewTable[[]string, int, string]("repeat")
	err := table.Register(maybe.OpMul, maybe.Total(func(l *[]string, r *int) string {
		out := ""
		for range *r {
			for _, s := range *l {
				out += s
			}
		}
		return out
	}))
	if err != nil {
		t.Fatal(err)
	}
	words := []string{"a", "b"}
	out, err := table.ApplyMut(maybe.OpMul, maybe.BorrowMut(&words), maybe.OwnMut(2))
	if err != nil || out.Value() != "abab" || !out.IsOwned() {
		t.Fatalf("got %v, %v", out, err)
	}
}

func TestEligibility(t *testing.T) {
	partial := maybe.Binary[int, int, int]{
		VV: func(l, r int) (int, error) { return l + r, nil },
		RR: func(l, r *int) (int, error) { return *l + *r, nil },
	}
	if partial.Eligible() {
		t.Fatal("a binary operator without all four forms is not eligible")
	}
	if _, err := partial.Apply(maybe.Own(1), maybe.Own(1)); !errors.Is(err, maybe.ErrIneligible) {
		t.Fatalf("Apply ineligible: err = %v", err)
	}

	table := maybe.NewTable[int, int, int]("partial")
	if err := table.Register(maybe.OpAdd, partial); !errors.Is(err, maybe.ErrIneligible) {
		t.Fatalf("Register ineligible: err = %v", err)
	}
	if table.Has(maybe.OpAdd) {
		t.Fatal("ineligible operator must not be registered")
	}
	if err := table.RegisterAssign(maybe.OpAdd, maybe.Assign[int, int]{}); !errors.Is(err, maybe.ErrIneligible) {
		t.Fatalf("RegisterAssign ineligible: err = %v", err)
	}
	if err := table.RegisterUnary(maybe.OpNeg, maybe.Unary[int, int]{}); !errors.Is(err, maybe.ErrIneligible) {
		t.Fatalf("RegisterUnary ineligible: err = %v", err)
	}
	if err := table.Register(maybe.Op(99), maybe.Total(func(l, r *int) int { return 0 })); !errors.Is(err, maybe.ErrNoOperator) {
		t.Fatalf("Register invalid op: err = %v", err)
	}
}

func TestTableOps(t *testing.T) {
	if got := maybe.Bools().Ops(); !slices.Equal(got, []maybe.Op{maybe.OpBitAnd, maybe.OpBitOr, maybe.OpBitXor}) {
		t.Fatalf("Bools ops = %v", got)
	}
	if got := maybe.Floats[float32]().Ops(); len(got) != 4 {
		t.Fatalf("Floats ops = %v", got)
	}
	if got := maybe.Integers[uint16]().Ops(); !slices.Equal(got, maybe.AllOps) {
		t.Fatalf("Integers ops = %v", got)
	}
	if !maybe.Strings().HasAssign(maybe.OpAdd) || maybe.Strings().HasUnary(maybe.OpNot) {
		t.Fatal("Strings has += and no unary operators")
	}
}

func TestParseOp(t *testing.T) {
	cases := map[string]maybe.Op{
		"+":            maybe.OpAdd,
		"+=":           maybe.OpAdd,
		"add":          maybe.OpAdd,
		"add_assign":   maybe.OpAdd,
		"<<":           maybe.OpShl,
		">>=":          maybe.OpShr,
		"BitXor":       maybe.OpBitXor,
		" & ":          maybe.OpBitAnd,
		"bitor_assign": maybe.OpBitOr,
		"div":          maybe.OpDiv,
	}
	for in, want := range cases {
		got, err := maybe.ParseOp(in)
		if err != nil || got != want {
			t.Errorf("ParseOp(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := maybe.ParseOp("%"); err == nil {
		t.Error("ParseOp(%) should fail")
	}
	if maybe.OpShl.Name() != "shl" || maybe.OpShl.AssignString() != "<<=" {
		t.Error("unexpected operator names")
	}
}
