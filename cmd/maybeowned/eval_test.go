package main

import (
	"bytes"
	"errors"
	"os"
	"strconv"
	"testing"

	"maybeowned/maybe"
	"maybeowned/trace"
)

func TestEvalWith(t *testing.T) {
	cases := []struct {
		name string
		lhs  string
		op   maybe.Op
		rhs  string
		opts evalOptions
		want string
	}{
		{"owned", "33", maybe.OpAdd, "9", evalOptions{}, "42 (owned)"},
		{"borrowed left", "33", maybe.OpAdd, "9", evalOptions{left: maybe.StateBorrowed}, "42 (owned)"},
		{"both borrowed mut", "6", maybe.OpMul, "7", evalOptions{left: maybe.StateBorrowed, right: maybe.StateBorrowed, mut: true}, "42 (owned)"},
		{"ref assign", "40", maybe.OpAdd, "2", evalOptions{left: maybe.StateBorrowed, assign: true}, "42 (owned)"},
		{"mut assign", "40", maybe.OpAdd, "2", evalOptions{left: maybe.StateBorrowed, mut: true, assign: true}, "42 (borrowed)"},
		{"hex shift", "0x15", maybe.OpShl, "1", evalOptions{}, "42 (owned)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.tracer = trace.Nop
			got, err := evalWith(maybe.SignedIntegers[int64](), parseInt, tc.lhs, tc.op, tc.rhs, tc.opts)
			if err != nil {
				t.Fatalf("evalWith: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEvalWithOtherTypes(t *testing.T) {
	opts := evalOptions{right: maybe.StateBorrowed, tracer: trace.Nop}
	if got, err := evalWith(maybe.Strings(), parseString, "ab", maybe.OpAdd, "cd", opts); err != nil || got != "abcd (owned)" {
		t.Fatalf("strings: %q, %v", got, err)
	}
	if got, err := evalWith(maybe.Bools(), strconv.ParseBool, "true", maybe.OpBitXor, "true", opts); err != nil || got != "false (owned)" {
		t.Fatalf("bools: %q, %v", got, err)
	}
	if got, err := evalWith(maybe.Floats[float64](), parseFloat, "1.5", maybe.OpDiv, "0.5", opts); err != nil || got != "3 (owned)" {
		t.Fatalf("floats: %q, %v", got, err)
	}
}

func TestEvalWithErrors(t *testing.T) {
	opts := evalOptions{tracer: trace.Nop}
	if _, err := evalWith(maybe.SignedIntegers[int64](), parseInt, "1", maybe.OpDiv, "0", opts); !errors.Is(err, maybe.ErrDivideByZero) {
		t.Fatalf("div: err = %v", err)
	}
	if _, err := evalWith(maybe.Strings(), parseString, "a", maybe.OpSub, "b", opts); !errors.Is(err, maybe.ErrNoOperator) {
		t.Fatalf("string sub: err = %v", err)
	}
	if _, err := evalWith(maybe.SignedIntegers[int64](), parseInt, "x", maybe.OpAdd, "1", opts); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseProgressMode(t *testing.T) {
	for in, want := range map[string]progressMode{"": progressAuto, "AUTO": progressAuto, "on": progressOn, " off ": progressOff} {
		got, err := parseProgressMode(in)
		if err != nil || got != want {
			t.Errorf("parseProgressMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := parseProgressMode("maybe"); err == nil {
		t.Error("expected error for invalid mode")
	}
	var buf bytes.Buffer
	if !wantsProgress(progressOn, &buf) || wantsProgress(progressOff, os.Stdout) {
		t.Error("explicit modes must win over terminal detection")
	}
	if wantsProgress(progressAuto, &buf) {
		t.Error("auto mode must not render into a buffer")
	}
}
