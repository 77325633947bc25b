package maybe_test

import (
	"errors"
	"fmt"
	"testing"

	"maybeowned/maybe"
)

func TestErrorCodes(t *testing.T) {
	if got := maybe.CodeAliasing.String(); got != "MO2001" {
		t.Fatalf("CodeAliasing = %q", got)
	}
	if got := maybe.ErrDivideByZero.Error(); got != "maybe MO2007: integer divide by zero" {
		t.Fatalf("default message = %q", got)
	}

	err := fmt.Errorf("eval: %w", &maybe.Error{Code: maybe.CodeShiftRange, Message: "shift by -1"})
	if !errors.Is(err, maybe.ErrShiftRange) {
		t.Fatal("wrapped error must match its sentinel")
	}
	if errors.Is(err, maybe.ErrDivideByZero) {
		t.Fatal("codes must not cross-match")
	}
	var me *maybe.Error
	if !errors.As(err, &me) || me.Message != "shift by -1" {
		t.Fatalf("errors.As = %+v", me)
	}
}

func TestParseState(t *testing.T) {
	cases := []struct {
		in      string
		want    maybe.State
		wantErr bool
	}{
		{"owned", maybe.StateOwned, false},
		{"b", maybe.StateBorrowed, false},
		{"borrow", maybe.StateBorrowed, false},
		{"shared", maybe.StateOwned, true},
	}
	for _, tc := range cases {
		got, err := maybe.ParseState(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseState(%q) err = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseState(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if maybe.StateBorrowed.String() != "borrowed" || maybe.State(9).String() != "State(9)" {
		t.Fatal("State.String mismatch")
	}
}
