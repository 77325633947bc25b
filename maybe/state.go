package maybe

import "fmt"

// State is the discriminant of a holder.
type State uint8

const (
	// StateOwned means the holder owns its value. It is the zero State, so the
	// zero holder is Owned(zero T).
	StateOwned State = iota
	// StateBorrowed means the holder points at a value owned elsewhere.
	StateBorrowed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateOwned:
		return "owned"
	case StateBorrowed:
		return "borrowed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// ParseState converts "owned" or "borrowed" into a State.
func ParseState(s string) (State, error) {
	switch s {
	case "owned", "own", "o":
		return StateOwned, nil
	case "borrowed", "borrow", "b":
		return StateBorrowed, nil
	default:
		return StateOwned, fmt.Errorf("invalid holder state: %q (expected: owned|borrowed)", s)
	}
}

// Holder is the read surface shared by Ref and Mut.
type Holder[T any] interface {
	Deref() *T
	IsOwned() bool
	State() State
}
