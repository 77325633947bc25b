package matrix

import (
	"time"

	"maybeowned/maybe"
)

// Status captures progress of one operator check.
type Status string

const (
	// StatusQueued indicates the check is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the check is running.
	StatusWorking Status = "working"
	// StatusDone indicates every form agreed.
	StatusDone Status = "done"
	// StatusError indicates a mismatch or a failed evaluation.
	StatusError Status = "error"
)

// Event reports progress for one operator.
type Event struct {
	Op      string
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Sink consumes progress events. OnEvent may be called from several
// goroutines.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Case is one owned/borrowed combination of operands.
type Case struct {
	Op    maybe.Op
	Left  maybe.State
	Right maybe.State
}

// Cases returns the four combinations for op in a fixed order:
// owned-owned, owned-borrowed, borrowed-owned, borrowed-borrowed.
func Cases(op maybe.Op) [4]Case {
	return [4]Case{
		{Op: op, Left: maybe.StateOwned, Right: maybe.StateOwned},
		{Op: op, Left: maybe.StateOwned, Right: maybe.StateBorrowed},
		{Op: op, Left: maybe.StateBorrowed, Right: maybe.StateOwned},
		{Op: op, Left: maybe.StateBorrowed, Right: maybe.StateBorrowed},
	}
}

// Result is the outcome of one Case.
type Result struct {
	Case
	Value string
	Owned bool
	Err   error
}

// AssignResult is the outcome of an assignment check.
type AssignResult struct {
	Holder string // "ref" or "mut"
	Value  string
	Owned  bool
	Err    error
}

// OpReport collects every check made for one operator.
type OpReport struct {
	Op       maybe.Op
	Results  [4]Result
	Assign   []AssignResult
	Problems []string
	Elapsed  time.Duration
}

// OK reports whether all checks passed.
func (r OpReport) OK() bool { return len(r.Problems) == 0 }

// UnaryReport is the outcome of a unary operator on both states.
type UnaryReport struct {
	Op       maybe.UnaryOp
	Owned    string
	Borrowed string
	Problems []string
}

// Report is the full outcome of a Run.
type Report struct {
	Table string
	Left  string
	Right string
	Ops   []OpReport
	Unary []UnaryReport
}

// Failed returns the operators with at least one problem.
func (r Report) Failed() []OpReport {
	var out []OpReport
	for _, op := range r.Ops {
		if !op.OK() {
			out = append(out, op)
		}
	}
	return out
}

// FailedUnary returns the unary operators with at least one problem.
func (r Report) FailedUnary() []UnaryReport {
	var out []UnaryReport
	for _, u := range r.Unary {
		if len(u.Problems) > 0 {
			out = append(out, u)
		}
	}
	return out
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	return len(r.Failed()) == 0 && len(r.FailedUnary()) == 0
}
