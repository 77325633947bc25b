package matrix

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"maybeowned/maybe"
	"maybeowned/trace"
)

// Options tunes a Run.
type Options struct {
	Jobs int  // parallel checks; <= 0 means GOMAXPROCS
	Sink Sink // optional progress sink
}

// Run checks every operator registered in table with operands a and b.
//
// For each binary operator the four owned/borrowed combinations must give
// equal, owned results, or fail with the same error code. Assignment forms
// are checked on a borrowed Ref (which must become owned and leave the
// referent untouched) and on a borrowed Mut (which must stay borrowed and
// write through). Unary operators must agree on both states of a.
//
// Run returns an error only when ctx is cancelled; mismatches are reported
// in the Report.
func Run[T comparable](ctx context.Context, table *maybe.Table[T, T, T], a, b T, opts Options) (Report, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeCommand, "matrix "+table.Name(), 0)
	defer span.End("")

	ops := table.Ops()
	report := Report{
		Table: table.Name(),
		Left:  fmt.Sprint(a),
		Right: fmt.Sprint(b),
		Ops:   make([]OpReport, len(ops)),
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, op := range ops {
		notify(opts.Sink, Event{Op: op.String(), Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, op := range ops {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			notify(opts.Sink, Event{Op: op.String(), Status: StatusWorking})
			opSpan := span.Child(trace.ScopeOp, "check "+op.String())
			start := time.Now()

			rep := checkBinary(table, op, a, b)
			rep.Elapsed = time.Since(start)
			report.Ops[i] = rep

			status := StatusDone
			var err error
			if !rep.OK() {
				status = StatusError
				err = errors.New(rep.Problems[0])
			}
			opSpan.Attr("status", string(status)).End("")
			notify(opts.Sink, Event{Op: op.String(), Status: status, Err: err, Elapsed: rep.Elapsed})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	for _, op := range []maybe.UnaryOp{maybe.OpNeg, maybe.OpNot} {
		if table.HasUnary(op) {
			report.Unary = append(report.Unary, checkUnary(table, op, a))
		}
	}

	span.Attr("failed", fmt.Sprint(len(report.Failed())))
	return report, nil
}

func notify(s Sink, evt Event) {
	if s != nil {
		s.OnEvent(evt)
	}
}

func holder[T any](state maybe.State, p *T) *maybe.Ref[T] {
	if state == maybe.StateBorrowed {
		return maybe.Borrow(p)
	}
	return maybe.Own(*p)
}

func checkBinary[T comparable](table *maybe.Table[T, T, T], op maybe.Op, a, b T) OpReport {
	rep := OpReport{Op: op}

	var (
		want    T
		wantErr error
	)
	for i, c := range Cases(op) {
		la, rb := a, b
		out, err := table.Apply(op, holder(c.Left, &la), holder(c.Right, &rb))
		res := Result{Case: c, Err: err}
		if err == nil {
			res.Value = fmt.Sprint(out.Value())
			res.Owned = out.IsOwned()
			if !res.Owned {
				rep.problemf("%s %s %s: result is borrowed", c.Left, op, c.Right)
			}
		}
		rep.Results[i] = res

		if !agree(la, a) || !agree(rb, b) {
			rep.problemf("%s %s %s: operands were modified", c.Left, op, c.Right)
		}
		if i == 0 {
			wantErr = err
			if err == nil {
				want = out.Value()
			}
			continue
		}
		switch {
		case (err == nil) != (wantErr == nil):
			rep.problemf("%s %s %s: error %v, owned-owned gave %v", c.Left, op, c.Right, err, wantErr)
		case err != nil && !sameCode(err, wantErr):
			rep.problemf("%s %s %s: error %v, owned-owned gave %v", c.Left, op, c.Right, err, wantErr)
		case err == nil && !agree(out.Value(), want):
			rep.problemf("%s %s %s = %s, owned-owned gave %v", c.Left, op, c.Right, res.Value, want)
		}
	}

	if table.HasAssign(op) {
		rep.Assign = append(rep.Assign, checkAssignRef(table, op, a, b, want, wantErr, &rep))
		rep.Assign = append(rep.Assign, checkAssignMut(table, op, a, b, want, wantErr, &rep))
	}
	return rep
}

func checkAssignRef[T comparable](table *maybe.Table[T, T, T], op maybe.Op, a, b, want T, wantErr error, rep *OpReport) AssignResult {
	x := a
	l := maybe.Borrow(&x)
	err := table.Assign(op, l, maybe.Own(b))
	res := AssignResult{Holder: "ref", Err: err}
	if !agree(x, a) {
		rep.problemf("ref %s: borrowed referent was modified", op.AssignString())
	}
	if !sameOutcome(err, wantErr) {
		rep.problemf("ref %s: error %v, binary form gave %v", op.AssignString(), err, wantErr)
		return res
	}
	if err != nil {
		return res
	}
	res.Owned = l.IsOwned()
	res.Value = fmt.Sprint(l.Value())
	if !res.Owned {
		rep.problemf("ref %s: holder is still borrowed", op.AssignString())
	}
	if !agree(l.Value(), want) {
		rep.problemf("ref %s = %s, binary form gave %v", op.AssignString(), res.Value, want)
	}
	return res
}

func checkAssignMut[T comparable](table *maybe.Table[T, T, T], op maybe.Op, a, b, want T, wantErr error, rep *OpReport) AssignResult {
	y := a
	l := maybe.BorrowMut(&y)
	err := table.AssignMut(op, l, maybe.OwnMut(b))
	res := AssignResult{Holder: "mut", Err: err}
	if !sameOutcome(err, wantErr) {
		rep.problemf("mut %s: error %v, binary form gave %v", op.AssignString(), err, wantErr)
		return res
	}
	if err != nil {
		return res
	}
	res.Owned = l.IsOwned()
	res.Value = fmt.Sprint(y)
	if res.Owned {
		rep.problemf("mut %s: holder became owned", op.AssignString())
	}
	if !agree(y, want) {
		rep.problemf("mut %s = %s, binary form gave %v", op.AssignString(), res.Value, want)
	}
	return res
}

func checkUnary[T comparable](table *maybe.Table[T, T, T], op maybe.UnaryOp, a T) UnaryReport {
	rep := UnaryReport{Op: op}
	x := a
	owned, errOwned := table.Unary(op, maybe.Own(a))
	borrowed, errBorrowed := table.Unary(op, maybe.Borrow(&x))
	rep.Owned = fmt.Sprint(owned)
	rep.Borrowed = fmt.Sprint(borrowed)
	switch {
	case !sameOutcome(errOwned, errBorrowed):
		rep.Problems = append(rep.Problems, fmt.Sprintf("%s: owned error %v, borrowed error %v", op, errOwned, errBorrowed))
	case errOwned == nil && !agree(owned, borrowed):
		rep.Problems = append(rep.Problems, fmt.Sprintf("%s: owned %v, borrowed %v", op, owned, borrowed))
	}
	if !agree(x, a) {
		rep.Problems = append(rep.Problems, fmt.Sprintf("%s: borrowed operand was modified", op))
	}
	return rep
}

func (r *OpReport) problemf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// agree reports whether x and y are the same value. Values unequal to
// themselves, such as NaN, agree with each other.
func agree[T comparable](x, y T) bool {
	return x == y || (x != x && y != y)
}

func sameOutcome(a, b error) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return sameCode(a, b)
}

func sameCode(a, b error) bool {
	var ea, eb *maybe.Error
	if !errors.As(a, &ea) || !errors.As(b, &eb) {
		return a.Error() == b.Error()
	}
	return ea.Code == eb.Code
}
