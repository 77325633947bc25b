package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"maybeowned/maybe"
	"maybeowned/trace"
)

var (
	evalType   string
	evalLeft   string
	evalRight  string
	evalMut    bool
	evalAssign bool
)

func init() {
	evalCmd.Flags().StringVar(&evalType, "type", "int", "operand type (int|float|string|bool)")
	evalCmd.Flags().StringVar(&evalLeft, "left", "owned", "left operand state (owned|borrowed)")
	evalCmd.Flags().StringVar(&evalRight, "right", "owned", "right operand state (owned|borrowed)")
	evalCmd.Flags().BoolVar(&evalMut, "mut", false, "use mutable holders")
	evalCmd.Flags().BoolVar(&evalAssign, "assign", false, "evaluate the assignment form (lhs op= rhs)")
}

var evalCmd = &cobra.Command{
	Use:   "eval <lhs> <op> <rhs>",
	Short: "Evaluate a binary operator on owned or borrowed holders",
	Example: `  maybeowned eval 33 + 9 --left borrowed
  maybeowned eval 3 '<<' 2 --mut --assign --left borrowed
  maybeowned eval ab + cd --type string`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := maybe.ParseOp(args[1])
		if err != nil {
			return err
		}
		left, err := maybe.ParseState(evalLeft)
		if err != nil {
			return fmt.Errorf("--left: %w", err)
		}
		right, err := maybe.ParseState(evalRight)
		if err != nil {
			return fmt.Errorf("--right: %w", err)
		}
		opts := evalOptions{
			left:   left,
			right:  right,
			mut:    evalMut,
			assign: evalAssign || strings.HasSuffix(args[1], "=") || strings.HasSuffix(args[1], "_assign"),
			tracer: trace.FromContext(cmd.Context()),
		}

		var out string
		switch strings.ToLower(evalType) {
		case "int":
			out, err = evalWith(maybe.SignedIntegers[int64](), parseInt, args[0], op, args[2], opts)
		case "float":
			out, err = evalWith(maybe.Floats[float64](), parseFloat, args[0], op, args[2], opts)
		case "string":
			out, err = evalWith(maybe.Strings(), parseString, args[0], op, args[2], opts)
		case "bool":
			out, err = evalWith(maybe.Bools(), strconv.ParseBool, args[0], op, args[2], opts)
		default:
			return fmt.Errorf("unsupported type %q (must be int, float, string or bool)", evalType)
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

type evalOptions struct {
	left   maybe.State
	right  maybe.State
	mut    bool
	assign bool
	tracer trace.Tracer
}

// evalWith parses both operands, wraps them in holders in the requested
// states and applies op. The result is printed as "<value> (<state>)"; for
// assignments the state is that of the left holder afterwards.
func evalWith[T any](table *maybe.Table[T, T, T], parse func(string) (T, error), lhs string, op maybe.Op, rhs string, opts evalOptions) (string, error) {
	a, err := parse(lhs)
	if err != nil {
		return "", fmt.Errorf("left operand: %w", err)
	}
	b, err := parse(rhs)
	if err != nil {
		return "", fmt.Errorf("right operand: %w", err)
	}
	table.WithTracer(opts.tracer)

	if opts.mut {
		l, r := mutHolder(opts.left, &a), mutHolder(opts.right, &b)
		if opts.assign {
			if err := table.AssignMut(op, l, r); err != nil {
				return "", err
			}
			return describe(l.Value(), l.State()), nil
		}
		res, err := table.ApplyMut(op, l, r)
		if err != nil {
			return "", err
		}
		return describe(res.Value(), res.State()), nil
	}

	l, r := refHolder(opts.left, &a), refHolder(opts.right, &b)
	if opts.assign {
		if err := table.Assign(op, l, r); err != nil {
			return "", err
		}
		return describe(l.Value(), l.State()), nil
	}
	res, err := table.Apply(op, l, r)
	if err != nil {
		return "", err
	}
	return describe(res.Value(), res.State()), nil
}

func refHolder[T any](state maybe.State, p *T) *maybe.Ref[T] {
	if state == maybe.StateBorrowed {
		return maybe.Borrow(p)
	}
	return maybe.Own(*p)
}

func mutHolder[T any](state maybe.State, p *T) *maybe.Mut[T] {
	if state == maybe.StateBorrowed {
		return maybe.BorrowMut(p)
	}
	return maybe.OwnMut(*p)
}

func describe[T any](v T, s maybe.State) string {
	return fmt.Sprintf("%v (%s)", v, s)
}

func parseInt(s string) (int64, error) { return strconv.ParseInt(s, 0, 64) }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

func parseString(s string) (string, error) { return s, nil }
