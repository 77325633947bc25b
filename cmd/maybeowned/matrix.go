package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"maybeowned/internal/matrix"
	"maybeowned/internal/observ"
	"maybeowned/internal/ui"
	"maybeowned/maybe"
	"maybeowned/trace"
)

var (
	matrixType string
	matrixLHS  string
	matrixRHS  string
	matrixJobs uint
	matrixUI   string
)

func init() {
	matrixCmd.Flags().StringVar(&matrixType, "type", "int", "operand type (int|uint8|float|bool|string)")
	matrixCmd.Flags().StringVar(&matrixLHS, "lhs", "", "left operand (default depends on --type)")
	matrixCmd.Flags().StringVar(&matrixRHS, "rhs", "", "right operand (default depends on --type)")
	matrixCmd.Flags().UintVar(&matrixJobs, "jobs", 0, "parallel checks (0 = GOMAXPROCS)")
	matrixCmd.Flags().StringVar(&matrixUI, "ui", "auto", "progress UI (auto|on|off)")
}

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Check that every operator agrees on all owned/borrowed combinations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := parseProgressMode(matrixUI)
		if err != nil {
			return err
		}
		jobs, err := safecast.Conv[int](matrixJobs)
		if err != nil {
			return fmt.Errorf("--jobs: %w", err)
		}
		run := matrixRun{
			ctx:   cmd.Context(),
			out:   cmd.OutOrStdout(),
			opts:  matrix.Options{Jobs: jobs},
			useUI: wantsProgress(mode, cmd.OutOrStdout()),
		}

		timer := observ.NewTimer(trace.FromContext(cmd.Context()))
		stop := timer.Start("matrix")
		var rep matrix.Report
		switch strings.ToLower(matrixType) {
		case "int":
			rep, err = runMatrix(run, maybe.SignedIntegers[int](), parseOr(strconv.Atoi, matrixLHS, 33), parseOr(strconv.Atoi, matrixRHS, 9))
		case "uint8":
			rep, err = runMatrix(run, maybe.Integers[uint8](), parseOr(parseUint8, matrixLHS, 200), parseOr(parseUint8, matrixRHS, 3))
		case "float":
			rep, err = runMatrix(run, maybe.Floats[float64](), parseOr(parseFloat, matrixLHS, 1.5), parseOr(parseFloat, matrixRHS, 0.25))
		case "bool":
			rep, err = runMatrix(run, maybe.Bools(), parseOr(strconv.ParseBool, matrixLHS, true), parseOr(strconv.ParseBool, matrixRHS, false))
		case "string":
			rep, err = runMatrix(run, maybe.Strings(), parseOr(parseString, matrixLHS, "owned"), parseOr(parseString, matrixRHS, "borrowed"))
		default:
			return fmt.Errorf("unsupported type %q (must be int, uint8, float, bool or string)", matrixType)
		}
		stop(fmt.Sprintf("%d ops", len(rep.Ops)))
		if err != nil {
			return err
		}

		if _, err := fmt.Fprint(cmd.OutOrStdout(), ui.RenderReport(rep)); err != nil {
			return err
		}
		if err := printTimings(cmd, timer); err != nil {
			return err
		}
		if !rep.OK() {
			return fmt.Errorf("%s: %d operator(s) disagree across owned/borrowed forms", rep.Table, len(rep.Failed())+len(rep.FailedUnary()))
		}
		return nil
	},
}

type matrixRun struct {
	ctx   context.Context
	out   io.Writer
	opts  matrix.Options
	useUI bool
}

type operand[T any] struct {
	value T
	err   error
}

func parseOr[T any](parse func(string) (T, error), s string, def T) operand[T] {
	if s == "" {
		return operand[T]{value: def}
	}
	v, err := parse(s)
	return operand[T]{value: v, err: err}
}

func runMatrix[T comparable](run matrixRun, table *maybe.Table[T, T, T], a, b operand[T]) (matrix.Report, error) {
	if a.err != nil {
		return matrix.Report{}, fmt.Errorf("--lhs: %w", a.err)
	}
	if b.err != nil {
		return matrix.Report{}, fmt.Errorf("--rhs: %w", b.err)
	}
	table.WithTracer(trace.FromContext(run.ctx))
	if run.useUI {
		return runMatrixWithUI(run.ctx, run.out, table, a.value, b.value, run.opts)
	}
	return matrix.Run(run.ctx, table, a.value, b.value, run.opts)
}

func parseUint8(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[uint8](v)
}
