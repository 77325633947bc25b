package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"maybeowned/internal/matrix"
	"maybeowned/internal/ui"
	"maybeowned/maybe"
)

// progressMode is the value of --ui.
type progressMode string

const (
	progressAuto progressMode = "auto"
	progressOn   progressMode = "on"
	progressOff  progressMode = "off"
)

func parseProgressMode(value string) (progressMode, error) {
	switch m := progressMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return progressAuto, nil
	case progressAuto, progressOn, progressOff:
		return m, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// wantsProgress decides whether the matrix renders a live progress view on
// out. In auto mode only a terminal gets one.
func wantsProgress(mode progressMode, out io.Writer) bool {
	switch mode {
	case progressOn:
		return true
	case progressOff:
		return false
	}
	f, ok := out.(*os.File)
	return ok && isTerminal(f)
}

type matrixOutcome struct {
	report matrix.Report
	err    error
}

// runMatrixWithUI runs the matrix in the background while a progress model
// renders its events.
func runMatrixWithUI[T comparable](ctx context.Context, out io.Writer, table *maybe.Table[T, T, T], a, b T, opts matrix.Options) (matrix.Report, error) {
	events := make(chan matrix.Event, 256)
	outcomeCh := make(chan matrixOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Sink = matrix.ChannelSink{Ch: events}
		rep, err := matrix.Run(ctx, table, a, b, optsCopy)
		outcomeCh <- matrixOutcome{report: rep, err: err}
		close(events)
	}()

	ops := make([]string, 0, len(table.Ops()))
	for _, op := range table.Ops() {
		ops = append(ops, op.String())
	}
	model := ui.NewProgressModel(table.Name(), ops, events)
	program := tea.NewProgram(model, tea.WithOutput(out))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
