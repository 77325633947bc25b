package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"maybeowned/trace"
)

// traceFlags are the persistent --trace* flags after parsing.
type traceFlags struct {
	output   string
	level    trace.Level
	mode     trace.StorageMode
	ringSize int
}

func readTraceFlags(fs *pflag.FlagSet) (traceFlags, error) {
	var tf traceFlags
	var err error
	if tf.output, err = fs.GetString("trace"); err != nil {
		return tf, err
	}
	if tf.ringSize, err = fs.GetInt("trace-ring-size"); err != nil {
		return tf, err
	}

	levelName, err := fs.GetString("trace-level")
	if err != nil {
		return tf, err
	}
	if tf.level, err = trace.ParseLevel(levelName); err != nil {
		return tf, err
	}
	// --trace without a level traces commands and borrows.
	if tf.level == trace.LevelOff && tf.output != "" {
		tf.level = trace.LevelBorrow
	}

	modeName, err := fs.GetString("trace-mode")
	if err != nil {
		return tf, err
	}
	if tf.mode, err = trace.ParseMode(modeName); err != nil {
		return tf, err
	}
	return tf, nil
}

// setupTracing attaches the tracer described by the --trace* flags to the
// command context and opens a span for the command. The returned cleanup
// closes the span, prints a ring-only buffer to stderr and closes the
// tracer.
func setupTracing(cmd *cobra.Command) (func(), error) {
	tf, err := readTraceFlags(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, fmt.Errorf("trace flags: %w", err)
	}
	tracer, err := trace.New(trace.Config{
		Level:      tf.level,
		Mode:       tf.mode,
		OutputPath: tf.output,
		RingSize:   tf.ringSize,
	})
	if err != nil {
		return nil, err
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	if !tracer.Enabled() {
		return func() {}, nil
	}

	span := trace.Begin(tracer, trace.ScopeCommand, cmd.CommandPath(), 0)
	return func() {
		span.End("")
		stderr := cmd.ErrOrStderr()
		if ring, ok := tracer.(*trace.RingTracer); ok {
			if err := ring.Dump(stderr, trace.FormatText); err != nil {
				fmt.Fprintf(stderr, "trace: dump: %v\n", err)
			}
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: close: %v\n", err)
		}
	}, nil
}
