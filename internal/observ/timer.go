// Package observ measures the phases of a CLI command.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"maybeowned/trace"
)

// Phase is one measured step of a command, such as loading the manifest
// or running the matrix.
type Phase struct {
	Name string
	Dur  time.Duration
	Note string
}

// Timer collects phases in the order they were started. Each phase is
// mirrored as a command-scope span on the timer's tracer.
type Timer struct {
	mu     sync.Mutex
	tracer trace.Tracer
	phases []Phase
}

// NewTimer returns an empty Timer. tr may be nil.
func NewTimer(tr trace.Tracer) *Timer {
	if tr == nil {
		tr = trace.Nop
	}
	return &Timer{tracer: tr}
}

// Start opens a phase and returns the function that closes it. Calling the
// stop function more than once keeps the first measurement.
func (t *Timer) Start(name string) (stop func(note string)) {
	t.mu.Lock()
	idx := len(t.phases)
	t.phases = append(t.phases, Phase{Name: name})
	t.mu.Unlock()

	span := trace.Begin(t.tracer, trace.ScopeCommand, "phase "+name, 0)
	began := time.Now()
	var once sync.Once
	return func(note string) {
		once.Do(func() {
			d := time.Since(began)
			span.End(note)
			t.mu.Lock()
			t.phases[idx].Dur = d
			t.phases[idx].Note = note
			t.mu.Unlock()
		})
	}
}

// PhaseReport is the serialized form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report lists every phase with the sum of their durations.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the phases measured so far.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	var rep Report
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		rep.Phases = append(rep.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	rep.TotalMS = millis(total)
	return rep
}

// Summary renders the report as an aligned table for stderr.
func (t *Timer) Summary() string {
	rep := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	for _, p := range rep.Phases {
		fmt.Fprintf(tw, "  %s\t%.2f ms\t%s\t\n", p.Name, p.DurationMS, p.Note)
	}
	fmt.Fprintf(tw, "  %s\t%.2f ms\t\t\n", "total", rep.TotalMS)
	_ = tw.Flush()
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
