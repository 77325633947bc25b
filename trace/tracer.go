package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	// Flush pushes out anything buffered.
	Flush() error
	// Close flushes and releases the tracer's output.
	Close() error
	Level() Level
	// Enabled reports Level() > LevelOff.
	Enabled() bool
}

// StorageMode chooses where a tracer built by New keeps events.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written immediately
	ModeRing                          // held in memory
	ModeBoth                          // both of the above
)

var modeNames = [...]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

func (m StorageMode) streams() bool { return m == ModeStream || m == ModeBoth }
func (m StorageMode) rings() bool   { return m == ModeRing || m == ModeBoth }

// ParseMode converts "stream", "ring" or "both" to a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	want := strings.ToLower(s)
	for m, name := range modeNames {
		if name != "" && name == want {
			return StorageMode(m), nil
		}
	}
	return 0, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes a tracer for New.
type Config struct {
	Level  Level
	Mode   StorageMode
	Format Format
	// Output receives streamed events and is never closed by the tracer.
	// When nil, OutputPath names a file to create; "" and "-" mean stderr.
	Output     io.Writer
	OutputPath string
	RingSize   int // DefaultRingSize when <= 0
}

// New builds the tracer cfg describes. LevelOff yields Nop. An OutputPath
// ending in ".ndjson" selects FormatNDJSON regardless of cfg.Format.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if !cfg.Mode.streams() && !cfg.Mode.rings() {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}

	var tracers []Tracer
	if cfg.Mode.streams() {
		w, err := cfg.open()
		if err != nil {
			return nil, err
		}
		format := cfg.Format
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
			format = FormatNDJSON
		}
		tracers = append(tracers, NewStreamTracer(w, cfg.Level, format))
	}
	if cfg.Mode.rings() {
		tracers = append(tracers, NewRingTracer(cfg.RingSize, cfg.Level))
	}
	if len(tracers) == 1 {
		return tracers[0], nil
	}
	return NewMultiTracer(cfg.Level, tracers...), nil
}

func (cfg Config) open() (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return keepOpen{cfg.Output}, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return keepOpen{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// keepOpen hides Close from the tracer so it never closes a writer it
// did not open.
type keepOpen struct{ io.Writer }
