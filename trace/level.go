package trace

import (
	"fmt"
	"strings"
)

// Level bounds the scopes a tracer records.
type Level uint8

const (
	LevelOff    Level = iota // nothing
	LevelError               // aliasing conflicts only
	LevelBorrow              // plus commands, checkouts and releases
	LevelOp                  // plus operator dispatch
	LevelDebug               // plus duplications
)

var levels = [...]struct {
	name  string
	upper Scope
}{
	LevelOff:    {"off", 0},
	LevelError:  {"error", ScopeFault},
	LevelBorrow: {"borrow", ScopeBorrow},
	LevelOp:     {"op", ScopeOp},
	LevelDebug:  {"debug", ScopeClone},
}

func (l Level) String() string {
	if int(l) < len(levels) {
		return levels[l].name
	}
	return "unknown"
}

// ParseLevel accepts the names printed by String, in any case.
func ParseLevel(s string) (Level, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for l, info := range levels {
		if info.name == want {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|borrow|op|debug)", s)
}

// ShouldEmit reports whether events of scope are recorded at level l.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levels) || scope == 0 {
		return false
	}
	return scope <= levels[l].upper
}
