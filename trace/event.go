package trace

import "time"

// Kind tells span boundaries from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope says what an event is about. Coarser scopes have lower values; a
// Level admits every scope up to its own bound.
type Scope uint8

const (
	// ScopeFault covers aliasing conflicts on guarded cells.
	ScopeFault Scope = iota + 1
	// ScopeCommand covers CLI commands and matrix runs.
	ScopeCommand
	// ScopeBorrow covers cell checkouts and releases.
	ScopeBorrow
	// ScopeOp covers operator dispatch through a table.
	ScopeOp
	// ScopeClone covers duplication of a borrowed value.
	ScopeClone
)

var scopeNames = [...]string{
	ScopeFault:   "fault",
	ScopeCommand: "command",
	ScopeBorrow:  "borrow",
	ScopeOp:      "op",
	ScopeClone:   "clone",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is a key/value pair carried by an event. Attrs keep the order in
// which they were added.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	Time   time.Time
	Seq    uint64 // process-wide order, assigned when the event is built
	Kind   Kind
	Scope  Scope
	Span   uint64 // 0 for points
	Parent uint64 // 0 for roots
	Name   string // `cell "config": borrow`, "integers[int]: apply +"
	Detail string
	Attrs  []Attr
}
