package trace

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Format selects how events are rendered.
type Format uint8

const (
	FormatText   Format = iota // one human-readable line per event
	FormatNDJSON               // one JSON object per line
)

// ParseFormat converts "text" or "ndjson" (alias "json") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatText, fmt.Errorf("invalid trace format: %q (expected: text|ndjson)", s)
}

// AppendEvent renders ev in format f, newline included, and appends it to dst.
func AppendEvent(dst []byte, ev *Event, f Format) []byte {
	if f == FormatNDJSON {
		return appendJSON(dst, ev)
	}
	return appendText(dst, ev)
}

// FormatEvent is AppendEvent into a fresh slice.
func FormatEvent(ev *Event, f Format) []byte {
	return AppendEvent(nil, ev, f)
}

type jsonEvent struct {
	Time   string            `json:"time"`
	Seq    uint64            `json:"seq"`
	Kind   string            `json:"kind"`
	Scope  string            `json:"scope"`
	Span   uint64            `json:"span,omitempty"`
	Parent uint64            `json:"parent,omitempty"`
	Name   string            `json:"name"`
	Detail string            `json:"detail,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

func appendJSON(dst []byte, ev *Event) []byte {
	je := jsonEvent{
		Time:   ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:    ev.Seq,
		Kind:   ev.Kind.String(),
		Scope:  ev.Scope.String(),
		Span:   ev.Span,
		Parent: ev.Parent,
		Name:   ev.Name,
		Detail: ev.Detail,
	}
	if len(ev.Attrs) > 0 {
		je.Attrs = make(map[string]string, len(ev.Attrs))
		for _, a := range ev.Attrs {
			je.Attrs[a.Key] = a.Value
		}
	}
	data, err := json.Marshal(je)
	if err != nil {
		// Only strings and integers go in; this cannot fail.
		panic(err)
	}
	dst = append(dst, data...)
	return append(dst, '\n')
}

var kindMarks = [...]string{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
}

// appendText renders
//
//	#12     [borrow]   • cell "n": borrow (readers=1)
//	#13     [op]     ← check + (ok) {status=done}
//
// Nested spans are indented by two spaces.
func appendText(dst []byte, ev *Event) []byte {
	dst = append(dst, '#')
	n := len(dst)
	dst = strconv.AppendUint(dst, ev.Seq, 10)
	for len(dst)-n < 6 {
		dst = append(dst, ' ')
	}
	dst = append(dst, " ["...)
	dst = append(dst, ev.Scope.String()...)
	dst = append(dst, "] "...)
	if ev.Parent != 0 {
		dst = append(dst, "  "...)
	}
	if int(ev.Kind) < len(kindMarks) {
		dst = append(dst, kindMarks[ev.Kind]...)
	}
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	for i, a := range ev.Attrs {
		if i == 0 {
			dst = append(dst, " {"...)
		} else {
			dst = append(dst, ", "...)
		}
		dst = append(dst, a.Key...)
		dst = append(dst, '=')
		dst = append(dst, a.Value...)
	}
	if len(ev.Attrs) > 0 {
		dst = append(dst, '}')
	}
	return append(dst, '\n')
}
