package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq   atomic.Uint64
	spans atomic.Uint64
)

// enabledFor reports whether t records scope at all.
func enabledFor(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Span brackets a unit of work with begin and end events. A Span started
// on a tracer that does not record its scope is inert: every method is a
// no-op and ID returns 0.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Begin starts a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !enabledFor(t, scope) {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      spans.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

// Child starts a span nested under s on the same tracer.
func (s *Span) Child(scope Scope, name string) *Span {
	if s == nil || s.tracer == nil {
		return &Span{}
	}
	return Begin(s.tracer, scope, name, s.id)
}

// Attr attaches a key/value pair to the end event.
func (s *Span) Attr(key, value string) *Span {
	if s != nil && s.tracer != nil {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
	return s
}

// End emits the end event and returns the time since Begin.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now, detail)
	ev.Attrs = s.attrs
	s.tracer.Emit(ev)
	return now.Sub(s.started)
}

// ID returns the span's identifier, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:   at,
		Seq:    seq.Add(1),
		Kind:   kind,
		Scope:  s.scope,
		Span:   s.id,
		Parent: s.parent,
		Name:   s.name,
		Detail: detail,
	}
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	if !enabledFor(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:   time.Now(),
		Seq:    seq.Add(1),
		Kind:   KindPoint,
		Scope:  scope,
		Name:   name,
		Detail: detail,
	})
}
