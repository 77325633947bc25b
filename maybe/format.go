package maybe

import (
	"encoding"
	"fmt"
)

// String formats the held value with %v.
func (r *Ref[T]) String() string {
	return fmt.Sprint(*r.Deref())
}

// Format passes every verb and flag through to the held value.
func (r *Ref[T]) Format(f fmt.State, verb rune) {
	fmt.Fprintf(f, fmt.FormatString(f, verb), *r.Deref())
}

// String formats the held value with %v.
func (m *Mut[T]) String() string {
	return fmt.Sprint(*m.Deref())
}

// Format passes every verb and flag through to the held value.
func (m *Mut[T]) Format(f fmt.State, verb rune) {
	fmt.Fprintf(f, fmt.FormatString(f, verb), *m.Deref())
}

// Parse parses s with parse and returns an owned holder. A parse failure
// returns parse's error unchanged.
func Parse[T any](s string, parse func(string) (T, error)) (*Ref[T], error) {
	v, err := parse(s)
	if err != nil {
		return nil, err
	}
	return Own(v), nil
}

// ParseMut is Parse for Mut.
func ParseMut[T any](s string, parse func(string) (T, error)) (*Mut[T], error) {
	v, err := parse(s)
	if err != nil {
		return nil, err
	}
	return OwnMut(v), nil
}

// MarshalText delegates to the held value.
func (r *Ref[T]) MarshalText() ([]byte, error) {
	return marshalText(r.Deref())
}

// UnmarshalText decodes into a fresh value; the holder becomes owned.
func (r *Ref[T]) UnmarshalText(text []byte) error {
	v, err := unmarshalText[T](text)
	if err != nil {
		return err
	}
	r.reset(v)
	return nil
}

// MarshalText delegates to the held value.
func (m *Mut[T]) MarshalText() ([]byte, error) {
	return marshalText(m.Deref())
}

// UnmarshalText decodes into a fresh value; the holder becomes owned.
func (m *Mut[T]) UnmarshalText(text []byte) error {
	v, err := unmarshalText[T](text)
	if err != nil {
		return err
	}
	m.reset(v)
	return nil
}

func marshalText[T any](p *T) ([]byte, error) {
	if tm, ok := any(p).(encoding.TextMarshaler); ok {
		return tm.MarshalText()
	}
	if tm, ok := any(*p).(encoding.TextMarshaler); ok {
		return tm.MarshalText()
	}
	if s, ok := any(*p).(string); ok {
		return []byte(s), nil
	}
	return nil, newError(CodeUnsupported, "%s does not implement encoding.TextMarshaler", typeName[T]())
}

func unmarshalText[T any](text []byte) (T, error) {
	var v T
	if tu, ok := any(&v).(encoding.TextUnmarshaler); ok {
		return v, tu.UnmarshalText(text)
	}
	if sp, ok := any(&v).(*string); ok {
		*sp = string(text)
		return v, nil
	}
	return v, newError(CodeUnsupported, "%s does not implement encoding.TextUnmarshaler", typeName[T]())
}
