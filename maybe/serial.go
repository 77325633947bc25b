package maybe

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Holders serialize as their value: owned and borrowed holders produce the
// same bytes. Decoding always yields an owned holder, since a decoded value
// has no external owner to borrow from.

// MarshalJSON encodes the held value.
func (r *Ref[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Deref())
}

// UnmarshalJSON decodes a fresh owned value.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.reset(v)
	return nil
}

// MarshalYAML returns the held value for yaml.v3 to encode.
func (r *Ref[T]) MarshalYAML() (any, error) {
	return r.Deref(), nil
}

// UnmarshalYAML decodes a fresh owned value.
func (r *Ref[T]) UnmarshalYAML(node *yaml.Node) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	r.reset(v)
	return nil
}

// EncodeMsgpack encodes the held value.
func (r *Ref[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(r.Deref())
}

// DecodeMsgpack decodes a fresh owned value.
func (r *Ref[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var v T
	if err := dec.Decode(&v); err != nil {
		return err
	}
	r.reset(v)
	return nil
}

// MarshalJSON encodes the held value.
func (m *Mut[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Deref())
}

// UnmarshalJSON decodes a fresh owned value.
func (m *Mut[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	m.reset(v)
	return nil
}

// MarshalYAML returns the held value for yaml.v3 to encode.
func (m *Mut[T]) MarshalYAML() (any, error) {
	return m.Deref(), nil
}

// UnmarshalYAML decodes a fresh owned value.
func (m *Mut[T]) UnmarshalYAML(node *yaml.Node) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	m.reset(v)
	return nil
}

// EncodeMsgpack encodes the held value.
func (m *Mut[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(m.Deref())
}

// DecodeMsgpack decodes a fresh owned value.
func (m *Mut[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var v T
	if err := dec.Decode(&v); err != nil {
		return err
	}
	m.reset(v)
	return nil
}

var (
	_ json.Marshaler        = (*Ref[int])(nil)
	_ yaml.Marshaler        = (*Ref[int])(nil)
	_ msgpack.CustomEncoder = (*Ref[int])(nil)
	_ msgpack.CustomDecoder = (*Ref[int])(nil)
	_ json.Unmarshaler      = (*Mut[int])(nil)
	_ yaml.Unmarshaler      = (*Mut[int])(nil)
)
