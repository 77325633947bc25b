package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"maybeowned/maybe"
)

// ErrEmptyKey is returned when a key is blank after normalization.
var ErrEmptyKey = errors.New("registry: empty key")

// Registry maps keys to entries that are either owned by the registry or
// borrowed from the caller.
type Registry struct {
	name    string
	entries map[string]*maybe.Ref[Entry]
}

// Item is one key/holder pair, as returned by Items.
type Item struct {
	Key    string
	Holder *maybe.Ref[Entry]
}

// New creates an empty registry.
func New(name string) *Registry {
	return &Registry{name: name, entries: make(map[string]*maybe.Ref[Entry])}
}

// Name returns the registry name.
func (r *Registry) Name() string { return r.name }

// NormalizeKey trims surrounding space and converts the key to NFC.
func NormalizeKey(key string) string {
	return norm.NFC.String(strings.TrimSpace(key))
}

// Register stores data under key. data may be an Entry (stored owned), an
// *Entry (stored borrowed) or a *maybe.Ref[Entry] (stored as is).
// An existing holder under the same key is replaced, and released once no
// other key stores it.
func (r *Registry) Register(key string, data any) error {
	k := NormalizeKey(key)
	if k == "" {
		return ErrEmptyKey
	}
	h, err := maybe.Of[Entry](data)
	if err != nil {
		return fmt.Errorf("registry: register %q: %w", k, err)
	}
	old, ok := r.entries[k]
	r.entries[k] = h
	if ok && old != h && !r.holds(old) {
		old.Release()
	}
	return nil
}

func (r *Registry) holds(h *maybe.Ref[Entry]) bool {
	for _, e := range r.entries {
		if e == h {
			return true
		}
	}
	return false
}

// Lookup returns the entry stored under key.
func (r *Registry) Lookup(key string) (*Entry, bool) {
	h, ok := r.entries[NormalizeKey(key)]
	if !ok {
		return nil, false
	}
	return h.Deref(), true
}

// Holder returns the holder stored under key.
func (r *Registry) Holder(key string) (*maybe.Ref[Entry], bool) {
	h, ok := r.entries[NormalizeKey(key)]
	return h, ok
}

// Len returns the number of keys.
func (r *Registry) Len() int { return len(r.entries) }

// Keys returns all keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Items returns all pairs sorted by key.
func (r *Registry) Items() []Item {
	keys := r.Keys()
	items := make([]Item, len(keys))
	for i, k := range keys {
		items[i] = Item{Key: k, Holder: r.entries[k]}
	}
	return items
}

// Owned counts the entries the registry owns.
func (r *Registry) Owned() int {
	n := 0
	for _, h := range r.entries {
		if h.IsOwned() {
			n++
		}
	}
	return n
}

// Borrowed counts the entries borrowed from outside the registry.
func (r *Registry) Borrowed() int {
	return len(r.entries) - r.Owned()
}

// Detach turns every borrowed holder into an owned one, so the registry no
// longer refers to caller memory.
func (r *Registry) Detach() int {
	n := 0
	for _, h := range r.entries {
		if !h.IsOwned() {
			h.MakeOwned()
			n++
		}
	}
	return n
}

// Close releases every holder and empties the registry.
func (r *Registry) Close() {
	for k, h := range r.entries {
		h.Release()
		delete(r.entries, k)
	}
}
