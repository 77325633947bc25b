package registry

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a registered record. Shared entries are held borrowed by every
// key that refers to them.
type Entry struct {
	ID   uuid.UUID `msgpack:"id" json:"id" yaml:"id"`
	Text string    `msgpack:"text" json:"text" yaml:"text"`
	Time time.Time `msgpack:"time" json:"time" yaml:"time"`
}

// NewEntry stamps a fresh ID and the current time.
func NewEntry(text string) Entry {
	return Entry{
		ID:   uuid.New(),
		Text: text,
		Time: time.Now(),
	}
}

// Clone returns a copy with the same ID, so an owned duplicate of a shared
// entry still identifies the same record.
func (e Entry) Clone() Entry {
	return Entry{ID: e.ID, Text: e.Text, Time: e.Time}
}
