package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"maybeowned/maybe"
)

// Current schema version - increment when Snapshot format changes.
const snapshotSchemaVersion uint16 = 1

// ErrSchemaMismatch is returned by Get when a stored snapshot has a
// different schema version.
var ErrSchemaMismatch = errors.New("registry: snapshot schema mismatch")

// Snapshot is the on-disk form of a registry.
type Snapshot struct {
	Schema  uint16          `msgpack:"schema"`
	Name    string          `msgpack:"name"`
	Entries []SnapshotEntry `msgpack:"entries"`
}

// SnapshotEntry records a key, its holder and whether the holder was
// borrowed when the snapshot was taken.
type SnapshotEntry struct {
	Key      string            `msgpack:"key"`
	Borrowed bool              `msgpack:"borrowed"`
	Entry    *maybe.Ref[Entry] `msgpack:"entry"`
}

// Capture builds a snapshot of r. Holders are shared, not copied.
func Capture(r *Registry) *Snapshot {
	items := r.Items()
	s := &Snapshot{
		Schema:  snapshotSchemaVersion,
		Name:    r.Name(),
		Entries: make([]SnapshotEntry, len(items)),
	}
	for i, it := range items {
		s.Entries[i] = SnapshotEntry{Key: it.Key, Borrowed: !it.Holder.IsOwned(), Entry: it.Holder}
	}
	return s
}

// Restore builds a registry from a decoded snapshot. Every holder in the
// result is owned.
func (s *Snapshot) Restore() (*Registry, error) {
	r := New(s.Name)
	for _, e := range s.Entries {
		if e.Entry == nil {
			return nil, fmt.Errorf("registry: snapshot entry %q has no value", e.Key)
		}
		if err := r.Register(e.Key, e.Entry); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SnapshotStore keeps registry snapshots as msgpack files in one directory.
// Thread-safe for concurrent access.
type SnapshotStore struct {
	mu  sync.RWMutex
	dir string
}

// OpenSnapshotStore creates dir if needed and returns a store rooted there.
func OpenSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SnapshotStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *SnapshotStore) Dir() string { return s.dir }

func (s *SnapshotStore) pathFor(name string) string {
	return filepath.Join(s.dir, name+".mp")
}

// Put writes the snapshot of r under r.Name().
func (s *SnapshotStore) Put(r *Registry) (err error) {
	if s == nil {
		return nil
	}
	if r.Name() == "" {
		return errors.New("registry: cannot snapshot an unnamed registry")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(r.Name())
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err = enc.Encode(Capture(r)); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the snapshot stored under name. A missing snapshot reports
// false with no error.
func (s *SnapshotStore) Get(name string) (*Snapshot, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var snap Snapshot
	if err := msgpack.NewDecoder(f).Decode(&snap); err != nil {
		return nil, false, fmt.Errorf("registry: decode snapshot %q: %w", name, err)
	}
	if snap.Schema != snapshotSchemaVersion {
		return nil, false, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, snap.Schema, snapshotSchemaVersion)
	}
	return &snap, true, nil
}

// Drop removes the snapshot stored under name.
func (s *SnapshotStore) Drop(name string) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.pathFor(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
