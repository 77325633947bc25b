package registry_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"maybeowned/internal/registry"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {
	store, err := registry.OpenSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	reg := registry.New("demo")
	shared := registry.NewEntry("--missing--")
	_ = reg.Register("tom", registry.NewEntry("abc"))
	_ = reg.Register("lucy", &shared)

	if err := store.Put(reg); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "demo.mp")); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}

	snap, ok, err := store.Get("demo")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if snap.Name != "demo" || len(snap.Entries) != 2 {
		t.Fatalf("unexpected snapshot: name=%q entries=%d", snap.Name, len(snap.Entries))
	}
	// Items are sorted, so lucy comes first.
	if !snap.Entries[0].Borrowed || snap.Entries[1].Borrowed {
		t.Fatalf("borrowed flags = %v/%v, want true/false", snap.Entries[0].Borrowed, snap.Entries[1].Borrowed)
	}

	restored, err := snap.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Borrowed() != 0 || restored.Owned() != 2 {
		t.Fatalf("restored registry must be all owned, got %d/%d", restored.Owned(), restored.Borrowed())
	}
	lucy, ok := restored.Lookup("lucy")
	if !ok {
		t.Fatal("lucy missing after restore")
	}
	if lucy.ID != shared.ID || lucy.Text != shared.Text || !lucy.Time.Equal(shared.Time) {
		t.Fatalf("lucy = %+v, want %+v", *lucy, shared)
	}
}

func TestSnapshotStoreMissingAndDrop(t *testing.T) {
	store, err := registry.OpenSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	snap, ok, err := store.Get("nope")
	if err != nil || ok || snap != nil {
		t.Fatalf("missing snapshot: snap=%v ok=%v err=%v", snap, ok, err)
	}

	reg := registry.New("gone")
	_ = reg.Register("a", registry.NewEntry("a"))
	if err := store.Put(reg); err != nil {
		t.Fatal(err)
	}
	if err := store.Drop("gone"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, ok, _ := store.Get("gone"); ok {
		t.Fatal("snapshot still present after Drop")
	}
	if err := store.Drop("gone"); err != nil {
		t.Fatalf("second drop: %v", err)
	}
}

func TestSnapshotStoreRejectsUnnamedAndOldSchema(t *testing.T) {
	store, err := registry.OpenSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(registry.New("")); err == nil {
		t.Fatal("expected error for unnamed registry")
	}

	data, err := msgpack.Marshal(&registry.Snapshot{Schema: 99, Name: "old"})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(store.Dir(), "old.mp"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.Get("old"); !errors.Is(err, registry.ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}
