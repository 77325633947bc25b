package maybe_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"maybeowned/maybe"
	"maybeowned/trace"
)

func TestCellSharedBorrows(t *testing.T) {
	c := maybe.NewCell(10, maybe.WithName("count"))

	a, err := c.Borrow()
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Borrow()
	if err != nil {
		t.Fatal(err)
	}
	if c.Readers() != 2 || c.Exclusive() {
		t.Fatalf("readers=%d exclusive=%v", c.Readers(), c.Exclusive())
	}
	if a.Value() != 10 || b.IsOwned() {
		t.Fatal("cell borrows are borrowed views of the value")
	}

	if _, err := c.BorrowMut(); !errors.Is(err, maybe.ErrAliasing) {
		t.Fatalf("BorrowMut while shared: err = %v", err)
	} else if !strings.Contains(err.Error(), `cell "count"`) {
		t.Fatalf("error should name the cell: %v", err)
	}
	if err := c.Store(1); !errors.Is(err, maybe.ErrAliasing) {
		t.Fatalf("Store while shared: err = %v", err)
	}
	if v, err := c.Load(); err != nil || v != 10 {
		t.Fatalf("Load while shared: %d, %v", v, err)
	}

	clone := a.Clone()
	if c.Readers() != 3 {
		t.Fatalf("Clone of a checkout must check out again, readers=%d", c.Readers())
	}

	a.Release()
	b.MakeOwned()
	if _, err := c.Into(); !errors.Is(err, maybe.ErrAliasing) {
		t.Fatalf("Into with an outstanding borrow: err = %v", err)
	}
	_ = clone.IntoOwned()
	if c.Readers() != 0 {
		t.Fatalf("readers = %d after every holder checked in", c.Readers())
	}
	if v, err := c.Into(); err != nil || v != 10 {
		t.Fatalf("Into: %d, %v", v, err)
	}
}

func TestCellExclusiveBorrow(t *testing.T) {
	c := maybe.NewCell([]int{0})
	m, err := c.BorrowMut()
	if err != nil {
		t.Fatal(err)
	}
	if !c.Exclusive() {
		t.Fatal("cell should be exclusively borrowed")
	}
	if _, err := c.Borrow(); !errors.Is(err, maybe.ErrAliasing) {
		t.Fatalf("Borrow while exclusive: err = %v", err)
	}
	if _, err := c.BorrowMut(); !errors.Is(err, maybe.ErrAliasing) {
		t.Fatalf("second BorrowMut: err = %v", err)
	}
	if _, err := c.Load(); !errors.Is(err, maybe.ErrAliasing) {
		t.Fatalf("Load while exclusive: err = %v", err)
	}

	p := m.AsMut()
	*p = append(*p, 1)
	m.Release()

	v, err := c.Load()
	if err != nil || len(v) != 2 || v[1] != 1 {
		t.Fatalf("Load after release: %v, %v", v, err)
	}
	if err := c.Store([]int{7}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, err := c.Borrow(); err != nil {
		t.Fatalf("Borrow after Store: %v", err)
	}
}

func TestCellGuardedToCowIsOwned(t *testing.T) {
	c := maybe.NewCell("x")
	r, _ := c.Borrow()
	cow := r.ToCow()
	if cow.IsBorrowed() {
		t.Fatal("a Cow carries no checkout, so it must own its value")
	}
	if c.Readers() != 0 {
		t.Fatalf("ToCow must check the holder in, readers=%d", c.Readers())
	}
}

func TestCellConcurrentReaders(t *testing.T) {
	c := maybe.NewCell(1)
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := c.Borrow()
			if err != nil {
				t.Error(err)
				return
			}
			_ = r.Value()
			r.Release()
		}()
	}
	wg.Wait()
	if c.Readers() != 0 || c.Exclusive() {
		t.Fatalf("readers=%d exclusive=%v", c.Readers(), c.Exclusive())
	}
}

func TestCellTracing(t *testing.T) {
	ring := trace.NewRingTracer(32, trace.LevelDebug)
	c := maybe.NewCell(2, maybe.WithName("n"), maybe.WithTracer(ring))

	r, _ := c.Borrow()
	_, _ = c.BorrowMut()
	r.MakeOwned()

	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	want := []string{`cell "n": borrow`, `cell "n": conflict`, `cell "n": clone`, `cell "n": release`}
	if strings.Join(names, "|") != strings.Join(want, "|") {
		t.Fatalf("events = %q, want %q", names, want)
	}
}
