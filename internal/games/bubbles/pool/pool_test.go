package pool_test

import (
	"testing"

	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/pool"
)

func TestAcquireAssignsUniqueIDs(t *testing.T) {
	p := pool.New(2)
	seen := make(map[int]bool)
	for i := 0; i < 5; i++ {
		b := p.Acquire(hexgrid.TypeRed)
		if seen[b.ID] {
			t.Fatalf("duplicate id %d", b.ID)
		}
		seen[b.ID] = true
	}
	if s := p.Stats(); s.InUse != 5 || s.Free != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestReleaseAndReuse(t *testing.T) {
	p := pool.New(0)
	a := p.Acquire(hexgrid.TypeRed)
	a.Fairy = true
	oldID := a.ID
	p.Release(a)

	b := p.Acquire(hexgrid.TypeBlue)
	if b != a {
		t.Fatal("expected the released record to be reused")
	}
	if b.ID == oldID {
		t.Error("reused record should get a fresh id")
	}
	if b.Type != hexgrid.TypeBlue || b.Fairy || b.IsRegistered() {
		t.Errorf("reused record not reset: %+v", b)
	}
	if s := p.Stats(); s.Reused != 1 || s.Allocated != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestReleaseIgnoresForeignAndDouble(t *testing.T) {
	p := pool.New(0)
	a := p.Acquire(hexgrid.TypeGreen)
	p.Release(a)
	p.Release(a)
	p.Release(hexgrid.NewBubble(99, hexgrid.TypeRed))
	p.Release(nil)

	if s := p.Stats(); s.Free != 1 || s.InUse != 0 {
		t.Errorf("stats = %+v, want 1 free", s)
	}
}

func TestPreallocatedRecordsAreNotCountedAsReuse(t *testing.T) {
	p := pool.New(3)
	p.Acquire(hexgrid.TypeRed)
	if s := p.Stats(); s.Reused != 0 || s.Free != 2 || s.InUse != 1 {
		t.Errorf("stats = %+v", s)
	}
}
