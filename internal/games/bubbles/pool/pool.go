// Package pool recycles bubble records between placements.
package pool

import "github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"

// Stats counts pool activity.
type Stats struct {
	Allocated int // Records ever created
	InUse     int // Acquired and not yet released
	Free      int // Waiting for reuse
	Reused    int // Acquires served from the free list
}

// Pool is a free-list of bubble records. IDs are unique over the pool's
// lifetime and never reused.
type Pool struct {
	free   []*hexgrid.Bubble
	live   map[*hexgrid.Bubble]struct{}
	nextID int
	reused int
}

// New creates a pool with capacity records preallocated.
func New(capacity int) *Pool {
	p := &Pool{live: make(map[*hexgrid.Bubble]struct{})}
	for i := 0; i < capacity; i++ {
		p.free = append(p.free, hexgrid.NewBubble(0, hexgrid.TypeNone))
	}
	return p
}

// Acquire returns an unregistered bubble of type t.
func (p *Pool) Acquire(t hexgrid.BubbleType) *hexgrid.Bubble {
	p.nextID++
	var b *hexgrid.Bubble
	if n := len(p.free); n > 0 {
		b = p.free[n-1]
		p.free = p.free[:n-1]
		if b.ID != 0 {
			p.reused++
		}
		b.Reset(t)
		b.ID = p.nextID
	} else {
		b = hexgrid.NewBubble(p.nextID, t)
	}
	p.live[b] = struct{}{}
	return b
}

// Release returns a bubble to the free list. Releasing a bubble the pool
// does not own, or releasing twice, is ignored.
func (p *Pool) Release(b *hexgrid.Bubble) {
	if b == nil {
		return
	}
	if _, ok := p.live[b]; !ok {
		return
	}
	delete(p.live, b)
	p.free = append(p.free, b)
}

// Stats returns current counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Allocated: len(p.live) + len(p.free),
		InUse:     len(p.live),
		Free:      len(p.free),
		Reused:    p.reused,
	}
}
