package core

// Pool is a segment-of-units free-list allocator, one instance per
// size class in the source this package is modeled after. Because
// every Stub has the same footprint, a single Pool backs all of them;
// PAIR! and other two-cell values are stored inline ("singular") in a
// Stub rather than needing their own pool. Go's runtime already
// manages the underlying memory, so this Pool's job is narrower than
// the C original's: it is the GC's enumeration surface (every unit not
// yet freed) and its free-list reuse discipline, not a raw
// bytes allocator.
type Pool struct {
	units    []*Stub
	free     []int // indices of freed, reusable slots
	live     int
	allocs   int
	frees    int
}

func NewPool() *Pool {
	return &Pool{}
}

// MakeStub allocates a new, unmanaged Stub of the given Flavor. This
// mirrors make_stub(flavor, flags) from spec.md §4.1: the Stub starts
// life unmanaged, reachable only through whatever local variable the
// caller keeps, until manage is called.
func (p *Pool) MakeStub(flavor Flavor) *Stub {
	s := &Stub{Flavor: flavor, pool: p}
	p.allocs++

	if len(p.free) > 0 {
		idx := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		s.poolIndex = idx
		p.units[idx] = s
	} else {
		s.poolIndex = len(p.units)
		p.units = append(p.units, s)
	}
	p.live++
	return s
}

// Free releases a unit back to the free list. It is called directly
// for unmanaged Stubs (explicit free_bytes-style teardown) and by the
// GC's sweep for managed-but-unmarked Stubs.
func (p *Pool) Free(s *Stub) {
	if p.units[s.poolIndex] != s {
		panic("pool: double free or corrupt stub index")
	}
	p.units[s.poolIndex] = nil
	p.free = append(p.free, s.poolIndex)
	p.live--
	p.frees++
}

// Units returns every live (non-freed) Stub currently tracked by the
// pool, managed or not. The GC sweep walks exactly this set.
func (p *Pool) Units() []*Stub {
	out := make([]*Stub, 0, p.live)
	for _, s := range p.units {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (p *Pool) LiveCount() int { return p.live }

// --- Back-door byte allocators (spec.md §4.1) ---

// AllocBytes returns a byte buffer backed by a Stub, mirroring
// alloc_bytes(size): the caller gets to mutate the bytes directly; the
// bookkeeping Stub stays unmanaged and hidden until Repossess or
// FreeBytes.
func (p *Pool) AllocBytes(size int) (*Stub, []byte) {
	s := p.MakeStub(FlavorBinary)
	s.flags |= StubFlagDynamic
	s.bytes = make([]byte, size)
	return s, s.bytes
}

// FreeBytes releases a buffer obtained through AllocBytes without ever
// promoting it to a first-class Binary value.
func (p *Pool) FreeBytes(s *Stub) {
	p.Free(s)
}

// Repossess reinterprets an AllocBytes buffer as a first-class Binary
// cell, the same allocation, now managed and reachable from source.
// Round-trip property from spec.md §8: the resulting Binary's length
// is n and its bytes equal what was written through the pointer.
func (p *Pool) Repossess(s *Stub, n int) Cell {
	if s.Flavor != FlavorBinary {
		panic("Repossess: stub is not a back-door byte allocation")
	}
	s.bytes = s.bytes[:n]
	s.manage()
	return BinaryCell(s)
}
