package core

// GC implements spec.md §4.2: a stop-the-world mark-and-sweep pass
// over the Stub pool, with an explicit mark-stack to avoid recursing
// into Go's own call stack on deeply nested structures.
type GC struct {
	in *Interpreter

	disabled  bool
	torture   bool
	recursing bool

	allocatedSinceGC int
	ballastBytes     int

	markStack []*Stub
}

func NewGC(in *Interpreter) *GC {
	return &GC{
		in:           in,
		ballastBytes: in.Config.GetInt("gc.ballast_bytes"),
		disabled:     in.Config.GetBool("gc.disabled"),
		torture:      in.Config.GetBool("gc.torture"),
	}
}

// SetGCTorture lets an embedder (e.g. the CLI, after loading a config
// overlay) flip torture mode post-boot; Collect/NoteAllocation read
// this field directly, not Interpreter.Config, so changes after boot
// must go through here rather than Config.SetBool alone.
func (in *Interpreter) SetGCTorture(on bool) { in.gc.Torture(on) }

// SetGCDisabled mirrors SetGCTorture for the disable switch.
func (in *Interpreter) SetGCDisabled(on bool) {
	if on {
		in.gc.Disable()
	} else {
		in.gc.Enable()
	}
}

// CollectGarbage runs one GC pass on demand - the embedder-facing hook
// for spec.md §6's "force a collection" entry point.
func (in *Interpreter) CollectGarbage() { in.gc.Collect() }

// Disable/Enable implement spec.md §4.2 "Ballast and disable": the GC
// can be turned off during boot, during crash handling, or inside its
// own body (recursive entry is always suppressed regardless).
func (g *GC) Disable() { g.disabled = true }
func (g *GC) Enable()  { g.disabled = false }

// Torture arms the GC to run on every NoteAllocation call instead of
// waiting for the ballast threshold - a stress-testing mode.
func (g *GC) Torture(on bool) { g.torture = on }

// NoteAllocation is called by MakeText, MakeSource and BeginCall after
// they allocate; it runs a full Collect once the ballast threshold is
// crossed, or on every call in torture mode. Other Stub allocations
// (Pool.MakeStub, NewVarlist, NewUse, ...) do not call it and neither
// count toward the ballast nor trigger a torture collection.
func (g *GC) NoteAllocation(bytes int) {
	if g.disabled {
		return
	}
	g.allocatedSinceGC += bytes
	if g.torture || g.allocatedSinceGC >= g.ballastBytes {
		g.Collect()
	}
}

// Collect runs one full mark-and-sweep pass. Per spec.md §4.2's
// "Failure model", Collect must not itself fail: any assumption
// violation here is a process-aborting bug, not a recoverable error,
// so this method panics rather than returning one - the same posture
// as the rest of the engine's AbruptFailure class, but one level
// nearer the metal since there is no inner Level to unwind past GC.
func (g *GC) Collect() {
	if g.recursing {
		return
	}
	g.recursing = true
	defer func() { g.recursing = false }()

	g.reifyVariadicFeeds()
	g.markRoots()
	g.propagate()
	g.sweep()

	g.allocatedSinceGC = 0
}

// reifyVariadicFeeds is the pre-mark phase from spec.md §4.2: any
// Level whose Feed is variadic-backed is rewritten to be array-backed,
// since a consumed-once stream cannot be replayed during marking.
// Reification is the only allocation the GC performs mid-cycle.
func (g *GC) reifyVariadicFeeds() {
	for lvl := g.in.Top; lvl != nil; lvl = lvl.Prior {
		if lvl.Feed != nil {
			lvl.Feed.Reify(g.in.Pool)
		}
	}
}

// markRoots walks every root listed in spec.md §4.2 and pushes
// reachable, unmarked Stubs onto the mark stack.
func (g *GC) markRoots() {
	in := g.in

	// 1. root-flagged handles (alloc_value), plus the two interpreter-
	// wide contexts that are roots in all but name: Globals and the
	// shared ERROR! keylist.
	for _, s := range in.rootStubs {
		g.markStub(s)
	}
	if in.Globals != nil {
		g.markStub(in.Globals)
	}
	if in.errorKeylist != nil {
		g.markStub(in.errorKeylist)
	}

	// 2. guarded-node list
	for _, s := range in.guardStack {
		g.markStub(s)
	}

	// 3. the data stack
	for _, c := range in.DataStack {
		g.markCell(c)
	}

	// 4. the Level stack, top down
	for lvl := in.Top; lvl != nil; lvl = lvl.Prior {
		if lvl.Feed != nil && lvl.Feed.Array != nil {
			g.markStub(lvl.Feed.Array)
		}
		g.markCell(lvl.Output)
		g.markCell(lvl.Scratch)
		g.markCell(lvl.Spare)
		if lvl.Varlist != nil {
			g.markStub(lvl.Varlist)
		}
		if lvl.Phase != nil {
			g.markStub(lvl.Phase)
		}
		if lvl.Binding != nil {
			g.markStub(lvl.Binding)
		}
		g.markCell(lvl.Action)
		for _, c := range lvl.CascadeNext {
			g.markCell(c)
		}
	}

	// 5. native-action table entries
	for _, s := range in.natives {
		g.markStub(s)
	}
	for _, s := range in.generic {
		g.markStub(s)
	}

	// 6. symbol canon table
	for _, sym := range in.Canon.All() {
		g.markStub(&sym.Stub)
	}
}

func (g *GC) markCell(c Cell) {
	if c.stub != nil {
		g.markStub(c.stub)
	}
}

// markStub marks s if unmarked and pushes it onto the iterative mark
// stack for propagate to expand later - spec.md §4.2 "Marking".
func (g *GC) markStub(s *Stub) {
	if s == nil || s.IsMarked() {
		return
	}
	s.mark()
	g.markStack = append(g.markStack, s)
}

// propagate drains the mark stack, marking each Stub's cells and
// flavor-specific side pointers. This is what keeps marking from
// recursing into Go's call stack on deeply nested structures.
func (g *GC) propagate() {
	for len(g.markStack) > 0 {
		s := g.markStack[len(g.markStack)-1]
		g.markStack = g.markStack[:len(g.markStack)-1]

		for _, c := range s.Slice() {
			g.markCell(c)
		}
		if s.Link != nil {
			g.markStub(s.Link)
		}
		if s.Misc != nil {
			g.markStub(s.Misc)
		}
		if s.Partials != nil {
			g.markStub(s.Partials)
		}
		if s.Dispatcher != nil {
			if dc, ok := s.Dispatcher.(closureRoots); ok {
				for _, c := range dc.gcRoots() {
					g.markCell(c)
				}
			}
		}
	}
}

// sweep walks every Stub the pool tracks. Managed+unmarked Stubs are
// freed; managed+marked Stubs have their mark bit cleared for the next
// cycle; unmanaged Stubs are left untouched (spec.md §4.2 "Sweep").
func (g *GC) sweep() {
	for _, s := range g.in.Pool.Units() {
		if !s.IsManaged() {
			continue
		}
		if s.IsMarked() {
			s.unmark()
			continue
		}
		g.in.Pool.Free(s)
	}
}

// closureRoots lets a Dispatcher variant expose extra Cells it closes
// over (e.g. a Specialized action's captured exemplar) that aren't
// reachable through the generic Stub.Slice()/Link/Misc walk.
type closureRoots interface {
	gcRoots() []Cell
}
