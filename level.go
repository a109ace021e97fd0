package core

// Feed is a stream of Cells a Level consumes one at a time during
// evaluation - spec.md §3 "Level".
type Feed struct {
	Array *Stub
	Index int

	// Pending, when non-nil, means this Feed is backed by a
	// variadic/streaming source rather than a concrete Source array -
	// the Go analogue of the C original's varargs-backed Level feed.
	// It cannot be replayed, so the GC must reify it into a real Array
	// before a mark pass begins (spec.md §4.2 "Variadic reification").
	Pending []Cell
}

func NewFeed(array *Stub) *Feed {
	return &Feed{Array: array}
}

// NewVariadicFeed wraps a Go-side stream of Cells that has not (yet)
// been committed to a Source array - e.g. the embedder API's `run`
// entry point splicing heterogeneous pointers. See Reify.
func NewVariadicFeed(items []Cell) *Feed {
	return &Feed{Pending: items}
}

func (f *Feed) AtEnd() bool {
	if f.Pending != nil {
		return f.Index >= len(f.Pending)
	}
	return f.Index >= f.Array.Len()
}

// Current peeks the cell under the feed's cursor without consuming it.
func (f *Feed) Current() (Cell, bool) {
	if f.AtEnd() {
		return Cell{}, false
	}
	if f.Pending != nil {
		return f.Pending[f.Index], true
	}
	return f.Array.At(f.Index), true
}

// Fetch consumes and returns the cell under the cursor, advancing it.
func (f *Feed) Fetch() (Cell, bool) {
	c, ok := f.Current()
	if ok {
		f.Index++
	}
	return c, ok
}

// Reify commits a variadic Feed's unconsumed items to a freshly
// allocated Source array. It is a no-op for Feeds already backed by an
// Array. The GC calls this on every Level before marking begins,
// because a variadic stream cannot be replayed once the mark pass
// needs to walk it a second time (spec.md §4.2).
func (f *Feed) Reify(pool *Pool) {
	if f.Pending == nil {
		return
	}
	remaining := append([]Cell{}, f.Pending[f.Index:]...)
	s := pool.MakeStub(FlavorSource)
	s.flags |= StubFlagDynamic
	s.cells = remaining
	s.manage()
	f.Array = s
	f.Pending = nil
	f.Index = 0
}

// LevelFlags track per-Level bookkeeping the Trampoline and GC care
// about.
type LevelFlags uint16

const (
	LevelFlagKeepalive LevelFlags = 1 << iota // survives past its sub-Level's drop
	LevelFlagCatchable                        // a throw targeting this Level is caught here
	LevelFlagNoInfixDefer                      // disable first-arg infix deference (post-macro-splice)
)

// Level is one "stack frame" of evaluation: spec.md §3. Levels form a
// singly linked stack, rooted at the Trampoline's "top" pointer
// (Interpreter.Top), each pointing at its Prior.
type Level struct {
	Feed     *Feed
	Executor Executor
	State    byte
	Flags    LevelFlags

	Output  Cell
	Spare   Cell
	Scratch Cell

	Varlist *Stub // arguments-and-locals context while in action dispatch
	Phase   *Stub // the paramlist currently being fulfilled/run, or nil
	Label   *Symbol
	Binding *Stub // lexical environment used to resolve words from Feed

	// Dispatch-only bookkeeping:
	Action      Cell   // the action cell being called
	ArgCursor   int    // per-dispatch step counter for multi-tick dispatchers (catch, Adapt, Enclose); fulfillment does not touch it
	CascadeNext []Cell // remaining stages of a Cascade, Details-owned but staged here during dispatch

	// SetWord is the word being assigned while this Level's Executor
	// has been swapped to SetWordExecutor mid-step.
	SetWord Cell

	Prior *Level

	// DelegatedFrom is set on a sub-Level pushed via DelegateTo: when
	// this Level finally bounces Out, its answer becomes the answer
	// of DelegatedFrom too (which is popped in the same step) rather
	// than resuming DelegatedFrom's Executor - spec.md's
	// DELEGATE_SUBLEVEL.
	DelegatedFrom *Level
}

// Executor advances one Level's state machine by a bounded amount of
// work and returns a Bounce telling the Trampoline what to do next.
// Executors never recurse into the Trampoline and never block -
// spec.md §4.3.
type Executor func(in *Interpreter, lvl *Level) Bounce

// PushLevel creates a new Level above the current top, makes it
// in.Top, and returns it; callers then return a Bounce (ContinueWith,
// DelegateTo) that tells the Trampoline how to treat it, keeping every
// suspension point explicit.
func (in *Interpreter) PushLevel(feed *Feed, exec Executor, binding *Stub) *Level {
	if limit := in.Config.GetInt("trampoline.recursion_limit"); limit > 0 && in.levelsPushed >= limit {
		panic(&AbruptFailure{Message: "trampoline recursion limit exceeded"})
	}
	lvl := &Level{
		Feed:     feed,
		Executor: exec,
		Binding:  binding,
		Prior:    in.Top,
	}
	in.Top = lvl
	in.levelsPushed++
	return lvl
}

// DropLevel pops lvl (which must be in.Top) unless it is marked
// keepalive, in which case it is left in place for the caller to drop
// explicitly later (spec.md §3 "Lifecycles").
func (in *Interpreter) DropLevel(lvl *Level) {
	if lvl.Flags&LevelFlagKeepalive != 0 {
		return
	}
	if in.Top != lvl {
		panic("DropLevel: lvl is not the top of the stack")
	}
	in.Top = lvl.Prior
	in.levelsPushed--
}
