package core

// Interpreter consolidates every module-level singleton the original
// design scatters across globals (GC state, symbol canon, the native
// dispatch table, the Trampoline) into one handle, per spec.md §9
// "Global mutable state": every entry point (Run, Rescue, MakeText...)
// reaches all of it through this handle.
type Interpreter struct {
	Pool   *Pool
	Canon  *Canon
	Config *Config

	// Globals is the root lexical context every top-level Run starts
	// bound to: a Module-archetype Varlist over a growable keylist,
	// populated by DefineGlobal (natives, generics, and any top-level
	// set-word at the outermost Level resolve here).
	Globals *Stub

	DataStack []Cell // balanced across every top-level evaluator step
	Top       *Level // the Trampoline's "top" - rooted stack of Levels

	guardStack []*Stub // push_guard/pop_guard scoped-acquisition stack
	rootStubs  []*Stub // StubFlagRoot handles issued via AllocValue

	natives map[string]*Stub // name -> Details stub, for the native-action table GC root
	generic map[genericKey]*Stub

	halt bool // process-wide HALT signal, polled at step boundaries
	gc   *GC

	levelsPushed int

	errorKeylist *Stub
}

type genericKey struct {
	op    string
	heart Heart
}

// NewInterpreter boots a fresh, empty interpreter: pools, canon table,
// default config, and a primed GC. Corresponds to spec.md §6's
// embedder `startup()`.
func NewInterpreter() *Interpreter {
	pool := NewPool()
	in := &Interpreter{
		Pool:    pool,
		Canon:   NewCanon(pool),
		Config:  NewConfig(),
		natives: make(map[string]*Stub),
		generic: make(map[genericKey]*Stub),
	}
	in.gc = NewGC(in)
	in.errorKeylist = pool.NewParamlist([]ParamDesc{
		{Name: in.Sym("message"), Class: ParamNormal, Types: TypesetOf(HeartText)},
	})
	in.errorKeylist.manage()

	globalKeylist := pool.NewParamlist(nil)
	globalKeylist.manage()
	in.Globals = pool.NewVarlist(globalKeylist, HeartModule)
	in.Globals.manage()

	registerBuiltinGenerics(in)
	registerBuiltinNatives(in)
	registerTweakNatives(in)
	registerControlNatives(in)
	registerObjectNatives(in)
	return in
}

// DefineGlobal binds name to val in the root context, growing the
// keylist if name is not already present (spec.md's Globals are an
// ordinary, if ever-growing, Varlist - there is no separate "global
// table" data structure in this design).
func (in *Interpreter) DefineGlobal(name string, val Cell) {
	in.Globals.GrowPut(in.Sym(name), val)
}

// Sym interns name through the shared canon table - a thin
// convenience so call sites read `in.Sym("foo")` instead of
// `in.Canon.Intern("foo")`.
func (in *Interpreter) Sym(name string) *Symbol { return in.Canon.Intern(name) }

// MakeText builds a managed Text cell from a Go string, mirroring the
// embedder API's make_text (spec.md §6).
func (in *Interpreter) MakeText(s string) Cell {
	stub := in.Pool.MakeStub(FlavorString)
	stub.bytes = []byte(s)
	stub.manage()
	// Guarded across NoteAllocation: a fresh managed Stub isn't reachable
	// from any root yet, and NoteAllocation may trigger a full Collect
	// (torture mode collects on every call) - without the guard it would
	// be swept before the caller ever sees it.
	in.PushGuard(stub)
	in.gc.NoteAllocation(len(s))
	in.PopGuard()
	return TextCell(stub)
}

func (in *Interpreter) MakeSource(cells ...Cell) Cell {
	stub := in.Pool.MakeStub(FlavorSource)
	stub.flags |= StubFlagDynamic
	stub.cells = append([]Cell{}, cells...)
	stub.manage()
	in.PushGuard(stub)
	in.gc.NoteAllocation(len(cells) * cellByteEstimate)
	in.PopGuard()
	return SourceCell(stub)
}

// cellByteEstimate stands in for sizeof(Cell) in the allocator this
// port is modeled after - used only to drive the ballast-threshold
// heuristic, never for addressing.
const cellByteEstimate = 32

// PushGuard protects stub from the GC across an arbitrary number of
// nested Trampoline steps - spec.md §4.2 "Guards".
func (in *Interpreter) PushGuard(stub *Stub) { in.guardStack = append(in.guardStack, stub) }

// PopGuard releases the most recently guarded Stub. The Trampoline's
// outer contract is that the guard stack is balanced across a
// top-level step (spec.md §5 "Resource discipline").
func (in *Interpreter) PopGuard() {
	in.guardStack = in.guardStack[:len(in.guardStack)-1]
}

func (in *Interpreter) GuardBalanced() bool { return len(in.guardStack) == 0 }

// DataStackBalanced implements spec.md §8's invariant: after every
// evaluator step at top level, the data stack index equals its
// entry-time index.
func (in *Interpreter) DataStackMark() int { return len(in.DataStack) }

func (in *Interpreter) DataStackBalanced(mark int) bool { return len(in.DataStack) == mark }

func (in *Interpreter) PushData(c Cell) { in.DataStack = append(in.DataStack, c) }

func (in *Interpreter) PopData() Cell {
	c := in.DataStack[len(in.DataStack)-1]
	in.DataStack = in.DataStack[:len(in.DataStack)-1]
	return c
}

// --- Root handles (spec.md §6 alloc_value/release) ---

func (in *Interpreter) AllocValue() *Stub {
	s := in.Pool.MakeStub(FlavorSource)
	s.flags |= StubFlagRoot
	s.manage()
	in.rootStubs = append(in.rootStubs, s)
	return s
}

func (in *Interpreter) Release(s *Stub) {
	for i, r := range in.rootStubs {
		if r == s {
			in.rootStubs = append(in.rootStubs[:i], in.rootStubs[i+1:]...)
			return
		}
	}
}

// --- HALT / cancellation (spec.md §4.3 "Cancellation") ---

func (in *Interpreter) RequestHalt() { in.halt = true }

func (in *Interpreter) haltPending() bool { return in.halt }

func (in *Interpreter) clearHalt() { in.halt = false }
