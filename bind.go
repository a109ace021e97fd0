package core

// ParamClass governs how the Action Executor consumes a feed value for
// a given parameter - spec.md §4.4.
type ParamClass uint8

const (
	ParamNormal ParamClass = iota
	ParamTight
	ParamHardQuote
	ParamSoftQuote
	ParamRefinement
	ParamLocal
	ParamReturn
)

// Typeset is a bitmask of accepted fundamental Hearts.
type Typeset uint32

func TypesetOf(hearts ...Heart) Typeset {
	var t Typeset
	for _, h := range hearts {
		t |= 1 << uint(h)
	}
	return t
}

func (t Typeset) Accepts(h Heart) bool { return t&(1<<uint(h)) != 0 }

// AnyTypeset accepts every fundamental heart.
const AnyTypeset Typeset = ^Typeset(0)

// ParamDesc describes one parameter slot of a Paramlist.
type ParamDesc struct {
	Name        *Symbol
	Class       ParamClass
	Types       Typeset
	AcceptsNull bool
	Hidden      bool // elided by specialization
	Endable     bool // tolerates end-of-feed as null
}

// NewParamlist builds a Paramlist Stub: position 0 is reserved for the
// archetype Action cell (filled in once the owning action is built),
// and one descriptor follows per ParamDesc.
func (pool *Pool) NewParamlist(params []ParamDesc) *Stub {
	s := pool.MakeStub(FlavorParamlist)
	s.flags |= StubFlagDynamic
	s.cells = make([]Cell, len(params)+1)
	s.cells[0] = Trash() // archetype, patched by MakeAction
	s.Params = params
	return s
}

func (s *Stub) ParamAt(i int) ParamDesc { return s.Params[i] }
func (s *Stub) ParamCount() int         { return len(s.Params) }

func (s *Stub) ParamIndex(name *Symbol) (int, bool) {
	for i, p := range s.Params {
		if SameSymbol(p.Name, name) {
			return i, true
		}
	}
	return 0, false
}

// NewVarlist allocates a Varlist Stub sized to keylist, with every
// slot trash until filled. archetypeHeart distinguishes
// object/frame/module/error/port self-reference.
func (pool *Pool) NewVarlist(keylist *Stub, archetypeHeart Heart) *Stub {
	v := pool.MakeStub(FlavorVarlist)
	v.flags |= StubFlagDynamic
	v.cells = make([]Cell, keylist.ParamCount()+1)
	v.Link = keylist
	v.cells[0] = ObjectCell(archetypeHeart, v)
	v.manage()
	return v
}

func (v *Stub) Keylist() *Stub { return v.Link }

// SlotIndex returns the variable slot for a bound word, walking the
// keylist by symbol.
func (v *Stub) SlotIndex(name *Symbol) (int, bool) {
	i, ok := v.Keylist().ParamIndex(name)
	if !ok {
		return 0, false
	}
	return i + 1, true
}

func (v *Stub) Get(name *Symbol) (Cell, bool) {
	i, ok := v.SlotIndex(name)
	if !ok {
		return Cell{}, false
	}
	return v.cells[i], true
}

func (v *Stub) Put(name *Symbol, val Cell) bool {
	i, ok := v.SlotIndex(name)
	if !ok {
		return false
	}
	v.cells[i] = val
	return true
}

// GrowPut is Put generalized to grow v's keylist when name is not yet
// declared, instead of failing - the mechanism both Interpreter.DefineGlobal
// and object construction (`make object!`) use to add a slot on first
// assignment.
func (v *Stub) GrowPut(name *Symbol, val Cell) {
	if v.Put(name, val) {
		return
	}
	keylist := v.Keylist()
	keylist.Params = append(keylist.Params, ParamDesc{Name: name, Class: ParamNormal})
	v.Append(val)
}

// --- Binding chains ---
//
// A word cell's Binding() Stub is either nil (unbound), a Varlist
// (object/module/frame), or a Use (lightweight lexical extension).
// A Use's Stub.Link is its inherit-bind parent; a Varlist's Link is its
// keylist, so a Varlist ends the chain. Lookup is a uniform walk
// regardless of which kind started it - spec.md §4.6.

// NewUse wraps a parent binding with a private Varlist, the mechanism
// closures and LAMBDA use to extend lexical scope without mutating the
// word cells that flow through it.
func (pool *Pool) NewUse(vars *Stub, parent *Stub) *Stub {
	u := pool.MakeStub(FlavorUse)
	u.single = ObjectCell(HeartFrame, vars)
	u.Link = parent
	u.manage()
	return u
}

func (u *Stub) useVarlist() *Stub {
	return u.single.stub
}

// Lookup walks a word's binding chain (Varlist or Use, following
// inherit-bind parents) looking for name, returning the Varlist that
// actually owns the slot.
func Lookup(binding *Stub, name *Symbol) (owner *Stub, slot int, found bool) {
	for ctx := binding; ctx != nil; {
		var v *Stub
		switch ctx.Flavor {
		case FlavorVarlist:
			v = ctx
		case FlavorUse:
			v = ctx.useVarlist()
		default:
			return nil, 0, false
		}
		if i, ok := v.SlotIndex(name); ok {
			return v, i, true
		}
		ctx = ctx.Link
	}
	return nil, 0, false
}

// RootVarlist walks a binding chain to its outermost Varlist - for an
// ordinary top-level binding that is Globals itself, for a binding
// chain built by Use contexts (closures, make object! bodies) the
// module they ultimately bottom out in. SetWordExecutor falls back to
// GrowPut against this when a set-word names a fresh top-level word
// rather than rebinding an existing slot - see DESIGN.md "Corrections
// made while building out tests".
func RootVarlist(binding *Stub) *Stub {
	var last *Stub
	for ctx := binding; ctx != nil; {
		var v *Stub
		switch ctx.Flavor {
		case FlavorVarlist:
			v = ctx
		case FlavorUse:
			v = ctx.useVarlist()
		default:
			return last
		}
		last = v
		ctx = ctx.Link
	}
	return last
}

// Coupling walks the same inherit-bind chain looking for the nearest
// Varlist whose archetype heart is Object/Module - the "method
// coupling" used to resolve `.member` paths inside a running method
// without a distinct method-call syntax (spec.md §4.5).
func Coupling(binding *Stub) (*Stub, bool) {
	for ctx := binding; ctx != nil; {
		var v *Stub
		switch ctx.Flavor {
		case FlavorVarlist:
			v = ctx
		case FlavorUse:
			v = ctx.useVarlist()
		default:
			return nil, false
		}
		h := v.At(0).Heart()
		if h == HeartObject || h == HeartModule {
			return v, true
		}
		ctx = ctx.Link
	}
	return nil, false
}
