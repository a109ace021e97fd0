package core

import "fmt"

// This file implements the action-derivation Dispatchers from spec.md
// §4.4: Specialized, Cascader, Adapter, Encloser, Hijacker and
// Macro/Inliner. Every derivation wraps one or two existing actions
// rather than writing new Go logic for the wrapped behavior itself -
// the point of a derivation is that it is built out of other actions.
//
// A few of these (Adapter, Encloser) need more than one Trampoline tick
// to run their two halves. They use Level.ArgCursor as a private,
// per-dispatch step counter - it is otherwise unused once fulfillment
// has finished, unlike Level.State which ActionExecutor keeps owning
// for its own fulfillment-vs-dispatch distinction.

// --- Specialize ---

// SpecializeDispatcher pre-fills some of an inner action's parameters
// (spec.md's Partials exemplar) and simply redelegates dispatch to the
// inner action once the caller has supplied the rest - the hidden
// slots were already copied in by fulfillOneParam before Dispatch ever
// runs.
type SpecializeDispatcher struct {
	Inner Cell
}

func (d *SpecializeDispatcher) Name() string { return "specialize:" + d.Inner.ActionLabel().Name }

func (d *SpecializeDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	return d.Inner.Details().Dispatcher.Dispatch(in, lvl)
}

func (d *SpecializeDispatcher) gcRoots() []Cell { return []Cell{d.Inner} }

// Specialize builds a new action over action's Paramlist with the
// named parameters hidden and pre-filled from exemplar - spec.md §4.4
// "Specialized (exemplar frame + inner action)". The new Paramlist is
// a fresh copy (so hiding a parameter here doesn't hide it on action
// itself) but keeps every ParamDesc's name/class/types, which is what
// lets the derived action's Varlist line up slot-for-slot with the
// inner action's own expectations.
func (in *Interpreter) Specialize(action Cell, exemplar map[string]Cell) Cell {
	innerParamlist := action.Paramlist()
	newParams := append([]ParamDesc{}, innerParamlist.Params...)

	partials := in.Pool.NewVarlist(innerParamlist, HeartFrame)
	for name, val := range exemplar {
		sym := in.Sym(name)
		for i := range newParams {
			if SameSymbol(newParams[i].Name, sym) {
				newParams[i].Hidden = true
			}
		}
		partials.Put(sym, val)
	}
	partials.manage()

	newParamlist := in.Pool.NewParamlist(newParams)
	newParamlist.Partials = partials
	newParamlist.manage()

	details := in.Pool.MakeStub(FlavorDetails)
	details.Link = newParamlist
	details.Dispatcher = &SpecializeDispatcher{Inner: action}
	details.manage()

	sym := in.Sym("specialized-" + action.ActionLabel().Name)
	out := ActionCell(details, sym)
	newParamlist.Set(0, out)
	return out
}

// --- Cascade ---

// CascadeDispatcher chains a pipeline of single-result-consuming
// actions: the first stage is called with the cascade's own fulfilled
// Varlist (its Paramlist IS the cascade's Paramlist, stolen rather
// than refulfilled - see BeginCall/replaceLevel's DOWNSHIFTED cousin,
// implemented here as ContinueWith+reused Varlist since the stage
// runs in a fresh dispatch Level rather than replacing the cascade
// Level outright), and every later stage is called with the previous
// stage's result as its sole argument - spec.md §4.4 "Cascader
// (pipeline of actions)".
//
// Open question resolved here (see DESIGN.md): stages after the first
// must take exactly one parameter. Nothing in spec.md specifies how a
// multi-parameter continuation stage would receive its remaining
// arguments, so this port forbids it rather than guessing a
// convention.
type CascadeDispatcher struct {
	Stages []Cell
}

func (d *CascadeDispatcher) Name() string { return "cascade" }

func (d *CascadeDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	if lvl.CascadeNext == nil {
		first := d.Stages[0]
		sub := in.PushLevel(lvl.Feed, ActionExecutor, lvl.Binding)
		sub.Varlist = lvl.Varlist
		sub.Phase = first.Paramlist()
		sub.Action = first
		sub.State = byte(2 * first.Paramlist().ParamCount())
		lvl.CascadeNext = append([]Cell{}, d.Stages[1:]...)
		return ContinueWith(sub)
	}

	if len(lvl.CascadeNext) == 0 {
		lvl.Output = lvl.Scratch
		return Out()
	}

	next := lvl.CascadeNext[0]
	lvl.CascadeNext = lvl.CascadeNext[1:]

	paramlist := next.Paramlist()
	if paramlist.ParamCount() != 1 {
		return Thrown(&AbruptFailure{Message: fmt.Sprintf(
			"cascade stage %s must take exactly one argument", next.ActionLabel().Name)})
	}

	varlist := in.Pool.NewVarlist(paramlist, HeartFrame)
	varlist.Put(paramlist.ParamAt(0).Name, lvl.Scratch)

	sub := in.PushLevel(lvl.Feed, ActionExecutor, lvl.Binding)
	sub.Varlist = varlist
	sub.Phase = paramlist
	sub.Action = next
	sub.State = byte(2 * paramlist.ParamCount())
	return ContinueWith(sub)
}

func (d *CascadeDispatcher) gcRoots() []Cell { return d.Stages }

// Cascade builds a pipeline action: its own Paramlist is the first
// stage's Paramlist itself (shared, not copied), so calling the
// cascade fulfills arguments exactly as calling stages[0] alone would.
func (in *Interpreter) Cascade(stages []Cell) Cell {
	first := stages[0]
	details := in.Pool.MakeStub(FlavorDetails)
	details.Link = first.Paramlist()
	details.Dispatcher = &CascadeDispatcher{Stages: append([]Cell{}, stages...)}
	details.manage()

	sym := in.Sym("cascade")
	return ActionCell(details, sym)
}

// --- Adapt ---

// AdaptDispatcher runs a prelude body - bound so its set-words can
// rewrite the call's own argument slots - before handing off to the
// inner action with the (possibly-rewritten) Varlist - spec.md §4.4
// "Adapter (prelude + inner)".
type AdaptDispatcher struct {
	Prelude *Stub
	Inner   Cell
}

func (d *AdaptDispatcher) Name() string { return "adapt:" + d.Inner.ActionLabel().Name }

func (d *AdaptDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	if lvl.ArgCursor == 0 {
		lvl.ArgCursor = 1
		binding := in.Pool.NewUse(lvl.Varlist, lvl.Binding)
		sub := in.PushLevel(NewFeed(d.Prelude), EvaluatorExecutor, binding)
		return ContinueWith(sub)
	}
	return d.Inner.Details().Dispatcher.Dispatch(in, lvl)
}

func (d *AdaptDispatcher) gcRoots() []Cell {
	return []Cell{SourceCell(d.Prelude), d.Inner}
}

// Adapt builds an Adapter action sharing inner's Paramlist, so the
// prelude sees exactly inner's argument names bound to the call's
// Varlist.
func (in *Interpreter) Adapt(inner Cell, prelude *Stub) Cell {
	details := in.Pool.MakeStub(FlavorDetails)
	details.Link = inner.Paramlist()
	details.Dispatcher = &AdaptDispatcher{Prelude: prelude, Inner: inner}
	details.manage()

	sym := in.Sym("adapt-" + inner.ActionLabel().Name)
	return ActionCell(details, sym)
}

// --- Enclose ---

// EncloseDispatcher runs inner to completion, then hands inner's
// result to outer (a one-parameter action) whose own result becomes
// the Encloser's final answer - spec.md §4.4 "Encloser (inner +
// outer)". This port's Enclose is deliberately narrower than the
// typical Rebol ENCLOSE (which hands outer the unevaluated frame and
// lets it choose whether to invoke inner at all); implementing that
// would require exposing a callable "do-frame" value, which has no
// home yet in this design - see DESIGN.md.
type EncloseDispatcher struct {
	Inner Cell
	Outer Cell
}

func (d *EncloseDispatcher) Name() string { return "enclose:" + d.Inner.ActionLabel().Name }

func (d *EncloseDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	switch lvl.ArgCursor {
	case 0:
		lvl.ArgCursor = 1
		sub := in.PushLevel(lvl.Feed, ActionExecutor, lvl.Binding)
		sub.Varlist = lvl.Varlist
		sub.Phase = d.Inner.Paramlist()
		sub.Action = d.Inner
		sub.State = byte(2 * d.Inner.Paramlist().ParamCount())
		return ContinueWith(sub)

	case 1:
		lvl.ArgCursor = 2
		outerParamlist := d.Outer.Paramlist()
		if outerParamlist.ParamCount() != 1 {
			return Thrown(&AbruptFailure{Message: "enclose outer action must take exactly one argument"})
		}
		varlist := in.Pool.NewVarlist(outerParamlist, HeartFrame)
		varlist.Put(outerParamlist.ParamAt(0).Name, lvl.Scratch)
		sub := in.PushLevel(lvl.Feed, ActionExecutor, lvl.Binding)
		sub.Varlist = varlist
		sub.Phase = outerParamlist
		sub.Action = d.Outer
		sub.State = byte(2 * outerParamlist.ParamCount())
		return ContinueWith(sub)

	default:
		lvl.Output = lvl.Scratch
		return Out()
	}
}

func (d *EncloseDispatcher) gcRoots() []Cell { return []Cell{d.Inner, d.Outer} }

// Enclose builds an Encloser action sharing inner's Paramlist.
func (in *Interpreter) Enclose(inner, outer Cell) Cell {
	details := in.Pool.MakeStub(FlavorDetails)
	details.Link = inner.Paramlist()
	details.Dispatcher = &EncloseDispatcher{Inner: inner, Outer: outer}
	details.manage()

	sym := in.Sym("enclose-" + inner.ActionLabel().Name)
	return ActionCell(details, sym)
}

// --- Hijack ---

// hijackDispatcher redirects every call through victim's own Details
// stub to replacement's Dispatcher. Because Details stubs are shared
// by reference across every copy of an Action cell, mutating it in
// place (see Hijack below) retroactively changes what every existing
// reference to victim does - spec.md §4.4 "Hijacker (replacement)".
type hijackDispatcher struct {
	Replacement Cell
}

func (d *hijackDispatcher) Name() string { return "hijack:" + d.Replacement.ActionLabel().Name }

func (d *hijackDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	return d.Replacement.Details().Dispatcher.Dispatch(in, lvl)
}

func (d *hijackDispatcher) gcRoots() []Cell { return []Cell{d.Replacement} }

// Hijack replaces victim's behavior with replacement's in place. The
// two actions must share a compatible Varlist layout - this port does
// not attempt to re-fulfill arguments across mismatched Paramlists,
// matching the "total replacement" semantics of the original
// operation rather than a soft adapter.
func (in *Interpreter) Hijack(victim, replacement Cell) {
	victim.Details().Dispatcher = &hijackDispatcher{Replacement: replacement}
}

// --- Macro / Inliner ---

// MacroDispatcher computes a replacement block from its (quoted)
// arguments and splices it at the front of the calling Feed rather
// than producing a value itself - spec.md §4.4 "Macro/Inliner (splice
// result into feed)". Because the spliced cells are about to be
// re-evaluated by the very Level that called the macro, the macro's
// own Level contributes no Output and bounces Invisible.
type MacroDispatcher struct {
	Expand NativeFunc
}

func (d *MacroDispatcher) Name() string { return "macro" }

func (d *MacroDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	block, err := d.Expand(in, lvl.Varlist)
	if err != nil {
		return Thrown(err)
	}
	spliceFeed(lvl.Feed, block.Array(), in.Pool)
	return Invisible()
}

// MakeMacro builds a macro action whose parameters are always quoted
// (a macro never wants its arguments pre-evaluated) and whose body
// computes the block to splice.
func (in *Interpreter) MakeMacro(label string, params []ParamDesc, expand NativeFunc) Cell {
	quoted := make([]ParamDesc, len(params))
	for i, p := range params {
		p.Class = ParamHardQuote
		quoted[i] = p
	}
	return in.MakeAction(label, quoted, &MacroDispatcher{Expand: expand})
}

// spliceFeed rewrites f so that block's cells are consumed next,
// followed by whatever was left unconsumed in f - the feed-splicing
// half of macro expansion.
func spliceFeed(f *Feed, block *Stub, pool *Pool) {
	var remaining []Cell
	if f.Pending != nil {
		remaining = append([]Cell{}, f.Pending[f.Index:]...)
	} else {
		remaining = append([]Cell{}, f.Array.Slice()[f.Index:]...)
	}
	merged := append(append([]Cell{}, block.Slice()...), remaining...)

	s := pool.MakeStub(FlavorSource)
	s.flags |= StubFlagDynamic
	s.cells = merged
	s.manage()

	f.Array = s
	f.Pending = nil
	f.Index = 0
}
