package core

import "fmt"

// Dispatcher is the behavior behind an Action cell - spec.md §4.4
// lists the variants (Raw-Native, Interpreted, Specialized, Cascader,
// Adapter, Encloser, Hijacker, Macro/Inliner, Combinator, Typechecker,
// Generic). Every variant shares the same call ABI: given a Level
// already parked in dispatch state (lvl.Varlist fulfilled against
// lvl.Phase), produce a Bounce.
type Dispatcher interface {
	Dispatch(in *Interpreter, lvl *Level) Bounce
	Name() string
}

// NativeFunc is a Go-native action body: given the fulfilled argument
// Varlist, compute a result synchronously. Native code never
// suspends - it is the leaf of the call tree.
type NativeFunc func(in *Interpreter, args *Stub) (Cell, error)

type nativeDispatcher struct {
	name string
	fn   NativeFunc
}

func (d *nativeDispatcher) Name() string { return d.name }

func (d *nativeDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	out, err := d.fn(in, lvl.Varlist)
	if err != nil {
		return Thrown(err)
	}
	lvl.Output = out
	return Out()
}

// MakeAction builds a Details stub for dispatcher over a fresh
// Paramlist built from params, then wraps it as an Action Cell whose
// archetype (Paramlist slot 0) points back at itself - spec.md §3
// "Varlist's first cell is a self-archetype".
func (in *Interpreter) MakeAction(label string, params []ParamDesc, dispatcher Dispatcher) Cell {
	paramlist := in.Pool.NewParamlist(params)
	details := in.Pool.MakeStub(FlavorDetails)
	details.Link = paramlist
	details.Dispatcher = dispatcher
	details.manage()
	paramlist.manage()

	sym := in.Sym(label)
	action := ActionCell(details, sym)
	paramlist.cells[0] = action
	return action
}

// RegisterNative installs a native action into the interpreter's
// lib/native table (spec.md §4.2 root #5 "Native-action table
// entries") and returns its Action cell.
func (in *Interpreter) RegisterNative(name string, params []ParamDesc, fn NativeFunc) Cell {
	action := in.MakeAction(name, params, &nativeDispatcher{name: name, fn: fn})
	in.natives[name] = action.Details()
	return action
}

// ActionExecutor is the core executor from spec.md §4.3/§4.4: for each
// parameter in order, it either copies a specialized partial, consumes
// one value from the feed per the parameter's class, or sets locals to
// null; once every parameter is filled it hands off to the
// action's Dispatcher.
//
// State byte layout: state == 2*i is "fulfilling parameter i" (may
// push a sub-Level to evaluate one step); state == 2*i+1 is "receiving
// the sub-Level's result for parameter i". State >= fulfillDone (2*n)
// means dispatch.
func ActionExecutor(in *Interpreter, lvl *Level) Bounce {
	paramlist := lvl.Phase
	n := paramlist.ParamCount()
	fulfillDone := byte(2 * n)

	if lvl.State >= fulfillDone {
		return dispatchAction(in, lvl)
	}

	i := int(lvl.State) / 2
	desc := paramlist.ParamAt(i)
	receiving := lvl.State%2 == 1

	if receiving {
		val, ok := popSubResult(in, lvl)
		if !ok {
			return Out() // sub-level threw; its Bounce already propagated
		}
		if err := typeCheckParam(desc, val); err != nil {
			return Thrown(err)
		}
		lvl.Varlist.Put(desc.Name, val)
		lvl.State = byte(2 * (i + 1))
		return stepFulfillment(in, lvl)
	}

	return fulfillOneParam(in, lvl, i, desc)
}

func popSubResult(in *Interpreter, lvl *Level) (Cell, bool) {
	return lvl.Scratch, true
}

func stepFulfillment(in *Interpreter, lvl *Level) Bounce {
	n := lvl.Phase.ParamCount()
	if int(lvl.State) >= 2*n {
		return dispatchAction(in, lvl)
	}
	i := int(lvl.State) / 2
	return fulfillOneParam(in, lvl, i, lvl.Phase.ParamAt(i))
}

func fulfillOneParam(in *Interpreter, lvl *Level, i int, desc ParamDesc) Bounce {
	// 1. specialized/hidden: copy exemplar value straight through.
	if desc.Hidden && lvl.Phase.Partials != nil {
		if v, ok := lvl.Phase.Partials.Get(desc.Name); ok {
			lvl.Varlist.Put(desc.Name, v)
		}
		lvl.State = byte(2 * (i + 1))
		return stepFulfillment(in, lvl)
	}

	// 2. local/return: never read from feed.
	if desc.Class == ParamLocal || desc.Class == ParamReturn {
		lvl.Varlist.Put(desc.Name, Null())
		lvl.State = byte(2 * (i + 1))
		return stepFulfillment(in, lvl)
	}

	// 3. refinement: this port resolves refinements only through
	// specialization exemplars (step 1); an un-specialized refinement
	// defaults to null, matching "not supplied".
	if desc.Class == ParamRefinement {
		lvl.Varlist.Put(desc.Name, Null())
		lvl.State = byte(2 * (i + 1))
		return stepFulfillment(in, lvl)
	}

	cell, ok := lvl.Feed.Current()
	if !ok {
		if desc.Endable {
			lvl.Varlist.Put(desc.Name, Null())
			lvl.State = byte(2 * (i + 1))
			return stepFulfillment(in, lvl)
		}
		return Thrown(&AbruptFailure{Message: fmt.Sprintf("missing argument for %s", desc.Name.Name)})
	}

	switch desc.Class {
	case ParamHardQuote:
		lvl.Feed.Fetch()
		if err := typeCheckParam(desc, cell); err != nil {
			return Thrown(err)
		}
		lvl.Varlist.Put(desc.Name, cell)
		lvl.State = byte(2 * (i + 1))
		return stepFulfillment(in, lvl)

	case ParamSoftQuote:
		if cell.Heart() != HeartGroup {
			lvl.Feed.Fetch()
			if err := typeCheckParam(desc, cell); err != nil {
				return Thrown(err)
			}
			lvl.Varlist.Put(desc.Name, cell)
			lvl.State = byte(2 * (i + 1))
			return stepFulfillment(in, lvl)
		}
		fallthrough

	default: // ParamNormal, ParamTight
		sub := in.PushLevel(lvl.Feed, StepperExecutor, lvl.Binding)
		lvl.State = byte(2*i + 1)
		return ContinueWith(sub)
	}
}

func typeCheckParam(desc ParamDesc, v Cell) error {
	if v.IsNull() {
		if desc.AcceptsNull || desc.Endable {
			return nil
		}
		return &AbruptFailure{Message: fmt.Sprintf("argument %s does not accept null", desc.Name.Name)}
	}
	if desc.Types == 0 || desc.Types == AnyTypeset {
		return nil
	}
	if !desc.Types.Accepts(v.Heart()) {
		return &AbruptFailure{Message: fmt.Sprintf("argument %s does not accept %s", desc.Name.Name, v.Heart())}
	}
	return nil
}

// dispatchAction hands off to the action's Dispatcher once every
// parameter is fulfilled - spec.md §4.4.
func dispatchAction(in *Interpreter, lvl *Level) Bounce {
	details := lvl.Action.Details()
	return details.Dispatcher.Dispatch(in, lvl)
}

// BeginCall pushes a fresh dispatch Level for calling action with the
// given feed (arguments still unconsumed) and lexical binding. The
// Trampoline will drive it through ActionExecutor until it bounces Out
// or Thrown.
func (in *Interpreter) BeginCall(action Cell, feed *Feed, binding *Stub) *Level {
	paramlist := action.Paramlist()
	varlist := in.Pool.NewVarlist(paramlist, HeartFrame)
	lvl := in.PushLevel(feed, ActionExecutor, binding)
	lvl.Varlist = varlist
	lvl.Phase = paramlist
	lvl.Action = action
	lvl.Label = action.ActionLabel()
	// varlist is reachable through lvl (already pushed onto in.Top) by
	// the time NoteAllocation runs, so a torture-mode collection here
	// can't sweep it out from under the call it belongs to.
	in.gc.NoteAllocation((paramlist.ParamCount() + 1) * cellByteEstimate)
	return lvl
}
