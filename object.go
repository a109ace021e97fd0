package core

// makeDispatcher implements `make object! [...]` (spec.md §8 scenario
// 4's fixture). It is the one Dispatcher in this package that swaps its
// own Level's Executor out from under ActionExecutor entirely, rather
// than stepping lvl.ArgCursor/CascadeNext under Dispatch's own control -
// because building an object means running a whole sequence of
// set-word statements, each needing its own sub-Level tick, exactly
// what EvaluatorExecutor/StepperExecutor/SetWordExecutor already know
// how to do. Re-pointing lvl.Feed at the spec block and lvl.Executor at
// a small purpose-built loop reuses that machinery instead of
// duplicating it.
type makeDispatcher struct{}

func (d *makeDispatcher) Name() string { return "make" }

func (d *makeDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	typeWord := lvl.Varlist.At(1)
	if typeWord.Heart() != HeartWord || typeWord.WordSymbol().Name != "object!" {
		return Thrown(&AbruptFailure{Message: "make: unsupported type " + typeWord.Heart().String()})
	}
	spec := lvl.Varlist.At(2)

	keylist := in.Pool.NewParamlist(nil)
	keylist.manage()
	obj := in.Pool.NewVarlist(keylist, HeartObject)
	binding := in.Pool.NewUse(obj, lvl.Binding)

	lvl.Spare = ObjectCell(HeartObject, obj)
	lvl.Binding = binding
	lvl.Feed = NewFeed(spec.Array())
	lvl.Executor = makeObjectLoopExecutor
	return makeObjectLoopExecutor(in, lvl)
}

// makeObjectLoopExecutor consumes one `name: value` pair of the spec
// block per pass, suspending across a sub-Level to evaluate value.
func makeObjectLoopExecutor(in *Interpreter, lvl *Level) Bounce {
	cell, ok := lvl.Feed.Fetch()
	if !ok {
		lvl.Output = lvl.Spare
		return Out()
	}
	if cell.Heart() != HeartSetWord {
		return Thrown(&AbruptFailure{Message: "make object!: expected set-word, got " + cell.Heart().String()})
	}
	lvl.SetWord = cell
	sub := in.PushLevel(lvl.Feed, StepperExecutor, lvl.Binding)
	lvl.Executor = makeObjectAssignExecutor
	return ContinueWith(sub)
}

// makeObjectAssignExecutor receives the value sub-step's result in
// lvl.Scratch (the Trampoline copies it there on BounceOut, same as
// every other continuation in this package) and pokes it into the
// object under construction, growing its keylist on first sight of the
// field name.
func makeObjectAssignExecutor(in *Interpreter, lvl *Level) Bounce {
	value := UnliftDual(LiftDual(lvl.Scratch))
	lvl.Spare.Varlist().GrowPut(lvl.SetWord.WordSymbol(), value)
	lvl.Executor = makeObjectLoopExecutor
	return makeObjectLoopExecutor(in, lvl)
}

// registerObjectNatives wires `make` - spec.md §8 scenario 4's
// "obj: make object! [a: make object! [b: 1]]".
func registerObjectNatives(in *Interpreter) {
	typeParam := ParamDesc{Name: in.Sym("type"), Class: ParamHardQuote, Types: TypesetOf(HeartWord)}
	specParam := ParamDesc{Name: in.Sym("spec"), Class: ParamHardQuote, Types: TypesetOf(HeartSource)}
	in.DefineGlobal("make", in.MakeAction("make", []ParamDesc{typeParam, specParam}, &makeDispatcher{}))
}
