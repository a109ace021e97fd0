package core

// StepperExecutor is the core executor from spec.md §4.3: a single
// step of evaluation over lvl.Feed. It fetches exactly one cell,
// resolves self-evaluating values and word lookups, evaluates set-
// words and groups, and invokes actions - delegating to the call's own
// Level so the call's result becomes this step's result.
func StepperExecutor(in *Interpreter, lvl *Level) Bounce {
	cell, ok := lvl.Feed.Fetch()
	if !ok {
		lvl.Output = Null()
		return Out()
	}

	switch cell.Heart() {
	case HeartWord:
		owner, slot, found := Lookup(lvl.Binding, cell.WordSymbol())
		if !found {
			return Thrown(&AbruptFailure{Message: "unbound word: " + cell.WordSymbol().Name})
		}
		val := owner.At(slot)
		if val.Heart() == HeartAction {
			sub := in.BeginCall(val, lvl.Feed, lvl.Binding)
			return DelegateTo(sub)
		}
		lvl.Output = val
		return Out()

	case HeartSetWord:
		sub := in.PushLevel(lvl.Feed, StepperExecutor, lvl.Binding)
		lvl.SetWord = cell
		lvl.Executor = SetWordExecutor
		return ContinueWith(sub)

	case HeartGetWord:
		owner, slot, found := Lookup(lvl.Binding, cell.WordSymbol())
		if !found {
			return Thrown(&AbruptFailure{Message: "unbound word: " + cell.WordSymbol().Name})
		}
		lvl.Output = owner.At(slot)
		return Out()

	case HeartGroup:
		sub := in.PushLevel(NewFeed(cell.Array()), EvaluatorExecutor, lvl.Binding)
		return DelegateTo(sub)

	case HeartPath:
		steps, err := CompileSteps(cell)
		if err != nil {
			return Thrown(err)
		}
		val, gerr := in.Get(lvl.Binding, steps)
		if gerr != nil {
			return Thrown(gerr)
		}
		val = UnliftDual(val)
		if val.Heart() == HeartAction {
			sub := in.BeginCall(val, lvl.Feed, lvl.Binding)
			return DelegateTo(sub)
		}
		lvl.Output = val
		return Out()

	case HeartGetPath:
		steps, err := CompileSteps(cell)
		if err != nil {
			return Thrown(err)
		}
		val, gerr := in.Get(lvl.Binding, steps)
		if gerr != nil {
			return Thrown(gerr)
		}
		lvl.Output = UnliftDual(val)
		return Out()

	case HeartSetPath:
		sub := in.PushLevel(lvl.Feed, StepperExecutor, lvl.Binding)
		lvl.SetWord = cell
		lvl.Executor = SetPathExecutor
		return ContinueWith(sub)

	default:
		lvl.Output = cell
		return Out()
	}
}

// SetPathExecutor mirrors SetWordExecutor for a set-path target: once the
// right-hand side sub-step has produced a value (lvl.Scratch), it is
// poked through the tweak Set machinery instead of a single Lookup.
func SetPathExecutor(in *Interpreter, lvl *Level) Bounce {
	value := lvl.Scratch
	steps, err := CompileSteps(lvl.SetWord)
	if err != nil {
		return Thrown(err)
	}
	if err := in.Set(lvl.Binding, steps, value); err != nil {
		return Thrown(err)
	}
	lvl.Output = value
	return Out()
}

// SetWordExecutor is the continuation a Level's Executor is swapped to
// once a set-word has had its right-hand side pushed as a sub-step:
// lvl.Scratch now holds that sub-step's result (the Trampoline copies
// it there when the sub-Level bounces Out), and lvl.SetWord remembers
// which word to assign it to.
func SetWordExecutor(in *Interpreter, lvl *Level) Bounce {
	value := lvl.Scratch
	stored := UnliftDual(LiftDual(value))
	name := lvl.SetWord.WordSymbol()

	owner, slot, found := Lookup(lvl.Binding, name)
	if !found {
		root := RootVarlist(lvl.Binding)
		if root == nil {
			return Thrown(&AbruptFailure{Message: "unbound word: " + name.Name})
		}
		root.GrowPut(name, stored)
		lvl.Output = value
		return Out()
	}
	owner.Set(slot, stored)
	lvl.Output = value
	return Out()
}

// EvaluatorExecutor runs lvl.Feed to its end, one Stepper step at a
// time, producing the last step's value as the Level's own output -
// spec.md §4.3 "Evaluator (to-end loop over a feed)".
func EvaluatorExecutor(in *Interpreter, lvl *Level) Bounce {
	if lvl.Feed.AtEnd() {
		if lvl.State == 0 {
			lvl.Output = Null()
		} else {
			lvl.Output = lvl.Scratch
		}
		return Out()
	}
	sub := in.PushLevel(lvl.Feed, StepperExecutor, lvl.Binding)
	lvl.State = 1
	return ContinueWith(sub)
}
