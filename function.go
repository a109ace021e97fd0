package core

// InterpretedDispatcher is the "ordinary user function" variant from
// spec.md §4.4: "Interpreted (body block + specifier)". Calling it
// runs Body to completion with a fresh Use binding that extends the
// closure's defining environment with the call's own Varlist, exactly
// the binding trick spec.md §4.6 describes for closures and LAMBDA.
type InterpretedDispatcher struct {
	Body *Stub
}

func (d *InterpretedDispatcher) Name() string { return "interpreted" }

func (d *InterpretedDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	closureEnv := lvl.Action.Details().Misc
	if closureEnv == nil {
		closureEnv = in.Globals
	}
	binding := in.Pool.NewUse(lvl.Varlist, closureEnv)
	sub := in.PushLevel(NewFeed(d.Body), EvaluatorExecutor, binding)
	return DelegateTo(sub)
}

func (d *InterpretedDispatcher) gcRoots() []Cell { return []Cell{SourceCell(d.Body)} }

// MakeFunction builds an ordinary interpreted action: params describes
// its call signature, body is the (unevaluated) Source block it runs,
// and closureEnv is the lexical binding in effect where the function
// was defined - nil for a function defined at the top level, in which
// case words in body resolve against the call Varlist and then
// Globals.
func (in *Interpreter) MakeFunction(label string, params []ParamDesc, body *Stub, closureEnv *Stub) Cell {
	action := in.MakeAction(label, params, &InterpretedDispatcher{Body: body})
	action.Details().Misc = closureEnv
	return action
}
