package core

// catchDispatcher runs a quoted body block in its own Catchable Level
// so an unnamed `throw` can unwind straight to it - spec.md §4.3
// "Throws" / §5 "giving each Executor exactly one chance to catch".
// It uses ContinueWith rather than DelegateTo because the catch path
// (an early exit via Thrown) and the normal-completion path need to
// land back on this very Level for a second tick either way - see
// DESIGN.md for why DelegateTo's auto-cascade (BounceOut only) isn't
// enough here.
type catchDispatcher struct{}

func (d *catchDispatcher) Name() string { return "catch" }

func (d *catchDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	if lvl.ArgCursor == 0 {
		lvl.ArgCursor = 1
		body := lvl.Varlist.At(1).Array()
		sub := in.PushLevel(NewFeed(body), EvaluatorExecutor, lvl.Binding)
		sub.Flags |= LevelFlagCatchable
		return ContinueWith(sub)
	}
	lvl.Output = lvl.Scratch
	return Out()
}

// throwDispatcher raises an unnamed ThrownSignal carrying value,
// caught by the nearest enclosing `catch`. Named catch/throw pairs
// (matching a specific Level by label rather than "nearest enclosing
// one") are an open question this port leaves unimplemented - see
// DESIGN.md.
type throwDispatcher struct{}

func (d *throwDispatcher) Name() string { return "throw" }

func (d *throwDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	value := lvl.Varlist.At(1)
	return Thrown(&ThrownSignal{Label: in.Sym("THROW"), Payload: value})
}

// registerControlNatives wires catch/throw, raise/try (the
// DefinitionalError value-not-signal pair), and halt - spec.md §7 and
// §4.3 "Cancellation".
func registerControlNatives(in *Interpreter) {
	bodyParam := ParamDesc{Name: in.Sym("body"), Class: ParamHardQuote, Types: TypesetOf(HeartSource)}
	in.DefineGlobal("catch", in.MakeAction("catch", []ParamDesc{bodyParam}, &catchDispatcher{}))

	valueParam := ParamDesc{Name: in.Sym("value"), Class: ParamNormal, AcceptsNull: true, Types: AnyTypeset}
	in.DefineGlobal("throw", in.MakeAction("throw", []ParamDesc{valueParam}, &throwDispatcher{}))

	messageParam := ParamDesc{Name: in.Sym("message"), Class: ParamNormal, Types: TypesetOf(HeartText)}
	in.DefineGlobal("raise", in.RegisterNative("raise", []ParamDesc{messageParam}, func(in *Interpreter, args *Stub) (Cell, error) {
		cell, _ := in.NewDefinitionalError(string(args.At(1).Bytes()), Location{})
		return cell, nil
	}))

	tryParam := ParamDesc{Name: in.Sym("value"), Class: ParamNormal, AcceptsNull: true, Types: AnyTypeset}
	in.DefineGlobal("try", in.RegisterNative("try", []ParamDesc{tryParam}, func(in *Interpreter, args *Stub) (Cell, error) {
		v := args.At(1)
		if v.IsErrorAntiform() {
			return Null(), nil
		}
		return v, nil
	}))

	in.DefineGlobal("halt", in.RegisterNative("halt", nil, func(in *Interpreter, args *Stub) (Cell, error) {
		in.RequestHalt()
		return Null(), nil
	}))
}
