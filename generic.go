package core

import "fmt"

// genericDispatcher is the Dispatcher variant from spec.md §4.4
// "Generic dispatch": it never does the work itself, it only looks up
// the Details registered for (op, first-argument's heart) in
// Interpreter.generic and redelegates to that Details' own Dispatcher,
// reusing the already-fulfilled Varlist as-is. This assumes every
// per-type implementation of a given op shares the generic action's
// parameter layout - true of every generic registered below, and the
// simplification this port takes instead of letting each type pick its
// own arity.
type genericDispatcher struct {
	op string
}

func (d *genericDispatcher) Name() string { return "generic:" + d.op }

func (d *genericDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	if lvl.Varlist.Len() < 2 {
		return Thrown(&AbruptFailure{Message: fmt.Sprintf("generic %s: no argument to dispatch on", d.op)})
	}
	first := lvl.Varlist.At(1)
	key := genericKey{op: d.op, heart: first.Heart()}
	details, ok := in.generic[key]
	if !ok {
		return Thrown(&AbruptFailure{Message: fmt.Sprintf("no generic %s implementation for %s", d.op, first.Heart())})
	}
	return details.Dispatcher.Dispatch(in, lvl)
}

// RegisterGeneric installs fn as the per-heart implementation of op,
// keyed by (op, heart) in the dispatch table - it does not itself
// create the public-facing action; DefineGeneric does that once per
// op. Each heart-specific fn gets its own Paramlist built from params,
// which must match the generic action's layout, since dispatch reuses
// the generic call's Varlist.
func (in *Interpreter) RegisterGeneric(op string, heart Heart, label string, params []ParamDesc, fn NativeFunc) {
	action := in.MakeAction(label, params, &nativeDispatcher{name: label, fn: fn})
	in.generic[genericKey{op: op, heart: heart}] = action.Details()
}

// DefineGeneric publishes op as a global action whose Dispatcher fans
// out through the generic table - callers still see one ordinary
// action named op at the word-lookup level.
func (in *Interpreter) DefineGeneric(op string, params []ParamDesc) {
	action := in.MakeAction(op, params, &genericDispatcher{op: op})
	in.DefineGlobal(op, action)
}

// registerBuiltinGenerics wires up the handful of generic operations
// spec.md §4.4 names by example (APPEND, COPY, PICK) across the
// container-shaped hearts this port carries: Source (block) and Text.
func registerBuiltinGenerics(in *Interpreter) {
	seriesParam := ParamDesc{Name: in.Sym("series"), Class: ParamNormal}
	valueParam := ParamDesc{Name: in.Sym("value"), Class: ParamNormal, AcceptsNull: true}
	indexParam := ParamDesc{Name: in.Sym("index"), Class: ParamNormal, Types: TypesetOf(HeartInteger)}

	in.DefineGeneric("append", []ParamDesc{seriesParam, valueParam})
	in.DefineGeneric("copy", []ParamDesc{seriesParam})
	in.DefineGeneric("pick", []ParamDesc{seriesParam, indexParam})

	in.RegisterGeneric("append", HeartSource, "append$block", []ParamDesc{seriesParam, valueParam},
		func(in *Interpreter, args *Stub) (Cell, error) {
			series := args.At(1).Array()
			series.Append(args.At(2))
			return args.At(1), nil
		})
	in.RegisterGeneric("append", HeartText, "append$text", []ParamDesc{seriesParam, valueParam},
		func(in *Interpreter, args *Stub) (Cell, error) {
			series := args.At(1)
			addition := args.At(2)
			stub := series.Bytes()
			merged := append(append([]byte{}, stub...), addition.Bytes()...)
			return in.MakeText(string(merged)), nil
		})

	in.RegisterGeneric("copy", HeartSource, "copy$block", []ParamDesc{seriesParam},
		func(in *Interpreter, args *Stub) (Cell, error) {
			src := args.At(1).Array()
			return in.MakeSource(append([]Cell{}, src.Slice()...)...), nil
		})
	in.RegisterGeneric("copy", HeartText, "copy$text", []ParamDesc{seriesParam},
		func(in *Interpreter, args *Stub) (Cell, error) {
			return in.MakeText(string(args.At(1).Bytes())), nil
		})

	in.RegisterGeneric("pick", HeartSource, "pick$block", []ParamDesc{seriesParam, indexParam},
		func(in *Interpreter, args *Stub) (Cell, error) {
			series := args.At(1).Array()
			idx := int(args.At(2).AsInteger())
			if idx < 1 || idx > series.Len() {
				return Null(), nil
			}
			return series.At(idx - 1), nil
		})
	in.RegisterGeneric("pick", HeartText, "pick$text", []ParamDesc{seriesParam, indexParam},
		func(in *Interpreter, args *Stub) (Cell, error) {
			bs := args.At(1).Bytes()
			idx := int(args.At(2).AsInteger())
			if idx < 1 || idx > len(bs) {
				return Null(), nil
			}
			return Char(rune(bs[idx-1])), nil
		})
}
