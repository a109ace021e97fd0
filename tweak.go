package core

// This file implements spec.md §4.5's generalized variable access:
// tweak(location, picker, incoming_dual), specialized to the one
// container kind this port carries through path steps - Varlist-
// backed Object/Frame/Module/Error/Port. A dotted path compiles to a
// flat list of Symbol pickers (CompileSteps); Get and Set walk it.
//
// The spec's "writeback chain" exists because picking an intermediate
// step in the original engine can return a copy-by-value struct, so a
// poke has to be threaded back through every step that returned a
// copy. Every container this port's Get/Set can step through is a
// Varlist reached by pointer (*Stub), so picking an intermediate step
// never copies it - mutating what Get returned already mutates the
// real slot. The writeback loop accordingly collapses to a single
// direct poke at the final step; see DESIGN.md.

// CompileSteps turns a Path cell's backing array into a flat list of
// Symbol pickers. Every step must be a plain word: groups (evaluated
// pickers) and refinements mid-path are an open question this port
// does not resolve (see DESIGN.md), so CompileSteps rejects them
// rather than guessing a semantics for them.
func CompileSteps(path Cell) ([]*Symbol, error) {
	arr := path.Array()
	steps := make([]*Symbol, 0, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		c := arr.At(i)
		if c.Heart() != HeartWord {
			return nil, &AbruptFailure{Message: "path step must be a plain word in this port"}
		}
		steps = append(steps, c.WordSymbol())
	}
	if len(steps) == 0 {
		return nil, &AbruptFailure{Message: "empty path"}
	}
	return steps, nil
}

func isObjectish(c Cell) bool {
	switch c.Heart() {
	case HeartObject, HeartFrame, HeartModule, HeartError, HeartPort:
		return true
	}
	return false
}

// Get resolves steps against binding, returning the dual the final
// step names. A failure at any but the last step is an AbruptFailure
// (spec.md §4.5 "intermediate-step failures raise a hard error"); a
// failure at the last step instead returns a raised ERROR! antiform in
// the result so the caller may `try` it.
func (in *Interpreter) Get(binding *Stub, steps []*Symbol) (Cell, error) {
	owner, slot, ok := Lookup(binding, steps[0])
	if !ok {
		return Cell{}, &AbruptFailure{Message: "unbound word: " + steps[0].Name}
	}
	val := owner.At(slot)

	for i := 1; i < len(steps); i++ {
		name := steps[i]
		last := i == len(steps)-1

		if !isObjectish(val) {
			if last {
				cell, _ := in.NewDefinitionalError("cannot pick ."+name.Name+" from a "+val.Heart().String(), Location{})
				return cell, nil
			}
			return Cell{}, &AbruptFailure{Message: "cannot pick ." + name.Name + " from a " + val.Heart().String()}
		}

		next, found := val.Varlist().Get(name)
		if !found {
			if last {
				cell, _ := in.NewDefinitionalError("no field "+name.Name, Location{})
				return cell, nil
			}
			return Cell{}, &AbruptFailure{Message: "no field " + name.Name}
		}
		val = next
	}
	return val, nil
}

// Set resolves steps[:len-1] to a container and pokes value into the
// slot named by the last step.
func (in *Interpreter) Set(binding *Stub, steps []*Symbol, value Cell) error {
	owner, slot, ok := Lookup(binding, steps[0])
	if !ok {
		return &AbruptFailure{Message: "unbound word: " + steps[0].Name}
	}

	stored := UnliftDual(LiftDual(value))

	if len(steps) == 1 {
		owner.Set(slot, stored)
		return nil
	}

	val := owner.At(slot)
	for i := 1; i < len(steps)-1; i++ {
		name := steps[i]
		if !isObjectish(val) {
			return &AbruptFailure{Message: "cannot pick ." + name.Name + " from a " + val.Heart().String()}
		}
		next, found := val.Varlist().Get(name)
		if !found {
			return &AbruptFailure{Message: "no field " + name.Name}
		}
		val = next
	}

	last := steps[len(steps)-1]
	if !isObjectish(val) {
		return &AbruptFailure{Message: "cannot set ." + last.Name + " on a " + val.Heart().String()}
	}
	if !val.Varlist().Put(last, stored) {
		return &AbruptFailure{Message: "no field " + last.Name}
	}
	return nil
}

// --- get/set as ordinary (quoted-argument) actions ---

type getDispatcher struct{}

func (d *getDispatcher) Name() string { return "get" }

func (d *getDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	steps, err := CompileSteps(lvl.Varlist.At(1))
	if err != nil {
		return Thrown(err)
	}
	val, err := in.Get(lvl.Binding, steps)
	if err != nil {
		return Thrown(err)
	}
	lvl.Output = UnliftDual(val)
	return Out()
}

type setDispatcher struct{}

func (d *setDispatcher) Name() string { return "set" }

func (d *setDispatcher) Dispatch(in *Interpreter, lvl *Level) Bounce {
	steps, err := CompileSteps(lvl.Varlist.At(1))
	if err != nil {
		return Thrown(err)
	}
	value := lvl.Varlist.At(2)
	if err := in.Set(lvl.Binding, steps, value); err != nil {
		return Thrown(err)
	}
	lvl.Output = value
	return Out()
}

// registerTweakNatives publishes `get` and `set` as quoted-path
// actions over the tweak protocol.
func registerTweakNatives(in *Interpreter) {
	locationParam := ParamDesc{Name: in.Sym("location"), Class: ParamHardQuote, Types: AnyTypeset}
	valueParam := ParamDesc{Name: in.Sym("value"), Class: ParamNormal, AcceptsNull: true, Types: AnyTypeset}

	in.DefineGlobal("get", in.MakeAction("get", []ParamDesc{locationParam}, &getDispatcher{}))
	in.DefineGlobal("set", in.MakeAction("set", []ParamDesc{locationParam, valueParam}, &setDispatcher{}))
}
