package core

// Run drives the Trampoline - spec.md §4.3's single outer evaluation
// loop - until entry (already pushed onto in.Top) finally bounces Out
// all the way back down to the Level that was on top when Run was
// called, or until an uncaught throw escapes. It returns the output
// Cell of `entry` and, on an uncaught throw, the error describing it.
//
// This is the one place in the package that "recurses into further
// evaluation" conceptually - and it never does so via the Go call
// stack; Levels are pushed and dropped in a flat loop exactly as
// spec.md §4.3 requires of Executors.
func (in *Interpreter) Run(entry *Level) (Cell, error) {
	floor := entry.Prior
	stepLimit := in.Config.GetInt("trampoline.step_limit")
	steps := 0

	for {
		lvl := in.Top
		if lvl == floor {
			// Nothing left above the floor: every path that drops
			// entry returns from Run in the same step, so reaching
			// the floor here is a broken invariant.
			panic("Run: trampoline fell through its own floor")
		}

		steps++

		var bounce Bounce
		switch {
		case in.haltPending():
			in.clearHalt()
			bounce = Thrown(&ThrownSignal{Label: in.Sym("HALT"), Payload: Null(), Target: outermostCatchable(in)})
		case stepLimit > 0 && steps > stepLimit:
			// spec.md §5: "a single HALT flag and an optional cycle-limit
			// counter ... polled at every step" - routed through the same
			// unwind path as HALT so the Level/guard stacks are left
			// clean rather than abandoned mid-run.
			bounce = Thrown(&AbruptFailure{Message: "trampoline step limit exceeded"})
		default:
			bounce = lvl.Executor(in, lvl)
		}

		switch bounce.Kind {
		case BounceOut:
			out := lvl.Output
			delegator := lvl.DelegatedFrom
			in.DropLevel(lvl)
			for delegator != nil {
				delegator.Output = out
				next := delegator.DelegatedFrom
				in.DropLevel(delegator)
				delegator = next
			}
			if in.Top == floor {
				return out, nil
			}
			in.Top.Scratch = out
			continue

		case BounceInvisible:
			in.DropLevel(lvl)
			if in.Top == floor {
				return Cell{}, nil
			}
			continue

		case BounceContinueSublevel:
			in.Top = bounce.Sub
			continue

		case BounceDelegateSublevel:
			bounce.Sub.DelegatedFrom = lvl
			in.Top = bounce.Sub
			continue

		case BounceDownshifted:
			replaceLevel(in, bounce.Below, bounce.Sub)
			continue

		case BounceRedoChecked, BounceRedoUnchecked:
			// Re-enter the same Level's dispatcher; state is whatever
			// the executor already rewound it to.
			continue

		case BounceThrown:
			caught, out, err := in.unwindThrow(lvl, bounce.Err)
			if err != nil {
				return Cell{}, err
			}
			if caught {
				if in.Top == floor {
					return out, nil
				}
				in.Top.Scratch = out
			}
			continue

		default:
			panic("Run: unhandled Bounce kind")
		}
	}
}

// unwindThrow pops Levels from in.Top down to floor-or-catcher,
// looking for one that matches the thrown signal's target, or (for a
// DefinitionalError surfacing as Go error rather than a throw) simply
// reports it up as an uncaught failure. Executors are not re-entered
// during unwinding: each Level is checked once, and it catches the
// throw when it carries LevelFlagCatchable and the signal's Target is
// nil or that Level. The catching Level is dropped and the payload is
// returned for the Level beneath it.
func (in *Interpreter) unwindThrow(lvl *Level, err error) (caught bool, out Cell, escaped error) {
	sig, isThrow := err.(*ThrownSignal)

	for {
		if !isThrow {
			// AbruptFailure/DefinitionalError-as-error: unwind the
			// entire remaining Level stack rather than just lvl, so the
			// Interpreter is left in a clean state for its next Run -
			// nothing catches a non-throw error except Rescue (which
			// operates via panic/recover, not Bounce, and is the outer
			// boundary callers should wrap Run in if they intend to
			// keep using the Interpreter afterward).
			for lvl != nil {
				next := lvl.Prior
				in.DropLevel(lvl)
				lvl = next
			}
			return false, Cell{}, err
		}

		if lvl.Flags&LevelFlagCatchable != 0 && (sig.Target == nil || sig.Target == lvl) {
			in.DropLevel(lvl)
			return true, sig.Payload, nil
		}

		parent := lvl.Prior
		in.DropLevel(lvl)
		if parent == nil {
			return false, Cell{}, err
		}
		lvl = parent
		in.Top = lvl
	}
}

func outermostCatchable(in *Interpreter) *Level {
	var found *Level
	for lvl := in.Top; lvl != nil; lvl = lvl.Prior {
		if lvl.Flags&LevelFlagCatchable != 0 {
			found = lvl
		}
	}
	return found
}

// replaceLevel implements DOWNSHIFTED: below is spliced out of the
// Level stack and sub takes its place. It only relinks Prior pointers;
// any varlist sub should take over is set by whoever built sub. No
// Dispatcher in this package returns Downshift (the Cascader reuses its
// varlist through ContinueWith instead).
func replaceLevel(in *Interpreter, below, sub *Level) {
	sub.Prior = below.Prior
	if in.Top == below {
		in.Top = sub
	} else {
		for l := in.Top; l != nil; l = l.Prior {
			if l.Prior == below {
				l.Prior = sub
				break
			}
		}
	}
}
