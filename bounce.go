package core

// BounceKind is the control-flow return code an Executor hands back to
// the Trampoline - spec.md §4.3.
type BounceKind uint8

const (
	BounceOut BounceKind = iota
	BounceContinueSublevel
	BounceDelegateSublevel
	BounceThrown
	BounceDownshifted
	BounceRedoChecked
	BounceRedoUnchecked
	BounceInvisible
)

// Bounce is the Trampoline's control-flow unit. Which of Sub/Below/Err
// is meaningful depends on Kind.
type Bounce struct {
	Kind  BounceKind
	Sub   *Level      // ContinueSublevel / DelegateSublevel / Downshifted: the level already pushed
	Below *Level      // Downshifted: the level being replaced
	Err   error       // Thrown: wraps the ThrownSignal/DefinitionalError/AbruptFailure being propagated
}

func Out() Bounce                     { return Bounce{Kind: BounceOut} }
func Invisible() Bounce                { return Bounce{Kind: BounceInvisible} }
func ContinueWith(sub *Level) Bounce   { return Bounce{Kind: BounceContinueSublevel, Sub: sub} }
func DelegateTo(sub *Level) Bounce     { return Bounce{Kind: BounceDelegateSublevel, Sub: sub} }
func Downshift(below, sub *Level) Bounce {
	return Bounce{Kind: BounceDownshifted, Sub: sub, Below: below}
}
func RedoChecked() Bounce   { return Bounce{Kind: BounceRedoChecked} }
func RedoUnchecked() Bounce { return Bounce{Kind: BounceRedoUnchecked} }
func Thrown(err error) Bounce { return Bounce{Kind: BounceThrown, Err: err} }
