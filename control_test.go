package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatchReturnsThrownPayload(t *testing.T) {
	in := NewInterpreter()
	body := in.MakeSource(Word(in.Sym("throw")), Integer(99))

	out, err := runBlock(in, Word(in.Sym("catch")), body)
	require.NoError(t, err)
	assert.Equal(t, int64(99), out.AsInteger())
}

func TestCatchReturnsNormalCompletionWhenNoThrow(t *testing.T) {
	in := NewInterpreter()
	body := in.MakeSource(Word(in.Sym("add")), Integer(1), Integer(2))

	out, err := runBlock(in, Word(in.Sym("catch")), body)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.AsInteger())
}

func TestThrowEscapesUncaughtWithoutAnEnclosingCatch(t *testing.T) {
	in := NewInterpreter()
	_, err := runBlock(in, Word(in.Sym("throw")), Integer(1))
	require.Error(t, err)
	sig, ok := err.(*ThrownSignal)
	require.True(t, ok)
	assert.Equal(t, "THROW", sig.Label.Name)
}

func TestRaiseThenTryCoercesToNull(t *testing.T) {
	in := NewInterpreter()
	out, err := runBlock(in, Word(in.Sym("try")), Word(in.Sym("raise")), in.MakeText("boom"))
	require.NoError(t, err)
	assert.True(t, out.IsNull())
}

func TestTryPassesThroughOrdinaryValue(t *testing.T) {
	in := NewInterpreter()
	out, err := runBlock(in, call(in, "try", Integer(7))...)
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.AsInteger())
}

// TestCatchAsOutermostCatchableInterceptsHalt exercises spec.md §4.3's
// HALT delivery: it targets the outermost catchable Level, so a single
// enclosing `catch` - the only catchable Level on the stack - receives
// it like any other targeted throw rather than escaping past it.
func TestCatchAsOutermostCatchableInterceptsHalt(t *testing.T) {
	in := NewInterpreter()
	body := in.MakeSource(Word(in.Sym("halt")))

	out, err := runBlock(in, Word(in.Sym("catch")), body)
	require.NoError(t, err)
	assert.True(t, out.IsNull(), "halt carries no payload")
}

// TestHaltTargetsOutermostCatchableNotInnermost confirms HALT skips an
// inner `catch` and unwinds all the way to the outer one.
func TestHaltTargetsOutermostCatchableNotInnermost(t *testing.T) {
	in := NewInterpreter()
	inner := in.MakeSource(Word(in.Sym("catch")), in.MakeSource(Word(in.Sym("halt"))))

	out, err := runBlock(in, Word(in.Sym("catch")), inner)
	require.NoError(t, err)
	assert.True(t, out.IsNull())
}

func TestHaltWithNoCatchableLevelEscapesUncaught(t *testing.T) {
	in := NewInterpreter()
	_, err := runBlock(in, call(in, "halt")...)
	require.Error(t, err)
	sig, ok := err.(*ThrownSignal)
	require.True(t, ok)
	assert.Equal(t, "HALT", sig.Label.Name)
}
