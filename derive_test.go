package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGlobal(t *testing.T, in *Interpreter, name string) Cell {
	t.Helper()
	owner, slot, ok := Lookup(in.Globals, in.Sym(name))
	require.True(t, ok, "global %s not found", name)
	return owner.At(slot)
}

func TestCascadePipesStagesLeftToRight(t *testing.T) {
	in := NewInterpreter()
	add := mustGlobal(t, in, "add")
	negate := mustGlobal(t, in, "negate")

	negadd := in.Cascade([]Cell{add, negate})
	in.DefineGlobal("negadd", negadd)

	out, err := runBlock(in, call(in, "negadd", Integer(2), Integer(2))...)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), out.AsInteger())
}

func TestCascadeRejectsMultiArgContinuationStage(t *testing.T) {
	in := NewInterpreter()
	add := mustGlobal(t, in, "add")

	bad := in.Cascade([]Cell{add, add}) // second stage (add) wants 2 args, cascade only feeds 1
	in.DefineGlobal("bad", bad)

	_, err := runBlock(in, call(in, "bad", Integer(1), Integer(2))...)
	require.Error(t, err)
}

func TestSpecializeHidesAndPrefillsParam(t *testing.T) {
	in := NewInterpreter()
	add := mustGlobal(t, in, "add")

	addFive := in.Specialize(add, map[string]Cell{"value1": Integer(5)})
	in.DefineGlobal("addfive", addFive)

	out, err := runBlock(in, call(in, "addfive", Integer(3))...)
	require.NoError(t, err)
	assert.Equal(t, int64(8), out.AsInteger())

	// The original action is untouched by specialization.
	out2, err := runBlock(in, call(in, "add", Integer(1), Integer(1))...)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out2.AsInteger())
}

func TestAdaptPreludeRewritesArgumentSlot(t *testing.T) {
	in := NewInterpreter()
	add := mustGlobal(t, in, "add")

	prelude := in.Pool.MakeStub(FlavorSource)
	prelude.flags |= StubFlagDynamic
	prelude.cells = []Cell{SetWord(in.Sym("value1")), Integer(100)}
	prelude.manage()

	adapted := in.Adapt(add, prelude)
	in.DefineGlobal("adaptedadd", adapted)

	out, err := runBlock(in, call(in, "adaptedadd", Integer(2), Integer(3))...)
	require.NoError(t, err)
	assert.Equal(t, int64(103), out.AsInteger())
}

func TestEncloseFeedsInnerResultToOuter(t *testing.T) {
	in := NewInterpreter()
	add := mustGlobal(t, in, "add")
	negate := mustGlobal(t, in, "negate")

	enclosed := in.Enclose(add, negate)
	in.DefineGlobal("enclosedadd", enclosed)

	out, err := runBlock(in, call(in, "enclosedadd", Integer(2), Integer(3))...)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), out.AsInteger())
}

func TestHijackRedirectsInPlace(t *testing.T) {
	in := NewInterpreter()
	victim := mustGlobal(t, in, "subtract")
	replacement := mustGlobal(t, in, "add")

	in.Hijack(victim, replacement)

	out, err := runBlock(in, call(in, "subtract", Integer(2), Integer(3))...)
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.AsInteger(), "hijacked subtract now behaves like add")
}

func TestMacroSplicesIntoCallingFeed(t *testing.T) {
	in := NewInterpreter()

	m := in.MakeMacro("m", []ParamDesc{
		{Name: in.Sym("x"), Types: TypesetOf(HeartSource)},
	}, func(in *Interpreter, args *Stub) (Cell, error) {
		return in.MakeSource(Word(in.Sym("append")), args.At(1), Integer(4)), nil
	})
	in.DefineGlobal("m", m)

	input := in.MakeSource(Integer(1), Integer(2), Integer(3))
	out, err := runBlock(in, Word(in.Sym("m")), input)
	require.NoError(t, err)

	require.Equal(t, 4, out.Array().Len())
	assert.Equal(t, int64(4), out.Array().At(3).AsInteger())
}
