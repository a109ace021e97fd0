package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileStepsRejectsNonWordStep(t *testing.T) {
	in := NewInterpreter()
	group := GroupCell(in.MakeSource(Integer(1)).Array())
	path := PathCell(in.MakeSource(Word(in.Sym("obj")), group).Array())

	_, err := CompileSteps(path)
	require.Error(t, err)
}

func TestCompileStepsRejectsEmptyPath(t *testing.T) {
	in := NewInterpreter()
	empty := in.MakeSource() // zero steps
	_, err := CompileSteps(PathCell(empty.Array()))
	require.Error(t, err)
}

func TestGetSetRoundTripOnTopLevelVarlist(t *testing.T) {
	in := NewInterpreter()
	objectBang := Word(in.Sym("object!"))
	spec := in.MakeSource(SetWord(in.Sym("n")), Integer(1))
	_, err := runBlock(in, SetWord(in.Sym("box")), Word(in.Sym("make")), objectBang, spec)
	require.NoError(t, err)

	owner, slot, ok := Lookup(in.Globals, in.Sym("box"))
	require.True(t, ok)
	box := owner.At(slot)

	steps, err := CompileSteps(PathCell(in.MakeSource(Word(in.Sym("box")), Word(in.Sym("n"))).Array()))
	require.NoError(t, err)

	got, err := in.Get(in.Globals, steps)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.AsInteger())

	require.NoError(t, in.Set(in.Globals, steps, Integer(2)))
	got2, _ := box.Varlist().Get(in.Sym("n"))
	assert.Equal(t, int64(2), got2.AsInteger())
}

func TestRootVarlistFindsOutermostModule(t *testing.T) {
	in := NewInterpreter()
	assert.Same(t, in.Globals, RootVarlist(in.Globals))

	keylist := in.Pool.NewParamlist(nil)
	keylist.manage()
	inner := in.Pool.NewVarlist(keylist, HeartObject)
	use := in.Pool.NewUse(inner, in.Globals)

	assert.Same(t, in.Globals, RootVarlist(use))
}
