package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeArithmeticCall(t *testing.T) {
	in := NewInterpreter()
	out, err := runBlock(in, call(in, "add", Integer(2), Integer(3))...)
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.AsInteger())
}

func TestNativeDivideByZeroIsAbruptFailure(t *testing.T) {
	in := NewInterpreter()
	_, err := runBlock(in, call(in, "divide", Integer(1), Integer(0))...)
	require.Error(t, err)
	_, ok := err.(*AbruptFailure)
	assert.True(t, ok)
}

func TestNativeRejectsWrongArgumentType(t *testing.T) {
	in := NewInterpreter()
	_, err := runBlock(in, call(in, "add", in.MakeText("nope"), Integer(1))...)
	require.Error(t, err)
}

func TestGenericDispatchAppendBlockAndText(t *testing.T) {
	in := NewInterpreter()

	t.Run("block", func(t *testing.T) {
		block := in.MakeSource(Integer(1))
		out, err := runBlock(in, call(in, "append", block, Integer(2))...)
		require.NoError(t, err)
		require.Equal(t, 2, out.Array().Len())
		assert.Equal(t, int64(2), out.Array().At(1).AsInteger())
	})

	t.Run("text", func(t *testing.T) {
		txt := in.MakeText("ab")
		out, err := runBlock(in, call(in, "append", txt, in.MakeText("cd"))...)
		require.NoError(t, err)
		assert.Equal(t, "abcd", string(out.Bytes()))
	})

	t.Run("no implementation for heart", func(t *testing.T) {
		_, err := runBlock(in, call(in, "append", Integer(1), Integer(2))...)
		require.Error(t, err)
	})
}

func TestGenericPickBlockAndText(t *testing.T) {
	in := NewInterpreter()
	block := in.MakeSource(Integer(10), Integer(20), Integer(30))

	out, err := runBlock(in, call(in, "pick", block, Integer(2))...)
	require.NoError(t, err)
	assert.Equal(t, int64(20), out.AsInteger())

	out, err = runBlock(in, call(in, "pick", block, Integer(99))...)
	require.NoError(t, err)
	assert.True(t, out.IsNull())
}

func TestTopLevelSetWordDeclaresFreshGlobal(t *testing.T) {
	in := NewInterpreter()
	out, err := runBlock(in,
		SetWord(in.Sym("x")), Integer(41),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(41), out.AsInteger())

	owner, slot, found := Lookup(in.Globals, in.Sym("x"))
	require.True(t, found)
	assert.Equal(t, int64(41), owner.At(slot).AsInteger())
}

func TestGetWordAndSetWordRoundTrip(t *testing.T) {
	in := NewInterpreter()
	_, err := runBlock(in, SetWord(in.Sym("y")), Integer(7))
	require.NoError(t, err)

	out, err := runBlock(in, GetWord(in.Sym("y")))
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.AsInteger())
}
