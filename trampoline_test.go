package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepLimitAbortsRunCleanly(t *testing.T) {
	in := NewInterpreter()
	in.Config.SetInt("trampoline.step_limit", 1)

	_, err := runBlock(in, call(in, "add", Integer(1), Integer(2))...)
	require.Error(t, err)
	af, ok := err.(*AbruptFailure)
	require.True(t, ok)
	assert.Contains(t, af.Message, "step limit")

	// The interpreter must be left clean for reuse - no leftover Levels.
	assert.Nil(t, in.Top)
}

func TestStepLimitZeroMeansUnlimited(t *testing.T) {
	in := NewInterpreter()
	in.Config.SetInt("trampoline.step_limit", 0)

	out, err := runBlock(in, call(in, "add", Integer(1), Integer(2))...)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.AsInteger())
}

func TestRecursionLimitPanicsAndIsRescued(t *testing.T) {
	in := NewInterpreter()
	in.Config.SetInt("trampoline.recursion_limit", 1)

	out, err := in.Rescue(func() (Cell, error) {
		return runBlock(in, call(in, "add", Integer(1), Integer(2))...)
	})
	require.Error(t, err)
	af, ok := err.(*AbruptFailure)
	require.True(t, ok)
	assert.Contains(t, af.Message, "recursion limit")
	assert.Equal(t, Cell{}, out)
	assert.Nil(t, in.Top, "Rescue must restore the Level stack after a recursion-limit panic")
}
