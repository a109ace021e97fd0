package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRescueRecoversGoPanic(t *testing.T) {
	in := NewInterpreter()
	_, err := in.Rescue(func() (Cell, error) {
		panic("boom")
	})
	require.Error(t, err)
	af, ok := err.(*AbruptFailure)
	require.True(t, ok)
	assert.Contains(t, af.Message, "boom")
}

func TestRescueRestoresGuardAndLevelStackOnPanic(t *testing.T) {
	in := NewInterpreter()
	s := in.Pool.MakeStub(FlavorSource)
	s.manage()
	in.PushGuard(s)

	_, err := in.Rescue(func() (Cell, error) {
		in.PushLevel(NewFeed(in.MakeSource().Array()), EvaluatorExecutor, in.Globals)
		in.PushGuard(in.Pool.MakeStub(FlavorSource))
		panic("broken invariant")
	})
	require.Error(t, err)

	assert.Nil(t, in.Top, "Rescue must restore the Level stack to its pre-call depth")
	assert.Equal(t, 1, len(in.guardStack), "Rescue must restore the guard stack to its pre-call depth")
	in.PopGuard()
}

func TestRescueWithHandlerComputesReplacement(t *testing.T) {
	in := NewInterpreter()
	out := in.RescueWith(func() (Cell, error) {
		return Cell{}, &AbruptFailure{Message: "nope"}
	}, func(err error) Cell {
		return Integer(-1)
	})
	assert.Equal(t, int64(-1), out.AsInteger())
}

func TestNewDefinitionalErrorCarriesMessage(t *testing.T) {
	in := NewInterpreter()
	cell, derr := in.NewDefinitionalError("missing field", Location{File: "a.core", Line: 3, Column: 1})
	require.True(t, cell.IsErrorAntiform())
	assert.Equal(t, "missing field", derr.Message)

	msg, ok := cell.Varlist().Get(in.Sym("message"))
	require.True(t, ok)
	assert.Equal(t, "missing field", string(msg.Bytes()))
}

func TestLocationStringFormatting(t *testing.T) {
	assert.Equal(t, "3:1", Location{Line: 3, Column: 1}.String())
	assert.Equal(t, "a.core:3:1", Location{File: "a.core", Line: 3, Column: 1}.String())
}
