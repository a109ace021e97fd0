package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiftUnliftRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		c    Cell
	}{
		{"null", Null()},
		{"logic true", Logic(true)},
		{"logic false", Logic(false)},
		{"integer", Integer(42)},
		{"decimal", Decimal(3.5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lifted := LiftDual(tc.c)
			back := UnliftDual(lifted)
			assert.Equal(t, tc.c.Heart(), back.Heart())
			assert.Equal(t, tc.c.Lift(), back.Lift())
		})
	}
}

func TestLiftProducesQuasiformForAntiformishHearts(t *testing.T) {
	n := LiftDual(Null())
	assert.Equal(t, LiftQuasi, n.Lift())
	assert.True(t, UnliftDual(n).IsNull())
}

func TestQuasiAntiRoundTrip(t *testing.T) {
	n := Null()
	require.Equal(t, LiftAnti, n.Lift())
	q := n.Quasi()
	assert.Equal(t, LiftQuasi, q.Lift())
	back := q.Anti()
	assert.Equal(t, LiftAnti, back.Lift())
}

func TestIsAntiformInvariant(t *testing.T) {
	// I-3: no Cell stored inside a Source array may carry LiftAnti.
	in := NewInterpreter()
	block := in.MakeSource(Integer(1), Integer(2))
	for i := 0; i < block.Array().Len(); i++ {
		assert.False(t, block.Array().At(i).IsAntiform())
	}
}

func TestHeartStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "integer", HeartInteger.String())
	assert.Equal(t, "get-path", HeartGetPath.String())
	assert.Equal(t, "set-path", HeartSetPath.String())
	assert.Contains(t, Heart(200).String(), "heart(")
}

func TestWordBindingIsVirtual(t *testing.T) {
	in := NewInterpreter()
	sym := in.Sym("foo")
	w := Word(sym)
	assert.Nil(t, w.Binding())

	bound := w.BindWord(in.Globals)
	assert.Same(t, in.Globals, bound.Binding())
	// The original cell is untouched - binding a copy never mutates it.
	assert.Nil(t, w.Binding())
	assert.Same(t, sym, w.WordSymbol())
	assert.Same(t, sym, bound.WordSymbol())
}

func TestTruthiness(t *testing.T) {
	assert.False(t, Null().IsTruthy())
	assert.False(t, Logic(false).IsTruthy())
	assert.True(t, Logic(true).IsTruthy())
	assert.True(t, Integer(0).IsTruthy())
}
