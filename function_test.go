package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSquare wires up `square: <interpreted function over [x] [multiply x x]>`
// directly through MakeFunction/DefineGlobal, since the CLI reader has no
// function-literal surface syntax.
func buildSquare(in *Interpreter) {
	num := TypesetOf(HeartInteger, HeartDecimal)
	params := []ParamDesc{{Name: in.Sym("x"), Class: ParamNormal, Types: num}}
	body := in.MakeSource(Word(in.Sym("multiply")), Word(in.Sym("x")), Word(in.Sym("x"))).Array()
	fn := in.MakeFunction("square", params, body, nil)
	in.DefineGlobal("square", fn)
}

func TestInterpretedFunctionCallsBodyAgainstFreshArgs(t *testing.T) {
	in := NewInterpreter()
	buildSquare(in)

	out, err := runBlock(in, call(in, "square", Integer(5))...)
	require.NoError(t, err)
	assert.Equal(t, int64(25), out.AsInteger())
}

func TestInterpretedFunctionClosesOverDefiningEnvironment(t *testing.T) {
	in := NewInterpreter()

	_, err := runBlock(in, SetWord(in.Sym("k")), Integer(10))
	require.NoError(t, err)

	num := TypesetOf(HeartInteger, HeartDecimal)
	params := []ParamDesc{{Name: in.Sym("x"), Class: ParamNormal, Types: num}}
	body := in.MakeSource(Word(in.Sym("add")), Word(in.Sym("x")), Word(in.Sym("k"))).Array()
	fn := in.MakeFunction("addk", params, body, in.Globals)
	in.DefineGlobal("addk", fn)

	out, err := runBlock(in, call(in, "addk", Integer(3))...)
	require.NoError(t, err)
	assert.Equal(t, int64(13), out.AsInteger())
}

func TestInterpretedFunctionDispatcherName(t *testing.T) {
	d := &InterpretedDispatcher{}
	assert.Equal(t, "interpreted", d.Name())
}
