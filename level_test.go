package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushDropLevelBalancesStack(t *testing.T) {
	in := NewInterpreter()
	require.Nil(t, in.Top)

	lvl := in.PushLevel(NewFeed(in.MakeSource().Array()), EvaluatorExecutor, in.Globals)
	assert.Same(t, lvl, in.Top)

	in.DropLevel(lvl)
	assert.Nil(t, in.Top)
}

func TestDropLevelKeepsKeepaliveLevelInPlace(t *testing.T) {
	in := NewInterpreter()
	lvl := in.PushLevel(NewFeed(in.MakeSource().Array()), EvaluatorExecutor, in.Globals)
	lvl.Flags |= LevelFlagKeepalive

	in.DropLevel(lvl)
	assert.Same(t, lvl, in.Top, "keepalive level must survive an ordinary DropLevel")
}

func TestFeedFetchAdvancesCursor(t *testing.T) {
	in := NewInterpreter()
	block := in.MakeSource(Integer(1), Integer(2))
	f := NewFeed(block.Array())

	c1, ok := f.Fetch()
	require.True(t, ok)
	assert.Equal(t, int64(1), c1.AsInteger())

	c2, ok := f.Fetch()
	require.True(t, ok)
	assert.Equal(t, int64(2), c2.AsInteger())

	_, ok = f.Fetch()
	assert.False(t, ok)
}

func TestVariadicFeedReifiesIntoArray(t *testing.T) {
	in := NewInterpreter()
	f := NewVariadicFeed([]Cell{Integer(1), Integer(2), Integer(3)})
	f.Fetch() // consume the first item before reifying

	f.Reify(in.Pool)
	require.Nil(t, f.Pending)
	require.NotNil(t, f.Array)
	assert.Equal(t, 2, f.Array.Len())

	c, ok := f.Fetch()
	require.True(t, ok)
	assert.Equal(t, int64(2), c.AsInteger())
}

func TestDataStackBalanceTracking(t *testing.T) {
	in := NewInterpreter()
	mark := in.DataStackMark()
	assert.True(t, in.DataStackBalanced(mark))

	in.PushData(Integer(1))
	assert.False(t, in.DataStackBalanced(mark))

	in.PopData()
	assert.True(t, in.DataStackBalanced(mark))
}
