package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepossessRoundTrip(t *testing.T) {
	pool := NewPool()
	stub, buf := pool.AllocBytes(8)
	copy(buf, []byte("abcd"))

	cell := pool.Repossess(stub, 4)
	require.Equal(t, HeartBinary, cell.Heart())
	assert.Equal(t, []byte("abcd"), cell.Bytes())
}

func TestPoolFreeReusesIndex(t *testing.T) {
	pool := NewPool()
	a := pool.MakeStub(FlavorSource)
	idx := a.poolIndex
	pool.Free(a)

	b := pool.MakeStub(FlavorSource)
	assert.Equal(t, idx, b.poolIndex)
}

func TestPoolUnitsOnlyListsLive(t *testing.T) {
	pool := NewPool()
	a := pool.MakeStub(FlavorSource)
	_ = pool.MakeStub(FlavorSource)
	pool.Free(a)

	assert.Equal(t, 1, len(pool.Units()))
}
