package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaRelaxKeepsFirstOnTie(t *testing.T) {
	a := newArena()

	a.relax(stateRec{node: 1, slot: 10, fuel: 5, prev: -1, engineKn: 11})
	a.relax(stateRec{node: 1, slot: 10, fuel: 5, prev: -1, engineKn: 13})

	id, ok := a.lookup(1, 10)
	require.True(t, ok)
	assert.Equal(t, 11.0, a.at(id).engineKn,
		"an equal-cost candidate must not displace the first arrival")
}

func TestArenaRelaxReplacesOnStrictImprovement(t *testing.T) {
	a := newArena()

	a.relax(stateRec{node: 2, slot: 40, fuel: 9, prev: -1, engineKn: 13})
	a.relax(stateRec{node: 2, slot: 40, fuel: 8.5, prev: -1, engineKn: 12})

	id, ok := a.lookup(2, 40)
	require.True(t, ok)
	rec := a.at(id)
	assert.Equal(t, 8.5, rec.fuel)
	assert.Equal(t, 12.0, rec.engineKn)
}

func TestArenaStatesAreSparse(t *testing.T) {
	a := newArena()
	a.relax(stateRec{node: 0, slot: 0, fuel: 0, prev: -1})

	_, ok := a.lookup(0, 1)
	assert.False(t, ok, "unreached states must be absent, not zero-valued")
	_, ok = a.lookup(1, 0)
	assert.False(t, ok)
}
