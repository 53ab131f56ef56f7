package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerRocketCooldown(t *testing.T) {
	w := newTestWorld(t, emptyCells(), 10.5, 10.5, Options{})

	assert.True(t, w.TryLaunchPlayerRocket(100*time.Millisecond))
	assert.False(t, w.TryLaunchPlayerRocket(300*time.Millisecond))
	assert.Equal(t, 1, w.pool.CountActive(PlayerRocketSlots))
	assert.Len(t, w.Rockets(), 1)

	assert.True(t, w.TryLaunchPlayerRocket(500*time.Millisecond))
	assert.Equal(t, 2, w.pool.CountActive(PlayerRocketSlots))
	assert.Equal(t, 2, w.Stats().RocketsFired)
}

func TestPlayerRocketSlotConservation(t *testing.T) {
	w := newTestWorld(t, emptyCells(), 10.5, 10.5, Options{})

	now := time.Duration(0)
	for k := 0; k < PlayerRocketSlots.Len(); k++ {
		require.True(t, w.TryLaunchPlayerRocket(now))
		now += TimeBetweenShots
	}
	assert.False(t, w.TryLaunchPlayerRocket(now), "no free slot")
	assert.Equal(t, PlayerRocketSlots.Len(), w.pool.CountActive(PlayerRocketSlots))
	assert.Zero(t, w.pool.CountActive(BotRocketSlots))
	assert.Len(t, w.Rockets(), PlayerRocketSlots.Len())
	assertSlotInvariant(t, w.pool)
}

func TestRocketSpawnsAheadOfPlayer(t *testing.T) {
	w := newTestWorld(t, emptyCells(), 10.5, 10.5, Options{})
	require.True(t, w.TryLaunchPlayerRocket(0))

	r := w.Rockets()[0]
	assert.InDelta(t, 10.5, r.X, 1e-12)
	assert.InDelta(t, 10.5+RocketSpawnOffset, r.Z, 1e-12)
	assert.Equal(t, RocketHeight, r.Y)
	assert.Greater(t, RocketSpawnOffset, 2*PlayerSize*1.4142)
}

func TestRocketFourWayWallImpacts(t *testing.T) {
	cells := emptyCells()
	setCell(cells, 10, 14, CellWallCross)
	w := newTestWorld(t, cells, 10.5, 10.5, Options{})

	w.step(Input{Fire: true})
	rockets := w.Rockets()
	require.Len(t, rockets, 1)
	slot := rockets[0].Slot

	var impacts []Impact
	for k := 0; k < 30 && len(impacts) == 0; k++ {
		assert.True(t, w.pool.Slot(slot).Active(), "rocket alive before strike")
		w.step(Input{})
		impacts = w.Impacts()
	}
	require.Len(t, impacts, 4)
	assert.False(t, w.pool.Slot(slot).Active())
	assert.Empty(t, w.Rockets())
	assert.Len(t, w.Explosions(), 1)

	seen := Edge(0)
	for _, im := range impacts {
		seen |= im.Edge
		assert.Equal(t, RocketHeight, im.Center.Y)
	}
	assert.Equal(t, EdgeAll, seen)

	// the facing edge is hit where the rocket crossed it
	up := impacts[0]
	require.Equal(t, EdgeUp, up.Edge)
	assert.InDelta(t, 10.5, up.Center.X, 1e-9)
	assert.InDelta(t, 14-DecalLift, up.Center.Z, 1e-9)

	// the next tick clears the transient decals, paused or not
	w.step(Input{Paused: true})
	assert.Empty(t, w.Impacts())
}

func TestRocketStraightWallOneImpact(t *testing.T) {
	cells := emptyCells()
	setCell(cells, 10, 14, CellWallUp)
	w := newTestWorld(t, cells, 10.5, 10.5, Options{})

	w.step(Input{Fire: true})
	var impacts []Impact
	for k := 0; k < 30 && len(impacts) == 0; k++ {
		w.step(Input{})
		impacts = w.Impacts()
	}
	require.Len(t, impacts, 1)
	assert.Equal(t, EdgeUp, impacts[0].Edge)
}

func TestRocketBlastsFurniture(t *testing.T) {
	cells := emptyCells()
	setCell(cells, 10, 13, CellCrate)
	w := newTestWorld(t, cells, 10.5, 10.5, Options{})
	require.Equal(t, 1, w.pool.CountActive(DekoSlots))

	w.step(Input{Fire: true})
	for k := 0; k < 30 && len(w.Rockets()) > 0; k++ {
		w.step(Input{})
	}
	assert.Empty(t, w.Rockets())
	assert.Zero(t, w.pool.CountActive(DekoSlots))
	assert.Equal(t, CellEmpty, w.Grid().At(10, 13))

	w.Reinit()
	assert.Equal(t, CellCrate, w.Grid().At(10, 13))
	assert.Equal(t, 1, w.pool.CountActive(DekoSlots))
}

func TestRocketPassesBushes(t *testing.T) {
	cells := emptyCells()
	setCell(cells, 10, 12, CellBush)
	setCell(cells, 10, 16, CellWallBlock)
	w := newTestWorld(t, cells, 10.5, 10.5, Options{})

	w.step(Input{Fire: true})
	var impacts []Impact
	for k := 0; k < 40 && len(impacts) == 0; k++ {
		w.step(Input{})
		impacts = w.Impacts()
	}
	assert.Len(t, impacts, 4, "rocket reached the block behind the bush")
	assert.Equal(t, 1, w.pool.CountActive(BushSlots))
}

func TestRocketsCollideMidAir(t *testing.T) {
	w := newTestWorld(t, emptyCells(), 50.5, 50.5, Options{})

	a := w.launchRocket(PlayerRocketSlots, 0, 10.5, 10, 0)
	b := w.launchRocket(BotRocketSlots, BotRocketSlots.Lo, 10.5, 12.5, 3.141592653589793)
	require.GreaterOrEqual(t, a, 0)
	require.GreaterOrEqual(t, b, 0)

	for k := 0; k < 10 && len(w.Rockets()) > 0; k++ {
		w.step(Input{})
	}
	assert.Empty(t, w.Rockets())
	assert.Zero(t, w.pool.CountActive(PlayerRocketSlots))
	assert.Zero(t, w.pool.CountActive(BotRocketSlots))
}

func TestProjectOnEdgeParallel(t *testing.T) {
	nx, nz, d := edgeLine(EdgeLeft, 10, 14)
	x, z := projectOnEdge(10.5, 13.7, 10.5, 14.1, nx, nz, d)
	assert.InDelta(t, 10.0, x, 1e-12)
	assert.InDelta(t, 14.1, z, 1e-12)
}
