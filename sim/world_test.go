package sim

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNewWorldRejectsNilLevel(t *testing.T) {
	_, err := NewWorld(nil, Options{})
	require.ErrorIs(t, err, ErrBadLevel)
}

func TestBuildExtractsObjects(t *testing.T) {
	cells := emptyCells()
	setCell(cells, 5, 5, CellBotSpawn)
	setCell(cells, 6, 5, CellBush)
	setCell(cells, 7, 5, CellCrate)
	setCell(cells, 8, 5, CellChair)
	setCell(cells, 9, 5, CellMedkit)
	setCell(cells, 10, 5, CellWallCross)
	w := newTestWorld(t, cells, 20.5, 20.5, Options{})

	bots := w.Bots()
	require.Len(t, bots, 1)
	assert.Equal(t, BotSlots.Lo, bots[0].Slot)
	assert.Equal(t, 5.5, bots[0].X)
	assert.Equal(t, BotMaxHealth, bots[0].Health)
	assert.True(t, bots[0].Alive)
	assert.Equal(t, CellEmpty, w.Grid().At(5, 5), "bot spawn marker is cleared")

	assert.Equal(t, 1, w.pool.CountActive(BushSlots))
	assert.Equal(t, 2, w.pool.CountActive(DekoSlots))
	assert.Equal(t, Index(7, 5), w.pool.Slot(DekoSlots.Lo).Cell)
	assert.Len(t, w.Items(), 1)
	assert.Equal(t, 1, w.Stats().BotsTotal)
	assertSlotInvariant(t, w.pool)
}

func TestBuildSkipsWhenPoolExhausted(t *testing.T) {
	cells := emptyCells()
	n := BotSlots.Len() + 5
	for k := 0; k < n; k++ {
		setCell(cells, k%MapEdgeSize, 100+k/MapEdgeSize, CellBotSpawn)
	}
	w := newTestWorld(t, cells, 10.5, 10.5, Options{})
	assert.Len(t, w.Bots(), BotSlots.Len())
	assert.Equal(t, BotSlots.Len(), w.pool.CountActive(BotSlots))
}

func TestPauseFreezesWorld(t *testing.T) {
	w := newTestWorld(t, emptyCells(), 10.5, 10.5, Options{})
	w.step(Input{Forward: true})
	z := w.Player().Z

	res := w.step(Input{Forward: true, Paused: true})
	assert.True(t, res.Paused)
	frozen := w.Clock().Elapsed()
	for k := 0; k < 10; k++ {
		res = w.step(Input{Forward: true, Paused: true})
		assert.True(t, res.Paused)
	}
	assert.Equal(t, z, w.Player().Z)
	assert.True(t, w.Clock().IsPaused())
	assert.Equal(t, frozen, w.Clock().Elapsed())

	w.step(Input{Forward: true})
	assert.Equal(t, frozen, w.Clock().Elapsed(), "pause interval is not counted")
	assert.InDelta(t, z+0.0390625, w.Player().Z, 1e-12)
}

func TestLongCycleIsClamped(t *testing.T) {
	w := newTestWorld(t, emptyCells(), 10.5, 10.5, Options{})
	w.time.Advance(2 * time.Second)
	w.Advance(Input{Forward: true})
	assert.InDelta(t, 10.5+FrameCompensation(MaxCycle)/65536, w.Player().Z, 1e-12)
}

func TestTurning(t *testing.T) {
	w := newTestWorld(t, emptyCells(), 10.5, 10.5, Options{})
	turn := FrameCompensation(tick) * frameCompUnit * TurnRate

	w.step(Input{TurnLeft: true})
	assert.InDelta(t, 2*math.Pi-turn, w.Player().Dir, 1e-12)

	w.step(Input{TurnRight: true, RunFast: true})
	assert.InDelta(t, turn*(FastTurnFactor-1), w.Player().Dir, 1e-12)

	for k := 0; k < 500; k++ {
		w.step(Input{TurnRight: true})
		d := w.Player().Dir
		require.True(t, d >= 0 && d < 2*math.Pi, "dir %v", d)
	}
}

func TestStrafeIsPerpendicular(t *testing.T) {
	w := newTestWorld(t, emptyCells(), 10.5, 10.5, Options{})
	w.step(Input{StrafeRight: true})
	p := w.Player()
	assert.InDelta(t, 10.5+0.0390625, p.X, 1e-12)
	assert.InDelta(t, 10.5, p.Z, 1e-12)

	// opposite intents cancel out
	w.step(Input{Forward: true, Backward: true})
	p = w.Player()
	assert.False(t, p.Moving())
}

func TestPlayerMovingToggles(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := NewMockNotifier(ctrl)
	gomock.InOrder(
		n.EXPECT().PlayerMoving(true),
		n.EXPECT().PlayerMoving(false),
		n.EXPECT().PlayerMoving(true),
	)

	w := newTestWorld(t, emptyCells(), 10.5, 10.5, Options{Notifier: n})
	w.step(Input{Forward: true})
	w.step(Input{Forward: true})
	w.step(Input{})
	w.step(Input{})
	w.step(Input{Backward: true})
}

func TestMedkitPickup(t *testing.T) {
	cells := emptyCells()
	setCell(cells, 10, 10, CellMedkit)
	w := newTestWorld(t, cells, 10.5, 10.5, Options{})

	// full health leaves the item on the map
	w.step(Input{})
	require.Len(t, w.Items(), 1)

	w.player.Health = 50
	w.step(Input{})
	assert.Equal(t, 50+PickupHeal, w.Player().Health)
	assert.Empty(t, w.Items())
	assert.Equal(t, CellEmpty, w.Grid().At(10, 10))
	require.Len(t, w.Messages(), 1)
	assert.Equal(t, "Medkit", w.Messages()[0].Text)

	w.Reinit()
	assert.Len(t, w.Items(), 1)
	assert.Equal(t, PlayerMaxHealth, w.Player().Health)
}

func TestMessagesExpire(t *testing.T) {
	w := newTestWorld(t, emptyCells(), 10.5, 10.5, Options{})
	w.pushMessage("hello", 100*time.Millisecond)
	for k := 0; k < 6; k++ {
		w.step(Input{})
	}
	assert.Len(t, w.Messages(), 1)
	w.step(Input{})
	assert.Empty(t, w.Messages())
}

func TestExplosionsExpire(t *testing.T) {
	w := newTestWorld(t, emptyCells(), 10.5, 10.5, Options{})
	w.spawnExplosion(3, 4, 0, 0)
	require.Len(t, w.Explosions(), 1)
	assert.Equal(t, RocketHeight, w.Explosions()[0].Y)

	for w.Clock().Elapsed() < ExplosionDuration-tick {
		w.step(Input{})
	}
	assert.Len(t, w.Explosions(), 1)
	w.step(Input{})
	assert.Empty(t, w.Explosions())
}

func TestReinitResetsRound(t *testing.T) {
	cells := emptyCells()
	setCell(cells, 30, 30, CellBotSpawn)
	w := newTestWorld(t, cells, 10.5, 10.5, Options{})

	w.step(Input{Forward: true, Fire: true})
	w.player.Health = 10
	require.NotEmpty(t, w.Rockets())

	w.Reinit()
	p := w.Player()
	assert.Equal(t, 10.5, p.Z)
	assert.Equal(t, PlayerMaxHealth, p.Health)
	assert.Empty(t, w.Rockets())
	assert.Len(t, w.Bots(), 1)
	assert.Zero(t, w.Stats().RocketsFired)
	assert.Zero(t, w.Clock().Elapsed())
	assert.False(t, w.GameOver())
}
