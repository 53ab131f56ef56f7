package sim

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const tick = 16 * time.Millisecond

func emptyCells() []byte {
	return make([]byte, MapCells)
}

func setCell(cells []byte, x, z int, c Cell) {
	cells[z*MapEdgeSize+x] = byte(c)
}

type testWorld struct {
	*World
	time *MockTime
}

func newTestWorld(t *testing.T, cells []byte, spawnX, spawnZ float64, opts Options) *testWorld {
	t.Helper()
	mt := NewMockTime(time.Unix(1700000000, 0))
	opts.Time = mt
	opts.Logger = zerolog.Nop()
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	lvl, err := NewLevel(cells, spawnX, spawnZ)
	require.NoError(t, err)
	w, err := NewWorld(lvl, opts)
	require.NoError(t, err)
	w.Reinit()
	return &testWorld{World: w, time: mt}
}

// step advances mocked wall time by one 16 ms tick and runs the loop
func (tw *testWorld) step(in Input) TickResult {
	tw.time.Advance(tick)
	return tw.Advance(in)
}
