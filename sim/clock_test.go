package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClock() (*Clock, *MockTime) {
	mt := NewMockTime(time.Unix(1700000000, 0))
	return NewClock(mt), mt
}

func TestClockStartSync(t *testing.T) {
	c, mt := newTestClock()
	assert.Equal(t, ClockOutOfSync, c.State())

	mt.Advance(time.Second)
	c.Sync()
	assert.Zero(t, c.Elapsed(), "sync before start")

	c.Start()
	mt.Advance(100 * time.Millisecond)
	c.Sync()
	assert.Equal(t, 100*time.Millisecond, c.Elapsed())
	assert.Equal(t, ClockStarted, c.State())
}

func TestClockPauseSubtractsInterval(t *testing.T) {
	c, mt := newTestClock()
	c.Start()
	mt.Advance(100 * time.Millisecond)
	c.Pause()
	assert.True(t, c.IsPaused())
	assert.Equal(t, 100*time.Millisecond, c.Elapsed())

	mt.Advance(time.Second)
	c.Sync()
	assert.Equal(t, 100*time.Millisecond, c.Elapsed(), "frozen while paused")

	c.Pause() // no-op
	c.Unpause()
	c.Unpause() // no-op
	mt.Advance(30 * time.Millisecond)
	c.Sync()
	assert.Equal(t, 130*time.Millisecond, c.Elapsed())
}

func TestClockStop(t *testing.T) {
	c, mt := newTestClock()
	c.Start()
	mt.Advance(50 * time.Millisecond)
	c.Pause()
	mt.Advance(50 * time.Millisecond)
	c.Stop()
	assert.Equal(t, ClockStopped, c.State())
	assert.Equal(t, 50*time.Millisecond, c.Elapsed())

	mt.Advance(time.Second)
	c.Sync()
	c.Pause()
	assert.Equal(t, 50*time.Millisecond, c.Elapsed())
	assert.Equal(t, ClockStopped, c.State())

	c.Start()
	assert.Zero(t, c.Elapsed(), "start resets")
}

func TestClockMonotonic(t *testing.T) {
	c, mt := newTestClock()
	c.Start()
	var last time.Duration
	for i := 0; i < 50; i++ {
		mt.Advance(time.Duration(i%7) * time.Millisecond)
		if i%5 == 0 {
			c.Pause()
		} else {
			c.Unpause()
		}
		c.Sync()
		assert.GreaterOrEqual(t, c.Elapsed(), last)
		last = c.Elapsed()
	}
}

func TestClockStateString(t *testing.T) {
	assert.Equal(t, "started", ClockStarted.String())
	assert.Equal(t, "paused", ClockPaused.String())
	assert.Equal(t, "stopped", ClockStopped.String())
	assert.Equal(t, "out-of-sync", ClockOutOfSync.String())
}
