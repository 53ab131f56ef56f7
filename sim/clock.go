package sim

import "time"

// TimeProvider supplies wall time to the Clock
type TimeProvider interface {
	Now() time.Time
}

// SystemTime reads the monotonic system clock
type SystemTime struct{}

// Now returns the current time with monotonic clock reading
func (SystemTime) Now() time.Time {
	return time.Now()
}

// ClockState is the lifecycle state of a Clock
type ClockState int

const (
	ClockOutOfSync ClockState = iota
	ClockStarted
	ClockPaused
	ClockStopped
)

func (s ClockState) String() string {
	switch s {
	case ClockStarted:
		return "started"
	case ClockPaused:
		return "paused"
	case ClockStopped:
		return "stopped"
	default:
		return "out-of-sync"
	}
}

// Clock is a pausable monotonic game time source. Elapsed time only moves
// forward on Sync while started; pause intervals are subtracted from wall time.
type Clock struct {
	wall TimeProvider

	state          ClockState
	startInstant   time.Time
	pauseStart     time.Time
	pausedDuration time.Duration
	elapsed        time.Duration
}

// NewClock creates a clock reading from wall; nil uses the system clock
func NewClock(wall TimeProvider) *Clock {
	if wall == nil {
		wall = SystemTime{}
	}
	return &Clock{wall: wall}
}

// Start resets all fields and begins counting
func (c *Clock) Start() {
	c.startInstant = c.wall.Now()
	c.pauseStart = time.Time{}
	c.pausedDuration = 0
	c.elapsed = 0
	c.state = ClockStarted
}

// Pause freezes elapsed time
func (c *Clock) Pause() {
	if c.state != ClockStarted {
		return
	}
	c.Sync()
	c.pauseStart = c.wall.Now()
	c.state = ClockPaused
}

// Unpause resumes counting and books the pause interval
func (c *Clock) Unpause() {
	if c.state != ClockPaused {
		return
	}
	c.pausedDuration += c.wall.Now().Sub(c.pauseStart)
	c.pauseStart = time.Time{}
	c.state = ClockStarted
}

// Sync recomputes elapsed time from the wall clock
func (c *Clock) Sync() {
	if c.state != ClockStarted {
		return
	}
	e := c.wall.Now().Sub(c.startInstant) - c.pausedDuration
	if e > c.elapsed {
		c.elapsed = e
	}
}

// Stop unpauses if needed, performs a final sync and freezes the clock
func (c *Clock) Stop() {
	if c.state == ClockPaused {
		c.Unpause()
	}
	c.Sync()
	c.state = ClockStopped
}

// Elapsed returns game time since Start
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// State returns the lifecycle state
func (c *Clock) State() ClockState {
	return c.state
}

// IsPaused reports whether the clock is paused
func (c *Clock) IsPaused() bool {
	return c.state == ClockPaused
}
