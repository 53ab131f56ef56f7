package sim

import "time"

// Player is the single human-controlled actor
type Player struct {
	X, Z float64
	Dir  float64 // radians in [0, 2π); 0 faces +Z
	Size float64 // hit-box half extent
	Vitals

	Winning    bool
	WonAt      time.Duration
	FallOffset float64 // vertical offset of the falling-death animation

	falling   bool
	fallDone  bool
	fallStart time.Duration
	moving    bool
	lastShot  time.Duration
}

// NewPlayer creates a player at the spawn position with full health
func NewPlayer(x, z float64) *Player {
	p := &Player{}
	p.Respawn(x, z)
	return p
}

// Respawn resets the player between rounds
func (p *Player) Respawn(x, z float64) {
	*p = Player{
		X:        x,
		Z:        z,
		Size:     PlayerSize,
		Vitals:   Vitals{Health: PlayerMaxHealth, MaxHealth: PlayerMaxHealth},
		lastShot: -TimeBetweenShots,
	}
}

// Falling reports whether the falling-death timer is running
func (p *Player) Falling() bool {
	return p.falling
}

// Moving reports whether the player translated on the last tick
func (p *Player) Moving() bool {
	return p.moving
}
