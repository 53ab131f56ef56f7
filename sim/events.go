package sim

//go:generate go tool mockgen -source=events.go -destination=mock_events_test.go -package=sim

import "time"

// Sound identifies a sample the audio collaborator should play
type Sound int

const (
	SoundRocketLaunch Sound = iota
	SoundExplosion
	SoundPlayerHit
	SoundPlayerDeath
	SoundBotDeath
	SoundPickup
	SoundWin
)

// Notifier receives one-way, fire-and-forget notifications from the world.
// Implementations must not call back into the world.
type Notifier interface {
	PlaySound(id Sound, x, z float64)
	SpawnExplosion(x, y, z, heading float64)
	PushMessage(text string, d time.Duration)
	BotsWalkingChanged(n int)
	PlayerMoving(moving bool)
	GameOver(won bool)
}

// NopNotifier discards every notification
type NopNotifier struct{}

func (NopNotifier) PlaySound(Sound, float64, float64)              {}
func (NopNotifier) SpawnExplosion(float64, float64, float64, float64) {}
func (NopNotifier) PushMessage(string, time.Duration)              {}
func (NopNotifier) BotsWalkingChanged(int)                         {}
func (NopNotifier) PlayerMoving(bool)                              {}
func (NopNotifier) GameOver(bool)                                  {}

// Input is the intent snapshot handed to one tick
type Input struct {
	TurnLeft    bool
	TurnRight   bool
	Forward     bool
	Backward    bool
	StrafeLeft  bool
	StrafeRight bool
	RunFast     bool
	Fire        bool
	Paused      bool
}
