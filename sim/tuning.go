package sim

import "time"

const (
	MapEdgeSize = 256 // cells per grid edge
	MapCells    = MapEdgeSize * MapEdgeSize

	// Fixed-point speeds are 16.16: fixedOne is a speed of 1.0
	fixedOne = 1 << 16

	// frameCompUnit converts a frame-compensation factor into grid units for speed 1.0
	frameCompUnit = 1.0 / 65536.0

	MaxCycle = 50 * time.Millisecond // longest tick fed into frame compensation
)

// Player tuning
const (
	PlayerMaxHealth = 100
	PlayerSize      = 0.25 // half extent of the player's hit-box
	PlayerSpeed     = fixedOne
	RunMultiplier   = 3.0
	TurnRate        = 1.25 // radians per grid unit of frame compensation
	FastTurnFactor  = 2.0

	TimeBetweenShots  = 400 * time.Millisecond
	RocketSpawnOffset = 0.75 // exceeds the player's bounding diagonal (2*PlayerSize*sqrt2)
	FallDuration      = 3000 * time.Millisecond
	WinDelay          = 3000 * time.Millisecond
)

// Projectile tuning
const (
	RocketSpeed       = 8 * fixedOne
	RocketHeight      = 0.5 // y of a flying rocket, used for presentation and decals
	HitRange          = 0.5
	RockRange         = 0.2 // rocket-vs-rocket proximity
	PlayerHitDamage   = 20
	BotHitDamage      = 50
	DecalHalfSize     = 0.15
	DecalLift         = 0.01 // decal offset from the wall along its normal
	ExplosionDuration = 600 * time.Millisecond
)

// Bot tuning
const (
	BotMaxHealth    = 100
	BotWalkSpeed    = 3 * fixedOne / 4
	BotIdleSpeed    = fixedOne / 8
	BotSpeedRamp    = fixedOne / 8
	BotShotInterval = 500 * time.Millisecond
	BotSleepTicks   = 20 // walk suspension after firing
	BotSightSteps   = 8  // ray samples per grid unit
	BotSpacing      = 2.0
	BotPlayerGap    = 1.0

	WalkingSoundThreshold = 3
)

// Pickups and messages
const (
	PickupRange     = 0.5
	PickupHeal      = 25
	MessageDuration = 2 * time.Second
)

// Slot ranges of the object pool
var (
	PlayerRocketSlots = SlotRange{Lo: 0, Hi: 10}
	BotRocketSlots    = SlotRange{Lo: 10, Hi: 20}
	BotSlots          = SlotRange{Lo: 20, Hi: 220}
	BushSlots         = SlotRange{Lo: 220, Hi: 1020}
	DekoSlots         = SlotRange{Lo: 1020, Hi: 1470}
)

// SlotCount is the total arena size
const SlotCount = 1470
