package main

import (
	"encoding/json"
	"math"

	"rocketbunker/sim"
)

// Client -> Server message types
const (
	MsgAuth  = "auth"  // claim control with a token
	MsgStart = "start" // leave the menu and start a round
	MsgInput = "input" // JSON fallback for the binary input frame
)

// Server -> Client message types
const (
	MsgState     = "state" // only used by tests; snapshots travel as binary frames
	MsgHUD       = "hud"
	MsgExplosion = "explosion"
	MsgSound     = "sound"
	MsgWalking   = "walking"
	MsgMoving    = "moving"
	MsgGameOver  = "gameover"
	MsgRound     = "round"
	MsgControlOK = "control_ok"
	MsgCtrlOff   = "ctrl_off" // control passed to another client
	MsgError     = "error"
)

// Binary input frame: [inputFrameTag, flags]
const inputFrameTag = 0x01

// Input flag bits
const (
	FlagTurnLeft = 1 << iota
	FlagTurnRight
	FlagForward
	FlagBackward
	FlagStrafeLeft
	FlagStrafeRight
	FlagRunFast
	FlagFire
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// AuthMsg carries a control token
type AuthMsg struct {
	Token string `json:"token"`
}

// InputMsg is the JSON form of an input frame
type InputMsg struct {
	Flags uint8 `json:"f"`
}

// DecodeInput expands input flag bits into intents
func DecodeInput(flags uint8) sim.Input {
	return sim.Input{
		TurnLeft:    flags&FlagTurnLeft != 0,
		TurnRight:   flags&FlagTurnRight != 0,
		Forward:     flags&FlagForward != 0,
		Backward:    flags&FlagBackward != 0,
		StrafeLeft:  flags&FlagStrafeLeft != 0,
		StrafeRight: flags&FlagStrafeRight != 0,
		RunFast:     flags&FlagRunFast != 0,
		Fire:        flags&FlagFire != 0,
	}
}

// EncodeInput packs intents into a binary input frame
func EncodeInput(in sim.Input) []byte {
	var f uint8
	set := func(b bool, bit uint8) {
		if b {
			f |= bit
		}
	}
	set(in.TurnLeft, FlagTurnLeft)
	set(in.TurnRight, FlagTurnRight)
	set(in.Forward, FlagForward)
	set(in.Backward, FlagBackward)
	set(in.StrafeLeft, FlagStrafeLeft)
	set(in.StrafeRight, FlagStrafeRight)
	set(in.RunFast, FlagRunFast)
	set(in.Fire, FlagFire)
	return []byte{inputFrameTag, f}
}

// PlayerState is the player part of a snapshot
type PlayerState struct {
	X       float64 `msgpack:"x"`
	Z       float64 `msgpack:"z"`
	Dir     float64 `msgpack:"r"`
	HP      int     `msgpack:"hp"`
	MaxHP   int     `msgpack:"mhp"`
	Alive   bool    `msgpack:"a"`
	Winning bool    `msgpack:"w,omitempty"`
	Fall    float64 `msgpack:"fy,omitempty"` // falling-death vertical offset
}

// BotState is broadcast per bot
type BotState struct {
	ID    int     `msgpack:"id"`
	X     float64 `msgpack:"x"`
	Z     float64 `msgpack:"z"`
	Dir   float64 `msgpack:"r"`
	HP    int     `msgpack:"hp"`
	Alive bool    `msgpack:"a"`
}

// RocketState is broadcast per rocket
type RocketState struct {
	ID      int     `msgpack:"id"`
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	Z       float64 `msgpack:"z"`
	Heading float64 `msgpack:"h"` // degrees
}

// DecalState is one impact quad
type DecalState struct {
	Edge    uint8         `msgpack:"e"`
	Corners [4][3]float32 `msgpack:"c"`
}

// ItemState is a pickup on the map
type ItemState struct {
	X float64 `msgpack:"x"`
	Z float64 `msgpack:"z"`
}

// Snapshot is the binary state broadcast
type Snapshot struct {
	Tick     uint64        `msgpack:"tick"`
	Round    string        `msgpack:"round"`
	Elapsed  int64         `msgpack:"t"` // ms
	Player   PlayerState   `msgpack:"p"`
	Bots     []BotState    `msgpack:"b"`
	Rockets  []RocketState `msgpack:"rk"`
	Decals   []DecalState  `msgpack:"dc,omitempty"`
	Items    []ItemState   `msgpack:"it,omitempty"`
	Messages []string      `msgpack:"msg,omitempty"`
}

// BuildSnapshot copies the presentation state out of the world. decals are
// the impacts gathered since the previous snapshot.
func BuildSnapshot(w *sim.World, tick uint64, round string, decals []sim.Impact) Snapshot {
	p := w.Player()
	s := Snapshot{
		Tick:    tick,
		Round:   round,
		Elapsed: w.Clock().Elapsed().Milliseconds(),
		Player: PlayerState{
			X:       p.X,
			Z:       p.Z,
			Dir:     p.Dir,
			HP:      p.Health,
			MaxHP:   p.MaxHealth,
			Alive:   p.Alive(),
			Winning: p.Winning,
			Fall:    p.FallOffset,
		},
	}

	bots := w.Bots()
	s.Bots = make([]BotState, 0, len(bots))
	for _, b := range bots {
		s.Bots = append(s.Bots, BotState{ID: b.Slot, X: b.X, Z: b.Z, Dir: b.Dir, HP: b.Health, Alive: b.Alive})
	}
	rockets := w.Rockets()
	s.Rockets = make([]RocketState, 0, len(rockets))
	for _, r := range rockets {
		s.Rockets = append(s.Rockets, RocketState{ID: r.Slot, X: r.X, Y: r.Y, Z: r.Z, Heading: r.HeadingDegrees})
	}
	for _, im := range decals {
		d := DecalState{Edge: uint8(im.Edge)}
		for k, c := range im.Corners {
			d.Corners[k] = [3]float32{float32(c.X), float32(c.Y), float32(c.Z)}
		}
		s.Decals = append(s.Decals, d)
	}
	for _, it := range w.Items() {
		s.Items = append(s.Items, ItemState{X: it.X, Z: it.Z})
	}
	for _, m := range w.Messages() {
		s.Messages = append(s.Messages, m.Text)
	}
	return s
}

// HUDMsg is a timed on-screen message
type HUDMsg struct {
	Text string `json:"text"`
	MS   int64  `json:"ms"`
}

// ExplosionMsg marks an explosion for the scene
type ExplosionMsg struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Heading float64 `json:"h"`
}

// SoundMsg asks clients to play a sample at a position
type SoundMsg struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Z  float64 `json:"z"`
}

// CountMsg carries the walking-bot count
type CountMsg struct {
	N int `json:"n"`
}

// MovingMsg toggles the player footstep loop
type MovingMsg struct {
	Moving bool `json:"m"`
}

// RoundMsg announces a new round
type RoundMsg struct {
	ID   string `json:"id"`
	Bots int    `json:"bots"`
}

// GameOverMsg closes a round
type GameOverMsg struct {
	Round        string `json:"round"`
	Won          bool   `json:"won"`
	Completed    bool   `json:"completed"`
	ElapsedMS    int64  `json:"ms"`
	RocketsFired int    `json:"rockets"`
	BotsKilled   int    `json:"kills"`
	BotsTotal    int    `json:"bots"`
	DamageTaken  int    `json:"damage"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// round2 trims coordinates for JSON event payloads
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
