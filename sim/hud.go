package sim

import (
	"math"
	"time"
)

// Message is a timed HUD line
type Message struct {
	Text    string
	Expires time.Duration
}

// Explosion is a running blast animation
type Explosion struct {
	X, Y, Z float64
	Heading float64
	Start   time.Duration
}

// Item is a health pickup lying in a grid cell
type Item struct {
	Cell int
	X, Z float64
}

func (w *World) pushMessage(text string, d time.Duration) {
	w.messages = append(w.messages, Message{Text: text, Expires: w.clock.Elapsed() + d})
	w.notify.PushMessage(text, d)
}

func (w *World) expireMessages(now time.Duration) {
	kept := w.messages[:0]
	for _, m := range w.messages {
		if m.Expires > now {
			kept = append(kept, m)
		}
	}
	w.messages = kept
}

func (w *World) spawnExplosion(x, z, heading float64, now time.Duration) {
	w.explosions = append(w.explosions, Explosion{X: x, Y: RocketHeight, Z: z, Heading: heading, Start: now})
	w.notify.SpawnExplosion(x, RocketHeight, z, heading)
}

func (w *World) advanceExplosions(now time.Duration) {
	kept := w.explosions[:0]
	for _, e := range w.explosions {
		if now-e.Start < ExplosionDuration {
			kept = append(kept, e)
		}
	}
	w.explosions = kept
}

// advanceItems hands out pickups the player is standing on
func (w *World) advanceItems() {
	p := w.player
	if !p.Alive() || p.Health >= p.MaxHealth {
		return
	}
	kept := w.items[:0]
	for _, it := range w.items {
		if p.Health < p.MaxHealth && math.Abs(p.X-it.X) < PickupRange && math.Abs(p.Z-it.Z) < PickupRange {
			Heal(&p.Vitals, PickupHeal)
			w.grid.ClearCell(it.Cell)
			w.notify.PlaySound(SoundPickup, it.X, it.Z)
			w.pushMessage("Medkit", MessageDuration)
			continue
		}
		kept = append(kept, it)
	}
	w.items = kept
}
