package sim

import "time"

// Vitals is the health record shared by the player and bots
type Vitals struct {
	Health    int
	MaxHealth int
	Dead      bool
	DiedAt    time.Duration
}

// Alive reports whether health is above zero
func (v *Vitals) Alive() bool {
	return v.Health > 0
}

// ApplyDamage lowers health, flooring it at 0. It returns true only on the
// transition to 0, which is also when the death time is recorded.
func ApplyDamage(v *Vitals, amount int, now time.Duration) bool {
	if amount <= 0 || v.Health <= 0 {
		return false
	}
	v.Health -= amount
	if v.Health > 0 {
		return false
	}
	v.Health = 0
	if v.Dead {
		return false
	}
	v.Dead = true
	v.DiedAt = now
	return true
}

// Heal raises health up to the maximum; the dead stay dead
func Heal(v *Vitals, amount int) {
	if v.Health <= 0 || amount <= 0 {
		return
	}
	v.Health += amount
	if v.Health > v.MaxHealth {
		v.Health = v.MaxHealth
	}
}

// AdvanceFallingDeath drives the falling animation once the player's health
// is 0. It returns true exactly once, when FallDuration has passed since death.
func AdvanceFallingDeath(p *Player, now time.Duration) bool {
	if p.Health > 0 || p.fallDone {
		return false
	}
	if !p.Dead {
		p.Dead = true
		p.DiedAt = now
	}
	if !p.falling {
		p.falling = true
		p.fallStart = p.DiedAt
	}

	t := now - p.fallStart
	if t >= FallDuration {
		p.falling = false
		p.fallDone = true
		p.FallOffset = -0.5
		return true
	}
	n := float64(t) / float64(FallDuration)
	p.FallOffset = -n * n * 0.5
	return false
}

// checkWinCondition marks the player winning once every bot is gone
func (w *World) checkWinCondition(now time.Duration) {
	if w.player.Winning || w.botsBuilt == 0 || len(w.bots) > 0 || !w.player.Alive() {
		return
	}
	w.player.Winning = true
	w.player.WonAt = now
	w.pushMessage("All bots destroyed", WinDelay)
	w.notify.PlaySound(SoundWin, w.player.X, w.player.Z)
}

// damageBot applies rocket damage to the bot in slot i and removes it on death
func (w *World) damageBot(i int, now time.Duration) {
	s := w.pool.Slot(i)
	if !ApplyDamage(&s.Vitals, BotHitDamage, now) {
		return
	}
	w.stats.BotsKilled++
	w.notify.PlaySound(SoundBotDeath, s.X, s.Z)
	w.spawnExplosion(s.X, s.Z, s.Dir, now)
	w.removeBot(i)
	w.pool.Free(i)
	w.checkWinCondition(now)
}

// damagePlayer applies a rocket hit to the player, honoring invulnerability
func (w *World) damagePlayer(now time.Duration) bool {
	if w.opts.Invulnerable {
		return false
	}
	w.stats.DamageTaken += PlayerHitDamage
	w.notify.PlaySound(SoundPlayerHit, w.player.X, w.player.Z)
	if !ApplyDamage(&w.player.Vitals, PlayerHitDamage, now) {
		return false
	}
	w.notify.PlaySound(SoundPlayerDeath, w.player.X, w.player.Z)
	w.pushMessage("You are dead", FallDuration)
	return true
}
