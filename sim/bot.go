package sim

import (
	"math"
	"time"
)

// CanSeePlayer marches a ray from the bot to the player and reports whether
// every sampled cell is empty or see-through
func CanSeePlayer(g *Grid, bot *Slot, p *Player) bool {
	dx, dz := p.X-bot.X, p.Z-bot.Z
	steps := int(math.Max(math.Abs(dx), math.Abs(dz)) * BotSightSteps)
	if steps < 1 {
		steps = 1
	}
	for k := 0; k <= steps; k++ {
		t := float64(k) / float64(steps)
		c := g.AtPos(bot.X+dx*t, bot.Z+dz*t)
		if c != CellEmpty && !Classify(c).SeeThrough {
			return false
		}
	}
	return true
}

// ReverseDir returns the heading whose sin/cos point along (dx, dz), in [0, 2π).
// Near-axis vectors take the axis heading so the result is never NaN.
func ReverseDir(dx, dz float64) float64 {
	if math.Abs(dz) < epsilon {
		if dx > 0 {
			return math.Pi / 2
		}
		return 3 * math.Pi / 2
	}
	if math.Abs(dx) < epsilon {
		if dz > 0 {
			return 0
		}
		return math.Pi
	}
	a := math.Atan(dx / dz)
	switch {
	case dz < 0:
		a += math.Pi
	case dx < 0:
		a += 2 * math.Pi
	}
	return a
}

// decide fires at the player when the bot can see them and the shared bot
// cooldown has passed
func (w *World) decide(i int, now time.Duration) {
	s := w.pool.Slot(i)
	p := w.player
	if !p.Alive() || p.Winning {
		return
	}
	s.SeenPlayer = CanSeePlayer(w.grid, s, p)
	if !s.SeenPlayer || now-w.lastBotShot <= BotShotInterval {
		return
	}

	dir := ReverseDir(p.X-s.X, p.Z-s.Z)
	hint := BotRocketSlots.Lo + (i-BotSlots.Lo)%BotRocketSlots.Len()
	if !w.TryLaunchBotRocket(i, dir, hint) {
		return
	}
	s.Dir = dir
	s.Sleep = BotSleepTicks
	w.lastBotShot = now
}

// stepBot runs the bot's fire decision and patrol step
func (w *World) stepBot(i int, now time.Duration, frameComp float64) {
	w.decide(i, now)

	s := w.pool.Slot(i)
	if s.Sleep > 0 {
		s.Sleep--
		return
	}

	d := frameComp * frameCompUnit * float64(s.Speed) / fixedOne
	nx := s.X + math.Sin(s.Dir)*d
	nz := s.Z + math.Cos(s.Dir)*d
	if w.botMoveVetoed(i, nx, nz) {
		s.Speed = BotIdleSpeed
		s.Dir = w.patrolTurn(s.Dir)
		return
	}

	s.X, s.Z = nx, nz
	s.Speed += BotSpeedRamp
	if s.Speed > BotWalkSpeed {
		s.Speed = BotWalkSpeed
	}
	w.botsWalking++
}

// botMoveVetoed reports whether bot i must stay put instead of moving to (x, z)
func (w *World) botMoveVetoed(i int, x, z float64) bool {
	if w.grid.AtPos(x, z) != CellEmpty {
		return true
	}
	p := w.player
	if math.Abs(x-p.X) < BotPlayerGap && math.Abs(z-p.Z) < BotPlayerGap {
		return true
	}

	for _, j := range w.bots {
		if j == i {
			continue
		}
		o := w.pool.Slot(j)
		if math.Abs(x-o.X) < BotSpacing && math.Abs(z-o.Z) < BotSpacing {
			return true
		}
	}
	return false
}

// patrolTurn picks a new heading a quarter, half or three-quarter turn away
func (w *World) patrolTurn(dir float64) float64 {
	return NormalizeDir(dir + float64(1+w.rng.IntN(3))*math.Pi/2)
}

// updateWalkingSound notifies only when the walking count crosses the
// threshold upward or drops back to zero
func (w *World) updateWalkingSound() {
	switch {
	case !w.walkingSound && w.botsWalking >= WalkingSoundThreshold:
		w.walkingSound = true
		w.notify.BotsWalkingChanged(w.botsWalking)
	case w.walkingSound && w.botsWalking == 0:
		w.walkingSound = false
		w.notify.BotsWalkingChanged(0)
	}
}

func (w *World) removeBot(i int) {
	for k, j := range w.bots {
		if j == i {
			w.bots = append(w.bots[:k], w.bots[k+1:]...)
			return
		}
	}
}
