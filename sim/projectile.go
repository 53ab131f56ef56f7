package sim

import (
	"math"
	"time"
)

const epsilon = 1e-6

// RocketRecord mirrors an active rocket slot for presentation
type RocketRecord struct {
	Slot           int
	X, Y, Z        float64
	HeadingDegrees float64
}

// Vec3 is a point in world space; Y is up
type Vec3 struct {
	X, Y, Z float64
}

// Impact is a decal quad marking a rocket strike on one solid edge
type Impact struct {
	Edge    Edge
	Center  Vec3
	Corners [4]Vec3
}

// TryLaunchPlayerRocket fires a rocket from the player if the shot cooldown
// has passed and a player rocket slot is free
func (w *World) TryLaunchPlayerRocket(now time.Duration) bool {
	p := w.player
	if !p.Alive() || now-p.lastShot < TimeBetweenShots {
		return false
	}
	if w.launchRocket(PlayerRocketSlots, PlayerRocketSlots.Lo, p.X, p.Z, p.Dir) < 0 {
		return false
	}
	p.lastShot = now
	w.stats.RocketsFired++
	return true
}

// TryLaunchBotRocket fires a rocket from the bot in slot from. The caller
// owns the bot fire cooldown.
func (w *World) TryLaunchBotRocket(from int, dir float64, hint int) bool {
	if w.opts.NoBotFire {
		return false
	}
	s := w.pool.Slot(from)
	return w.launchRocket(BotRocketSlots, hint, s.X, s.Z, dir) >= 0
}

func (w *World) launchRocket(r SlotRange, hint int, x, z, dir float64) int {
	i := w.pool.AllocFrom(r, hint, ShapeRocket, RocketSpeed)
	if i < 0 {
		w.log.Debug().Int("lo", r.Lo).Int("hi", r.Hi).Msg("no free rocket slot, launch dropped")
		return -1
	}
	s := w.pool.Slot(i)
	s.X = x + math.Sin(dir)*RocketSpawnOffset
	s.Z = z + math.Cos(dir)*RocketSpawnOffset
	s.Dir = dir

	w.rockets[i] = &RocketRecord{Slot: i, X: s.X, Y: RocketHeight, Z: s.Z, HeadingDegrees: dir * 180 / math.Pi}
	w.rocketOrder = append(w.rocketOrder, i)
	w.notify.PlaySound(SoundRocketLaunch, x, z)
	return i
}

// stepObjects advances every moving slot by one tick. Bots are handed to
// the bot controller; everything else flies. Returns true if the player
// died this tick.
func (w *World) stepObjects(now time.Duration, frameComp float64) bool {
	died := false
	w.botsWalking = 0
	for i := 0; i < SlotCount; i++ {
		s := w.pool.Slot(i)
		if !s.Active() || s.Speed == 0 {
			continue
		}
		switch s.Shape {
		case ShapeBot:
			w.stepBot(i, now, frameComp)
		case ShapeRocket:
			if w.stepRocket(i, now, frameComp) {
				died = true
			}
		}
	}
	w.updateWalkingSound()
	return died
}

// stepRocket moves one rocket. Interpolation is a single step per tick.
func (w *World) stepRocket(i int, now time.Duration, frameComp float64) bool {
	s := w.pool.Slot(i)
	d := frameComp * frameCompUnit * float64(s.Speed) / fixedOne
	nx := s.X + math.Sin(s.Dir)*d
	nz := s.Z + math.Cos(s.Dir)*d

	if j := w.objectHit(i, nx, nz); j >= 0 {
		o := w.pool.Slot(j)
		switch o.Shape {
		case ShapeRocket:
			w.deactivateRocket(j, now)
		case ShapeBot:
			w.damageBot(j, now)
		case ShapeDeko:
			w.blastObject(j, now)
		}
		w.deactivateRocket(i, now)
		return false
	}

	p := w.player
	if p.Alive() && math.Abs(nx-p.X) < p.Size && math.Abs(nz-p.Z) < p.Size {
		died := w.damagePlayer(now)
		w.deactivateRocket(i, now)
		return died
	}

	cx, cz := int(math.Floor(nx)), int(math.Floor(nz))
	if cl := Classify(w.grid.At(cx, cz)); cl.BlocksProjectile {
		w.addImpacts(cl.Edges, cx, cz, s.X, s.Z, nx, nz)
		w.deactivateRocket(i, now)
		return false
	}

	s.X, s.Z = nx, nz
	if rec, ok := w.rockets[i]; ok {
		rec.X, rec.Z = nx, nz
	}
	return false
}

// objectHit returns the slot a rocket at (x, z) collides with, or -1.
// Bushes never stop rockets; two rockets need to be closer than RockRange.
func (w *World) objectHit(self int, x, z float64) int {
	for j := 0; j < SlotCount; j++ {
		if j == self {
			continue
		}
		o := w.pool.Slot(j)
		if !o.Active() || o.Shape == ShapeBush {
			continue
		}
		dx, dz := math.Abs(x-o.X), math.Abs(z-o.Z)
		if dx >= HitRange || dz >= HitRange {
			continue
		}
		if o.Shape == ShapeRocket && (dx >= RockRange || dz >= RockRange) {
			continue
		}
		return j
	}
	return -1
}

// deactivateRocket frees a rocket slot, drops its record and explodes it
func (w *World) deactivateRocket(i int, now time.Duration) {
	s := w.pool.Slot(i)
	w.spawnExplosion(s.X, s.Z, s.Dir, now)
	w.notify.PlaySound(SoundExplosion, s.X, s.Z)
	w.pool.Free(i)
	delete(w.rockets, i)
	for k, j := range w.rocketOrder {
		if j == i {
			w.rocketOrder = append(w.rocketOrder[:k], w.rocketOrder[k+1:]...)
			break
		}
	}
}

// blastObject destroys a deko object and clears its grid cell
func (w *World) blastObject(i int, now time.Duration) {
	s := w.pool.Slot(i)
	w.grid.ClearCell(s.Cell)
	w.spawnExplosion(s.X, s.Z, s.Dir, now)
	w.notify.PlaySound(SoundExplosion, s.X, s.Z)
	w.pool.Free(i)
}

// edgeLine returns the outward normal and offset of edge e of cell (cx, cz):
// points on the edge satisfy nx*x + nz*z = d
func edgeLine(e Edge, cx, cz int) (nx, nz, d float64) {
	switch e {
	case EdgeUp:
		return 0, -1, -float64(cz)
	case EdgeDown:
		return 0, 1, float64(cz + 1)
	case EdgeLeft:
		return -1, 0, -float64(cx)
	default:
		return 1, 0, float64(cx + 1)
	}
}

// projectOnEdge intersects the path (px,pz)->(qx,qz) with an edge line. A path
// parallel to the edge drops the current point onto the line instead.
func projectOnEdge(px, pz, qx, qz, nx, nz, d float64) (float64, float64) {
	dp := nx*px + nz*pz - d
	dq := nx*qx + nz*qz - d
	den := dp - dq
	if math.Abs(den) < epsilon {
		return qx - dq*nx, qz - dq*nz
	}
	t := dp / den
	return px + (qx-px)*t, pz + (qz-pz)*t
}

// addImpacts synthesizes one decal per solid edge of the struck cell
func (w *World) addImpacts(edges Edge, cx, cz int, px, pz, qx, qz float64) {
	for e := EdgeUp; e <= EdgeRight; e <<= 1 {
		if edges&e == 0 {
			continue
		}
		w.impacts = append(w.impacts, impactOn(e, cx, cz, px, pz, qx, qz))
	}
}

func impactOn(e Edge, cx, cz int, px, pz, qx, qz float64) Impact {
	nx, nz, d := edgeLine(e, cx, cz)
	x, z := projectOnEdge(px, pz, qx, qz, nx, nz, d)
	if nx == 0 {
		x = clamp(x, float64(cx), float64(cx+1))
	} else {
		z = clamp(z, float64(cz), float64(cz+1))
	}

	c := Vec3{X: x + nx*DecalLift, Y: RocketHeight, Z: z + nz*DecalLift}
	// tangent along the edge
	tx, tz := -nz*DecalHalfSize, nx*DecalHalfSize
	h := DecalHalfSize
	return Impact{
		Edge:   e,
		Center: c,
		Corners: [4]Vec3{
			{X: c.X - tx, Y: c.Y - h, Z: c.Z - tz},
			{X: c.X + tx, Y: c.Y - h, Z: c.Z + tz},
			{X: c.X + tx, Y: c.Y + h, Z: c.Z + tz},
			{X: c.X - tx, Y: c.Y + h, Z: c.Z - tz},
		},
	}
}
