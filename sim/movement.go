package sim

import "math"

// Rect is an axis-aligned rectangle in grid coordinates
type Rect struct {
	MinX, MinZ, MaxX, MaxZ float64
}

// Intersects reports whether two rectangles overlap with positive area
func (r Rect) Intersects(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinZ < o.MaxZ && o.MinZ < r.MaxZ
}

// boxAt returns a square hit-box of half extent size centered on (x, z)
func boxAt(x, z, size float64) Rect {
	return Rect{MinX: x - size, MinZ: z - size, MaxX: x + size, MaxZ: z + size}
}

// CellRect returns the solid rectangle of cell (cx, cz), shrunk around the
// cell center by its occupancy factor
func CellRect(cx, cz int, factor float64) Rect {
	h := factor / 2
	mx, mz := float64(cx)+0.5, float64(cz)+0.5
	return Rect{MinX: mx - h, MinZ: mz - h, MaxX: mx + h, MaxZ: mz + h}
}

// blocked reports whether a hit-box of half extent size at (x, z) overlaps a
// movement-blocking cell in the 2x2 neighborhood of the target
func (g *Grid) blocked(x, z, size float64) bool {
	box := boxAt(x, z, size)
	bx := int(math.Floor(x - 0.5))
	bz := int(math.Floor(z - 0.5))
	for dz := 0; dz < 2; dz++ {
		for dx := 0; dx < 2; dx++ {
			cx, cz := bx+dx, bz+dz
			c := g.At(cx, cz)
			if c == CellEmpty {
				continue
			}
			cl := Classify(c)
			if !cl.BlocksMovement {
				continue
			}
			if box.Intersects(CellRect(cx, cz, cl.Factor)) {
				return true
			}
		}
	}
	return false
}

// TryMove moves the player to (x, z) if the destination is free. A blocked
// move is retried along each single axis so diagonal motion slides along walls.
func (w *World) TryMove(p *Player, x, z float64) bool {
	return w.tryMove(p, x, z, 0)
}

func (w *World) tryMove(p *Player, x, z float64, depth int) bool {
	if x == p.X && z == p.Z {
		return false
	}
	if !w.grid.blocked(x, z, p.Size) {
		p.X, p.Z = x, z
		return true
	}
	if depth > 0 {
		return false
	}
	if w.tryMove(p, x, p.Z, depth+1) {
		return true
	}
	return w.tryMove(p, p.X, z, depth+1)
}
