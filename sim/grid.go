package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrBadLevel is returned when level data cannot form a collision grid
var ErrBadLevel = errors.New("bad level data")

// Cell is a collision grid code
type Cell uint8

const (
	CellEmpty Cell = 0x00

	// Breakable furniture, narrower than a tile
	CellTable Cell = 0x01
	CellLight Cell = 0x02
	CellChair Cell = 0x03
	CellCrate Cell = 0x04

	CellBotSpawn Cell = 0x05 // replaced by CellEmpty once the bot is built
	CellBush     Cell = 0x06 // avoidable, unbreakable
	CellMedkit   Cell = 0x07

	// Wall orientation codes: the low nibble is the solid edge mask
	cellWallBase          Cell = 0x10
	CellWallUp            Cell = 0x11
	CellWallDown          Cell = 0x12
	CellWallUpDown        Cell = 0x13
	CellWallLeft          Cell = 0x14
	CellWallUpLeft        Cell = 0x15
	CellWallDownLeft      Cell = 0x16
	CellWallUpDownLeft    Cell = 0x17
	CellWallRight         Cell = 0x18
	CellWallUpRight       Cell = 0x19
	CellWallDownRight     Cell = 0x1A
	CellWallUpDownRight   Cell = 0x1B
	CellWallLeftRight     Cell = 0x1C
	CellWallUpLeftRight   Cell = 0x1D
	CellWallDownLeftRight Cell = 0x1E
	CellWallCross         Cell = 0x1F
	CellWallBlock         Cell = 0x20 // solid pillar, all four edges
)

// Edge is a bit set of tile edges. Up faces -Z, Down faces +Z,
// Left faces -X and Right faces +X.
type Edge uint8

const (
	EdgeUp Edge = 1 << iota
	EdgeDown
	EdgeLeft
	EdgeRight

	EdgeAll = EdgeUp | EdgeDown | EdgeLeft | EdgeRight
)

// Count returns the number of solid edges in the set
func (e Edge) Count() int {
	n := 0
	for b := EdgeUp; b <= EdgeRight; b <<= 1 {
		if e&b != 0 {
			n++
		}
	}
	return n
}

// Class describes how a cell interacts with movement, projectiles and sight
type Class struct {
	BlocksMovement   bool
	BlocksProjectile bool
	SeeThrough       bool
	Factor           float64 // occupancy factor, 1 for a full tile
	Edges            Edge
}

// Classify maps a cell code to its collision class
func Classify(c Cell) Class {
	switch c {
	case CellEmpty, CellBotSpawn, CellMedkit:
		return Class{SeeThrough: true}
	case CellTable:
		return Class{BlocksMovement: true, SeeThrough: true, Factor: 0.8}
	case CellLight:
		return Class{BlocksMovement: true, SeeThrough: true, Factor: 0.3}
	case CellChair:
		return Class{BlocksMovement: true, Factor: 0.5}
	case CellCrate:
		return Class{BlocksMovement: true, Factor: 0.9}
	case CellBush:
		return Class{BlocksMovement: true, SeeThrough: true, Factor: 0.6}
	case CellWallBlock:
		return Class{BlocksMovement: true, BlocksProjectile: true, Factor: 1, Edges: EdgeAll}
	}
	if c > cellWallBase && c <= CellWallCross {
		return Class{BlocksMovement: true, BlocksProjectile: true, Factor: 1, Edges: Edge(c - cellWallBase)}
	}
	// Unknown codes are a loader contract violation; treat them as solid
	return Class{BlocksMovement: true, BlocksProjectile: true, Factor: 1}
}

// IsFurniture reports whether the code is breakable furniture
func (c Cell) IsFurniture() bool {
	return c >= CellTable && c <= CellCrate
}

// IsWall reports whether the code is one of the wall orientation codes
func (c Cell) IsWall() bool {
	return c > cellWallBase && c <= CellWallBlock
}

// Grid is the square collision grid with its load-time snapshot
type Grid struct {
	initial [MapCells]Cell
	cells   [MapCells]Cell
}

// NewGrid builds a grid from raw level bytes
func NewGrid(data []byte) (*Grid, error) {
	if len(data) != MapCells {
		return nil, fmt.Errorf("grid has %d cells, want %d: %w", len(data), MapCells, ErrBadLevel)
	}
	g := &Grid{}
	for i, b := range data {
		g.initial[i] = Cell(b)
	}
	g.cells = g.initial
	return g, nil
}

// Reinitialize restores the runtime grid from the load-time snapshot
func (g *Grid) Reinitialize() {
	g.cells = g.initial
}

// Index returns the flat index of a cell, or -1 outside the map
func Index(x, z int) int {
	if x < 0 || z < 0 || x >= MapEdgeSize || z >= MapEdgeSize {
		return -1
	}
	return z*MapEdgeSize + x
}

// At returns the cell at integer coordinates; outside the map is a solid block
func (g *Grid) At(x, z int) Cell {
	i := Index(x, z)
	if i < 0 {
		return CellWallBlock
	}
	return g.cells[i]
}

// AtPos returns the cell containing a world position
func (g *Grid) AtPos(x, z float64) Cell {
	return g.At(int(math.Floor(x)), int(math.Floor(z)))
}

// Initial returns the load-time code of a cell
func (g *Grid) Initial(i int) Cell {
	return g.initial[i]
}

// ClearCell empties a cell at runtime
func (g *Grid) ClearCell(i int) {
	if i < 0 || i >= MapCells {
		return
	}
	g.cells[i] = CellEmpty
}
