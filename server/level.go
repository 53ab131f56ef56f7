package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"rocketbunker/sim"
)

const (
	arenaOrigin = 16 // top-left cell of the generated arena
	arenaSize   = 48 // cells per arena edge, walls included
	roomSize    = 12

	arenaBots     = 8
	arenaMedkits  = 4
	arenaFurnish  = 40
	arenaBushes   = 24
	spawnClearing = 3 // half size of the empty area around the player spawn
)

// LoadLevel reads a raw level file, or generates an arena when path is empty
func LoadLevel(path string, spawnX, spawnZ float64, seed uint64) (*sim.Level, error) {
	if path == "" {
		cells, sx, sz := GenerateArena(seed)
		return sim.NewLevel(cells, sx, sz)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level %s: %w", path, err)
	}
	lvl, err := sim.NewLevel(data, spawnX, spawnZ)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return lvl, nil
}

type arena struct {
	cells []byte
	rng   *rand.Rand
	doors [][2]int
}

func (a *arena) set(x, z int, c sim.Cell) {
	a.cells[z*sim.MapEdgeSize+x] = byte(c)
}

func (a *arena) at(x, z int) sim.Cell {
	return sim.Cell(a.cells[z*sim.MapEdgeSize+x])
}

// GenerateArena builds a walled arena split into rooms, furnished and
// populated with bots. The same seed always yields the same level.
func GenerateArena(seed uint64) ([]byte, float64, float64) {
	a := &arena{
		cells: make([]byte, sim.MapCells),
		rng:   rand.New(rand.NewPCG(seed, seed^0x5deece66d)),
	}
	lo, hi := arenaOrigin, arenaOrigin+arenaSize-1

	for i := lo; i <= hi; i++ {
		a.set(i, lo, sim.CellWallBlock)
		a.set(i, hi, sim.CellWallBlock)
		a.set(lo, i, sim.CellWallBlock)
		a.set(hi, i, sim.CellWallBlock)
	}

	// Room partitions with a doorway per segment
	for k := lo + roomSize; k < hi; k += roomSize {
		for i := lo + 1; i < hi; i++ {
			if a.at(k, i) == sim.CellEmpty {
				a.set(k, i, sim.CellWallLeftRight)
			} else {
				a.set(k, i, sim.CellWallCross)
			}
			if a.at(i, k) == sim.CellEmpty {
				a.set(i, k, sim.CellWallUpDown)
			} else {
				a.set(i, k, sim.CellWallCross)
			}
		}
	}
	for k := lo + roomSize; k < hi; k += roomSize {
		for s := lo; s < hi; s += roomSize {
			door := s + 2 + a.rng.IntN(roomSize-4)
			a.set(k, door, sim.CellEmpty)
			a.set(door, k, sim.CellEmpty)
			a.doors = append(a.doors, [2]int{k, door}, [2]int{door, k})
		}
	}

	cx, cz := lo+arenaSize/2-roomSize/2, lo+arenaSize/2-roomSize/2
	free := func(x, z int) bool {
		if a.at(x, z) != sim.CellEmpty {
			return false
		}
		return x < cx-spawnClearing || x > cx+spawnClearing || z < cz-spawnClearing || z > cz+spawnClearing
	}
	scatter := func(n int, c sim.Cell) {
		for placed, tries := 0, 0; placed < n && tries < n*50; tries++ {
			x := lo + 2 + a.rng.IntN(arenaSize-4)
			z := lo + 2 + a.rng.IntN(arenaSize-4)
			if !free(x, z) || a.nearDoor(x, z) {
				continue
			}
			if c == sim.CellBotSpawn && a.nearBot(x, z) {
				continue
			}
			a.set(x, z, c)
			placed++
		}
	}

	furniture := []sim.Cell{sim.CellTable, sim.CellLight, sim.CellChair, sim.CellCrate}
	for k := 0; k < arenaFurnish; k++ {
		scatter(1, furniture[a.rng.IntN(len(furniture))])
	}
	scatter(arenaBushes, sim.CellBush)
	scatter(arenaMedkits, sim.CellMedkit)
	scatter(arenaBots, sim.CellBotSpawn)

	return a.cells, float64(cx) + 0.5, float64(cz) + 0.5
}

// nearBot keeps spawns far enough apart that neither bot starts out
// pinned by the spacing veto
func (a *arena) nearBot(x, z int) bool {
	r := int(sim.BotSpacing) + 1
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			if a.at(x+dx, z+dz) == sim.CellBotSpawn {
				return true
			}
		}
	}
	return false
}

// nearDoor keeps doorways passable
func (a *arena) nearDoor(x, z int) bool {
	for _, d := range a.doors {
		if x >= d[0]-1 && x <= d[0]+1 && z >= d[1]-1 && z <= d[1]+1 {
			return true
		}
	}
	return false
}
