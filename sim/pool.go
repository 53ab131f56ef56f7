package sim

// Shape tags a pool slot
type Shape int8

const (
	ShapeNone   Shape = -1
	ShapeRocket Shape = 0
	ShapeBot    Shape = 1
	ShapeBush   Shape = 2
	ShapeDeko   Shape = 3
)

func (s Shape) String() string {
	switch s {
	case ShapeRocket:
		return "rocket"
	case ShapeBot:
		return "bot"
	case ShapeBush:
		return "bush"
	case ShapeDeko:
		return "deko"
	default:
		return "none"
	}
}

// staticSpeed marks bushes and deko as occupied; they never move
const staticSpeed = 1

// Slot is one arena entry. A slot is free iff Shape is ShapeNone iff Speed is 0.
type Slot struct {
	Shape      Shape
	X, Z       float64
	Dir        float64 // radians
	Speed      int32   // 16.16 fixed point
	Sleep      int     // walk suspension ticks
	SeenPlayer bool
	Cell       int // grid index backing a bush or deko, -1 otherwise
	Vitals         // bots only
}

// Active reports whether the slot is in use
func (s *Slot) Active() bool {
	return s.Shape != ShapeNone
}

// SlotRange is a half-open index range of the pool
type SlotRange struct {
	Lo, Hi int
}

// Len returns the range capacity
func (r SlotRange) Len() int {
	return r.Hi - r.Lo
}

// Contains reports whether i lies in the range
func (r SlotRange) Contains(i int) bool {
	return i >= r.Lo && i < r.Hi
}

// Pool is a fixed-capacity arena of slots partitioned into ranges
type Pool struct {
	slots [SlotCount]Slot
}

// NewPool creates an empty pool
func NewPool() *Pool {
	p := &Pool{}
	p.Reset()
	return p
}

// Reset frees every slot
func (p *Pool) Reset() {
	for i := range p.slots {
		p.slots[i] = Slot{Shape: ShapeNone, Cell: -1}
	}
}

// Slot returns the slot at index i
func (p *Pool) Slot(i int) *Slot {
	return &p.slots[i]
}

// Alloc claims the first free slot of r. Returns -1 when the range is full.
func (p *Pool) Alloc(r SlotRange, shape Shape, speed int32) int {
	return p.AllocFrom(r, r.Lo, shape, speed)
}

// AllocFrom scans r for a free slot starting at hint and wrapping around
func (p *Pool) AllocFrom(r SlotRange, hint int, shape Shape, speed int32) int {
	if !r.Contains(hint) {
		hint = r.Lo
	}
	n := r.Len()
	for k := 0; k < n; k++ {
		i := r.Lo + (hint-r.Lo+k)%n
		if p.slots[i].Active() {
			continue
		}
		if speed == 0 {
			speed = staticSpeed
		}
		p.slots[i] = Slot{Shape: shape, Speed: speed, Cell: -1}
		return i
	}
	return -1
}

// Free releases slot i
func (p *Pool) Free(i int) {
	p.slots[i] = Slot{Shape: ShapeNone, Cell: -1}
}

// CountActive returns the number of active slots in r
func (p *Pool) CountActive(r SlotRange) int {
	n := 0
	for i := r.Lo; i < r.Hi; i++ {
		if p.slots[i].Active() {
			n++
		}
	}
	return n
}
