package sim

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// Level is the immutable output of the external level loader
type Level struct {
	Cells          []byte
	SpawnX, SpawnZ float64
}

// NewLevel validates raw level data
func NewLevel(cells []byte, spawnX, spawnZ float64) (*Level, error) {
	if len(cells) != MapCells {
		return nil, fmt.Errorf("level has %d cells, want %d: %w", len(cells), MapCells, ErrBadLevel)
	}
	if spawnX < 0 || spawnZ < 0 || spawnX >= MapEdgeSize || spawnZ >= MapEdgeSize {
		return nil, fmt.Errorf("spawn (%.2f, %.2f) outside map: %w", spawnX, spawnZ, ErrBadLevel)
	}
	return &Level{Cells: cells, SpawnX: spawnX, SpawnZ: spawnZ}, nil
}

// Options configures a World
type Options struct {
	Logger       zerolog.Logger
	Notifier     Notifier
	Time         TimeProvider
	Seed         uint64
	Invulnerable bool // player takes no rocket damage
	NoBotFire    bool // bots never launch rockets
}

// Stats summarizes the current round
type Stats struct {
	RocketsFired int
	BotsKilled   int
	BotsTotal    int
	DamageTaken  int
	Elapsed      time.Duration
}

// TickResult reports what happened during one Advance
type TickResult struct {
	Paused     bool
	PlayerDied bool
	GameOver   bool
	Won        bool
}

// BotView is the read-only presentation of a bot
type BotView struct {
	Slot       int
	X, Z       float64
	Dir        float64
	Health     int
	Alive      bool
	SeenPlayer bool
}

// World is the simulation kernel for one game session. It is not safe for
// concurrent use; the host calls Advance and the queries from one goroutine.
type World struct {
	opts   Options
	log    zerolog.Logger
	notify Notifier
	rng    *rand.Rand

	clock  *Clock
	grid   *Grid
	pool   *Pool
	player *Player
	spawnX float64
	spawnZ float64

	bots        []int
	botsBuilt   int
	rockets     map[int]*RocketRecord
	rocketOrder []int
	impacts     []Impact
	explosions  []Explosion
	items       []Item
	messages    []Message

	lastTick     time.Duration
	lastBotShot  time.Duration
	botsWalking  int
	walkingSound bool
	gameOver     bool
	stats        Stats
}

// NewWorld builds a world for level. The world is idle until Reinit.
func NewWorld(level *Level, opts Options) (*World, error) {
	if level == nil {
		return nil, fmt.Errorf("nil level: %w", ErrBadLevel)
	}
	grid, err := NewGrid(level.Cells)
	if err != nil {
		return nil, err
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	w := &World{
		opts:    opts,
		log:     opts.Logger.With().Str("component", "world").Logger(),
		notify:  opts.Notifier,
		rng:     rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		clock:   NewClock(opts.Time),
		grid:    grid,
		pool:    NewPool(),
		player:  NewPlayer(level.SpawnX, level.SpawnZ),
		spawnX:  level.SpawnX,
		spawnZ:  level.SpawnZ,
		rockets: make(map[int]*RocketRecord),
	}
	return w, nil
}

// Reinit resets the world for a new round and starts the clock
func (w *World) Reinit() {
	w.grid.Reinitialize()
	w.pool.Reset()
	w.player.Respawn(w.spawnX, w.spawnZ)

	w.bots = w.bots[:0]
	w.rockets = make(map[int]*RocketRecord)
	w.rocketOrder = w.rocketOrder[:0]
	w.impacts = w.impacts[:0]
	w.explosions = w.explosions[:0]
	w.items = w.items[:0]
	w.messages = w.messages[:0]
	w.lastTick = 0
	w.lastBotShot = 0
	w.botsWalking = 0
	w.walkingSound = false
	w.gameOver = false
	w.stats = Stats{}

	w.build()
	w.clock.Start()
	w.log.Info().Int("bots", len(w.bots)).Int("items", len(w.items)).Msg("round initialized")
}

// build extracts objects from the grid into the pool
func (w *World) build() {
	for i := 0; i < MapCells; i++ {
		c := w.grid.Initial(i)
		x := float64(i%MapEdgeSize) + 0.5
		z := float64(i/MapEdgeSize) + 0.5
		switch {
		case c == CellBotSpawn:
			w.grid.ClearCell(i)
			j := w.spawnObject(BotSlots, ShapeBot, BotIdleSpeed, i, x, z)
			if j < 0 {
				continue
			}
			s := w.pool.Slot(j)
			s.Dir = float64(w.rng.IntN(4)) * math.Pi / 2
			s.Vitals = Vitals{Health: BotMaxHealth, MaxHealth: BotMaxHealth}
			w.bots = append(w.bots, j)
		case c == CellBush:
			w.spawnObject(BushSlots, ShapeBush, 0, i, x, z)
		case c.IsFurniture():
			w.spawnObject(DekoSlots, ShapeDeko, 0, i, x, z)
		case c == CellMedkit:
			w.items = append(w.items, Item{Cell: i, X: x, Z: z})
		}
	}
	w.botsBuilt = len(w.bots)
	w.stats.BotsTotal = w.botsBuilt
}

func (w *World) spawnObject(r SlotRange, shape Shape, speed int32, cell int, x, z float64) int {
	j := w.pool.Alloc(r, shape, speed)
	if j < 0 {
		w.log.Warn().Stringer("shape", shape).Int("cell", cell).Msg("object pool exhausted, object skipped")
		return -1
	}
	s := w.pool.Slot(j)
	s.X, s.Z = x, z
	if shape != ShapeBot {
		s.Cell = cell
	}
	return j
}

// Advance runs one simulation tick with the given intents
func (w *World) Advance(in Input) TickResult {
	w.impacts = w.impacts[:0]
	if w.gameOver {
		return TickResult{GameOver: true, Won: w.player.Winning}
	}
	if in.Paused {
		w.clock.Pause()
		return TickResult{Paused: true}
	}
	w.clock.Unpause()
	w.clock.Sync()

	now := w.clock.Elapsed()
	cycle := now - w.lastTick
	w.lastTick = now
	if cycle > MaxCycle {
		cycle = MaxCycle
	}
	frameComp := FrameCompensation(cycle)
	speedMul := 1.0
	if in.RunFast {
		speedMul = RunMultiplier
	}

	w.expireMessages(now)
	w.advanceExplosions(now)
	w.advanceItems()

	var res TickResult
	res.PlayerDied = w.stepObjects(now, frameComp)

	if w.player.Alive() {
		w.steer(in, frameComp, speedMul)
		if in.Fire {
			w.TryLaunchPlayerRocket(now)
		}
	}

	w.stats.Elapsed = now
	if w.advanceRoundEnd(now) {
		res.GameOver = true
		res.Won = w.player.Winning
	}
	return res
}

// FrameCompensation converts a tick duration into the movement scale factor
func FrameCompensation(cycle time.Duration) float64 {
	ms := float64(cycle) / float64(time.Millisecond)
	return 16 * ms * 10
}

// steer applies turning and translation intents
func (w *World) steer(in Input, frameComp, speedMul float64) {
	p := w.player
	turn := frameComp * frameCompUnit * TurnRate
	if in.RunFast {
		turn *= FastTurnFactor
	}
	if in.TurnRight {
		p.Dir += turn
	}
	if in.TurnLeft {
		p.Dir -= turn
	}
	p.Dir = NormalizeDir(p.Dir)

	step := frameComp * frameCompUnit * speedMul * PlayerSpeed / fixedOne
	var dx, dz float64
	if in.Forward {
		dx += math.Sin(p.Dir) * step
		dz += math.Cos(p.Dir) * step
	}
	if in.Backward {
		dx -= math.Sin(p.Dir) * step
		dz -= math.Cos(p.Dir) * step
	}
	if in.StrafeRight {
		dx += math.Sin(p.Dir+math.Pi/2) * step
		dz += math.Cos(p.Dir+math.Pi/2) * step
	}
	if in.StrafeLeft {
		dx += math.Sin(p.Dir-math.Pi/2) * step
		dz += math.Cos(p.Dir-math.Pi/2) * step
	}

	moved := false
	if dx != 0 || dz != 0 {
		moved = w.TryMove(p, p.X+dx, p.Z+dz)
	}
	if moved != p.moving {
		p.moving = moved
		w.notify.PlayerMoving(moved)
	}
}

// advanceRoundEnd runs the falling-death and win timers. It returns true
// once, on the tick the round ends.
func (w *World) advanceRoundEnd(now time.Duration) bool {
	p := w.player
	won := false
	switch {
	case !p.Alive():
		if !AdvanceFallingDeath(p, now) {
			return false
		}
	case p.Winning:
		if now-p.WonAt < WinDelay {
			return false
		}
		won = true
	default:
		return false
	}
	w.gameOver = true
	w.log.Info().Bool("won", won).Dur("elapsed", now).Int("botsKilled", w.stats.BotsKilled).Msg("round over")
	w.notify.GameOver(won)
	return true
}

// Player returns a copy of the player state
func (w *World) Player() Player {
	return *w.player
}

// Bots returns the live bots in spawn order
func (w *World) Bots() []BotView {
	out := make([]BotView, 0, len(w.bots))
	for _, i := range w.bots {
		s := w.pool.Slot(i)
		out = append(out, BotView{
			Slot:       i,
			X:          s.X,
			Z:          s.Z,
			Dir:        s.Dir,
			Health:     s.Health,
			Alive:      s.Alive(),
			SeenPlayer: s.SeenPlayer,
		})
	}
	return out
}

// Rockets returns the active rocket records in launch order
func (w *World) Rockets() []RocketRecord {
	out := make([]RocketRecord, 0, len(w.rocketOrder))
	for _, i := range w.rocketOrder {
		out = append(out, *w.rockets[i])
	}
	return out
}

// Impacts returns the decals produced by the last tick
func (w *World) Impacts() []Impact {
	return append([]Impact(nil), w.impacts...)
}

// Explosions returns the running explosions
func (w *World) Explosions() []Explosion {
	return append([]Explosion(nil), w.explosions...)
}

// Messages returns the HUD messages that have not expired
func (w *World) Messages() []Message {
	return append([]Message(nil), w.messages...)
}

// Items returns the pickups still on the map
func (w *World) Items() []Item {
	return append([]Item(nil), w.items...)
}

// Stats returns the round statistics
func (w *World) Stats() Stats {
	return w.stats
}

// Clock returns the session clock
func (w *World) Clock() *Clock {
	return w.clock
}

// Grid returns the collision grid
func (w *World) Grid() *Grid {
	return w.grid
}

// GameOver reports whether the current round has ended
func (w *World) GameOver() bool {
	return w.gameOver
}
