package main

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"rocketbunker/sim"
)

// Broadcaster fans messages out to every connected client
type Broadcaster interface {
	BroadcastJSON(msg interface{})
	BroadcastBinary(data []byte)
}

// Host drives the simulation from wall-clock ticks and relays world
// notifications to clients. It is the round loop's FrameSource and the
// world's Notifier; both are called from the session goroutine only.
type Host struct {
	log       zerolog.Logger
	out       Broadcaster
	db        *DB
	analytics *Analytics
	metrics   *Metrics

	interval time.Duration
	every    int
	world    *sim.World

	newTicker func(time.Duration) (<-chan time.Time, func())
	startCh   chan struct{}

	// Shared with client goroutines; roundID is only written by the session goroutine
	mu         sync.Mutex
	input      sim.Input
	controlled bool
	roundID    string

	// Session goroutine only
	tick      uint64
	ticks     <-chan time.Time
	stopTick  func()
	announced bool
	frameDone time.Time
	decals    []sim.Impact // impacts not yet broadcast
	collected bool         // impacts of the last Advance are in decals
}

// NewHost creates a host. Attach must be called before the round loop runs.
func NewHost(cfg Config, out Broadcaster, db *DB, analytics *Analytics, metrics *Metrics, log zerolog.Logger) *Host {
	return &Host{
		log:       log.With().Str("component", "host").Logger(),
		out:       out,
		db:        db,
		analytics: analytics,
		metrics:   metrics,
		interval:  cfg.TickInterval(),
		every:     cfg.BroadcastEvery(),
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
		startCh: make(chan struct{}, 1),
	}
}

// Attach binds the world whose state is broadcast
func (h *Host) Attach(w *sim.World) {
	h.world = w
}

// RoundID returns the current round's ID, "" before the first round
func (h *Host) RoundID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.roundID
}

// RequestStart leaves the menu. Extra requests while one is pending are dropped.
func (h *Host) RequestStart() {
	select {
	case h.startCh <- struct{}{}:
	default:
	}
}

// SetControlled marks whether a controller is connected. Without one the
// world is paused.
func (h *Host) SetControlled(on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.controlled = on
	if !on {
		h.input = sim.Input{}
	}
}

// SetInput stores the controller's latest intents
func (h *Host) SetInput(in sim.Input) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.input = in
}

func (h *Host) currentInput() sim.Input {
	h.mu.Lock()
	defer h.mu.Unlock()
	in := h.input
	in.Paused = !h.controlled
	return in
}

// AwaitRound blocks until a start request arrives
func (h *Host) AwaitRound(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-h.startCh:
	}
	h.mu.Lock()
	h.roundID = uuid.NewString()
	h.mu.Unlock()
	h.tick = 0
	h.announced = false
	h.decals = h.decals[:0]
	h.collected = true
	h.ticks, h.stopTick = h.newTicker(h.interval)
	h.log.Info().Str("round", h.roundID).Msg("round starting")
	return true
}

// NextFrame broadcasts the state left by the previous tick when due, then
// waits for the next tick and hands over a copy of the latest intents
func (h *Host) NextFrame(ctx context.Context) (sim.Input, bool) {
	if !h.frameDone.IsZero() && h.tick > 0 && h.metrics != nil {
		h.metrics.TickTook(ctx, time.Since(h.frameDone))
	}
	if !h.announced {
		h.announceRound()
	}
	h.collectImpacts()
	if h.tick%uint64(h.every) == 0 {
		h.broadcastSnapshot()
	}

	select {
	case <-ctx.Done():
		return sim.Input{}, false
	case <-h.ticks:
	}
	h.tick++
	h.frameDone = time.Now()
	h.collected = false
	return h.currentInput(), true
}

// collectImpacts keeps the decals of the last tick until the next snapshot.
// The world drops them when it advances again.
func (h *Host) collectImpacts() {
	if h.collected || h.world == nil {
		return
	}
	h.collected = true
	h.decals = append(h.decals, h.world.Impacts()...)
}

// EndRound stops the tick source and persists the outcome
func (h *Host) EndRound(st sim.Stats, res sim.TickResult) {
	if h.stopTick != nil {
		h.stopTick()
		h.stopTick = nil
	}
	h.frameDone = time.Time{}
	h.collectImpacts()
	h.broadcastSnapshot()

	row := RoundRow{
		ID:           h.roundID,
		Won:          res.GameOver && res.Won,
		Completed:    res.GameOver,
		DurationMS:   st.Elapsed.Milliseconds(),
		RocketsFired: st.RocketsFired,
		BotsKilled:   st.BotsKilled,
		BotsTotal:    st.BotsTotal,
		DamageTaken:  st.DamageTaken,
		CreatedAt:    time.Now(),
	}
	log := h.log.With().Str("round", row.ID).Logger()

	if h.db != nil {
		if err := h.db.RecordRound(row); err != nil {
			log.Error().Err(err).Msg("recording round")
		}
	}
	if h.analytics != nil {
		h.analytics.Track(EvtRoundEnd, row.ID, row)
	}
	if h.metrics != nil {
		h.metrics.RoundEnded(context.Background(), roundOutcome{
			won:       row.Won,
			completed: row.Completed,
			rockets:   row.RocketsFired,
			kills:     row.BotsKilled,
		})
	}
	h.out.BroadcastJSON(Envelope{T: MsgGameOver, Data: GameOverMsg{
		Round:        row.ID,
		Won:          row.Won,
		Completed:    row.Completed,
		ElapsedMS:    row.DurationMS,
		RocketsFired: row.RocketsFired,
		BotsKilled:   row.BotsKilled,
		BotsTotal:    row.BotsTotal,
		DamageTaken:  row.DamageTaken,
	}})
	log.Info().
		Bool("won", row.Won).
		Bool("completed", row.Completed).
		Int64("ms", row.DurationMS).
		Int("kills", row.BotsKilled).
		Msg("round ended")
}

// announceRound runs on the first frame, after the world is rebuilt
func (h *Host) announceRound() {
	h.announced = true
	bots := 0
	if h.world != nil {
		bots = h.world.Stats().BotsTotal
	}
	if h.analytics != nil {
		h.analytics.Track(EvtRoundStart, h.roundID, map[string]int{"bots": bots})
	}
	h.out.BroadcastJSON(Envelope{T: MsgRound, Data: RoundMsg{ID: h.roundID, Bots: bots}})
}

func (h *Host) broadcastSnapshot() {
	if h.world == nil {
		return
	}
	data, err := msgpack.Marshal(BuildSnapshot(h.world, h.tick, h.roundID, h.decals))
	h.decals = h.decals[:0]
	if err != nil {
		h.log.Error().Err(err).Msg("encoding snapshot")
		return
	}
	h.out.BroadcastBinary(data)
}

// PlaySound relays a positional sound. Deaths are also tracked.
func (h *Host) PlaySound(id sim.Sound, x, z float64) {
	h.out.BroadcastJSON(Envelope{T: MsgSound, Data: SoundMsg{ID: int(id), X: round2(x), Z: round2(z)}})
	if h.analytics == nil {
		return
	}
	pos := map[string]float64{"x": round2(x), "z": round2(z)}
	switch id {
	case sim.SoundBotDeath:
		h.analytics.Track(EvtBotKill, h.roundID, pos)
	case sim.SoundPlayerDeath:
		h.analytics.Track(EvtPlayerDeath, h.roundID, pos)
	}
}

func (h *Host) SpawnExplosion(x, y, z, heading float64) {
	h.out.BroadcastJSON(Envelope{T: MsgExplosion, Data: ExplosionMsg{X: round2(x), Y: round2(y), Z: round2(z), Heading: heading}})
}

func (h *Host) PushMessage(text string, d time.Duration) {
	h.out.BroadcastJSON(Envelope{T: MsgHUD, Data: HUDMsg{Text: text, MS: d.Milliseconds()}})
}

func (h *Host) BotsWalkingChanged(n int) {
	h.out.BroadcastJSON(Envelope{T: MsgWalking, Data: CountMsg{N: n}})
}

func (h *Host) PlayerMoving(moving bool) {
	h.out.BroadcastJSON(Envelope{T: MsgMoving, Data: MovingMsg{Moving: moving}})
}

// GameOver is followed by EndRound on the same goroutine, which does the bookkeeping
func (h *Host) GameOver(won bool) {
	h.log.Debug().Str("round", h.roundID).Bool("won", won).Msg("round decided")
}
