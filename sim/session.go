package sim

import (
	"context"
	"sync/atomic"
)

// FrameSource feeds the round loop. AwaitRound blocks in the menu until the
// next round should start; NextFrame blocks until the next tick is due and
// returns that tick's intents. Returning false from either ends the wait.
type FrameSource interface {
	AwaitRound(ctx context.Context) bool
	NextFrame(ctx context.Context) (Input, bool)
	EndRound(st Stats, res TickResult)
}

// Session runs rounds on one World until stopped
type Session struct {
	world   *World
	running atomic.Bool
}

// NewSession wraps w in a round loop
func NewSession(w *World) *Session {
	return &Session{world: w}
}

// World returns the simulated world
func (s *Session) World() *World {
	return s.world
}

// Running reports whether Run is active
func (s *Session) Running() bool {
	return s.running.Load()
}

// Run re-initializes the world for every round and advances it once per
// frame until the round is over. The running flag is checked once per round
// and once per tick; a tick in progress always completes.
func (s *Session) Run(ctx context.Context, src FrameSource) error {
	s.running.Store(true)
	defer s.running.Store(false)

	w := s.world
	for s.running.Load() {
		if !src.AwaitRound(ctx) {
			break
		}
		w.Reinit()

		var last TickResult
		for s.running.Load() {
			in, ok := src.NextFrame(ctx)
			if !ok {
				break
			}
			last = w.Advance(in)
			if last.GameOver {
				break
			}
		}
		w.clock.Stop()
		w.stats.Elapsed = w.clock.Elapsed()
		src.EndRound(w.stats, last)
	}
	return ctx.Err()
}

// Stop makes Run return after the current tick
func (s *Session) Stop() {
	s.running.Store(false)
}
