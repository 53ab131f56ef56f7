package main

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"rocketbunker/sim"
)

func TestInputFlagsRoundTrip(t *testing.T) {
	for f := 0; f < 256; f++ {
		in := DecodeInput(uint8(f))
		frame := EncodeInput(in)
		if len(frame) != 2 || frame[0] != inputFrameTag {
			t.Fatalf("bad frame %v", frame)
		}
		if frame[1] != uint8(f) {
			t.Fatalf("flags %08b came back as %08b", f, frame[1])
		}
	}
}

func TestDecodeInputBits(t *testing.T) {
	in := DecodeInput(FlagForward | FlagRunFast | FlagFire)
	if !in.Forward || !in.RunFast || !in.Fire {
		t.Errorf("expected forward, run and fire set: %+v", in)
	}
	if in.Backward || in.TurnLeft || in.TurnRight || in.StrafeLeft || in.StrafeRight || in.Paused {
		t.Errorf("unexpected intents set: %+v", in)
	}
}

func TestBuildSnapshot(t *testing.T) {
	lvl, err := LoadLevel("", 0, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	clock := sim.NewMockTime(testEpoch)
	w, err := sim.NewWorld(lvl, sim.Options{Logger: zerolog.Nop(), Time: clock, Seed: 5, NoBotFire: true})
	if err != nil {
		t.Fatal(err)
	}
	w.Reinit()
	clock.Advance(16 * time.Millisecond)
	w.Advance(sim.Input{Fire: true})

	s := BuildSnapshot(w, 9, "round-1", w.Impacts())
	if s.Tick != 9 || s.Round != "round-1" {
		t.Errorf("header not carried: tick %d round %q", s.Tick, s.Round)
	}
	p := w.Player()
	if s.Player.X != p.X || s.Player.Z != p.Z || s.Player.HP != p.Health || !s.Player.Alive {
		t.Errorf("player state mismatch: %+v vs %+v", s.Player, p)
	}
	if len(s.Bots) != arenaBots {
		t.Errorf("expected %d bots, got %d", arenaBots, len(s.Bots))
	}
	if len(s.Rockets) != 1 {
		t.Fatalf("expected the fired rocket in the snapshot, got %d", len(s.Rockets))
	}
	if len(s.Items) != arenaMedkits {
		t.Errorf("expected %d items, got %d", arenaMedkits, len(s.Items))
	}

	data, err := msgpack.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Snapshot
	if err := msgpack.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Rockets[0].ID != s.Rockets[0].ID || back.Player.Dir != s.Player.Dir {
		t.Errorf("snapshot changed in transit: %+v", back)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{1.234, 1.23},
		{1.235001, 1.24},
		{-0.004, 0},
		{34.5, 34.5},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
