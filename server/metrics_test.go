package main

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewMetrics(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"), func() int { return 3 })
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	ctx := context.Background()
	m.RoundEnded(ctx, roundOutcome{won: true, completed: true, rockets: 5, kills: 2})
	m.TickTook(ctx, 1500*time.Microsecond)

	if _, err := NewMetrics(nil, nil); err != nil {
		t.Errorf("global meter: %v", err)
	}
}

func TestRoundOutcomeLabel(t *testing.T) {
	tests := []struct {
		o    roundOutcome
		want string
	}{
		{roundOutcome{completed: true, won: true}, "won"},
		{roundOutcome{completed: true}, "lost"},
		{roundOutcome{}, "aborted"},
		{roundOutcome{won: true}, "aborted"},
	}
	for _, tt := range tests {
		if got := tt.o.label(); got != tt.want {
			t.Errorf("%+v: got %s, want %s", tt.o, got, tt.want)
		}
	}
}
