package main

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "rocketbunker/server"

// Metrics holds the host instruments. The global provider is a no-op
// unless the process installs one.
type Metrics struct {
	rounds   metric.Int64Counter
	rockets  metric.Int64Counter
	botKills metric.Int64Counter
	tickTime metric.Float64Histogram
	clients  metric.Int64ObservableGauge
}

// NewMetrics creates the instruments on m, or on the global meter when m is nil.
// clientCount feeds the connected-clients gauge.
func NewMetrics(m metric.Meter, clientCount func() int) (*Metrics, error) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	var (
		mt  Metrics
		err error
	)

	mt.rounds, err = m.Int64Counter(
		"arena.rounds",
		metric.WithDescription("Rounds finished, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rounds counter: %w", err)
	}

	mt.rockets, err = m.Int64Counter(
		"arena.rockets.fired",
		metric.WithDescription("Rockets fired by the player"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rockets counter: %w", err)
	}

	mt.botKills, err = m.Int64Counter(
		"arena.bots.killed",
		metric.WithDescription("Bots destroyed by the player"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating bot kill counter: %w", err)
	}

	mt.tickTime, err = m.Float64Histogram(
		"arena.tick.duration",
		metric.WithDescription("Wall time spent advancing one tick"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}

	mt.clients, err = m.Int64ObservableGauge(
		"arena.clients",
		metric.WithDescription("Connected WebSocket clients"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating clients gauge: %w", err)
	}
	if clientCount != nil {
		_, err = m.RegisterCallback(
			func(ctx context.Context, o metric.Observer) error {
				o.ObserveInt64(mt.clients, int64(clientCount()))
				return nil
			},
			mt.clients,
		)
		if err != nil {
			return nil, fmt.Errorf("registering clients callback: %w", err)
		}
	}
	return &mt, nil
}

// RoundEnded records one finished round
func (mt *Metrics) RoundEnded(ctx context.Context, st roundOutcome) {
	mt.rounds.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", st.label())))
	mt.rockets.Add(ctx, int64(st.rockets))
	mt.botKills.Add(ctx, int64(st.kills))
}

// TickTook records how long one Advance took
func (mt *Metrics) TickTook(ctx context.Context, d time.Duration) {
	mt.tickTime.Record(ctx, float64(d.Microseconds())/1000)
}

type roundOutcome struct {
	won       bool
	completed bool
	rockets   int
	kills     int
}

func (o roundOutcome) label() string {
	switch {
	case !o.completed:
		return "aborted"
	case o.won:
		return "won"
	default:
		return "lost"
	}
}
