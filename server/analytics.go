package main

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types for analytics tracking
const (
	EvtRoundStart  = "round_start"
	EvtRoundEnd    = "round_end"
	EvtPlayerDeath = "player_death"
	EvtBotKill     = "bot_kill"
	EvtControl     = "control"
)

const (
	analyticsQueue      = 1024
	analyticsBatch      = 50
	analyticsFlushEvery = 5 * time.Second
)

// AnalyticsEvent represents a single trackable event
type AnalyticsEvent struct {
	Type      string
	RoundID   string
	Data      string // JSON metadata (optional)
	Timestamp time.Time
}

// Analytics handles event tracking with batched background writes
type Analytics struct {
	db     *DB
	log    zerolog.Logger
	events chan AnalyticsEvent
	stop   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	mu      sync.Mutex
	dropped int
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB, log zerolog.Logger) *Analytics {
	a := &Analytics{
		db:     db,
		log:    log.With().Str("component", "analytics").Logger(),
		events: make(chan AnalyticsEvent, analyticsQueue),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking). data is
// marshalled to JSON when non-nil.
func (a *Analytics) Track(evtType, roundID string, data any) {
	evt := AnalyticsEvent{
		Type:      evtType,
		RoundID:   roundID,
		Timestamp: time.Now().UTC(),
	}
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			a.log.Warn().Err(err).Str("event", evtType).Msg("unencodable event data")
		} else {
			evt.Data = string(b)
		}
	}
	select {
	case a.events <- evt:
	default:
		// Queue full, drop rather than stall the tick loop
		a.mu.Lock()
		a.dropped++
		a.mu.Unlock()
	}
}

// Dropped returns how many events were discarded on a full queue
func (a *Analytics) Dropped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}

// Stop drains the queue, writes the last batch and stops the writer
func (a *Analytics) Stop() {
	a.once.Do(func() { close(a.stop) })
	a.wg.Wait()
}

// writer is the background goroutine that batches and writes events to DB
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, 64)
	ticker := time.NewTicker(analyticsFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= analyticsBatch {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					a.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of events to the database
func (a *Analytics) flush(events []AnalyticsEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		a.log.Error().Err(err).Msg("begin tx")
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO analytics_events (event_type, round_id, data, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		a.log.Error().Err(err).Msg("prepare insert")
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		rid := sql.NullString{String: evt.RoundID, Valid: evt.RoundID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		if _, err := stmt.Exec(evt.Type, rid, data, evt.Timestamp.Format(tsLayout)); err != nil {
			a.log.Error().Err(err).Str("event", evt.Type).Msg("insert")
		}
	}
	if err := tx.Commit(); err != nil {
		a.log.Error().Err(err).Int("events", len(events)).Msg("commit")
	}
}

// EventCounts returns counts of each event type for the last N days
func (a *Analytics) EventCounts(days int) (map[string]int, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM analytics_events
		WHERE created_at >= date('now', '-' || ? || ' days')
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			return nil, err
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// RoundEvents returns the event types recorded for one round, oldest first
func (a *Analytics) RoundEvents(roundID string) ([]string, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(
		`SELECT event_type FROM analytics_events WHERE round_id = ? ORDER BY id`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
