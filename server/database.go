package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// timestamps are stored fixed-width so they sort as text
const tsLayout = "2006-01-02 15:04:05.000000"

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// RoundRow is one finished round
type RoundRow struct {
	ID           string    `json:"id"`
	Won          bool      `json:"won"`
	Completed    bool      `json:"completed"`
	DurationMS   int64     `json:"durationMs"`
	RocketsFired int       `json:"rocketsFired"`
	BotsKilled   int       `json:"botsKilled"`
	BotsTotal    int       `json:"botsTotal"`
	DamageTaken  int       `json:"damageTaken"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// analytics and round writes share one connection
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		won INTEGER NOT NULL DEFAULT 0,
		completed INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		rockets_fired INTEGER NOT NULL DEFAULT 0,
		bots_killed INTEGER NOT NULL DEFAULT 0,
		bots_total INTEGER NOT NULL DEFAULT 0,
		damage_taken INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		round_id TEXT,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rounds_created ON rounds(created_at);
	CREATE INDEX IF NOT EXISTS idx_events_type ON analytics_events(event_type);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// GetSetting returns a stored setting, or "" if unset
func (db *DB) GetSetting(key string) (string, error) {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

// SetSetting stores a setting, replacing any previous value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// RecordRound stores a finished round
func (db *DB) RecordRound(r RoundRow) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO rounds (id, won, completed, duration_ms, rockets_fired, bots_killed, bots_total, damage_taken, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Won, r.Completed, r.DurationMS, r.RocketsFired, r.BotsKilled, r.BotsTotal, r.DamageTaken,
		r.CreatedAt.UTC().Format(tsLayout),
	)
	return err
}

// RecentRounds returns the newest rounds first
func (db *DB) RecentRounds(limit int) ([]RoundRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, won, completed, duration_ms, rockets_fired, bots_killed, bots_total, damage_taken, created_at
		FROM rounds ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []RoundRow{}
	for rows.Next() {
		var r RoundRow
		var created string
		if err := rows.Scan(&r.ID, &r.Won, &r.Completed, &r.DurationMS, &r.RocketsFired, &r.BotsKilled, &r.BotsTotal, &r.DamageTaken, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, err = time.Parse(tsLayout, created)
		if err != nil {
			return nil, fmt.Errorf("round %s: bad timestamp %q: %w", r.ID, created, err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// WinRate returns the share of completed rounds that were won
func (db *DB) WinRate() (float64, int, error) {
	var total, won int
	err := db.conn.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(won), 0) FROM rounds WHERE completed = 1",
	).Scan(&total, &won)
	if err != nil || total == 0 {
		return 0, total, err
	}
	return float64(won) / float64(total), total, nil
}
