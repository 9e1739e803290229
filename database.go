package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoProgress is returned by LoadRaw when no record exists for the key
var ErrNoProgress = errors.New("no progress record")

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// ProfileRow represents a named profile in the database
type ProfileRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// RunRow is one finished run
type RunRow struct {
	ID       string
	Profile  string // empty for anonymous runs
	Score    int
	Shards   int
	Stage    int
	Duration float64 // seconds of simulated time
	Char     string
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Best     int    `json:"best"`
	Stage    int    `json:"stage"`
	Runs     int    `json:"runs"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Single writer; keeps :memory: databases on one connection
	conn.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
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
	CREATE TABLE IF NOT EXISTS profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS progress (
		key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		profile TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL DEFAULT 0,
		shards INTEGER NOT NULL DEFAULT 0,
		stage INTEGER NOT NULL DEFAULT 1,
		duration REAL NOT NULL DEFAULT 0,
		character TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		profile TEXT,
		session_id TEXT,
		data TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_profile ON runs(profile);
	CREATE INDEX IF NOT EXISTS idx_events_type ON analytics_events(event_type);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// LoadRaw returns the encoded progress record stored under key
func (db *DB) LoadRaw(key string) ([]byte, error) {
	var data []byte
	err := db.conn.QueryRow("SELECT data FROM progress WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoProgress
	}
	if err != nil {
		return nil, fmt.Errorf("load progress %q: %w", key, err)
	}
	return data, nil
}

// SaveRaw stores an encoded progress record under key
func (db *DB) SaveRaw(key string, data []byte) error {
	_, err := db.conn.Exec(`
		INSERT INTO progress (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		key, data,
	)
	if err != nil {
		return fmt.Errorf("save progress %q: %w", key, err)
	}
	return nil
}

// GetSetting returns a server setting, or "" if unset
func (db *DB) GetSetting(key string) string {
	var v string
	if err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v); err != nil {
		return ""
	}
	return v
}

// SetSetting stores a server setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// CreateProfile creates a named profile (returns profile ID)
func (db *DB) CreateProfile(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO profiles (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetProfileByUsername returns a profile by username, nil if none
func (db *DB) GetProfileByUsername(username string) (*ProfileRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM profiles WHERE username = ?",
		username,
	)
	p := &ProfileRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM profiles WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// RecordRun stores a finished run
func (db *DB) RecordRun(r RunRow) error {
	_, err := db.conn.Exec(
		`INSERT INTO runs (id, profile, score, shards, stage, duration, character)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Profile, r.Score, r.Shards, r.Stage, r.Duration, r.Char,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// GetLeaderboard returns the best score per named profile
func (db *DB) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	rows, err := db.conn.Query(`
		SELECT profile, MAX(score) AS best, MAX(stage), COUNT(*)
		FROM runs
		WHERE profile != ''
		GROUP BY profile
		ORDER BY best DESC, profile ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Best, &e.Stage, &e.Runs); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// RunCount returns the number of recorded runs for a profile ("" = anonymous)
func (db *DB) RunCount(profile string) (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM runs WHERE profile = ?", profile).Scan(&n)
	return n, err
}
