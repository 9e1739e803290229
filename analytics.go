package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event types for analytics tracking
const (
	EvtSessionStart = "session_start"
	EvtSessionEnd   = "session_end"
	EvtRunStart     = "run_start"
	EvtStageClear   = "stage_clear"
	EvtRunEnd       = "run_end"
	EvtPurchase     = "purchase"
	EvtAchievement  = "achievement"
)

const (
	analyticsBuffer     = 1024
	analyticsBatchSize  = 50
	analyticsFlushEvery = 5 * time.Second
)

// AnalyticsEvent represents a single trackable event
type AnalyticsEvent struct {
	Type      string
	Profile   string // "" for anonymous sessions
	SessionID string
	Data      string // JSON metadata (optional)
	Timestamp time.Time
}

// Analytics handles event tracking with batched background writes
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	mu             sync.RWMutex
	activeSessions int
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, analyticsBuffer),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking). data is
// encoded as JSON when non-nil.
func (a *Analytics) Track(evtType, profile, sessionID string, data any) {
	if a == nil {
		return
	}
	var payload string
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			log.Printf("analytics: encode %s: %v", evtType, err)
			return
		}
		payload = string(b)
	}
	select {
	case a.events <- AnalyticsEvent{
		Type:      evtType,
		Profile:   profile,
		SessionID: sessionID,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// Channel full: drop rather than block the tick goroutine
	}
}

// SetActiveSessions updates the live session count
func (a *Analytics) SetActiveSessions(n int) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.activeSessions = n
	a.mu.Unlock()
}

// ActiveSessions returns the live session count
func (a *Analytics) ActiveSessions() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.activeSessions
}

// Stop flushes pending events and shuts down the writer. Safe to call twice.
func (a *Analytics) Stop() {
	a.once.Do(func() {
		close(a.stop)
		a.wg.Wait()
	})
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
			if len(batch) >= analyticsBatchSize {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			// Drain what is already queued; Track never blocks so late
			// senders only hit the default branch.
		drain:
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					break drain
				}
			}
			if len(batch) > 0 {
				a.flush(batch)
			}
			return
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
		log.Printf("analytics: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO analytics_events (event_type, profile, session_id, data, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("analytics: prepare error: %v", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		prof := sql.NullString{String: evt.Profile, Valid: evt.Profile != ""}
		sid := sql.NullString{String: evt.SessionID, Valid: evt.SessionID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		_, err := stmt.Exec(evt.Type, prof, sid, data, evt.Timestamp.Format(time.RFC3339))
		if err != nil {
			log.Printf("analytics: insert error: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("analytics: commit error: %v", err)
	}
}

// --- Query methods for the API ---

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
			continue
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// RunStats returns aggregate run outcomes for the last N days
func (a *Analytics) RunStats(days int) (RunAnalytics, error) {
	var ra RunAnalytics
	if a.db == nil {
		return ra, nil
	}
	var avgScore, avgStage sql.NullFloat64
	err := a.db.conn.QueryRow(`
		SELECT COUNT(*),
			AVG(CAST(json_extract(data, '$.score') AS REAL)),
			AVG(CAST(json_extract(data, '$.stage') AS REAL))
		FROM analytics_events
		WHERE event_type = ? AND json_valid(data)
			AND created_at >= date('now', '-' || ? || ' days')
	`, EvtRunEnd, days).Scan(&ra.Runs, &avgScore, &avgStage)
	ra.AvgScore = avgScore.Float64
	ra.AvgStage = avgStage.Float64
	return ra, err
}

// PopularPurchases returns the most purchased shop items
func (a *Analytics) PopularPurchases(limit int) ([]ItemAnalytics, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT COALESCE(json_extract(data, '$.item_id'), 'unknown') as item, COUNT(*) as cnt
		FROM analytics_events
		WHERE event_type = ? AND json_valid(data)
		GROUP BY item ORDER BY cnt DESC LIMIT ?
	`, EvtPurchase, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ItemAnalytics
	for rows.Next() {
		var ia ItemAnalytics
		if err := rows.Scan(&ia.ItemID, &ia.Count); err != nil {
			continue
		}
		result = append(result, ia)
	}
	return result, rows.Err()
}

// RunAnalytics holds aggregated run statistics
type RunAnalytics struct {
	Runs     int     `json:"runs"`
	AvgScore float64 `json:"avg_score"`
	AvgStage float64 `json:"avg_stage"`
}

// ItemAnalytics holds purchase count per item
type ItemAnalytics struct {
	ItemID string `json:"item_id"`
	Count  int    `json:"count"`
}
