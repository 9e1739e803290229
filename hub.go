package main

import (
	"errors"
	"log"
	"sync"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

var errTooManySessions = errors.New("too many active sessions")

// Hub manages all connected clients and their sessions
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	sessions   *SessionManager
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
	// Persistence
	db        *DB
	auth      *Auth
	analytics *Analytics
	tuning    Tuning
}

// NewHub creates a new Hub. db and analytics may be nil.
func NewHub(db *DB, tuning Tuning, analytics *Analytics) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		sessions:   NewSessionManager(),
		ipConns:    make(map[string]int),
		db:         db,
		analytics:  analytics,
		tuning:     tuning,
	}
	if db != nil {
		h.auth = NewAuth(db)
	}
	return h
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Attach creates the client's session. The client becomes the game's
// screens, HUD and output.
func (h *Hub) Attach(c *Client) error {
	deps := GameDeps{
		Screens:   c,
		HUD:       c,
		Out:       c,
		Analytics: h.analytics,
		Tuning:    &h.tuning,
	}
	// Keep the interfaces nil rather than wrapping a nil *DB
	if h.db != nil {
		deps.Store = h.db
		deps.Runs = h.db
	}
	sess := h.sessions.CreateSession(deps)
	if sess == nil {
		return errTooManySessions
	}
	c.session = sess
	h.analytics.Track(EvtSessionStart, "", sess.ID, nil)
	h.analytics.SetActiveSessions(h.sessions.Count())
	return nil
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			if client.authID != 0 && h.auth != nil {
				h.auth.Unseat(client.authID, client)
			}
			if client.session != nil {
				h.sessions.RemoveSession(client.session.ID)
				h.analytics.Track(EvtSessionEnd, client.authUsername, client.session.ID, nil)
				h.analytics.SetActiveSessions(h.sessions.Count())
				log.Printf("session %s closed", client.session.ID)
			}
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
