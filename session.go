package main

import (
	"sync"
)

const maxSessions = 100

// Session is one connected client's run simulation
type Session struct {
	ID   string
	Game *Game
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates a new SessionManager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// CreateSession creates and starts a game. Returns nil if limit reached.
func (sm *SessionManager) CreateSession(deps GameDeps) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	id := GenerateUUID()
	game := NewGame(id, deps)
	sess := &Session{
		ID:   id,
		Game: game,
	}
	sm.sessions[id] = sess
	go game.Run()
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// RemoveSession stops a session's game and forgets it
func (sm *SessionManager) RemoveSession(id string) {
	sm.mu.Lock()
	sess, ok := sm.sessions[id]
	delete(sm.sessions, id)
	sm.mu.Unlock()
	if ok {
		sess.Game.Stop()
	}
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
