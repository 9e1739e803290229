package main

import (
	"fmt"
	"log"
)

// GameState is the session-level flow state
type GameState string

const (
	StateMenu          GameState = "menu"
	StateInGame        GameState = "in-game"
	StateGameOver      GameState = "game-over"
	StateUpgradeScreen GameState = "upgrade-screen"
)

// Valid reports whether s is one of the known states
func (s GameState) Valid() bool {
	switch s {
	case StateMenu, StateInGame, StateGameOver, StateUpgradeScreen:
		return true
	}
	return false
}

// StateMachine guards transitions to the closed set of game states
type StateMachine struct {
	current GameState
	tag     string // log prefix
}

// NewStateMachine starts in the menu state
func NewStateMachine(tag string) *StateMachine {
	return &StateMachine{current: StateMenu, tag: tag}
}

// Set switches to s. Unknown states are rejected and the current state kept.
func (m *StateMachine) Set(s GameState) error {
	if !s.Valid() {
		log.Printf("[%s] rejected invalid game state %q (staying in %s)", m.tag, s, m.current)
		return fmt.Errorf("invalid game state %q", s)
	}
	if s != m.current {
		log.Printf("[%s] game state %s -> %s", m.tag, m.current, s)
	}
	m.current = s
	return nil
}

// Get returns the current state
func (m *StateMachine) Get() GameState {
	return m.current
}

// Is reports whether the machine is in state s
func (m *StateMachine) Is(s GameState) bool {
	return m.current == s
}
