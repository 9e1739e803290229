package main

import (
	"math"
	"math/rand"
)

const (
	ShardSpawnSpread   = 120.0  // px/s horizontal spread on spawn
	ShardSpawnLift     = -120.0 // px/s initial vertical velocity
	ShardGravity       = 360.0  // px/s²
	ShardDamping       = 0.98   // velocity multiplier per frame
	ShardAttractRadius = 220.0
	ShardAttractAccel  = 2160.0 // px/s² at zero distance
	ShardPickupRadius  = 24.0
	ShardScore         = 10
)

// Shard is a currency pickup dropped by a killed enemy
type Shard struct {
	X, Y    float64
	VX, VY  float64
	PulseID float64
}

// ShardPool owns the live shards of one run
type ShardPool struct {
	items []*Shard
	rng   *rand.Rand
}

// NewShardPool creates an empty pool
func NewShardPool(rng *rand.Rand) *ShardPool {
	return &ShardPool{rng: rng}
}

// Spawn drops a shard at (x, y) with a small upward toss
func (sp *ShardPool) Spawn(x, y float64) *Shard {
	s := &Shard{
		X:       x,
		Y:       y,
		VX:      (sp.rng.Float64() - 0.5) * ShardSpawnSpread,
		VY:      ShardSpawnLift,
		PulseID: sp.rng.Float64() * 1000,
	}
	sp.items = append(sp.items, s)
	return s
}

// Update applies gravity, damping and attraction toward (px, py)
func (sp *ShardPool) Update(dt, px, py float64) {
	for _, s := range sp.items {
		s.VY += ShardGravity * dt
		s.VX *= ShardDamping
		s.VY *= ShardDamping
		s.X += s.VX * dt
		s.Y += s.VY * dt

		dx := px - s.X
		dy := py - s.Y
		dist := math.Hypot(dx, dy)
		if dist < ShardAttractRadius && dist > 0 {
			pull := ShardAttractAccel * (1 - dist/ShardAttractRadius) * dt
			s.VX += dx / dist * pull
			s.VY += dy / dist * pull
		}
	}
}

// Collect removes every shard within pickup range of (px, py) and returns
// how many were taken.
func (sp *ShardPool) Collect(px, py float64) int {
	taken := 0
	live := sp.items[:0]
	for _, s := range sp.items {
		if Distance(px, py, s.X, s.Y) < ShardPickupRadius {
			taken++
			continue
		}
		live = append(live, s)
	}
	for i := len(live); i < len(sp.items); i++ {
		sp.items[i] = nil
	}
	sp.items = live
	return taken
}

// Clear removes every shard
func (sp *ShardPool) Clear() {
	sp.items = sp.items[:0]
}

// Len returns the number of live shards
func (sp *ShardPool) Len() int {
	return len(sp.items)
}

// Items returns the live shards
func (sp *ShardPool) Items() []*Shard {
	return sp.items
}

// ToState converts to protocol state
func (s *Shard) ToState() ShardState {
	return ShardState{
		X: round1(s.X),
		Y: round1(s.Y),
		P: round1(s.PulseID),
	}
}
