package main

import (
	"math"
	"math/rand"
)

const (
	maxParticles        = 1500
	ParticleShrink      = 0.98 // size multiplier per frame
	ParticleMinSize     = 0.5
	ParticleDefaultLife = 40.0 // frames
)

// Particle is a purely cosmetic kinematic point. Velocity is px/s, Life is
// in frames.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Size    float64
	Life    float64
	MaxLife float64
	Color   string
}

// ParticlePool owns all live particles of one simulation
type ParticlePool struct {
	items []Particle
	rng   *rand.Rand
}

// NewParticlePool creates an empty pool drawing randomness from rng
func NewParticlePool(rng *rand.Rand) *ParticlePool {
	return &ParticlePool{rng: rng}
}

// Burst spawns count particles flying in random directions at up to
// speed px/frame.
func (pp *ParticlePool) Burst(count int, x, y float64, color string, size, speed, life float64) {
	for i := 0; i < count; i++ {
		angle := pp.rng.Float64() * 2 * math.Pi
		s := speed * pp.rng.Float64() * TickRate
		pp.add(x, y, math.Cos(angle)*s, math.Sin(angle)*s, color, size, life)
	}
}

// Emit spawns one particle along direction (dx, dy) scaled by speed px/frame
func (pp *ParticlePool) Emit(x, y float64, color string, size, speed, dx, dy, life float64) {
	pp.add(x, y, dx*speed*TickRate, dy*speed*TickRate, color, size, life)
}

func (pp *ParticlePool) add(x, y, vx, vy float64, color string, size, life float64) {
	if len(pp.items) >= maxParticles {
		return
	}
	pp.items = append(pp.items, Particle{
		X: x, Y: y,
		VX: vx, VY: vy,
		Size:    size,
		Life:    life + pp.rng.Float64()*(life/2),
		MaxLife: life + life/2,
		Color:   color,
	})
}

// Update integrates every particle one frame and drops the expired ones
func (pp *ParticlePool) Update(dt float64) {
	live := pp.items[:0]
	for _, p := range pp.items {
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.Life--
		p.Size *= ParticleShrink
		if p.Life <= 0 || p.Size < ParticleMinSize {
			continue
		}
		live = append(live, p)
	}
	pp.items = live
}

// Clear removes all particles
func (pp *ParticlePool) Clear() {
	pp.items = pp.items[:0]
}

// Len returns the number of live particles
func (pp *ParticlePool) Len() int {
	return len(pp.items)
}

// Items returns the live particles. The slice is only valid until the next
// Update or Clear.
func (pp *ParticlePool) Items() []Particle {
	return pp.items
}

// ToState converts to protocol state
func (p Particle) ToState() ParticleState {
	a := 0.0
	if p.MaxLife > 0 {
		a = math.Round(p.Life/p.MaxLife*100) / 100
	}
	return ParticleState{X: round1(p.X), Y: round1(p.Y), S: round1(p.Size), A: a, C: p.Color}
}
