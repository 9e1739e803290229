package main

import "math"

const (
	BlockWidth  = 60.0
	BlockHeight = 40.0

	KineticPulseRadius = 250.0
	KineticPulseDV     = 830.0 // px/s at the block's center
	KineticRearm       = 500.0 // ms
	KineticRingStep    = 12    // degrees between ring particles

	VolatileFuse   = 1500.0 // ms
	VolatileRadius = 150.0
	ExplosionForce = 660.0 // px/s, scaled by (1.5 - d/r)

	ExplosionParticles      = 50
	ExplosionShakeFrames    = 15
	ExplosionShakeMagnitude = 10.0

	FragileCullMargin = 100.0 // below the world floor
)

// BlockType is the destructible block variant
type BlockType string

const (
	BlockFragile  BlockType = "fragile"
	BlockVolatile BlockType = "volatile"
	BlockKinetic  BlockType = "kinetic"
)

var blockTypes = [...]BlockType{BlockFragile, BlockVolatile, BlockKinetic}

// UnstableBlock is a destructible obstacle backed by a static body until
// its trigger changes it.
type UnstableBlock struct {
	Type        BlockType
	Width       float64
	Height      float64
	Body        *Body
	IsTriggered bool
	TriggerTime float64 // ms
	Removed     bool
}

// NewUnstableBlock adds a static block centered at (x, y)
func NewUnstableBlock(w *World, x, y float64, typ BlockType) *UnstableBlock {
	b := &UnstableBlock{
		Type:   typ,
		Width:  BlockWidth,
		Height: BlockHeight,
		Body:   w.Physics.AddStaticBox(x, y, BlockWidth, BlockHeight, LabelUnstable),
	}
	w.Blocks = append(w.Blocks, b)
	return b
}

// Trigger fires the block's effect. Calls while already triggered, or after
// removal, do nothing.
func (b *UnstableBlock) Trigger(w *World) {
	if b == nil || b.Removed || b.IsTriggered {
		return
	}
	b.IsTriggered = true
	b.TriggerTime = w.Now
	switch b.Type {
	case BlockFragile:
		w.Physics.MakeDynamic(b.Body, b.Width, b.Height)
	case BlockVolatile:
		// fuse runs in UpdateBlocks
	case BlockKinetic:
		b.pulse(w)
		w.After(KineticRearm, func() {
			if !b.Removed {
				b.IsTriggered = false
			}
		})
	}
}

// pulse pushes every dynamic body in range away from the block
func (b *UnstableBlock) pulse(w *World) {
	c := b.Body.Position()
	w.Physics.EachBody(func(other *Body) {
		if other == b.Body || other.Static {
			return
		}
		p := other.Position()
		dx, dy := p.X-c.X, p.Y-c.Y
		d := math.Hypot(dx, dy)
		if d >= KineticPulseRadius || d == 0 {
			return
		}
		dv := KineticPulseDV * (1 - d/KineticPulseRadius)
		m := other.Mass()
		other.ApplyImpulse(dx/d*dv*m, dy/d*dv*m)
	})
	for deg := 0; deg < 360; deg += KineticRingStep {
		a := float64(deg) * math.Pi / 180
		w.Particles.Emit(c.X, c.Y, "#f0f", 4, 8, math.Cos(a), math.Sin(a), 30)
	}
}

// remove takes the block out of the physics space and marks it dead
func (b *UnstableBlock) remove(w *World) {
	if b.Removed {
		return
	}
	b.Removed = true
	w.Physics.Remove(b.Body)
}

// UpdateBlocks detonates expired fuses and culls fallen fragile blocks
func (w *World) UpdateBlocks() {
	live := w.Blocks[:0]
	for _, b := range w.Blocks {
		if b.Removed {
			continue
		}
		if b.Type == BlockVolatile && b.IsTriggered && w.Now-b.TriggerTime > VolatileFuse {
			pos := b.Body.Position()
			b.remove(w)
			w.Explode(pos.X, pos.Y, VolatileRadius*w.State.VolatileExplosionSize, ExplosionForce)
			continue
		}
		if !b.Body.Static && b.Body.Position().Y > WorldHeight+FragileCullMargin {
			b.remove(w)
			continue
		}
		live = append(live, b)
	}
	for i := len(live); i < len(w.Blocks); i++ {
		w.Blocks[i] = nil
	}
	w.Blocks = live
}

// ClearBlocks removes every block from the world
func (w *World) ClearBlocks() {
	for _, b := range w.Blocks {
		b.remove(w)
	}
	w.Blocks = nil
}

// Explode applies a radial push to every dynamic body within radius, bursts
// particles, shakes the camera and triggers hit-stop. OnPlayerHit fires if
// the player body is inside the radius. Returns true when the player was hit.
func (w *World) Explode(x, y, radius, force float64) bool {
	w.Camera.Shake(ExplosionShakeFrames, ExplosionShakeMagnitude)
	w.HitStop()
	for i := 0; i < ExplosionParticles; i++ {
		a := w.Rand.Float64() * 2 * math.Pi
		speed := w.Rand.Float64()*10 + 2
		w.Particles.Emit(x, y, "#ff8c00", w.Rand.Float64()*4+1, speed, math.Cos(a), math.Sin(a), 60)
	}

	playerHit := false
	w.Physics.EachBody(func(other *Body) {
		if other.Static {
			return
		}
		p := other.Position()
		dx, dy := p.X-x, p.Y-y
		d := math.Hypot(dx, dy)
		if d >= radius {
			return
		}
		if d > 0 {
			dv := force * (1.5 - d/radius)
			m := other.Mass()
			other.ApplyImpulse(dx/d*dv*m, dy/d*dv*m)
		}
		if other.Label == LabelPlayer {
			playerHit = true
		}
	})
	if playerHit && w.OnPlayerHit != nil {
		w.OnPlayerHit()
	}
	return playerHit
}

// ToState converts to protocol state
func (b *UnstableBlock) ToState() BlockState {
	pos := b.Body.Position()
	return BlockState{
		X:         round1(pos.X),
		Y:         round1(pos.Y),
		Type:      string(b.Type),
		Triggered: b.IsTriggered,
		Falling:   !b.Body.Static,
	}
}
