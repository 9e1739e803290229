package main

import "math/rand"

const (
	WorldWidth   = 4000.0
	WorldHeight  = 2000.0
	WorldGravity = 1200.0 // px/s²

	HitStopScale    = 0.0001
	HitStopDuration = 100.0 // ms
)

// World is everything one run simulation owns. Subsystems receive it
// explicitly instead of reaching for shared globals.
type World struct {
	Physics     *PhysicsWorld
	Timers      *TimerQueue
	Camera      *Camera
	Particles   *ParticlePool
	Projectiles *ProjectilePool
	Shards      *ShardPool
	Enemies     []*Enemy
	Blocks      []*UnstableBlock
	Portal      *Portal
	Player      *Player
	State       PlayerState
	Tuning      Tuning
	Rand        *rand.Rand
	Now         float64 // simulated clock, ms

	// OnPlayerHit is invoked when an explosion reaches the player body
	OnPlayerHit func()

	arena        []*Body
	nextEnemyID  int
	hitStopUntil float64
}

// NewWorld creates an empty world
func NewWorld(t Tuning, rng *rand.Rand) *World {
	w := &World{
		Physics:     NewPhysicsWorld(t.Gravity),
		Timers:      NewTimerQueue(),
		Camera:      NewCamera(t.Camera),
		Particles:   NewParticlePool(rng),
		Projectiles: NewProjectilePool(),
		Shards:      NewShardPool(rng),
		Tuning:      t,
		Rand:        rng,
	}
	w.State = NewPlayerState(t.Player)
	return w
}

// After schedules fn on the simulated clock
func (w *World) After(delay float64, fn func()) {
	w.Timers.After(w.Now, delay, fn)
}

// Reset clears every per-run collection and the physics space
func (w *World) Reset() {
	w.Physics.SetObserver(nil)
	w.Physics.Clear()
	w.Timers.Clear()
	w.Particles.Clear()
	w.Projectiles.Clear()
	w.Shards.Clear()
	w.Enemies = nil
	w.Blocks = nil
	w.Portal = nil
	w.Player = nil
	w.arena = nil
	w.hitStopUntil = 0
	w.State = NewPlayerState(w.Tuning.Player)
}

// SpawnEnemy adds an enemy at (x, y)
func (w *World) SpawnEnemy(x, y float64) *Enemy {
	w.nextEnemyID++
	e := NewEnemy(w.nextEnemyID, x, y, w.Tuning.Enemy)
	w.Enemies = append(w.Enemies, e)
	return e
}

// HitStop slows the physics step to a crawl for HitStopDuration. Overlapping
// hit-stops extend to the latest deadline.
func (w *World) HitStop() {
	w.Physics.TimeScale = HitStopScale
	w.hitStopUntil = w.Now + HitStopDuration
	w.After(HitStopDuration, func() {
		if w.Now >= w.hitStopUntil {
			w.Physics.TimeScale = 1
		}
	})
}

// PlayerPos returns the player body center, ok=false without a live player
func (w *World) PlayerPos() (float64, float64, bool) {
	if w.Player == nil {
		return 0, 0, false
	}
	pos := w.Player.Body.Position()
	return pos.X, pos.Y, true
}
