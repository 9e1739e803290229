package main

import (
	"math"
	"math/rand"
)

const (
	EnemySize            = 35.0
	EnemyMaxHP           = 2
	EnemyDetectionRadius = 500.0
	EnemyAttackRadius    = 450.0
	EnemyChaseRadius     = 900.0
	EnemyWanderSpeed     = 90.0   // px/s
	EnemyChaseSpeed      = 180.0  // px/s
	EnemyShootCooldown   = 2000.0 // ms
	EnemyAttackHold      = 500.0  // ms spent braking in attacking before chasing again
	EnemyAttackDamping   = 0.9    // velocity multiplier per frame while attacking
	EnemyWanderRange     = 400.0
	EnemyRetargetDist    = 50.0
	EnemyKillScore       = 100
	EnemyExplodeChance   = 0.25
	EnemyExplodeRadius   = 120.0
)

// EnemyKind identifies the enemy variant. Only sentries exist today.
type EnemyKind uint8

const (
	KindSentry EnemyKind = iota
)

// EnemyAIState is the enemy's behaviour state
type EnemyAIState string

const (
	AIWandering EnemyAIState = "wandering"
	AIChasing   EnemyAIState = "chasing"
	AIAttacking EnemyAIState = "attacking"
)

// Point is a world-space position
type Point struct {
	X, Y float64
}

// Enemy is a kinematic sentry. It is not a physics body: position is
// integrated from velocity every frame regardless of state.
type Enemy struct {
	ID              int
	Kind            EnemyKind
	X, Y            float64
	VX, VY          float64
	Size            float64
	DetectionRadius float64
	AttackRadius    float64
	ChaseRadius     float64
	WanderSpeed     float64
	ChaseSpeed      float64
	State           EnemyAIState
	WanderTarget    *Point
	StateTimer      float64 // ms, entry time of the attacking state
	ShootCooldown   float64 // ms
	LastShot        float64 // ms
	HP              int
	Dead            bool
}

// NewEnemy creates a wandering sentry at (x, y)
func NewEnemy(id int, x, y float64, t EnemyTuning) *Enemy {
	return &Enemy{
		ID:              id,
		Kind:            KindSentry,
		X:               x,
		Y:               y,
		Size:            EnemySize,
		DetectionRadius: t.DetectionRadius,
		AttackRadius:    t.AttackRadius,
		ChaseRadius:     t.ChaseRadius,
		WanderSpeed:     t.WanderSpeed,
		ChaseSpeed:      t.ChaseSpeed,
		State:           AIWandering,
		ShootCooldown:   t.ShootCooldown,
		LastShot:        math.Inf(-1),
		HP:              t.HP,
	}
}

// Think evaluates the state transitions in priority order. Returns true
// when the enemy enters attacking and fires this frame.
func (e *Enemy) Think(now, px, py float64) bool {
	dist := Distance(e.X, e.Y, px, py)
	switch {
	case e.State == AIAttacking && now-e.StateTimer > EnemyAttackHold:
		e.State = AIChasing
	case dist < e.AttackRadius && now-e.LastShot > e.ShootCooldown:
		e.State = AIAttacking
		e.StateTimer = now
		e.LastShot = now
		return true
	case dist < e.DetectionRadius && e.State == AIWandering:
		e.State = AIChasing
	case dist > e.ChaseRadius && e.State == AIChasing:
		e.State = AIWandering
	}
	return false
}

// Update runs one frame of AI and movement toward the player at (px, py).
// Returns true if the enemy fires at the player this frame.
func (e *Enemy) Update(dt, now, px, py float64, rng *rand.Rand) bool {
	if e.Dead {
		return false
	}
	fire := e.Think(now, px, py)

	switch e.State {
	case AIChasing:
		e.VX, e.VY = steer(e.X, e.Y, px, py, e.ChaseSpeed)
	case AIWandering:
		if e.WanderTarget == nil || Distance(e.X, e.Y, e.WanderTarget.X, e.WanderTarget.Y) < EnemyRetargetDist {
			e.WanderTarget = &Point{
				X: Clamp(e.X+(rng.Float64()-0.5)*EnemyWanderRange, 100, WorldWidth-100),
				Y: Clamp(e.Y+(rng.Float64()-0.5)*EnemyWanderRange, 100, WorldHeight-200),
			}
		}
		e.VX, e.VY = steer(e.X, e.Y, e.WanderTarget.X, e.WanderTarget.Y, e.WanderSpeed)
	case AIAttacking:
		e.VX *= EnemyAttackDamping
		e.VY *= EnemyAttackDamping
	}

	e.X += e.VX * dt
	e.Y += e.VY * dt
	return fire
}

// steer returns a velocity of magnitude speed from (x, y) toward (tx, ty).
// Already at the target means zero velocity.
func steer(x, y, tx, ty, speed float64) (float64, float64) {
	dx := tx - x
	dy := ty - y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return dx / l * speed, dy / l * speed
}

// TakeDamage reduces HP and returns true if the enemy died
func (e *Enemy) TakeDamage(dmg int) bool {
	if e.Dead {
		return false
	}
	e.HP -= dmg
	if e.HP <= 0 {
		e.HP = 0
		e.Dead = true
		return true
	}
	return false
}

// ToState converts to protocol state
func (e *Enemy) ToState() EnemyState {
	return EnemyState{
		ID:    e.ID,
		X:     round1(e.X),
		Y:     round1(e.Y),
		VX:    round1(e.VX),
		VY:    round1(e.VY),
		State: string(e.State),
		HP:    e.HP,
	}
}
