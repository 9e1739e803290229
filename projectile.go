package main

import "math"

const (
	ProjectileSpeed       = 1320.0 // px/s, friendly
	ProjectileRadius      = 5.0
	ProjectileLife        = 90 // frames
	EnemyProjectileSpeed  = 900.0
	EnemyProjectileRadius = 6.0
	EnemyProjectileLife   = 120
	ProjectileCullMargin  = 200.0 // beyond world bounds
	ProjectileDamage      = 1
	WallBounceInset       = 20.0 // inner face of the side walls

	maxProjectilesPerRun = 500

	colorFriendly = "#00ffff"
	colorHostile  = "#ff8000"
)

// ProjectileKind partitions the pool into friendly and hostile shots
type ProjectileKind uint8

const (
	KindFriendly ProjectileKind = iota
	KindHostile
)

// Projectile is a kinematic shot. Life is counted in frames.
type Projectile struct {
	Kind    ProjectileKind
	X, Y    float64
	VX, VY  float64
	Radius  float64
	Life    int
	Color   string
	Bounces int
	Alive   bool
}

// IsEnemy reports whether the projectile was fired by an enemy
func (p *Projectile) IsEnemy() bool {
	return p.Kind == KindHostile
}

// aimVelocity returns a velocity of magnitude speed from origin toward target.
// A zero-length aim falls back to a unit length so the shot still flies.
func aimVelocity(ox, oy, tx, ty, speed float64) (float64, float64) {
	dx := tx - ox
	dy := ty - oy
	l := math.Hypot(dx, dy)
	if l == 0 {
		l = 1
	}
	return dx / l * speed, dy / l * speed
}

// Update moves the projectile one frame. Friendly shots with bounces left
// reflect off the side walls.
func (p *Projectile) Update(dt float64) {
	if !p.Alive {
		return
	}
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Life--

	if p.Bounces > 0 {
		if (p.X < WallBounceInset && p.VX < 0) || (p.X > WorldWidth-WallBounceInset && p.VX > 0) {
			p.VX = -p.VX
			p.Bounces--
		}
	}

	if p.Life <= 0 ||
		p.X < -ProjectileCullMargin || p.X > WorldWidth+ProjectileCullMargin ||
		p.Y < -ProjectileCullMargin || p.Y > WorldHeight+ProjectileCullMargin {
		p.Alive = false
	}
}

// ProjectilePool owns the live projectiles of one run
type ProjectilePool struct {
	items []*Projectile
}

// NewProjectilePool creates an empty pool
func NewProjectilePool() *ProjectilePool {
	return &ProjectilePool{}
}

// Fire spawns a friendly shot from origin toward target
func (pp *ProjectilePool) Fire(ox, oy, tx, ty float64, bounces int) *Projectile {
	vx, vy := aimVelocity(ox, oy, tx, ty, ProjectileSpeed)
	return pp.add(&Projectile{
		Kind: KindFriendly, X: ox, Y: oy, VX: vx, VY: vy,
		Radius: ProjectileRadius, Life: ProjectileLife, Color: colorFriendly,
		Bounces: bounces, Alive: true,
	})
}

// FireEnemy spawns a hostile shot from origin toward target
func (pp *ProjectilePool) FireEnemy(ox, oy, tx, ty float64) *Projectile {
	vx, vy := aimVelocity(ox, oy, tx, ty, EnemyProjectileSpeed)
	return pp.add(&Projectile{
		Kind: KindHostile, X: ox, Y: oy, VX: vx, VY: vy,
		Radius: EnemyProjectileRadius, Life: EnemyProjectileLife, Color: colorHostile,
		Alive: true,
	})
}

func (pp *ProjectilePool) add(p *Projectile) *Projectile {
	if len(pp.items) >= maxProjectilesPerRun {
		return nil
	}
	pp.items = append(pp.items, p)
	return p
}

// Update advances every projectile and compacts out the dead ones
func (pp *ProjectilePool) Update(dt float64) {
	for _, p := range pp.items {
		p.Update(dt)
	}
	pp.Compact()
}

// Compact drops projectiles that are no longer alive
func (pp *ProjectilePool) Compact() {
	live := pp.items[:0]
	for _, p := range pp.items {
		if p.Alive {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(pp.items); i++ {
		pp.items[i] = nil
	}
	pp.items = live
}

// Clear removes every projectile
func (pp *ProjectilePool) Clear() {
	for i := range pp.items {
		pp.items[i] = nil
	}
	pp.items = pp.items[:0]
}

// Len returns the number of live projectiles
func (pp *ProjectilePool) Len() int {
	return len(pp.items)
}

// Items returns the live projectiles
func (pp *ProjectilePool) Items() []*Projectile {
	return pp.items
}

// ToState converts to protocol state
func (p *Projectile) ToState() ProjectileState {
	return ProjectileState{
		X:     round1(p.X),
		Y:     round1(p.Y),
		R:     p.Radius,
		Enemy: p.IsEnemy(),
	}
}
