package main

import "math"

const (
	PlayerWidth          = 30.0
	PlayerHeight         = 55.0
	PlayerSpeed          = 420.0 // px/s
	PlayerAirControl     = 0.6
	PlayerVelocityBlend  = 0.2
	PlayerJumpVelocity   = 780.0
	PlayerDashSpeed      = 1200.0
	PlayerDashDuration   = 150.0 // ms
	PlayerDashInvincible = 300.0 // ms
	PlayerDashCooldown   = 1000.0
	PlayerDashDecay      = 0.2
	PlayerWallSlideSpeed = 90.0
	PlayerWallJumpX      = 480.0
	PlayerWallJumpY      = 660.0
	PlayerSlashCooldown  = 700.0 // ms
	PlayerSlashRange     = 90.0
	PlayerSlashArc       = math.Pi
	PlayerSlashDuration  = 200.0 // ms
	PlayerMaxHealth      = 3
	PlayerMaxJumps       = 3
	PlayerMaxDashCharges = 1
	PlayerHurtInvincible = 1500.0 // ms
	PlayerHitRadius      = PlayerHeight / 2
	PlayerSpawnX         = 200.0
	PlayerSpawnY         = WorldHeight - 200

	DamageShakeFrames    = 20
	DamageShakeMagnitude = 15.0
)

// PlayerState is the per-run player record. Upgrade fields survive stage
// changes and are reset only when a new run starts.
type PlayerState struct {
	Health             int
	MaxHealth          int
	JumpsLeft          int
	MaxJumps           int
	DashCharges        int
	MaxDashCharges     int
	LastDashTime       float64 // ms
	LastSlashTime      float64 // ms
	SlashAngle         float64
	IsDashing          bool
	IsInvincible       bool
	IsGrounded         bool
	IsWallSliding      bool
	WallSlideDirection int // -1 wall on the left, +1 wall on the right
	IsSlashing         bool

	LanceBounces          int
	VolatileExplosionSize float64
	StrongerWallJumps     float64
	EnemiesExplodeOnDeath bool

	invincibleUntil float64
}

// NewPlayerState returns a fresh run's player record
func NewPlayerState(t PlayerTuning) PlayerState {
	return PlayerState{
		Health:                t.MaxHealth,
		MaxHealth:             t.MaxHealth,
		MaxJumps:              PlayerMaxJumps,
		DashCharges:           PlayerMaxDashCharges,
		MaxDashCharges:        PlayerMaxDashCharges,
		LastDashTime:          math.Inf(-1),
		LastSlashTime:         math.Inf(-1),
		WallSlideDirection:    1,
		VolatileExplosionSize: 1,
		StrongerWallJumps:     1,
	}
}

// DashRatio reports dash readiness in [0, 1]
func (s *PlayerState) DashRatio(now float64) float64 {
	return Clamp((now-s.LastDashTime)/PlayerDashCooldown, 0, 1)
}

// ContactPoints mirrors the player's sensor overlaps
type ContactPoints struct {
	Ground, Left, Right bool
}

// InputState is the latest control state sent by the client. Mouse
// coordinates are in world space.
type InputState struct {
	MouseX, MouseY float64
	Left, Right    bool
	Jump           bool
	Dash           bool
	Slash          bool
	Fire           bool
	Click          bool
}

// Player is the physics-backed character of a run
type Player struct {
	Body     *Body
	Contacts ContactPoints
	tun      PlayerTuning

	// overlaps per sensor; a sensor can touch several shapes at once
	ground, left, right int
}

// NewPlayer creates the player body at (x, y) and subscribes it to sensor contacts
func NewPlayer(w *World, x, y float64) *Player {
	p := &Player{
		Body: w.Physics.AddPlayerBody(x, y, PlayerWidth, PlayerHeight),
		tun:  w.Tuning.Player,
	}
	w.Physics.SetObserver(p)
	return p
}

// ContactBegin implements ContactObserver
func (p *Player) ContactBegin(a, b string) {
	p.setContact(a, true)
	p.setContact(b, true)
}

// ContactEnd implements ContactObserver
func (p *Player) ContactEnd(a, b string) {
	p.setContact(a, false)
	p.setContact(b, false)
}

func (p *Player) setContact(label string, on bool) {
	d := -1
	if on {
		d = 1
	}
	switch label {
	case LabelGroundSensor:
		p.ground = max(p.ground+d, 0)
	case LabelLeftSensor:
		p.left = max(p.left+d, 0)
	case LabelRightSensor:
		p.right = max(p.right+d, 0)
	default:
		return
	}
	p.Contacts = ContactPoints{Ground: p.ground > 0, Left: p.left > 0, Right: p.right > 0}
}

// ApplyInput blends horizontal velocity toward the held direction and
// starts a dash when requested.
func (p *Player) ApplyInput(w *World, in InputState) {
	st := &w.State
	targetVX := 0.0
	if in.Right {
		targetVX = p.tun.Speed
	}
	if in.Left {
		targetVX = -p.tun.Speed
	}

	air := 1.0
	if !st.IsGrounded {
		air = p.tun.AirControl
	}
	v := p.Body.Velocity()
	p.Body.SetVelocity(v.X+(targetVX-v.X)*PlayerVelocityBlend*air, v.Y)

	if in.Dash {
		p.TryDash(w, targetVX)
	}
}

// TryDash consumes a dash charge and bursts horizontally. Returns false
// while already dashing, out of charges, or inside the cooldown since the
// last dash. Extra charges from upgrades do not skip the cooldown.
func (p *Player) TryDash(w *World, targetVX float64) bool {
	st := &w.State
	if st.IsDashing || st.DashCharges <= 0 || w.Now-st.LastDashTime <= PlayerDashCooldown {
		return false
	}
	st.IsDashing = true
	st.IsWallSliding = false
	st.LastDashTime = w.Now
	st.DashCharges--
	p.grantInvincibility(w, PlayerDashInvincible)

	dir := 1.0
	if targetVX != 0 {
		dir = math.Copysign(1, targetVX)
	} else if p.Body.Velocity().X < 0 {
		dir = -1
	}
	p.Body.SetVelocity(p.tun.DashSpeed*dir, 0)
	pos := p.Body.Position()
	w.Particles.Burst(20, pos.X, pos.Y, "#FFFFFF", 3, 2, ParticleDefaultLife)

	w.After(PlayerDashDuration, func() {
		st.IsDashing = false
		if w.Player == p {
			v := p.Body.Velocity()
			p.Body.SetVelocity(v.X*PlayerDashDecay, v.Y)
		}
	})
	return true
}

// grantInvincibility extends the invincibility window to now+d and queues
// its expiry. Expiry waits out any dash in progress.
func (p *Player) grantInvincibility(w *World, d float64) {
	st := &w.State
	st.IsInvincible = true
	if until := w.Now + d; until > st.invincibleUntil {
		st.invincibleUntil = until
	}
	w.After(d, func() {
		if w.Now >= st.invincibleUntil && !st.IsDashing {
			st.IsInvincible = false
		}
	})
}

// UpdateState refreshes grounded/wall-slide flags from the sensors and
// regenerates dash charges.
func (p *Player) UpdateState(w *World) {
	st := &w.State
	if w.Now-st.LastDashTime > PlayerDashCooldown && st.DashCharges < st.MaxDashCharges {
		st.DashCharges++
		st.LastDashTime = w.Now
	}

	st.IsGrounded = p.Contacts.Ground
	onWall := p.Contacts.Left || p.Contacts.Right
	if p.Contacts.Left {
		st.WallSlideDirection = -1
	} else {
		st.WallSlideDirection = 1
	}
	if st.IsGrounded {
		st.JumpsLeft = st.MaxJumps
		st.IsWallSliding = false
	}

	v := p.Body.Velocity()
	if onWall && !st.IsGrounded && v.Y > 0 && !st.IsDashing {
		st.IsWallSliding = true
		if v.Y > p.tun.WallSlideSpeed {
			p.Body.SetVelocity(v.X, p.tun.WallSlideSpeed)
		}
		pos := p.Body.Position()
		w.Particles.Emit(pos.X+float64(st.WallSlideDirection)*PlayerWidth/2, pos.Y, "#ccc", 1, 1, 0, 0, 10)
	} else {
		st.IsWallSliding = false
	}
}

// Jump performs a wall-jump off the current wall or spends an air/ground
// jump charge. Returns false when no jump was possible.
func (p *Player) Jump(w *World) bool {
	st := &w.State
	pos := p.Body.Position()
	switch {
	case st.IsWallSliding:
		k := st.StrongerWallJumps
		out := -float64(st.WallSlideDirection)
		p.Body.SetVelocity(out*PlayerWallJumpX*k, -PlayerWallJumpY*k)
		st.JumpsLeft = st.MaxJumps - 1
		st.IsWallSliding = false
		w.Particles.Burst(15, pos.X, pos.Y, "#00ffff", 4, 3, ParticleDefaultLife)
		return true
	case st.JumpsLeft > 0:
		v := p.Body.Velocity()
		p.Body.SetVelocity(v.X, -p.tun.JumpVelocity)
		st.JumpsLeft--
		w.Particles.Burst(10, pos.X, pos.Y, "#00ffff", 3, 2, ParticleDefaultLife)
		return true
	}
	return false
}

// TryStartSlash starts a slash toward the aim point unless on cooldown
func (p *Player) TryStartSlash(w *World, aimX, aimY float64) bool {
	st := &w.State
	if w.Now-st.LastSlashTime < PlayerSlashCooldown {
		return false
	}
	st.LastSlashTime = w.Now
	st.IsSlashing = true
	pos := p.Body.Position()
	st.SlashAngle = math.Atan2(aimY-pos.Y, aimX-pos.X)
	started := w.Now
	w.After(PlayerSlashDuration, func() {
		if st.LastSlashTime == started {
			st.IsSlashing = false
		}
	})
	return true
}

// SlashArc returns the swept arc [start, current] and the fade alpha of the
// active slash. ok is false when no slash is running.
func (s *PlayerState) SlashArc(now float64) (start, current, alpha float64, ok bool) {
	if !s.IsSlashing {
		return 0, 0, 0, false
	}
	progress := math.Min((now-s.LastSlashTime)/PlayerSlashDuration, 1)
	ease := 1 - math.Pow(1-progress, 3)
	start = NormalizeAngle(s.SlashAngle - PlayerSlashArc/2)
	return start, start + PlayerSlashArc*ease, 1 - progress, true
}

// TakeDamage removes one health unless invincible. Returns true when this
// hit brought health to zero.
func (p *Player) TakeDamage(w *World) bool {
	st := &w.State
	if st.IsInvincible || st.Health <= 0 {
		return false
	}
	st.Health--
	w.Camera.Shake(DamageShakeFrames, DamageShakeMagnitude)
	if st.Health <= 0 {
		st.Health = 0
		return true
	}
	p.grantInvincibility(w, PlayerHurtInvincible)
	return false
}

// Speed returns the body's speed in px/s
func (p *Player) Speed() float64 {
	v := p.Body.Velocity()
	return math.Hypot(v.X, v.Y)
}

// ToState converts to protocol state
func (p *Player) ToState(st *PlayerState, now float64) PlayerView {
	pos := p.Body.Position()
	v := p.Body.Velocity()
	view := PlayerView{
		X:         round1(pos.X),
		Y:         round1(pos.Y),
		VX:        round1(v.X),
		VY:        round1(v.Y),
		Health:    st.Health,
		MaxHealth: st.MaxHealth,
		Dashing:   st.IsDashing,
		Invuln:    st.IsInvincible,
		Grounded:  st.IsGrounded,
		Sliding:   st.IsWallSliding,
		WallDir:   st.WallSlideDirection,
	}
	if start, cur, alpha, ok := st.SlashArc(now); ok {
		view.Slash = &SlashView{From: round2(start), To: round2(cur), Alpha: round2(alpha), Range: PlayerSlashRange}
	}
	return view
}
