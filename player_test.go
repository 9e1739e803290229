package main

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func newTestPlayer(t *testing.T) (*World, *Player) {
	t.Helper()
	w := newTestWorld(t)
	p := NewPlayer(w, PlayerSpawnX, PlayerSpawnY)
	w.Player = p
	return w, p
}

func TestNewPlayerState(t *testing.T) {
	st := NewPlayerState(DefaultTuning().Player)
	if st.Health != PlayerMaxHealth || st.MaxHealth != PlayerMaxHealth {
		t.Errorf("expected health %d, got %d/%d", PlayerMaxHealth, st.Health, st.MaxHealth)
	}
	if st.DashCharges != PlayerMaxDashCharges {
		t.Errorf("expected %d dash charges, got %d", PlayerMaxDashCharges, st.DashCharges)
	}
	if st.VolatileExplosionSize != 1 || st.StrongerWallJumps != 1 {
		t.Error("upgrade multipliers should start at 1")
	}
	if st.DashRatio(0) != 1 {
		t.Errorf("dash should start ready, ratio %v", st.DashRatio(0))
	}
}

func TestPlayerJumpCharges(t *testing.T) {
	w, p := newTestPlayer(t)
	w.State.JumpsLeft = PlayerMaxJumps

	for i := 0; i < PlayerMaxJumps; i++ {
		if !p.Jump(w) {
			t.Fatalf("jump %d should succeed", i+1)
		}
	}
	if p.Jump(w) {
		t.Error("jump without charges should fail")
	}
	if v := p.Body.Velocity(); v.Y != -PlayerJumpVelocity {
		t.Errorf("expected vy %v, got %v", -PlayerJumpVelocity, v.Y)
	}
}

func TestPlayerWallJumpPushesAway(t *testing.T) {
	w, p := newTestPlayer(t)
	w.State.IsWallSliding = true
	w.State.WallSlideDirection = 1 // wall on the right

	if !p.Jump(w) {
		t.Fatal("wall jump should succeed")
	}
	v := p.Body.Velocity()
	if v.X != -PlayerWallJumpX || v.Y != -PlayerWallJumpY {
		t.Errorf("expected (%v, %v), got (%v, %v)", -PlayerWallJumpX, -PlayerWallJumpY, v.X, v.Y)
	}
	if w.State.JumpsLeft != PlayerMaxJumps-1 {
		t.Errorf("expected %d jumps left, got %d", PlayerMaxJumps-1, w.State.JumpsLeft)
	}
	if w.State.IsWallSliding {
		t.Error("wall slide should end on wall jump")
	}
}

func TestPlayerWallJumpUpgrade(t *testing.T) {
	w, p := newTestPlayer(t)
	w.State.IsWallSliding = true
	w.State.WallSlideDirection = -1
	w.State.StrongerWallJumps = 1.3

	p.Jump(w)
	v := p.Body.Velocity()
	if math.Abs(v.X-PlayerWallJumpX*1.3) > 1e-9 {
		t.Errorf("expected vx %v, got %v", PlayerWallJumpX*1.3, v.X)
	}
}

func TestPlayerDash(t *testing.T) {
	w, p := newTestPlayer(t)

	if !p.TryDash(w, 0) {
		t.Fatal("first dash should succeed")
	}
	st := &w.State
	if !st.IsDashing || !st.IsInvincible {
		t.Error("dash should set dashing and invincible")
	}
	if st.DashCharges != 0 {
		t.Errorf("expected 0 charges, got %d", st.DashCharges)
	}
	if v := p.Body.Velocity(); v.X != PlayerDashSpeed || v.Y != 0 {
		t.Errorf("expected dash velocity (%v, 0), got %v", PlayerDashSpeed, v)
	}
	if p.TryDash(w, 0) {
		t.Error("dash while dashing should fail")
	}

	advance(w, PlayerDashDuration)
	if st.IsDashing {
		t.Error("dash should end after its duration")
	}
	if v := p.Body.Velocity(); v.X != PlayerDashSpeed*PlayerDashDecay {
		t.Errorf("expected decayed vx %v, got %v", PlayerDashSpeed*PlayerDashDecay, v.X)
	}
	if !st.IsInvincible {
		t.Error("dash invincibility outlasts the dash")
	}
	advance(w, PlayerDashInvincible)
	if st.IsInvincible {
		t.Error("invincibility should expire")
	}
}

func TestPlayerDashDirection(t *testing.T) {
	w, p := newTestPlayer(t)
	p.TryDash(w, -PlayerSpeed)
	if v := p.Body.Velocity(); v.X != -PlayerDashSpeed {
		t.Errorf("expected leftward dash, got vx %v", v.X)
	}
}

func TestPlayerDashRegenerates(t *testing.T) {
	w, p := newTestPlayer(t)
	p.TryDash(w, 0)
	advance(w, PlayerDashInvincible)

	advance(w, PlayerDashCooldown)
	p.UpdateState(w)
	if w.State.DashCharges != 0 {
		t.Errorf("charge should not regenerate at exactly the cooldown, got %d", w.State.DashCharges)
	}
	advance(w, PlayerDashCooldown+FrameMillis)
	p.UpdateState(w)
	if w.State.DashCharges != 1 {
		t.Errorf("expected 1 charge, got %d", w.State.DashCharges)
	}
}

func TestPlayerDoubleDashWaitsForCooldown(t *testing.T) {
	w, p := newTestPlayer(t)
	st := &w.State
	st.MaxDashCharges, st.DashCharges = 2, 2

	advance(w, 5000)
	if !p.TryDash(w, 0) {
		t.Fatal("first dash should succeed")
	}
	advance(w, 5200)
	p.Body.SetVelocity(0, 0)
	if p.TryDash(w, 0) {
		t.Error("second charge must wait out the cooldown")
	}
	if st.DashCharges != 1 {
		t.Errorf("rejected dash should keep the charge, got %d", st.DashCharges)
	}
	if v := p.Body.Velocity(); v.X != 0 {
		t.Errorf("rejected dash should not touch velocity, vx %v", v.X)
	}

	advance(w, 5000+PlayerDashCooldown+FrameMillis)
	if !p.TryDash(w, 0) {
		t.Fatal("second charge should be usable after the cooldown")
	}
	if st.DashCharges != 0 {
		t.Errorf("expected 0 charges, got %d", st.DashCharges)
	}
}

// newWalledWorld is a world with only the floor and both side walls
func newWalledWorld(t *testing.T) *World {
	t.Helper()
	w := newTestWorld(t)
	w.Physics.AddStaticBox(WorldWidth/2, WorldHeight-GroundHeight/2, WorldWidth, GroundHeight, LabelGround)
	w.Physics.AddStaticBox(WallThickness/2, WorldHeight/2, WallThickness, WorldHeight, LabelWallLeft)
	w.Physics.AddStaticBox(WorldWidth-WallThickness/2, WorldHeight/2, WallThickness, WorldHeight, LabelWallRight)
	return w
}

// playerFrame runs the player part of an in-game frame
func playerFrame(w *World, p *Player, in InputState, frame int) {
	w.Now = float64(frame) * FrameMillis
	w.Timers.Advance(w.Now)
	w.Physics.Step(1.0 / TickRate)
	p.ApplyInput(w, in)
	p.UpdateState(w)
}

func TestPlayerWallSlideAgainstWall(t *testing.T) {
	w := newWalledWorld(t)
	p := NewPlayer(w, WallThickness+PlayerWidth/2+40, 900)
	w.Player = p
	st := &w.State
	floorTop := WorldHeight - GroundHeight
	maxSink := PlayerSpeed/TickRate + 1

	slid := false
	for f := 1; f <= 120; f++ {
		playerFrame(w, p, InputState{Left: true}, f)
		pos := p.Body.Position()
		if edge := pos.X - PlayerWidth/2; edge < WallThickness-maxSink {
			t.Fatalf("frame %d: player sank into the wall, left edge %v", f, edge)
		}
		if st.IsGrounded && pos.Y+PlayerHeight/2 < floorTop-5 {
			t.Fatalf("frame %d: grounded in mid-air at y=%v", f, pos.Y)
		}
		slid = slid || st.IsWallSliding
	}
	if !slid {
		t.Error("falling while pressing into the wall should wall-slide")
	}
	if !p.Contacts.Left {
		t.Error("left sensor should report the wall")
	}
	if edge := p.Body.Position().X - PlayerWidth/2; edge < WallThickness-2 {
		t.Errorf("player should settle against the wall face, left edge %v", edge)
	}
	if v := p.Body.Velocity(); v.Y > PlayerWallSlideSpeed+WorldGravity/TickRate {
		t.Errorf("slide speed should be capped, vy %v", v.Y)
	}
}

func TestPlayerWallJumpsStayInsideArena(t *testing.T) {
	w := newWalledWorld(t)
	p := NewPlayer(w, WallThickness+PlayerWidth/2+40, 900)
	w.Player = p
	maxSink := PlayerSpeed/TickRate + 1

	jumps := 0
	for f := 1; f <= 240; f++ {
		playerFrame(w, p, InputState{Left: true}, f)
		if w.State.IsWallSliding && p.Jump(w) {
			jumps++
		}
		if edge := p.Body.Position().X - PlayerWidth/2; edge < WallThickness-maxSink {
			t.Fatalf("frame %d: player passed into the wall, left edge %v", f, edge)
		}
	}
	if jumps < 2 {
		t.Errorf("expected repeated wall-jumps, got %d", jumps)
	}
}

func TestPlayerPushingWallOnFloor(t *testing.T) {
	w := newWalledWorld(t)
	floorTop := WorldHeight - GroundHeight
	face := WorldWidth - WallThickness
	p := NewPlayer(w, face-PlayerWidth/2-60, floorTop-PlayerHeight/2-1)
	w.Player = p
	maxSink := PlayerSpeed/TickRate + 1

	for f := 1; f <= 2*TickRate; f++ {
		playerFrame(w, p, InputState{Right: true}, f)
		if edge := p.Body.Position().X + PlayerWidth/2; edge > face+maxSink {
			t.Fatalf("frame %d: player sank into the wall, right edge %v", f, edge)
		}
	}
	if edge := p.Body.Position().X + PlayerWidth/2; edge > face+2 {
		t.Errorf("player should rest against the wall face %v, right edge %v", face, edge)
	}
	if !w.State.IsGrounded || w.State.IsWallSliding {
		t.Errorf("expected grounded without sliding, got grounded=%v sliding=%v", w.State.IsGrounded, w.State.IsWallSliding)
	}
}

func TestPlayerGroundRefillsJumps(t *testing.T) {
	w, p := newTestPlayer(t)
	p.Contacts.Ground = true
	p.UpdateState(w)
	if !w.State.IsGrounded {
		t.Error("expected grounded")
	}
	if w.State.JumpsLeft != w.State.MaxJumps {
		t.Errorf("expected %d jumps, got %d", w.State.MaxJumps, w.State.JumpsLeft)
	}
}

func TestPlayerWallSlideClampsFall(t *testing.T) {
	w, p := newTestPlayer(t)
	p.Contacts.Left = true
	p.Body.SetVelocity(0, 500)
	p.UpdateState(w)

	if !w.State.IsWallSliding {
		t.Fatal("expected wall slide")
	}
	if w.State.WallSlideDirection != -1 {
		t.Errorf("expected wall direction -1, got %d", w.State.WallSlideDirection)
	}
	if v := p.Body.Velocity(); v.Y != PlayerWallSlideSpeed {
		t.Errorf("expected vy clamped to %v, got %v", PlayerWallSlideSpeed, v.Y)
	}
}

func TestPlayerNoWallSlideWhileRising(t *testing.T) {
	w, p := newTestPlayer(t)
	p.Contacts.Right = true
	p.Body.SetVelocity(0, -300)
	p.UpdateState(w)
	if w.State.IsWallSliding {
		t.Error("rising player should not wall slide")
	}
}

func TestPlayerApplyInputAirControl(t *testing.T) {
	w, p := newTestPlayer(t)
	w.State.IsGrounded = true
	p.ApplyInput(w, InputState{Right: true})
	ground := p.Body.Velocity().X

	p.Body.SetVelocity(0, 0)
	w.State.IsGrounded = false
	p.ApplyInput(w, InputState{Right: true})
	air := p.Body.Velocity().X

	if math.Abs(ground-PlayerSpeed*PlayerVelocityBlend) > 1e-9 {
		t.Errorf("expected ground vx %v, got %v", PlayerSpeed*PlayerVelocityBlend, ground)
	}
	if math.Abs(air-ground*PlayerAirControl) > 1e-9 {
		t.Errorf("expected air vx %v, got %v", ground*PlayerAirControl, air)
	}
}

func TestPlayerTakeDamage(t *testing.T) {
	w, p := newTestPlayer(t)

	if p.TakeDamage(w) {
		t.Fatal("first hit should not kill")
	}
	if w.State.Health != PlayerMaxHealth-1 {
		t.Errorf("expected health %d, got %d", PlayerMaxHealth-1, w.State.Health)
	}
	if w.Camera.ShakeDuration != DamageShakeFrames {
		t.Errorf("expected camera shake %d, got %d", DamageShakeFrames, w.Camera.ShakeDuration)
	}

	// invincible right after a hit
	p.TakeDamage(w)
	if w.State.Health != PlayerMaxHealth-1 {
		t.Errorf("hit during invincibility should be ignored, health %d", w.State.Health)
	}

	advance(w, PlayerHurtInvincible)
	p.TakeDamage(w)
	advance(w, 2*PlayerHurtInvincible)
	if !p.TakeDamage(w) {
		t.Error("last hit should report death")
	}
	if w.State.Health != 0 {
		t.Errorf("expected health 0, got %d", w.State.Health)
	}
	if p.TakeDamage(w) {
		t.Error("dead player cannot die twice")
	}
}

func TestPlayerSlash(t *testing.T) {
	w, p := newTestPlayer(t)
	pos := p.Body.Position()

	if !p.TryStartSlash(w, pos.X+100, pos.Y) {
		t.Fatal("slash should start")
	}
	if w.State.SlashAngle != 0 {
		t.Errorf("expected angle 0 aiming right, got %v", w.State.SlashAngle)
	}

	advance(w, 100)
	if p.TryStartSlash(w, pos.X, pos.Y-100) {
		t.Error("slash on cooldown should fail")
	}
	start, cur, alpha, ok := w.State.SlashArc(w.Now)
	if !ok {
		t.Fatal("expected an active slash")
	}
	if math.Abs(start+PlayerSlashArc/2) > 1e-9 {
		t.Errorf("expected arc start %v, got %v", -PlayerSlashArc/2, start)
	}
	if cur <= start || cur >= start+PlayerSlashArc {
		t.Errorf("arc should be partially swept, got [%v, %v]", start, cur)
	}
	if math.Abs(alpha-0.5) > 1e-9 {
		t.Errorf("expected alpha 0.5, got %v", alpha)
	}

	advance(w, PlayerSlashDuration)
	if w.State.IsSlashing {
		t.Error("slash should end")
	}
	if _, _, _, ok := w.State.SlashArc(w.Now); ok {
		t.Error("no arc after slash ended")
	}

	advance(w, PlayerSlashCooldown)
	if !p.TryStartSlash(w, pos.X, pos.Y) {
		t.Error("slash should be ready after cooldown")
	}
}

func TestPlayerToState(t *testing.T) {
	w, p := newTestPlayer(t)
	w.State.Health = 2
	v := p.ToState(&w.State, w.Now)
	if v.Health != 2 || v.MaxHealth != PlayerMaxHealth {
		t.Errorf("unexpected health in view: %d/%d", v.Health, v.MaxHealth)
	}
	if v.Slash != nil {
		t.Error("no slash view expected")
	}
}

func TestPlayerDashAndHealthInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w, p := newTestPlayer(t)
		st := &w.State
		if rapid.Bool().Draw(rt, "doubleDash") {
			st.MaxDashCharges, st.DashCharges = 2, 2
		}

		steps := rapid.IntRange(1, 60).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				before, last := st.DashCharges, st.LastDashTime
				if p.TryDash(w, 1) {
					if st.DashCharges != before-1 {
						rt.Fatalf("dash should spend one charge: %d -> %d", before, st.DashCharges)
					}
					if w.Now-last <= PlayerDashCooldown {
						rt.Fatalf("dash %vms after the last one, cooldown is %vms", w.Now-last, PlayerDashCooldown)
					}
				}
			case 1:
				advance(w, w.Now+rapid.Float64Range(0, 1500).Draw(rt, "dt"))
				last, charges := st.LastDashTime, st.DashCharges
				p.UpdateState(w)
				if st.DashCharges > charges {
					if st.DashCharges != charges+1 {
						rt.Fatalf("regenerated %d charges at once", st.DashCharges-charges)
					}
					if w.Now-last <= PlayerDashCooldown {
						rt.Fatalf("regenerated after %vms, cooldown is %vms", w.Now-last, PlayerDashCooldown)
					}
				}
			case 2:
				invincible, health := st.IsInvincible, st.Health
				p.TakeDamage(w)
				if invincible && st.Health != health {
					rt.Fatalf("invincible player took damage: %d -> %d", health, st.Health)
				}
			}
			if st.DashCharges < 0 || st.DashCharges > st.MaxDashCharges {
				rt.Fatalf("dash charges %d outside [0, %d]", st.DashCharges, st.MaxDashCharges)
			}
			if st.Health < 0 || st.Health > st.MaxHealth {
				rt.Fatalf("health %d outside [0, %d]", st.Health, st.MaxHealth)
			}
		}
	})
}
