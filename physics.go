package main

import (
	"github.com/jakecoffman/cp"
)

// Body labels used for contact routing
const (
	LabelGround       = "ground"
	LabelWallLeft     = "wall-left"
	LabelWallRight    = "wall-right"
	LabelPlatform     = "platform"
	LabelUnstable     = "unstable"
	LabelPlayer       = "player"
	LabelPlayerCore   = "player-core"
	LabelGroundSensor = "player-ground-sensor"
	LabelLeftSensor   = "player-left-sensor"
	LabelRightSensor  = "player-right-sensor"
)

const (
	collisionTerrain cp.CollisionType = iota + 1
	collisionBlock
	collisionPlayer
	collisionSensor
)

const (
	BodyDensity      = 0.001 // mass per px²
	TerrainFriction  = 1.0
	BlockFriction    = 0.5
	PlayerFriction   = 0.05
	PlayerElasticity = 0.1
	SensorThickness  = 10.0

	// a sensor contact counts only when the normal points along the
	// sensor's facing by at least this much
	sensorNormalMin = 0.5
)

// ContactObserver receives sensor contact transitions keyed by shape label.
// Calls happen during Step and during shape removal.
type ContactObserver interface {
	ContactBegin(a, b string)
	ContactEnd(a, b string)
}

// Body is a rigid body owned by a PhysicsWorld
type Body struct {
	Label  string
	Static bool
	body   *cp.Body
	shapes []*cp.Shape

	pending    cp.Vector
	hasPending bool
}

// Position returns the body's center
func (b *Body) Position() cp.Vector {
	return b.body.Position()
}

// Velocity returns the body's linear velocity in px/s, including a change
// requested since the last step.
func (b *Body) Velocity() cp.Vector {
	if b.hasPending {
		return b.pending
	}
	return b.body.Velocity()
}

// Mass returns the body's mass, 0 for static bodies
func (b *Body) Mass() float64 {
	if b.Static {
		return 0
	}
	return b.body.Mass()
}

// SetVelocity sets linear velocity; ignored for static bodies. The new
// velocity takes effect inside the next step, after positions are integrated
// and before contacts are solved, so velocity aimed into terrain is cancelled
// by the solver instead of carrying the body inside it.
func (b *Body) SetVelocity(vx, vy float64) {
	if b.Static {
		return
	}
	b.pending = cp.Vector{X: vx, Y: vy}
	b.hasPending = true
}

// SetPosition teleports a dynamic body
func (b *Body) SetPosition(x, y float64) {
	if b.Static {
		return
	}
	b.body.SetPosition(cp.Vector{X: x, Y: y})
}

// ApplyImpulse applies an instantaneous impulse at the body's center.
// Like SetVelocity it lands inside the next step.
func (b *Body) ApplyImpulse(ix, iy float64) {
	m := b.Mass()
	if m <= 0 {
		return
	}
	v := b.Velocity()
	b.SetVelocity(v.X+ix/m, v.Y+iy/m)
}

// integrateVelocity is the cp velocity update for every body: the pending
// velocity replaces the solved one, then gravity is added as usual.
func (b *Body) integrateVelocity(body *cp.Body, gravity cp.Vector, damping, dt float64) {
	if b.hasPending {
		body.SetVelocityVector(b.pending)
		b.hasPending = false
	}
	cp.BodyUpdateVelocity(body, gravity, damping, dt)
}

// PhysicsWorld is the single owner of the rigid-body space
type PhysicsWorld struct {
	space     *cp.Space
	bodies    []*Body
	observer  ContactObserver
	touching  map[*cp.Arbiter]bool // sensor contacts delivered to the observer
	TimeScale float64
}

// NewPhysicsWorld creates a space with downward gravity in px/s²
func NewPhysicsWorld(gravity float64) *PhysicsWorld {
	pw := &PhysicsWorld{
		space:     cp.NewSpace(),
		touching:  make(map[*cp.Arbiter]bool),
		TimeScale: 1,
	}
	pw.space.SetGravity(cp.Vector{X: 0, Y: gravity})

	for _, other := range []cp.CollisionType{collisionTerrain, collisionBlock} {
		h := pw.space.NewCollisionHandler(collisionSensor, other)
		h.BeginFunc = pw.onContact
		h.PreSolveFunc = pw.onContact
		h.SeparateFunc = pw.onSeparate
	}
	return pw
}

// SetObserver installs the contact observer (nil disables delivery)
func (pw *PhysicsWorld) SetObserver(o ContactObserver) {
	pw.observer = o
}

// onContact runs on the first step of a sensor overlap and on every step
// after it. The contact is delivered once, on the first step its normal
// (sensor toward terrain) faces the way the sensor does: down for the
// ground sensor, outward for the side sensors. A ground sensor pushed into
// a wall sideways never reads as standing.
func (pw *PhysicsWorld) onContact(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	if pw.touching[arb] {
		return true
	}
	a, b := arb.Shapes()
	label := shapeLabel(a)
	if !sensorFacing(label, arb.Normal()) {
		return true
	}
	pw.touching[arb] = true
	if pw.observer != nil {
		pw.observer.ContactBegin(label, shapeLabel(b))
	}
	return true
}

func (pw *PhysicsWorld) onSeparate(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	if !pw.touching[arb] {
		return
	}
	delete(pw.touching, arb)
	if pw.observer != nil {
		a, b := arb.Shapes()
		pw.observer.ContactEnd(shapeLabel(a), shapeLabel(b))
	}
}

// sensorFacing reports whether contact normal n (y down) matches the side
// the sensor label watches
func sensorFacing(label string, n cp.Vector) bool {
	switch label {
	case LabelGroundSensor:
		return n.Y > sensorNormalMin
	case LabelLeftSensor:
		return n.X < -sensorNormalMin
	case LabelRightSensor:
		return n.X > sensorNormalMin
	}
	return true
}

func shapeLabel(s *cp.Shape) string {
	if s == nil {
		return ""
	}
	if l, ok := s.UserData.(string); ok {
		return l
	}
	return ""
}

// AddStaticBox adds an axis-aligned static box centered at (x, y)
func (pw *PhysicsWorld) AddStaticBox(x, y, w, h float64, label string) *Body {
	cb := cp.NewStaticBody()
	cb.SetPosition(cp.Vector{X: x, Y: y})
	pw.space.AddBody(cb)

	shape := cp.NewBox(cb, w, h, 0)
	shape.UserData = label
	if label == LabelUnstable {
		shape.SetCollisionType(collisionBlock)
		shape.SetFriction(BlockFriction)
	} else {
		shape.SetCollisionType(collisionTerrain)
		shape.SetFriction(TerrainFriction)
	}
	pw.space.AddShape(shape)

	b := &Body{Label: label, Static: true, body: cb, shapes: []*cp.Shape{shape}}
	cb.UserData = b
	cb.SetVelocityUpdateFunc(b.integrateVelocity)
	pw.bodies = append(pw.bodies, b)
	return b
}

// AddPlayerBody builds the compound player body: a non-rotating core box
// plus ground, left and right sensors.
func (pw *PhysicsWorld) AddPlayerBody(x, y, w, h float64) *Body {
	mass := w * h * BodyDensity
	cb := cp.NewBody(mass, cp.INFINITY)
	cb.SetPosition(cp.Vector{X: x, Y: y})
	pw.space.AddBody(cb)

	core := cp.NewBox(cb, w, h, 0)
	core.UserData = LabelPlayerCore
	core.SetCollisionType(collisionPlayer)
	core.SetFriction(PlayerFriction)
	core.SetElasticity(PlayerElasticity)

	half := SensorThickness / 2
	ground := cp.NewBox2(cb, cp.BB{L: -(w - 4) / 2, B: h/2 - half, R: (w - 4) / 2, T: h/2 + half}, 0)
	ground.UserData = LabelGroundSensor
	left := cp.NewBox2(cb, cp.BB{L: -w/2 - half, B: -(h - 8) / 2, R: -w/2 + half, T: (h - 8) / 2}, 0)
	left.UserData = LabelLeftSensor
	right := cp.NewBox2(cb, cp.BB{L: w/2 - half, B: -(h - 8) / 2, R: w/2 + half, T: (h - 8) / 2}, 0)
	right.UserData = LabelRightSensor

	shapes := []*cp.Shape{core, ground, left, right}
	for _, s := range shapes[1:] {
		s.SetSensor(true)
		s.SetCollisionType(collisionSensor)
	}
	for _, s := range shapes {
		pw.space.AddShape(s)
	}

	b := &Body{Label: LabelPlayer, body: cb, shapes: shapes}
	cb.UserData = b
	cb.SetVelocityUpdateFunc(b.integrateVelocity)
	pw.bodies = append(pw.bodies, b)
	return b
}

// MakeDynamic converts a static body into a falling dynamic body
func (pw *PhysicsWorld) MakeDynamic(b *Body, w, h float64) {
	if b == nil || !b.Static {
		return
	}
	mass := w * h * BodyDensity
	for _, s := range b.shapes {
		s.SetMass(mass / float64(len(b.shapes)))
	}
	b.body.SetType(cp.BODY_DYNAMIC)
	b.Static = false
}

// Remove takes a body and its shapes out of the space. Removing a body that
// is not live is a no-op.
func (pw *PhysicsWorld) Remove(b *Body) {
	if b == nil {
		return
	}
	idx := -1
	for i, live := range pw.bodies {
		if live == b {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	for _, s := range b.shapes {
		if pw.space.ContainsShape(s) {
			pw.space.RemoveShape(s)
		}
	}
	if pw.space.ContainsBody(b.body) {
		pw.space.RemoveBody(b.body)
	}
	pw.bodies = append(pw.bodies[:idx], pw.bodies[idx+1:]...)
}

// Contains reports whether b is live in this world
func (pw *PhysicsWorld) Contains(b *Body) bool {
	for _, live := range pw.bodies {
		if live == b {
			return true
		}
	}
	return false
}

// Clear removes every body
func (pw *PhysicsWorld) Clear() {
	for len(pw.bodies) > 0 {
		pw.Remove(pw.bodies[len(pw.bodies)-1])
	}
	clear(pw.touching)
	pw.TimeScale = 1
}

// Step advances the simulation by dt seconds scaled by TimeScale
func (pw *PhysicsWorld) Step(dt float64) {
	scaled := dt * pw.TimeScale
	if scaled <= 0 {
		return
	}
	pw.space.Step(scaled)
}

// EachBody calls fn for every live body. fn may remove bodies.
func (pw *PhysicsWorld) EachBody(fn func(*Body)) {
	snapshot := make([]*Body, len(pw.bodies))
	copy(snapshot, pw.bodies)
	for _, b := range snapshot {
		fn(b)
	}
}

// BodyCount returns the number of live bodies
func (pw *PhysicsWorld) BodyCount() int {
	return len(pw.bodies)
}
