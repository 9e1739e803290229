package main

import "math"

const (
	GroundHeight       = 60.0
	WallThickness      = 20.0
	PlatformHeight     = 18.0
	LedgeHeight        = 16.0
	PlatformMinWidth   = 220.0
	PlatformMaxWidth   = 480.0
	MaxSegments        = 24
	PortalRadius       = 28.0
	PortalReach        = 12.0 // added to the radius for the entry check
	PortalMaxRise      = 400.0
	PortalRisePerStage = 40.0

	RunStartEnemies = 8
	RunStartBlocks  = 6
)

// Portal is the stage exit
type Portal struct {
	X, Y   float64
	Radius float64
}

// Reached reports whether (x, y) is close enough to enter the portal
func (p *Portal) Reached(x, y float64) bool {
	return Distance(x, y, p.X, p.Y) < p.Radius+PortalReach
}

// StagePlan is how many enemies and blocks a stage is populated with
type StagePlan struct {
	Enemies int
	Blocks  int
}

// PlanForStage returns the population for a stage. Stage 1 of a fresh run
// uses the run-start counts; later stages scale with the stage number.
func PlanForStage(stage int, runStart bool) StagePlan {
	if runStart {
		return StagePlan{Enemies: RunStartEnemies, Blocks: RunStartBlocks}
	}
	return StagePlan{Enemies: 4 + stage, Blocks: 3 + stage}
}

// Segments returns the platform segment count for a stage
func Segments(stage int) int {
	return int(math.Min(float64(10+2*stage), MaxSegments))
}

// PortalHeight returns the portal's y for a stage
func PortalHeight(stage int) float64 {
	return WorldHeight - 650 - math.Min(float64(stage)*PortalRisePerStage, PortalMaxRise)
}

// clearArena removes the static geometry of the previous stage
func (w *World) clearArena() {
	for _, b := range w.arena {
		w.Physics.Remove(b)
	}
	w.arena = w.arena[:0]
	w.Portal = nil
}

func (w *World) addArenaBox(x, y, width, height float64, label string) {
	w.arena = append(w.arena, w.Physics.AddStaticBox(x, y, width, height, label))
}

// GenerateArena replaces the current layout with the one for stage
func (w *World) GenerateArena(stage int) *Portal {
	w.clearArena()
	rng := w.Rand

	w.addArenaBox(WorldWidth/2, WorldHeight-GroundHeight/2, WorldWidth, GroundHeight, LabelGround)
	w.addArenaBox(WallThickness/2, WorldHeight/2, WallThickness, WorldHeight, LabelWallLeft)
	w.addArenaBox(WorldWidth-WallThickness/2, WorldHeight/2, WallThickness, WorldHeight, LabelWallRight)

	segments := Segments(stage)
	gapX := WorldWidth / float64(segments)
	baseY := WorldHeight - 250
	for i := 1; i < segments; i++ {
		width := math.Floor(rng.Float64()*(PlatformMaxWidth-PlatformMinWidth) + PlatformMinWidth)
		x := float64(i)*gapX + (rng.Float64()*100 - 50)
		y := baseY - float64(i)*(20+rng.Float64()*25) - float64(stage)*10 + (rng.Float64()*40 - 20)
		w.addArenaBox(x, y, width, PlatformHeight, LabelPlatform)
	}

	ledges := 3 + int(math.Min(float64(stage), 3))
	for j := 0; j < ledges; j++ {
		x := 500 + float64(j)*600 + rng.Float64()*200
		y := WorldHeight - (500 + float64(j)*120 + rng.Float64()*80)
		width := 260 + rng.Float64()*160
		w.addArenaBox(x, y, width, LedgeHeight, LabelPlatform)
	}

	w.Portal = &Portal{X: WorldWidth - 200, Y: PortalHeight(stage), Radius: PortalRadius}
	return w.Portal
}

// Populate spawns the plan's enemies and blocks at random positions
func (w *World) Populate(plan StagePlan) {
	rng := w.Rand
	for i := 0; i < plan.Enemies; i++ {
		x := 600 + rng.Float64()*(WorldWidth-800)
		y := WorldHeight - 800 - rng.Float64()*800
		w.SpawnEnemy(x, y)
	}
	for i := 0; i < plan.Blocks; i++ {
		x := 500 + rng.Float64()*(WorldWidth-1000)
		y := WorldHeight - 350 - rng.Float64()*900
		NewUnstableBlock(w, x, y, blockTypes[rng.Intn(len(blockTypes))])
	}
}

// ArenaBodies returns the static geometry of the current stage
func (w *World) ArenaBodies() []*Body {
	return w.arena
}

// ToState converts to protocol state
func (p *Portal) ToState() PortalState {
	return PortalState{X: round1(p.X), Y: round1(p.Y), R: p.Radius}
}

// ArenaLayout describes the static geometry sent once per stage
func (w *World) ArenaLayout(stage int) ArenaMsg {
	msg := ArenaMsg{Stage: stage, Width: WorldWidth, Height: WorldHeight}
	for _, b := range w.arena {
		bb := b.shapes[0].BB()
		msg.Boxes = append(msg.Boxes, BoxState{
			X: round1((bb.L + bb.R) / 2), Y: round1((bb.B + bb.T) / 2),
			W: round1(bb.R - bb.L), H: round1(bb.T - bb.B),
			Label: b.Label,
		})
	}
	if w.Portal != nil {
		ps := w.Portal.ToState()
		msg.Portal = &ps
	}
	return msg
}
