package main

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 60 // simulation frames per second
	BroadcastRate  = 30 // snapshots per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
	FrameMillis    = 1000.0 / TickRate
)

const (
	ScoreEveryFrames = 30  // +1 score on this frame interval
	StageClearBonus  = 250 // awarded when an upgrade is picked
	GameOverLock     = 400.0
)

// Broadcaster sends messages to the attached client
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// RunRecorder persists finished runs for the leaderboard
type RunRecorder interface {
	RecordRun(r RunRow) error
}

type nopBroadcaster struct{}

func (nopBroadcaster) SendJSON(interface{}) {}
func (nopBroadcaster) SendBinary([]byte)    {}

// GameDeps are the collaborators of a Game. Nil fields fall back to no-ops.
type GameDeps struct {
	Screens   Screens
	HUD       HUD
	Out       Broadcaster
	Store     ProgressStore
	Runs      RunRecorder
	Analytics *Analytics
	Tuning    *Tuning
	Seed      int64 // 0 = seed from the clock
}

// Game is one player's run simulation. Everything mutable is guarded by mu;
// the tick goroutine and the websocket read pump are the only callers.
type Game struct {
	mu        sync.Mutex
	id        string
	world     *World
	state     *StateMachine
	screens   Screens
	hud       HUD
	out       Broadcaster
	store     ProgressStore
	progress  *Progress
	runs      RunRecorder
	analytics *Analytics
	profile   string

	score     int
	shards    int
	kills     int
	stage     int
	character string
	runID     string
	runStart  float64

	frame          uint64
	input          InputState
	jumpQueued     bool
	clickQueued    bool
	inputLockUntil float64
	options        []Upgrade
	grid           SpatialGrid

	stop     chan struct{}
	stopOnce sync.Once
}

// NewGame creates a game in the menu state
func NewGame(id string, deps GameDeps) *Game {
	t := DefaultTuning()
	if deps.Tuning != nil {
		t = *deps.Tuning
	}
	seed := deps.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		id:        id,
		world:     NewWorld(t, rand.New(rand.NewSource(seed))),
		state:     NewStateMachine(id),
		screens:   deps.Screens,
		hud:       deps.HUD,
		out:       deps.Out,
		store:     deps.Store,
		runs:      deps.Runs,
		analytics: deps.Analytics,
		stop:      make(chan struct{}),
	}
	if g.screens == nil {
		g.screens = nopScreens{}
	}
	if g.hud == nil {
		g.hud = nopScreens{}
	}
	if g.out == nil {
		g.out = nopBroadcaster{}
	}
	g.progress = NewProgress(g.store, ProfileKey(""))
	g.world.OnPlayerHit = g.onPlayerHit
	return g
}

// Run starts the game loop
func (g *Game) Run() {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.tick()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop. Safe to call before Run and more than once.
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// State returns the current flow state
func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Get()
}

// Score returns the current run score
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

// Stage returns the current stage number
func (g *Game) Stage() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stage
}

// Profile returns the profile name this game persists to ("" = default)
func (g *Game) Profile() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile
}

// SetProfile switches the progress record this game reads and writes.
// Rejected mid-run so a run persists to the record it started with.
func (g *Game) SetProfile(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy() {
		return fmt.Errorf("run in progress")
	}
	g.profile = name
	g.progress = NewProgress(g.store, ProfileKey(name))
	return nil
}

// Record returns the current progress record
func (g *Game) Record() ProgressRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.progress.Load()
}

// HandleInput stores the latest control state. Jump presses and clicks are
// latched until the next tick consumes them.
func (g *Game) HandleInput(in InputState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if in.Jump && !g.input.Jump {
		g.jumpQueued = true
	}
	if in.Click {
		g.clickQueued = true
	}
	g.input = in
}

// ShowMenu returns to the start screen. Ignored during a run.
func (g *Game) ShowMenu() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy() {
		return fmt.Errorf("run in progress")
	}
	g.toMenu()
	return nil
}

// ShowCharacterSelect lists the unlocked characters
func (g *Game) ShowCharacterSelect() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy() {
		return fmt.Errorf("run in progress")
	}
	rec := g.progress.Load()
	g.screens.ShowCharacterSelect(rec.UnlockedCharacters)
	return nil
}

// ShowShop opens the shop with the current record
func (g *Game) ShowShop() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy() {
		return fmt.Errorf("run in progress")
	}
	g.screens.ShowShop(StoreCatalog, g.progress.Load())
	return nil
}

// Buy purchases a shop item and refreshes the shop screen
func (g *Game) Buy(itemID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy() {
		return fmt.Errorf("run in progress")
	}
	rec, err := Purchase(g.progress, itemID)
	if err != nil {
		return err
	}
	g.analytics.Track(EvtPurchase, g.profile, g.id, map[string]interface{}{
		"item_id": itemID,
		"price":   StoreCatalogMap[itemID].Price,
	})
	g.screens.ShowShop(StoreCatalog, rec)
	return nil
}

// busy reports whether a run is being played or paused on the upgrade screen
func (g *Game) busy() bool {
	return g.state.Is(StateInGame) || g.state.Is(StateUpgradeScreen)
}

func (g *Game) toMenu() {
	g.state.Set(StateMenu)
	g.screens.ShowStart()
}

// StartRun begins a fresh run with an unlocked character
func (g *Game) StartRun(character string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy() {
		return fmt.Errorf("run in progress")
	}
	if character == "" {
		character = DefaultCharacter
	}
	if rec := g.progress.Load(); !rec.HasCharacter(character) {
		return fmt.Errorf("character %q is locked", character)
	}
	g.startRun(character)
	return nil
}

func (g *Game) startRun(character string) {
	w := g.world
	w.Reset()

	g.score, g.shards, g.kills, g.stage = 0, 0, 0, 1
	g.character = character
	g.runID = GenerateUUID()
	g.runStart = w.Now
	g.input = InputState{}
	g.jumpQueued, g.clickQueued = false, false
	g.options = nil

	w.GenerateArena(g.stage)
	w.Player = NewPlayer(w, PlayerSpawnX, PlayerSpawnY)
	w.Camera = NewCamera(w.Tuning.Camera)
	w.Camera.X, w.Camera.Y = PlayerSpawnX, PlayerSpawnY
	w.Populate(PlanForStage(g.stage, true))

	g.screens.HideAll()
	g.state.Set(StateInGame)
	g.sendArena()
	g.analytics.Track(EvtRunStart, g.profile, g.id, map[string]interface{}{"character": character})
	log.Printf("[%s] run %s started as %s", g.id, g.runID, character)
}

// SelectUpgrade applies one of the offered upgrades and moves to the next
// stage.
func (g *Game) SelectUpgrade(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.state.Is(StateUpgradeScreen) {
		return fmt.Errorf("no upgrade on offer")
	}
	u, ok := FindUpgrade(g.options, id)
	if !ok {
		return fmt.Errorf("unknown upgrade %q", id)
	}
	u.Apply(&g.world.State)
	g.options = nil
	g.nextStage()
	return nil
}

// nextStage regenerates the arena, resets the player to spawn, keeps the
// surviving enemies and replaces every block.
func (g *Game) nextStage() {
	w := g.world
	g.stage++
	w.GenerateArena(g.stage)
	if w.Player != nil {
		w.Player.Body.SetPosition(PlayerSpawnX, PlayerSpawnY)
		w.Player.Body.SetVelocity(0, 0)
	}
	g.score += StageClearBonus
	w.State.DashCharges = w.State.MaxDashCharges
	w.ClearBlocks()
	w.Populate(PlanForStage(g.stage, false))

	g.screens.HideAll()
	g.state.Set(StateInGame)
	g.sendArena()
}

// onPlayerHit is the explosion callback
func (g *Game) onPlayerHit() {
	w := g.world
	if w.Player != nil && w.Player.TakeDamage(w) {
		g.gameOver()
	}
}

// gameOver ends the run once: persist, show the result and lock input
func (g *Game) gameOver() {
	if !g.state.Is(StateInGame) {
		return
	}
	w := g.world
	g.state.Set(StateGameOver)

	g.progress.UpdateBestScore(g.score)
	g.progress.AddPermanentCurrency(g.shards)
	rec := g.progress.Load()
	earned := CheckAchievements(&rec, RunSummary{Score: g.score, Shards: g.shards, Kills: g.kills, Stage: g.stage})
	if len(earned) > 0 {
		g.progress.Save(rec)
		for _, a := range earned {
			g.analytics.Track(EvtAchievement, g.profile, g.id, map[string]string{"id": a.ID})
		}
	}

	g.input = InputState{}
	g.jumpQueued, g.clickQueued = false, false
	g.inputLockUntil = w.Now + GameOverLock

	g.screens.ShowGameOver(g.score, rec.BestScore, rec.PermanentCurrency)
	g.recordRun()
}

func (g *Game) recordRun() {
	secs := (g.world.Now - g.runStart) / 1000
	g.analytics.Track(EvtRunEnd, g.profile, g.id, map[string]interface{}{
		"score": g.score, "stage": g.stage, "kills": g.kills, "shards": g.shards,
	})
	if g.runs == nil {
		return
	}
	err := g.runs.RecordRun(RunRow{
		ID:       g.runID,
		Profile:  g.profile,
		Score:    g.score,
		Shards:   g.shards,
		Stage:    g.stage,
		Duration: secs,
		Char:     g.character,
	})
	if err != nil {
		log.Printf("[%s] %v", g.id, err)
	}
}

// tick runs one frame and broadcasts on every BroadcastEvery-th frame
func (g *Game) tick() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.step()
	if g.frame%BroadcastEvery == 0 {
		g.broadcastState()
	}
}

// step advances the simulated clock by one frame, drains due timers and
// runs the update for the current state.
func (g *Game) step() {
	w := g.world
	g.frame++
	w.Now = float64(g.frame) * FrameMillis
	w.Timers.Advance(w.Now)

	dt := 1.0 / float64(TickRate)
	switch g.state.Get() {
	case StateInGame:
		g.updateRun(dt)
	case StateGameOver:
		if g.clickQueued {
			g.clickQueued = false
			if w.Now >= g.inputLockUntil {
				g.toMenu()
			}
		}
		g.updateScenery(dt)
	default:
		g.updateScenery(dt)
	}
}

// updateScenery keeps particles and the camera alive outside of play
func (g *Game) updateScenery(dt float64) {
	w := g.world
	w.Particles.Update(dt)
	if x, y, ok := w.PlayerPos(); ok {
		w.Camera.Follow(x, y, 0)
	}
	w.Camera.Tick()
}

// updateRun is one in-game frame. Any phase may end the run (damage) or
// leave play (portal); later phases are skipped when that happens.
func (g *Game) updateRun(dt float64) {
	w := g.world
	p := w.Player
	if p == nil {
		return
	}
	w.Physics.Step(dt)

	in := g.input
	p.ApplyInput(w, in)
	p.UpdateState(w)
	if g.jumpQueued {
		g.jumpQueued = false
		p.Jump(w)
	}
	if in.Slash {
		p.TryStartSlash(w, in.MouseX, in.MouseY)
	}
	px, py, _ := w.PlayerPos()
	if in.Fire {
		w.Projectiles.Fire(px, py, in.MouseX, in.MouseY, w.State.LanceBounces)
	}

	for _, e := range w.Enemies {
		if e.Update(dt, w.Now, px, py, w.Rand) {
			w.Projectiles.FireEnemy(e.X, e.Y, px, py)
		}
	}
	w.Projectiles.Update(dt)

	res := w.ResolveCollisions(&g.grid)
	g.score += res.Score
	g.kills += res.Kills
	if res.PlayerDied {
		g.gameOver()
	}
	if !g.state.Is(StateInGame) {
		return
	}

	w.Shards.Update(dt, px, py)
	if n := w.Shards.Collect(px, py); n > 0 {
		g.shards += n
		g.score += n * ShardScore
	}

	w.UpdateBlocks()
	if !g.state.Is(StateInGame) {
		return
	}

	w.Camera.Follow(px, py, p.Speed())
	w.Camera.Tick()
	w.Particles.Update(dt)

	if g.frame%ScoreEveryFrames == 0 {
		g.score++
	}

	if w.Portal != nil && w.Portal.Reached(px, py) {
		g.enterPortal()
	}
	g.hud.UpdateHUD(g.hudState())
}

// enterPortal pauses play and offers the upgrade draw
func (g *Game) enterPortal() {
	g.state.Set(StateUpgradeScreen)
	g.options = DrawUpgrades(g.world.Rand, UpgradesOffered)
	g.screens.ShowUpgrade(g.options)
	g.analytics.Track(EvtStageClear, g.profile, g.id, map[string]int{"stage": g.stage, "score": g.score})
}

func (g *Game) hudState() HUDState {
	w := g.world
	return HUDState{
		Score:     g.score,
		Shards:    g.shards,
		Health:    w.State.Health,
		DashRatio: w.State.DashRatio(w.Now),
	}
}

func (g *Game) sendArena() {
	g.out.SendJSON(Envelope{T: MsgArena, Data: g.world.ArenaLayout(g.stage)})
}

// snapshot builds the broadcast frame
func (g *Game) snapshot() Snapshot {
	w := g.world
	snap := Snapshot{
		Tick:        g.frame,
		State:       string(g.state.Get()),
		Stage:       g.stage,
		Enemies:     make([]EnemyState, 0, len(w.Enemies)),
		Projectiles: make([]ProjectileState, 0, w.Projectiles.Len()),
		Shards:      make([]ShardState, 0, w.Shards.Len()),
		Blocks:      make([]BlockState, 0, len(w.Blocks)),
		Particles:   make([]ParticleState, 0, w.Particles.Len()),
		Camera:      w.Camera.ToState(),
		HUD:         g.hudState(),
	}
	if w.Player != nil {
		pv := w.Player.ToState(&w.State, w.Now)
		snap.Player = &pv
	}
	for _, e := range w.Enemies {
		snap.Enemies = append(snap.Enemies, e.ToState())
	}
	for _, p := range w.Projectiles.Items() {
		snap.Projectiles = append(snap.Projectiles, p.ToState())
	}
	for _, s := range w.Shards.Items() {
		snap.Shards = append(snap.Shards, s.ToState())
	}
	for _, b := range w.Blocks {
		snap.Blocks = append(snap.Blocks, b.ToState())
	}
	for _, p := range w.Particles.Items() {
		snap.Particles = append(snap.Particles, p.ToState())
	}
	if w.Portal != nil {
		ps := w.Portal.ToState()
		snap.Portal = &ps
	}
	return snap
}

// broadcastState sends the msgpack snapshot to the client
func (g *Game) broadcastState() {
	snap := g.snapshot()
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		log.Printf("[%s] snapshot marshal: %v", g.id, err)
		return
	}
	g.out.SendBinary(data)
}
