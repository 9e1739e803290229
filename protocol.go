package main

import (
	"encoding/json"
	"errors"
)

// Client -> Server message types
const (
	MsgStart    = "start"   // start a run with a character
	MsgUpgrade  = "upgrade" // pick an offered upgrade
	MsgMenu     = "menu"    // back to the start screen
	MsgShop     = "shop"    // open the shop
	MsgBuy      = "buy"     // buy a catalog item
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth" // resume with a stored token
	MsgInput    = "input"
)

// Server -> Client message types
const (
	MsgWelcome  = "welcome"
	MsgScreen   = "screen"
	MsgArena    = "arena"
	MsgAuthOK   = "auth_ok"
	MsgError    = "error"
	MsgProgress = "progress"
	MsgHUD      = "hud"
)

// Screen names carried by MsgScreen
const (
	ScreenStart     = "start"
	ScreenCharacter = "character"
	ScreenShop      = "shop"
	ScreenUpgrade   = "upgrade"
	ScreenGameOver  = "gameover"
	ScreenNone      = "none"
)

// Input frame flag bits
const (
	InputLeft  = 1 << iota // A / ArrowLeft
	InputRight             // D / ArrowRight
	InputJump              // W / Space
	InputDash              // Shift
	InputSlash             // E
	InputFire              // mouse held
	InputClick             // mouse click edge
)

// InputFrameLen is the size of a binary input frame:
// [0x01, mx_hi, mx_lo, my_hi, my_lo, flags]
const InputFrameLen = 6

var errBadInputFrame = errors.New("bad input frame")

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is the JSON form of an input frame
type ClientInput struct {
	MX    float64 `json:"mx"` // mouse X (world coords)
	MY    float64 `json:"my"` // mouse Y (world coords)
	Left  bool    `json:"l"`
	Right bool    `json:"r"`
	Jump  bool    `json:"j"`
	Dash  bool    `json:"d"`
	Slash bool    `json:"s"`
	Fire  bool    `json:"f"`
	Click bool    `json:"c"`
}

// ToInput converts to the simulation's input state
func (ci ClientInput) ToInput() InputState {
	return InputState{
		MouseX: ci.MX, MouseY: ci.MY,
		Left: ci.Left, Right: ci.Right,
		Jump: ci.Jump, Dash: ci.Dash, Slash: ci.Slash,
		Fire: ci.Fire, Click: ci.Click,
	}
}

// DecodeInputFrame decodes a compact binary input frame. Mouse coordinates
// are unsigned world pixels.
func DecodeInputFrame(msg []byte) (InputState, error) {
	if len(msg) != InputFrameLen || msg[0] != 0x01 {
		return InputState{}, errBadInputFrame
	}
	flags := msg[5]
	return InputState{
		MouseX: float64(uint16(msg[1])<<8 | uint16(msg[2])),
		MouseY: float64(uint16(msg[3])<<8 | uint16(msg[4])),
		Left:   flags&InputLeft != 0,
		Right:  flags&InputRight != 0,
		Jump:   flags&InputJump != 0,
		Dash:   flags&InputDash != 0,
		Slash:  flags&InputSlash != 0,
		Fire:   flags&InputFire != 0,
		Click:  flags&InputClick != 0,
	}, nil
}

// EncodeInputFrame is the inverse of DecodeInputFrame. Coordinates are
// clamped to [0, 65535].
func EncodeInputFrame(in InputState) []byte {
	mx := uint16(Clamp(in.MouseX, 0, 65535))
	my := uint16(Clamp(in.MouseY, 0, 65535))
	var flags byte
	for _, f := range []struct {
		on  bool
		bit byte
	}{
		{in.Left, InputLeft}, {in.Right, InputRight}, {in.Jump, InputJump},
		{in.Dash, InputDash}, {in.Slash, InputSlash}, {in.Fire, InputFire},
		{in.Click, InputClick},
	} {
		if f.on {
			flags |= f.bit
		}
	}
	return []byte{0x01, byte(mx >> 8), byte(mx), byte(my >> 8), byte(my), flags}
}

// StartMsg starts a run
type StartMsg struct {
	Character string `json:"character"`
}

// UpgradeMsg picks one of the offered upgrades
type UpgradeMsg struct {
	ID string `json:"id"`
}

// BuyMsg buys a shop item
type BuyMsg struct {
	ID string `json:"id"`
}

// RegisterMsg creates a named profile
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg logs into a named profile
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg resumes a profile with a token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms a profile login
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	ID       int64  `json:"id"`
}

// WelcomeMsg is sent once after connecting
type WelcomeMsg struct {
	Session string `json:"sid"`
	Name    string `json:"name"`
}

// ScreenMsg tells the client which screen to show
type ScreenMsg struct {
	Screen     string          `json:"screen"`
	Unlocked   []string        `json:"unlocked,omitempty"`
	Catalog    Catalog         `json:"catalog,omitempty"`
	Record     *ProgressRecord `json:"record,omitempty"`
	Options    []Upgrade       `json:"options,omitempty"`
	Score      int             `json:"score,omitempty"`
	Best       int             `json:"best,omitempty"`
	Currency   int             `json:"currency,omitempty"`
	LockMillis int             `json:"lock,omitempty"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// PlayerView is the player's per-snapshot state
type PlayerView struct {
	X         float64    `msgpack:"x"`
	Y         float64    `msgpack:"y"`
	VX        float64    `msgpack:"vx"`
	VY        float64    `msgpack:"vy"`
	Health    int        `msgpack:"hp"`
	MaxHealth int        `msgpack:"mhp"`
	Dashing   bool       `msgpack:"d"`
	Invuln    bool       `msgpack:"i"`
	Grounded  bool       `msgpack:"g"`
	Sliding   bool       `msgpack:"w"`
	WallDir   int        `msgpack:"wd"`
	Slash     *SlashView `msgpack:"sl,omitempty"`
}

// SlashView is the active slash arc
type SlashView struct {
	From  float64 `msgpack:"a0"`
	To    float64 `msgpack:"a1"`
	Alpha float64 `msgpack:"al"`
	Range float64 `msgpack:"r"`
}

// EnemyState is broadcast per enemy
type EnemyState struct {
	ID    int     `msgpack:"id"`
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	VX    float64 `msgpack:"vx"`
	VY    float64 `msgpack:"vy"`
	State string  `msgpack:"s"`
	HP    int     `msgpack:"hp"`
}

// ProjectileState is broadcast per projectile
type ProjectileState struct {
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	R     float64 `msgpack:"r"`
	Enemy bool    `msgpack:"e"`
}

// ShardState is broadcast per shard
type ShardState struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	P float64 `msgpack:"p"` // pulse phase
}

// BlockState is broadcast per destructible block
type BlockState struct {
	X         float64 `msgpack:"x"`
	Y         float64 `msgpack:"y"`
	Type      string  `msgpack:"t"`
	Triggered bool    `msgpack:"tr"`
	Falling   bool    `msgpack:"f"`
}

// ParticleState is broadcast per particle
type ParticleState struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	S float64 `msgpack:"s"`
	A float64 `msgpack:"a"` // remaining life ratio
	C string  `msgpack:"c"`
}

// CameraState is the camera pose and shake
type CameraState struct {
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	Zoom  float64 `msgpack:"z"`
	Shake float64 `msgpack:"sm"`
	Dur   int     `msgpack:"sd"`
}

// PortalState is the stage exit
type PortalState struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	R float64 `json:"r" msgpack:"r"`
}

// BoxState is one static arena box
type BoxState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Label string  `json:"label"`
}

// ArenaMsg is the stage layout, sent as JSON once per generated stage
type ArenaMsg struct {
	Stage  int          `json:"stage"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Boxes  []BoxState   `json:"boxes"`
	Portal *PortalState `json:"portal,omitempty"`
}

// Snapshot is the msgpack frame broadcast every BroadcastEvery ticks
type Snapshot struct {
	Tick        uint64            `msgpack:"tick"`
	State       string            `msgpack:"st"`
	Stage       int               `msgpack:"sg"`
	Player      *PlayerView       `msgpack:"p,omitempty"`
	Enemies     []EnemyState      `msgpack:"e"`
	Projectiles []ProjectileState `msgpack:"pr"`
	Shards      []ShardState      `msgpack:"sh"`
	Blocks      []BlockState      `msgpack:"b"`
	Particles   []ParticleState   `msgpack:"pa"`
	Camera      CameraState       `msgpack:"c"`
	HUD         HUDState          `msgpack:"h"`
	Portal      *PortalState      `msgpack:"po,omitempty"`
}
