package main

import (
	"encoding/json"
	"log"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 120 // input frames arrive at up to 60 Hz
	hudDashStep       = 0.05
)

// Client represents a WebSocket connection. It is also the Screens, HUD and
// Broadcaster of its session's game.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	session    *Session
	remoteAddr string
	name       string
	msgCount   int
	msgResetAt time.Time
	// Auth state
	authID       int64  // 0 = anonymous
	authUsername string // "" = anonymous

	hudMu   sync.Mutex
	lastHUD HUDState
	hudSent bool
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
		name:       GenerateGuestName(),
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		if msgType == websocket.BinaryMessage {
			c.handleBinaryInput(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message
// Prefixes with 0xFF marker byte so WritePump can distinguish from text
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

func (c *Client) sendScreen(msg ScreenMsg) {
	c.SendJSON(Envelope{T: MsgScreen, Data: msg})
}

// ShowStart implements Screens
func (c *Client) ShowStart() {
	c.sendScreen(ScreenMsg{Screen: ScreenStart})
}

// ShowCharacterSelect implements Screens
func (c *Client) ShowCharacterSelect(unlocked []string) {
	c.sendScreen(ScreenMsg{Screen: ScreenCharacter, Unlocked: unlocked})
}

// ShowShop implements Screens
func (c *Client) ShowShop(catalog Catalog, record ProgressRecord) {
	c.sendScreen(ScreenMsg{Screen: ScreenShop, Catalog: catalog, Record: &record})
}

// ShowUpgrade implements Screens
func (c *Client) ShowUpgrade(options []Upgrade) {
	c.sendScreen(ScreenMsg{Screen: ScreenUpgrade, Options: options})
}

// ShowGameOver implements Screens
func (c *Client) ShowGameOver(score, best, currency int) {
	c.sendScreen(ScreenMsg{
		Screen:     ScreenGameOver,
		Score:      score,
		Best:       best,
		Currency:   currency,
		LockMillis: int(GameOverLock),
	})
}

// HideAll implements Screens
func (c *Client) HideAll() {
	c.sendScreen(ScreenMsg{Screen: ScreenNone})
}

// UpdateHUD implements HUD. Only changes are sent; the dash ratio is
// quantized so a cooldown does not produce a message every frame.
func (c *Client) UpdateHUD(s HUDState) {
	s.DashRatio = math.Round(s.DashRatio/hudDashStep) * hudDashStep
	c.hudMu.Lock()
	if c.hudSent && s == c.lastHUD {
		c.hudMu.Unlock()
		return
	}
	c.lastHUD = s
	c.hudSent = true
	c.hudMu.Unlock()
	c.SendJSON(Envelope{T: MsgHUD, Data: s})
}

func (c *Client) game() *Game {
	if c.session == nil {
		return nil
	}
	return c.session.Game
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}
	g := c.game()
	if g == nil {
		return
	}

	var err error
	switch env.T {
	case MsgStart:
		err = c.handleStart(g, env.D)
	case MsgUpgrade:
		var msg UpgradeMsg
		if json.Unmarshal(env.D, &msg) == nil {
			err = g.SelectUpgrade(msg.ID)
		}
	case MsgMenu:
		err = g.ShowMenu()
	case MsgShop:
		err = g.ShowShop()
	case MsgBuy:
		var msg BuyMsg
		if json.Unmarshal(env.D, &msg) == nil {
			err = g.Buy(msg.ID)
		}
	case MsgInput:
		var input ClientInput
		if json.Unmarshal(env.D, &input) == nil {
			g.HandleInput(input.ToInput())
		}
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	}
	if err != nil {
		c.sendError(err.Error())
	}
}

// handleStart opens character select without a character, else starts a run
func (c *Client) handleStart(g *Game, data json.RawMessage) error {
	var msg StartMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}
	}
	if msg.Character == "" {
		return g.ShowCharacterSelect()
	}
	return g.StartRun(msg.Character)
}

// handleBinaryInput decodes a compact 6-byte binary input frame
func (c *Client) handleBinaryInput(msg []byte) {
	g := c.game()
	if g == nil {
		return
	}
	in, err := DecodeInputFrame(msg)
	if err != nil {
		return
	}
	g.HandleInput(in)
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	ident, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.bindProfile(ident)
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	ident, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.bindProfile(ident)
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	ident, err := c.hub.auth.Resume(msg.Token)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.bindProfile(ident)
}

// bindProfile seats the connection on the profile and points the session's
// progress at the profile's record. A previously bound profile is freed.
func (c *Client) bindProfile(ident Identity) {
	g := c.game()
	if g == nil {
		return
	}
	auth := c.hub.auth
	if err := auth.Seat(ident.ID, c); err != nil {
		c.sendError(err.Error())
		return
	}
	if err := g.SetProfile(ident.Name); err != nil {
		if ident.ID != c.authID {
			auth.Unseat(ident.ID, c)
		}
		c.sendError(err.Error())
		return
	}
	if c.authID != 0 && c.authID != ident.ID {
		auth.Unseat(c.authID, c)
	}
	c.authID = ident.ID
	c.authUsername = ident.Name
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    ident.Token,
		Username: ident.Name,
		ID:       ident.ID,
	}})
	c.SendJSON(Envelope{T: MsgProgress, Data: g.Record()})
}
