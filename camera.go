package main

import "math"

const (
	CameraLerp         = 0.08
	CameraZoomSpeed    = 0.01
	CameraZoomSpeedRef = 3600.0 // px/s of player speed per unit of zoom-out
	CameraMaxZoomOut   = 0.2
)

// Camera follows the player with smoothing, zooms out with speed and
// carries the screen-shake counters.
type Camera struct {
	X, Y           float64
	Zoom           float64
	TargetZoom     float64
	ShakeDuration  int // frames
	ShakeMagnitude float64
	lerp           float64
	zoomSpeed      float64
}

// NewCamera creates a camera at the origin with unit zoom
func NewCamera(t CameraTuning) *Camera {
	return &Camera{Zoom: 1, TargetZoom: 1, lerp: t.Lerp, zoomSpeed: t.ZoomSpeed}
}

// Follow moves toward (x, y) and retargets zoom from the player's speed in px/s
func (c *Camera) Follow(x, y, speed float64) {
	c.X += (x - c.X) * c.lerp
	c.Y += (y - c.Y) * c.lerp
	c.TargetZoom = 1 - math.Min(speed/CameraZoomSpeedRef, CameraMaxZoomOut)
	c.Zoom += (c.TargetZoom - c.Zoom) * c.zoomSpeed
}

// Shake replaces any running shake
func (c *Camera) Shake(frames int, magnitude float64) {
	c.ShakeDuration = frames
	c.ShakeMagnitude = magnitude
}

// Tick decrements the shake counter once per frame
func (c *Camera) Tick() {
	if c.ShakeDuration > 0 {
		c.ShakeDuration--
		if c.ShakeDuration == 0 {
			c.ShakeMagnitude = 0
		}
	}
}

// ToState converts to protocol state
func (c *Camera) ToState() CameraState {
	return CameraState{
		X:     round1(c.X),
		Y:     round1(c.Y),
		Zoom:  math.Round(c.Zoom*1000) / 1000,
		Shake: c.ShakeMagnitude,
		Dur:   c.ShakeDuration,
	}
}
