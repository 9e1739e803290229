package main

import (
	"math"

	"github.com/google/uuid"
)

// GenerateUUID returns a random (v4) UUID string
func GenerateUUID() string {
	return uuid.NewString()
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Distance returns the distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// round1 rounds to one decimal for the wire
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds to two decimals (angles, alphas)
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
