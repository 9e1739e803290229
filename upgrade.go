package main

import "math/rand"

// Upgrade is a run-scoped perk offered at each portal
type Upgrade struct {
	ID    string `json:"id" msgpack:"id"`
	Text  string `json:"text" msgpack:"text"`
	apply func(*PlayerState)
}

// Apply applies the upgrade to the player record
func (u Upgrade) Apply(st *PlayerState) {
	if u.apply != nil {
		u.apply(st)
	}
}

// UpgradePool is the fixed set of run upgrades
var UpgradePool = []Upgrade{
	{ID: "lanceBounce", Text: "Data Lance bounces off walls 3 times.", apply: func(s *PlayerState) { s.LanceBounces = 3 }},
	{ID: "doubleDash", Text: "Gain a second Dash charge.", apply: func(s *PlayerState) { s.MaxDashCharges = 2 }},
	{ID: "bigBoom", Text: "Volatile Block explosions are 50% larger.", apply: func(s *PlayerState) { s.VolatileExplosionSize = 1.5 }},
	{ID: "wallBoost", Text: "Wall-jumps are 30% stronger.", apply: func(s *PlayerState) { s.StrongerWallJumps = 1.3 }},
	{ID: "enemyExplode", Text: "Enemies have a 25% chance to explode on death.", apply: func(s *PlayerState) { s.EnemiesExplodeOnDeath = true }},
	{ID: "quadJump", Text: "Gain an extra mid-air jump.", apply: func(s *PlayerState) { s.MaxJumps = 4 }},
}

// UpgradesOffered is how many upgrades the portal screen shows
const UpgradesOffered = 3

// DrawUpgrades picks n distinct upgrades at random
func DrawUpgrades(rng *rand.Rand, n int) []Upgrade {
	pool := make([]Upgrade, len(UpgradePool))
	copy(pool, UpgradePool)
	picks := make([]Upgrade, 0, n)
	for i := 0; i < n && len(pool) > 0; i++ {
		idx := rng.Intn(len(pool))
		picks = append(picks, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return picks
}

// FindUpgrade returns the upgrade with the given id among options
func FindUpgrade(options []Upgrade, id string) (Upgrade, bool) {
	for _, u := range options {
		if u.ID == id {
			return u, true
		}
	}
	return Upgrade{}, false
}
