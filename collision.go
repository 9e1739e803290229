package main

import "math"

// CheckCollision checks if two circles overlap
func CheckCollision(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	radSum := r1 + r2
	return dx*dx+dy*dy < radSum*radSum
}

// CheckBoxCircle checks whether a circle overlaps the axis-aligned box
// centered at (bx, by) with half extents (hw, hh), by expanding the box by
// the circle radius.
func CheckBoxCircle(bx, by, hw, hh, cx, cy, r float64) bool {
	return math.Abs(cx-bx) < hw+r && math.Abs(cy-by) < hh+r
}

// CollisionResult summarizes one collision pass
type CollisionResult struct {
	Score      int
	Kills      int
	PlayerHits int
	PlayerDied bool
	BlocksHit  int
}

// ResolveCollisions runs the manual kinematic collision pass in order:
// hostile shots against the player, friendly shots against enemies, then
// friendly shots against blocks, then enemy bodies against the player.
// Every projectile is consumed by at most one hit.
func (w *World) ResolveCollisions(grid *SpatialGrid) CollisionResult {
	var res CollisionResult
	if w.Player == nil {
		return res
	}

	grid.Clear()
	for i, e := range w.Enemies {
		grid.InsertBox(e.X, e.Y, e.Size/2, e.Size/2, EntityRef{Kind: 'e', Idx: i})
	}
	for i, b := range w.Blocks {
		pos := b.Body.Position()
		grid.InsertBox(pos.X, pos.Y, b.Width/2, b.Height/2, EntityRef{Kind: 'b', Idx: i})
	}

	px, py, _ := w.PlayerPos()
	var buf []EntityRef
	for _, proj := range w.Projectiles.Items() {
		if !proj.Alive {
			continue
		}
		if proj.IsEnemy() {
			if CheckCollision(proj.X, proj.Y, proj.Radius, px, py, PlayerHitRadius) {
				proj.Alive = false
				res.PlayerHits++
				w.hurtPlayer(&res)
			}
			continue
		}

		buf = grid.QueryBuf(proj.X, proj.Y, proj.Radius, buf[:0])
		if e := w.firstEnemyHit(proj, buf); e != nil {
			proj.Alive = false
			if e.TakeDamage(ProjectileDamage) {
				w.killEnemy(e, &res)
			}
			continue
		}
		if b := w.firstBlockHit(proj, buf); b != nil {
			proj.Alive = false
			res.BlocksHit++
			b.Trigger(w)
		}
	}
	w.Projectiles.Compact()

	for _, e := range w.Enemies {
		if e.Dead {
			continue
		}
		if CheckBoxCircle(px, py, PlayerWidth/2, PlayerHeight/2, e.X, e.Y, e.Size/2) {
			w.hurtPlayer(&res)
		}
	}

	live := w.Enemies[:0]
	for _, e := range w.Enemies {
		if !e.Dead {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(w.Enemies); i++ {
		w.Enemies[i] = nil
	}
	w.Enemies = live
	return res
}

func (w *World) firstEnemyHit(proj *Projectile, refs []EntityRef) *Enemy {
	best := -1
	for _, ref := range refs {
		if ref.Kind != 'e' || (best >= 0 && ref.Idx >= best) {
			continue
		}
		e := w.Enemies[ref.Idx]
		if e.Dead {
			continue
		}
		if CheckCollision(proj.X, proj.Y, proj.Radius, e.X, e.Y, e.Size/2) {
			best = ref.Idx
		}
	}
	if best < 0 {
		return nil
	}
	return w.Enemies[best]
}

func (w *World) firstBlockHit(proj *Projectile, refs []EntityRef) *UnstableBlock {
	best := -1
	for _, ref := range refs {
		if ref.Kind != 'b' || (best >= 0 && ref.Idx >= best) {
			continue
		}
		b := w.Blocks[ref.Idx]
		if b.Removed {
			continue
		}
		pos := b.Body.Position()
		if CheckBoxCircle(pos.X, pos.Y, b.Width/2, b.Height/2, proj.X, proj.Y, proj.Radius) {
			best = ref.Idx
		}
	}
	if best < 0 {
		return nil
	}
	return w.Blocks[best]
}

// killEnemy drops a shard at the enemy's last position and, with the
// enemyExplode upgrade, may detonate it.
func (w *World) killEnemy(e *Enemy, res *CollisionResult) {
	res.Kills++
	res.Score += EnemyKillScore
	w.Shards.Spawn(e.X, e.Y)
	if w.State.EnemiesExplodeOnDeath && w.Rand.Float64() < EnemyExplodeChance {
		w.Explode(e.X, e.Y, EnemyExplodeRadius, ExplosionForce)
	}
}

func (w *World) hurtPlayer(res *CollisionResult) {
	if w.Player == nil {
		return
	}
	if w.Player.TakeDamage(w) {
		res.PlayerDied = true
	}
}
