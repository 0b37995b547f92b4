package model

import (
	"math"
	"math/rand/v2"

	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/game"
	"github.com/veydras/realmd/internal/geom"
)

// Enemy is a hostile NPC resident in an instance.
type Enemy struct {
	Entity

	Def *content.Enemy
	HP  int

	// TargetID is a weak reference to the nearest player; never
	// lifetime-extending, re-resolved every tick.
	TargetID EntityID

	// DamageBy credits cumulative damage per attacker for loot attribution.
	DamageBy map[EntityID]int

	attackCooldowns []float64

	wanderTarget geom.Vec2
	wanderTimer  float64

	orbitAngle float64

	phaseIdx   int
	phaseTimer float64
	resting    bool
}

// NewEnemy builds an enemy from its definition at the given position.
func NewEnemy(def *content.Enemy, pos geom.Vec2) *Enemy {
	return &Enemy{
		Entity:          NewEntity(pos, def.Radius),
		Def:             def,
		HP:              def.MaxHP,
		DamageBy:        make(map[EntityID]int),
		attackCooldowns: make([]float64, len(def.Attacks)),
	}
}

// HPPercent returns current hp as a percentage of max.
func (e *Enemy) HPPercent() float64 {
	return 100 * float64(e.HP) / float64(e.Def.MaxHP)
}

// CurrentPhase returns the active phase index: the last phase whose
// threshold is >= current hp% (phases are stored in descending threshold
// order). Returns -1 for enemies without phases.
func (e *Enemy) CurrentPhase() int {
	if len(e.Def.Phases) == 0 {
		return -1
	}
	hpPct := e.HPPercent()
	idx := 0
	for i, ph := range e.Def.Phases {
		if ph.HPPercent >= hpPct {
			idx = i
		}
	}
	return idx
}

// Resting reports whether the phase system currently suppresses attacks.
func (e *Enemy) Resting() bool { return e.resting }

// attackAllowed reports whether attack i may fire in the current phase.
func (e *Enemy) attackAllowed(i int) bool {
	if len(e.Def.Phases) == 0 {
		return true
	}
	if e.resting {
		return false
	}
	ph := e.Def.Phases[e.phaseIdx]
	for _, ai := range ph.AttackIndices {
		if ai == i {
			return true
		}
	}
	return false
}

// TakeDamage applies damage, credits the attacker, and reports death.
func (e *Enemy) TakeDamage(attacker EntityID, dmg int) (dead bool) {
	if dmg <= 0 {
		return false
	}
	e.DamageBy[attacker] += dmg
	e.HP -= dmg
	return e.HP <= 0
}

// Volley is a fan of projectiles fired by one attack.
type Volley struct {
	Attack *content.EnemyAttack
	Aim    float64
}

// Update advances behavior, phase state and attack scheduling by one tick.
// target is the acquired player or nil; fired volleys are returned for the
// instance to materialize as projectiles.
func (e *Enemy) Update(dt float64, rng *rand.Rand, m *game.TileMap, target *Player) []Volley {
	e.updatePhase(dt)
	e.updateMovement(dt, rng, m, target)
	return e.updateAttacks(dt, target)
}

func (e *Enemy) updatePhase(dt float64) {
	if len(e.Def.Phases) == 0 {
		return
	}
	if cur := e.CurrentPhase(); cur != e.phaseIdx {
		e.phaseIdx = cur
		e.phaseTimer = 0
		e.resting = false
	}
	ph := e.Def.Phases[e.phaseIdx]
	e.phaseTimer += dt
	if e.resting {
		if e.phaseTimer >= ph.RestDuration {
			e.resting = false
			e.phaseTimer = 0
		}
	} else if e.phaseTimer >= ph.AttackDuration {
		e.resting = true
		e.phaseTimer = 0
	}
}

func (e *Enemy) updateMovement(dt float64, rng *rand.Rand, m *game.TileMap, target *Player) {
	switch e.Def.Behavior {
	case content.BehaviorStationary:
	case content.BehaviorChase:
		if target == nil || e.Pos.Dist(target.Pos) > e.Def.Range {
			e.wander(dt, rng, m)
			return
		}
		holdBack := 2.0
		if len(e.Def.Attacks) > 0 {
			holdBack = math.Max(2, e.Def.Attacks[0].Range*0.5)
		}
		if e.Pos.Dist(target.Pos) > holdBack {
			step := target.Pos.Sub(e.Pos).Normalize().Scale(e.Def.Speed * dt)
			e.moveTo(m, e.Pos.Add(step))
		}
	case content.BehaviorOrbit:
		if target == nil {
			e.wander(dt, rng, m)
			return
		}
		dist := e.Pos.Dist(target.Pos)
		if dist > e.Def.Range+1 {
			step := target.Pos.Sub(e.Pos).Normalize().Scale(e.Def.Speed * dt)
			e.moveTo(m, e.Pos.Add(step))
			return
		}
		e.orbitAngle += e.Def.OrbitSpeed * dt
		anchor := target.Pos.Add(geom.FromAngle(e.orbitAngle).Scale(e.Def.Range))
		step := anchor.Sub(e.Pos).Normalize().Scale(e.Def.Speed * dt)
		e.moveTo(m, e.Pos.Add(step))
	default: // wander
		e.wander(dt, rng, m)
	}
}

// wander steps axis-sign toward a periodically re-rolled nearby point.
// The jitter is intentional.
func (e *Enemy) wander(dt float64, rng *rand.Rand, m *game.TileMap) {
	e.wanderTimer -= dt
	if e.wanderTimer <= 0 {
		e.wanderTarget = geom.Vec2{
			X: e.Pos.X + (rng.Float64()*6 - 3),
			Y: e.Pos.Y + (rng.Float64()*6 - 3),
		}
		e.wanderTimer = 1 + rng.Float64()*2
	}
	step := geom.Vec2{
		X: sign(e.wanderTarget.X-e.Pos.X) * e.Def.Speed * dt,
		Y: sign(e.wanderTarget.Y-e.Pos.Y) * e.Def.Speed * dt,
	}
	if !e.moveTo(m, e.Pos.Add(step)) {
		e.wanderTimer = 0
	}
}

func (e *Enemy) moveTo(m *game.TileMap, next geom.Vec2) bool {
	if !m.CanOccupy(next, e.Radius) {
		return false
	}
	e.Pos = next
	return true
}

func (e *Enemy) updateAttacks(dt float64, target *Player) []Volley {
	var volleys []Volley
	for i := range e.Def.Attacks {
		atk := &e.Def.Attacks[i]
		if e.attackCooldowns[i] > 0 {
			e.attackCooldowns[i] -= dt
		}
		if e.attackCooldowns[i] > 0 || target == nil {
			continue
		}
		if e.Pos.Dist(target.Pos) > atk.Range || !e.attackAllowed(i) {
			continue
		}
		e.attackCooldowns[i] = 1 / atk.RateOfFire
		volleys = append(volleys, Volley{Attack: atk, Aim: e.aimAt(atk, target)})
	}
	return volleys
}

// aimAt returns the firing angle toward the target, extrapolating its
// position by projectile time-of-flight for predictive attacks.
func (e *Enemy) aimAt(atk *content.EnemyAttack, target *Player) float64 {
	aimPos := target.Pos
	if atk.Predictive {
		if proj := content.GetProjectile(atk.Projectile); proj != nil && proj.Speed > 0 {
			tof := e.Pos.Dist(target.Pos) / proj.Speed
			vel := target.InputState().Move.Scale(target.EffectiveSpeed())
			aimPos = target.Pos.Add(vel.Scale(tof))
		}
	}
	return aimPos.Sub(e.Pos).Angle()
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
