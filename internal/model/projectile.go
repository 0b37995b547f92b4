package model

import (
	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/game"
	"github.com/veydras/realmd/internal/geom"
)

// Side identifies which faction fired a projectile.
type Side uint8

const (
	SidePlayer Side = iota
	SideEnemy
)

// Projectile is a ballistic entity. It damages entities of the opposite
// side only.
type Projectile struct {
	Entity

	OwnerID EntityID
	Side    Side
	Type    *content.ProjectileType

	Velocity geom.Vec2
	Damage   int
	Pierce   bool
	Lifetime float64 // seconds remaining

	hits map[EntityID]struct{}
}

// NewProjectile builds a projectile flying at the given angle.
func NewProjectile(owner EntityID, side Side, typ *content.ProjectileType, pos geom.Vec2, angle float64, damage int, pierce bool, lifetime float64) *Projectile {
	return &Projectile{
		Entity:   NewEntity(pos, typ.Radius),
		OwnerID:  owner,
		Side:     side,
		Type:     typ,
		Velocity: geom.FromAngle(angle).Scale(typ.Speed),
		Damage:   damage,
		Pierce:   pierce,
		Lifetime: lifetime,
	}
}

// Update advances the projectile; it dies on lifetime exhaustion or on
// entering a wall tile.
func (p *Projectile) Update(dt float64, m *game.TileMap) {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		p.MarkRemoved()
		return
	}
	p.Pos = p.Pos.Add(p.Velocity.Scale(dt))
	if !m.WalkableAt(p.Pos) {
		p.MarkRemoved()
	}
}

// HasHit reports whether the target was already damaged by this projectile.
func (p *Projectile) HasHit(id EntityID) bool {
	_, ok := p.hits[id]
	return ok
}

// RecordHit adds the target to the hit set. The set is bounded; once full,
// a piercing projectile stops registering new victims.
func (p *Projectile) RecordHit(id EntityID) bool {
	if p.hits == nil {
		p.hits = make(map[EntityID]struct{}, 4)
	}
	if len(p.hits) >= constants.MaxHitTracked {
		return false
	}
	p.hits[id] = struct{}{}
	return true
}

// HitCount returns the number of distinct victims.
func (p *Projectile) HitCount() int { return len(p.hits) }
