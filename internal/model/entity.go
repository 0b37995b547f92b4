package model

import (
	"github.com/google/uuid"

	"github.com/veydras/realmd/internal/geom"
)

// EntityID is the globally unique identity of an entity. An entity lives in
// exactly one instance; (instanceID, EntityID) is the canonical reference.
type EntityID = uuid.UUID

// NilID is the zero EntityID.
var NilID = uuid.Nil

// InstanceKind classifies a world instance.
type InstanceKind string

const (
	KindNexus   InstanceKind = "nexus"
	KindRealm   InstanceKind = "realm"
	KindDungeon InstanceKind = "dungeon"
	KindVault   InstanceKind = "vault"
)

// Entity is the kernel embedded by every concrete entity: identity,
// position, collision radius and the removal latch honored by the cleanup
// stage.
type Entity struct {
	id      EntityID
	Pos     geom.Vec2
	Radius  float64
	removed bool
}

// NewEntity creates an entity kernel with a fresh id.
func NewEntity(pos geom.Vec2, radius float64) Entity {
	return Entity{id: uuid.New(), Pos: pos, Radius: radius}
}

// ID returns the entity id.
func (e *Entity) ID() EntityID { return e.id }

// Removed reports whether the entity is flagged for cleanup.
func (e *Entity) Removed() bool { return e.removed }

// MarkRemoved latches the removal flag; the cleanup stage drains the entity
// at the end of the tick.
func (e *Entity) MarkRemoved() { e.removed = true }

// DistTo returns the distance between entity centers.
func (e *Entity) DistTo(o *Entity) float64 { return e.Pos.Dist(o.Pos) }

// Overlaps reports whether the entity circles intersect.
func (e *Entity) Overlaps(o *Entity) bool {
	return geom.CirclesOverlap(e.Pos, e.Radius, o.Pos, o.Radius)
}
