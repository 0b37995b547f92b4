package model

import (
	"time"

	"github.com/veydras/realmd/internal/geom"
)

// LootBag holds up to 8 dropped items. A soulbound bag belongs to one
// player and is replicated only to them.
const LootBagCapacity = 8

// LootBag is a dropped-item container entity.
type LootBag struct {
	Entity

	Items     []string
	DespawnAt time.Time
	OwnerID   EntityID
	Soulbound bool
}

// NewLootBag builds a bag holding the given items. Soulbound implies an
// owner.
func NewLootBag(pos geom.Vec2, items []string, despawnAt time.Time, owner EntityID, soulbound bool) *LootBag {
	return &LootBag{
		Entity:    NewEntity(pos, 0.4),
		Items:     items,
		DespawnAt: despawnAt,
		OwnerID:   owner,
		Soulbound: soulbound,
	}
}

// VisibleTo reports whether the viewer may see this bag in snapshots.
func (b *LootBag) VisibleTo(viewer EntityID) bool {
	return !b.Soulbound || b.OwnerID == viewer
}

// TakeFirst pops the first item. An emptied bag flags itself for removal.
func (b *LootBag) TakeFirst() (string, bool) {
	if len(b.Items) == 0 {
		return "", false
	}
	item := b.Items[0]
	b.Items = b.Items[1:]
	if len(b.Items) == 0 {
		b.MarkRemoved()
	}
	return item, true
}

// Add appends an item; fails when the bag is full.
func (b *LootBag) Add(item string) bool {
	if len(b.Items) >= LootBagCapacity {
		return false
	}
	b.Items = append(b.Items, item)
	return true
}

// Update expires the bag.
func (b *LootBag) Update(now time.Time) {
	if now.After(b.DespawnAt) {
		b.MarkRemoved()
	}
}
