package model

import (
	"testing"

	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/game"
	"github.com/veydras/realmd/internal/geom"
)

func TestProjectile_LifetimeExpiry(t *testing.T) {
	typ := content.GetProjectile("magic_bolt")
	owner := NewEntity(geom.Vec2{}, 0.3)
	p := NewProjectile(owner.ID(), SidePlayer, typ, geom.Vec2{X: 5, Y: 5}, 0, 10, false, 0.1)
	m := openMap(40)

	p.Update(0.05, m)
	if p.Removed() {
		t.Fatal("projectile died early")
	}
	p.Update(0.06, m)
	if !p.Removed() {
		t.Error("projectile outlived its lifetime")
	}
}

func TestProjectile_WallKill(t *testing.T) {
	typ := content.GetProjectile("magic_bolt") // speed 12
	owner := NewEntity(geom.Vec2{}, 0.3)
	p := NewProjectile(owner.ID(), SidePlayer, typ, geom.Vec2{X: 5.5, Y: 5.5}, 0, 10, false, 10)
	m := openMap(12)
	m.Set(6, 5, game.TileWall)

	p.Update(0.05, m) // moves 0.6 into the wall tile
	if !p.Removed() {
		t.Error("projectile survived entering a wall tile")
	}
}

func TestProjectile_HitSet(t *testing.T) {
	typ := content.GetProjectile("arrow")
	owner := NewEntity(geom.Vec2{}, 0.3)
	p := NewProjectile(owner.ID(), SidePlayer, typ, geom.Vec2{}, 0, 10, true, 1)

	victim := NewEntity(geom.Vec2{}, 0.3)
	if p.HasHit(victim.ID()) {
		t.Fatal("fresh projectile reports prior hit")
	}
	if !p.RecordHit(victim.ID()) {
		t.Fatal("RecordHit failed")
	}
	if !p.HasHit(victim.ID()) {
		t.Error("hit not recorded")
	}
}

func TestProjectile_HitSetBound(t *testing.T) {
	typ := content.GetProjectile("arrow")
	owner := NewEntity(geom.Vec2{}, 0.3)
	p := NewProjectile(owner.ID(), SidePlayer, typ, geom.Vec2{}, 0, 10, true, 1)

	for range constants.MaxHitTracked {
		v := NewEntity(geom.Vec2{}, 0.3)
		if !p.RecordHit(v.ID()) {
			t.Fatal("RecordHit failed below the cap")
		}
	}
	v := NewEntity(geom.Vec2{}, 0.3)
	if p.RecordHit(v.ID()) {
		t.Error("RecordHit succeeded past the cap")
	}
	if p.HitCount() != constants.MaxHitTracked {
		t.Errorf("HitCount() = %d, want %d", p.HitCount(), constants.MaxHitTracked)
	}
}
