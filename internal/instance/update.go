package instance

import (
	"log/slog"
	"time"

	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/model"
)

// Update advances the instance by one tick. Stage order is fixed: commands,
// entity updates, combat, spawn, cleanup, snapshot. A panic inside the
// stages is contained to this instance and the cleanup stage still runs.
func (in *Instance) Update(dt float64, tick uint64, now time.Time) {
	in.tick = tick
	in.now = now

	func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("instance update panicked", "instance", in.ID, "tick", tick, "panic", r)
			}
			in.cleanup()
		}()

		in.drainCommands()
		in.updateEntities(dt, now)
		if !in.SafeZone {
			in.resolveCombat(now)
			in.runSpawns(dt)
		}
	}()

	if tick%constants.SnapshotEvery == 0 {
		in.emitSnapshots()
	}
}

func (in *Instance) updateEntities(dt float64, now time.Time) {
	for _, p := range in.players {
		if p.Removed() {
			continue
		}
		p.Update(dt, now, in.Map, in.SafeZone)
		if in.SafeZone {
			continue
		}
		if input := p.InputState(); input.Shooting {
			in.firePlayerWeapon(p, input.Aim)
		}
	}

	for _, e := range in.enemies {
		if e.Removed() {
			continue
		}
		target := in.acquireTarget(e)
		volleys := e.Update(dt, in.rng, in.Map, target)
		for _, v := range volleys {
			in.fireEnemyVolley(e, v)
		}
	}

	for _, proj := range in.projectiles {
		if !proj.Removed() {
			proj.Update(dt, in.Map)
		}
	}

	for _, bag := range in.loot {
		if !bag.Removed() {
			bag.Update(now)
		}
	}

	for _, portal := range in.portals {
		if !portal.Removed() {
			portal.Update(now)
		}
	}
}

// acquireTarget resolves the nearest live player within aggro range and
// stores the weak reference on the enemy.
func (in *Instance) acquireTarget(e *model.Enemy) *model.Player {
	var nearest *model.Player
	best := constants.EnemyAggroRange
	for _, p := range in.players {
		if p.Removed() {
			continue
		}
		if d := e.Pos.Dist(p.Pos); d <= best {
			best = d
			nearest = p
		}
	}
	if nearest == nil {
		e.TargetID = model.NilID
		return nil
	}
	e.TargetID = nearest.ID()
	return nearest
}

// FireWeapon discharges the player's weapon at the aim angle, honoring
// cooldown. Used by the explicit shoot message; the input path goes through
// the entity tick.
func (in *Instance) FireWeapon(p *model.Player, aim float64) {
	if !in.SafeZone {
		in.firePlayerWeapon(p, aim)
	}
}

// firePlayerWeapon discharges the player's weapon if off cooldown.
func (in *Instance) firePlayerWeapon(p *model.Player, aim float64) {
	for _, shot := range p.Fire(in.rng, aim) {
		in.SpawnProjectile(p.ID(), model.SidePlayer, shot.Projectile, p.Pos, shot.Angle, shot.Damage, shot.Pierce, shot.Lifetime)
	}
}

// fireEnemyVolley materializes an enemy attack fan, honoring the
// even-count half-gap offset.
func (in *Instance) fireEnemyVolley(e *model.Enemy, v model.Volley) {
	proj := contentProjectile(v.Attack.Projectile)
	if proj == nil {
		return
	}
	lifetime := v.Attack.Range / proj.Speed
	gap := v.Attack.ArcGapDeg * degToRad
	model.FanAngles(v.Aim, v.Attack.NumProjectiles, gap, func(angle float64) struct{} {
		in.SpawnProjectile(e.ID(), model.SideEnemy, proj, e.Pos, angle, v.Attack.Damage, false, lifetime)
		return struct{}{}
	})
}

// cleanup drains remove-flagged entities from every container.
func (in *Instance) cleanup() {
	for id, p := range in.players {
		if p.Removed() {
			delete(in.players, id)
		}
	}
	for id, e := range in.enemies {
		if e.Removed() {
			delete(in.enemies, id)
		}
	}
	for id, proj := range in.projectiles {
		if proj.Removed() {
			delete(in.projectiles, id)
		}
	}
	for id, bag := range in.loot {
		if bag.Removed() {
			delete(in.loot, id)
		}
	}
	for id, portal := range in.portals {
		if portal.Removed() {
			delete(in.portals, id)
		}
	}
}
