package instance

import (
	"math"
	"time"

	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/model"
	"github.com/veydras/realmd/internal/protocol"
)

const degToRad = math.Pi / 180

func contentProjectile(id string) *content.ProjectileType {
	return content.GetProjectile(id)
}

// resolveCombat tests every live projectile against every opposed-side
// target. Iteration order across targets is not significant: the hit set
// prevents double counting and a non-piercing projectile is spent on its
// first hit.
func (in *Instance) resolveCombat(now time.Time) {
	for _, proj := range in.projectiles {
		if proj.Removed() {
			continue
		}
		switch proj.Side {
		case model.SidePlayer:
			in.projectileVsEnemies(proj, now)
		case model.SideEnemy:
			in.projectileVsPlayers(proj, now)
		}
	}
}

func (in *Instance) projectileVsEnemies(proj *model.Projectile, now time.Time) {
	for _, e := range in.enemies {
		if e.Removed() || proj.Removed() {
			continue
		}
		if proj.HasHit(e.ID()) || !proj.Overlaps(&e.Entity) {
			continue
		}
		if !proj.RecordHit(e.ID()) {
			continue
		}
		dmg := max(proj.Damage-e.Def.Defense, 1)
		if !proj.Pierce {
			proj.MarkRemoved()
		}

		if attacker := in.players[proj.OwnerID]; attacker != nil {
			attacker.Counters.DamageDealt += int64(dmg)
		}
		dead := e.TakeDamage(proj.OwnerID, dmg)

		in.broadcastNear(e.Pos, protocol.MsgDamage, protocol.DamageEvent{
			TargetID: e.ID().String(),
			Amount:   dmg,
		})
		if dead {
			in.handleEnemyDeath(e, proj.OwnerID, now)
		}
	}
}

func (in *Instance) projectileVsPlayers(proj *model.Projectile, now time.Time) {
	for _, p := range in.players {
		if p.Removed() || proj.Removed() {
			continue
		}
		if proj.HasHit(p.ID()) || !proj.Overlaps(&p.Entity) {
			continue
		}
		if !proj.RecordHit(p.ID()) {
			continue
		}
		raw := proj.Damage
		dmg := max(int(math.Floor(float64(raw)*0.15)), raw-p.EffectiveDefense())
		if !proj.Pierce {
			proj.MarkRemoved()
		}

		p.HP -= dmg
		p.LastHit = now
		p.Counters.DamageTaken += int64(dmg)

		in.send(p.ID(), protocol.MsgDamage, protocol.DamageEvent{
			TargetID: p.ID().String(),
			Amount:   dmg,
		})
		if p.HP <= 0 {
			in.handlePlayerDeath(p, proj)
		}
	}
}

// handlePlayerDeath runs permadeath: the entity leaves the instance and the
// orchestration hook persists the loss and resets the session.
func (in *Instance) handlePlayerDeath(p *model.Player, killer *model.Projectile) {
	p.HP = 0
	p.MarkRemoved()

	killerName := ""
	if e := in.enemies[killer.OwnerID]; e != nil {
		killerName = e.Def.Name
	}
	in.send(p.ID(), protocol.MsgDeath, protocol.DeathEvent{
		EntityID: p.ID().String(),
		Killer:   killerName,
	})
	in.broadcastNear(p.Pos, protocol.MsgDeath, protocol.DeathEvent{
		EntityID: p.ID().String(),
		Killer:   killerName,
	})
	if in.hooks.OnPlayerDeath != nil {
		in.hooks.OnPlayerDeath(p, killerName)
	}
}
