package instance

import (
	"time"

	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/geom"
	"github.com/veydras/realmd/internal/model"
	"github.com/veydras/realmd/internal/protocol"
)

// UseAbility gates the player's equipped ability and executes its effect.
func (in *Instance) UseAbility(p *model.Player, now time.Time) {
	ab, ok := p.TryUseAbility()
	if !ok {
		return
	}
	in.ExecuteAbility(p, ab, now)
}

// ExecuteAbility applies one ability effect and broadcasts the visual
// event to nearby players.
func (in *Instance) ExecuteAbility(p *model.Player, ab *content.AbilitySpec, now time.Time) {
	pos := p.Pos
	switch ab.Effect {
	case content.EffectDamage:
		if !in.SafeZone {
			for _, e := range in.enemies {
				if e.Removed() || p.Pos.Dist(e.Pos) > ab.Radius {
					continue
				}
				dmg := max(ab.Damage-e.Def.Defense, 1)
				p.Counters.DamageDealt += int64(dmg)
				in.broadcastNear(e.Pos, protocol.MsgDamage, protocol.DamageEvent{
					TargetID: e.ID().String(),
					Amount:   dmg,
				})
				if e.TakeDamage(p.ID(), dmg) {
					in.handleEnemyDeath(e, p.ID(), now)
				}
			}
		}
	case content.EffectBuff:
		p.AddBuff(ab.Stat, ab.Amount, time.Duration(ab.Duration*float64(time.Second)), now)
	case content.EffectHeal:
		p.HP = min(p.HP+ab.Heal, p.EffectiveMaxHP())
	case content.EffectTeleport:
		aim := p.InputState().Aim
		pos = in.teleportDest(p, aim, ab.TeleportRange)
		p.Pos = pos
	}

	in.broadcastNear(pos, protocol.MsgAbilityEffect, protocol.AbilityEffectEvent{
		PlayerID: p.ID().String(),
		Effect:   string(ab.Effect),
		Pos:      protocol.Vec{X: pos.X, Y: pos.Y},
		Radius:   ab.Radius,
	})
}

// teleportDest walks the aim ray outward up to maxRange tiles and returns
// the farthest position the player can occupy.
func (in *Instance) teleportDest(p *model.Player, aim, maxRange float64) geom.Vec2 {
	dir := geom.FromAngle(aim)
	best := p.Pos
	const step = 0.25
	for d := step; d <= maxRange; d += step {
		candidate := p.Pos.Add(dir.Scale(d))
		if !in.Map.CanOccupy(candidate, p.Radius) {
			break
		}
		best = candidate
	}
	return best
}
