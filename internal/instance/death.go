package instance

import (
	"time"

	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/model"
	"github.com/veydras/realmd/internal/protocol"
)

// handleEnemyDeath awards xp, rolls loot with soulbound attribution,
// seeds dungeon portals for designated enemies and latches dungeon boss
// kills.
func (in *Instance) handleEnemyDeath(e *model.Enemy, killerID model.EntityID, now time.Time) {
	e.MarkRemoved()

	in.broadcastNear(e.Pos, protocol.MsgDeath, protocol.DeathEvent{EntityID: e.ID().String()})

	if killer := in.players[killerID]; killer != nil {
		killer.Counters.EnemiesKilled++
		if levels := killer.GainExp(e.Def.XP); levels > 0 {
			in.send(killer.ID(), protocol.MsgLevelUp, protocol.LevelUpEvent{
				Level: killer.Level,
				MaxHP: killer.EffectiveMaxHP(),
				MaxMP: killer.EffectiveMaxMP(),
			})
		}
	}

	in.rollLoot(e, now)

	if e.Def.PortalDrop != "" && in.rng.Float64() < e.Def.PortalChance {
		in.dropDungeonPortal(e, now)
	}

	if in.Dungeon != nil && e.Def.Boss && !in.Dungeon.BossKilled {
		in.Dungeon.BossKilled = true
		for _, p := range in.players {
			p.Counters.DungeonsCleared++
		}
		if in.hooks.OnBossKilled != nil {
			in.hooks.OnBossKilled(in, e)
		}
	}
}

// rollLoot rolls the loot table once per entry. Soulbound entries spawn a
// private bag per qualifying player (>= 5% of max hp attributed); public
// entries share a single bag.
func (in *Instance) rollLoot(e *model.Enemy, now time.Time) {
	threshold := int(float64(e.Def.MaxHP) * constants.SoulboundThreshold)
	var qualifying []model.EntityID
	for id, dmg := range e.DamageBy {
		if dmg >= threshold {
			qualifying = append(qualifying, id)
		}
	}

	var public []string
	perOwner := make(map[model.EntityID][]string)
	for _, drop := range e.Def.Loot {
		if drop.Soulbound {
			for _, owner := range qualifying {
				if in.rng.Float64() < drop.Chance {
					perOwner[owner] = append(perOwner[owner], drop.ItemID)
				}
			}
			continue
		}
		if in.rng.Float64() < drop.Chance {
			public = append(public, drop.ItemID)
		}
	}

	despawn := now.Add(constants.LootDespawn)
	if len(public) > 0 {
		bag := model.NewLootBag(e.Pos, public, despawn, model.NilID, false)
		in.loot[bag.ID()] = bag
		in.announceLoot(bag)
	}
	for owner, items := range perOwner {
		if in.players[owner] == nil {
			continue // qualifier already left or died
		}
		bag := model.NewLootBag(e.Pos, items, despawn, owner, true)
		in.loot[bag.ID()] = bag
		in.announceLoot(bag)
	}
}

// announceLoot broadcasts a public bag to nearby players, or a soulbound
// bag to its owner alone.
func (in *Instance) announceLoot(bag *model.LootBag) {
	event := protocol.LootSpawnEvent{Loot: protocol.ViewLoot(bag)}
	if bag.Soulbound {
		in.send(bag.OwnerID, protocol.MsgLootSpawn, event)
		return
	}
	in.broadcastNear(bag.Pos, protocol.MsgLootSpawn, event)
}

// dropDungeonPortal asks the orchestrator for a fresh dungeon and plants a
// timed portal at the death point.
func (in *Instance) dropDungeonPortal(e *model.Enemy, now time.Time) {
	if in.hooks.OnDungeonPortal == nil {
		return
	}
	dungeonID := in.hooks.OnDungeonPortal(in, e.Def.PortalDrop, e.Pos)
	if dungeonID == "" {
		return
	}
	def := content.GetDungeon(e.Def.PortalDrop)
	name := e.Def.PortalDrop
	if def != nil {
		name = def.Name
	}
	portal := model.NewPortal(e.Pos, dungeonID, model.KindDungeon, name, now, now.Add(constants.DungeonPortalExpiry))
	in.AddPortal(portal)
}
