package instance

import (
	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/protocol"
)

// emitSnapshots builds one AOI-filtered view per resident player and hands
// it to the session layer. Soulbound bags are filtered per viewer.
func (in *Instance) emitSnapshots() {
	for viewerID, viewer := range in.players {
		if viewer.Removed() {
			continue
		}
		snap := protocol.Snapshot{
			Tick:   in.tick,
			SelfID: viewerID.String(),
			Self:   protocol.ViewSelf(viewer),
		}

		for _, p := range in.players {
			if p.Removed() || viewer.Pos.Dist(p.Pos) > constants.AOIRadius {
				continue
			}
			snap.Players = append(snap.Players, protocol.ViewPlayer(p))
		}
		for _, e := range in.enemies {
			if e.Removed() || viewer.Pos.Dist(e.Pos) > constants.AOIRadius {
				continue
			}
			snap.Enemies = append(snap.Enemies, protocol.ViewEnemy(e))
		}
		for _, proj := range in.projectiles {
			if proj.Removed() || viewer.Pos.Dist(proj.Pos) > constants.AOIRadius {
				continue
			}
			snap.Projectiles = append(snap.Projectiles, protocol.ViewProjectile(proj))
		}
		for _, bag := range in.loot {
			if bag.Removed() || viewer.Pos.Dist(bag.Pos) > constants.AOIRadius {
				continue
			}
			if !bag.VisibleTo(viewerID) {
				continue
			}
			snap.Loot = append(snap.Loot, protocol.ViewLoot(bag))
		}
		for _, portal := range in.portals {
			if portal.Removed() || viewer.Pos.Dist(portal.Pos) > constants.AOIRadius {
				continue
			}
			snap.Portals = append(snap.Portals, protocol.ViewPortal(portal))
		}
		for _, chest := range in.chests {
			if viewer.Pos.Dist(chest.Pos) > constants.AOIRadius {
				continue
			}
			snap.Chests = append(snap.Chests, protocol.ViewChest(chest))
		}

		in.send(viewerID, protocol.MsgSnapshot, snap)
	}
}
