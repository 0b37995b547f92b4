// Package instance owns the simulation of one game world: its entity
// containers, the per-tick update pipeline and the AOI snapshot emit.
package instance

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/game"
	"github.com/veydras/realmd/internal/geom"
	"github.com/veydras/realmd/internal/model"
)

// Hooks wires an instance to the session and orchestration layers. All
// callbacks are invoked from the instance's tick context.
type Hooks struct {
	// Send delivers one outbound message to a resident player's session.
	Send func(playerID model.EntityID, msgType string, data any)

	// OnPlayerDeath runs the permadeath flow: persist the kill, detach the
	// session, push a fresh character list.
	OnPlayerDeath func(p *model.Player, killer string)

	// OnDungeonPortal asks the orchestrator to mint a dungeon instance and
	// returns its id ("" aborts the drop).
	OnDungeonPortal func(inst *Instance, dungeonID string, pos geom.Vec2) string

	// OnBossKilled asks the orchestrator for a return portal inside a
	// cleared dungeon.
	OnBossKilled func(inst *Instance, boss *model.Enemy)
}

// DungeonMeta is the extra state carried by dungeon instances.
type DungeonMeta struct {
	DefID            string
	BossCenter       geom.Vec2
	SourceInstanceID string
	BossKilled       bool
	InitialSpawnDone bool

	// PlayerSpawn is the first arrival's spawn, reused for everyone after.
	PlayerSpawn    geom.Vec2
	PlayerSpawnSet bool
}

// Instance is one isolated game world. All mutation happens on the tick
// goroutine; other goroutines communicate through Enqueue.
type Instance struct {
	ID       string
	Kind     model.InstanceKind
	Map      *game.TileMap
	SafeZone bool

	Dungeon *DungeonMeta

	players     map[model.EntityID]*model.Player
	enemies     map[model.EntityID]*model.Enemy
	projectiles map[model.EntityID]*model.Projectile
	loot        map[model.EntityID]*model.LootBag
	portals     map[model.EntityID]*model.Portal
	chests      map[model.EntityID]*model.VaultChest

	regionTimers []float64

	rng   *rand.Rand
	hooks Hooks
	tick  uint64
	now   time.Time

	cmdMu    sync.Mutex
	commands []func(*Instance)
}

// New creates an instance over an immutable map.
func New(id string, kind model.InstanceKind, m *game.TileMap, hooks Hooks) *Instance {
	inst := &Instance{
		ID:           id,
		Kind:         kind,
		Map:          m,
		SafeZone:     kind == model.KindNexus || kind == model.KindVault,
		players:      make(map[model.EntityID]*model.Player),
		enemies:      make(map[model.EntityID]*model.Enemy),
		projectiles:  make(map[model.EntityID]*model.Projectile),
		loot:         make(map[model.EntityID]*model.LootBag),
		portals:      make(map[model.EntityID]*model.Portal),
		chests:       make(map[model.EntityID]*model.VaultChest),
		regionTimers: make([]float64, len(m.Regions)),
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		hooks:        hooks,
	}
	return inst
}

// Enqueue schedules fn to run at the head of the next tick. Safe from any
// goroutine.
func (in *Instance) Enqueue(fn func(*Instance)) {
	in.cmdMu.Lock()
	in.commands = append(in.commands, fn)
	in.cmdMu.Unlock()
}

func (in *Instance) drainCommands() {
	in.cmdMu.Lock()
	cmds := in.commands
	in.commands = nil
	in.cmdMu.Unlock()
	for _, fn := range cmds {
		fn(in)
	}
}

// Now returns the current simulation time, valid inside command and hook
// callbacks.
func (in *Instance) Now() time.Time {
	if in.now.IsZero() {
		return time.Now()
	}
	return in.now
}

// PlayerCount returns the number of resident players. Tick context only.
func (in *Instance) PlayerCount() int { return len(in.players) }

// Player returns a resident player by id, or nil.
func (in *Instance) Player(id model.EntityID) *model.Player { return in.players[id] }

// Players iterates resident players.
func (in *Instance) Players(fn func(*model.Player) bool) {
	for _, p := range in.players {
		if !fn(p) {
			return
		}
	}
}

// Enemy returns an enemy by id, or nil.
func (in *Instance) Enemy(id model.EntityID) *model.Enemy { return in.enemies[id] }

// chooseSpawnPos picks a random spawn tile, falling back to the map's
// fixed spawn point.
func (in *Instance) chooseSpawnPos() geom.Vec2 {
	var spawnTiles []geom.Vec2
	for y := range in.Map.Height {
		for x := range in.Map.Width {
			if in.Map.At(x, y) == game.TileSpawn {
				spawnTiles = append(spawnTiles, geom.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			}
		}
	}
	if len(spawnTiles) == 0 {
		return in.Map.SpawnPoint
	}
	return spawnTiles[in.rng.IntN(len(spawnTiles))]
}

// AddPlayer places a player at the instance's spawn position. For dungeons
// the first arrival's spawn is cached and reused for everyone after.
func (in *Instance) AddPlayer(p *model.Player) {
	pos := in.chooseSpawnPos()
	if in.Dungeon != nil {
		if in.Dungeon.PlayerSpawnSet {
			pos = in.Dungeon.PlayerSpawn
		} else {
			in.Dungeon.PlayerSpawn = pos
			in.Dungeon.PlayerSpawnSet = true
		}
	}
	p.Pos = pos
	p.InstanceID = in.ID
	in.players[p.ID()] = p
}

// RemovePlayer detaches a player and returns the entity for the caller to
// persist, or nil if not resident.
func (in *Instance) RemovePlayer(id model.EntityID) *model.Player {
	p, ok := in.players[id]
	if !ok {
		return nil
	}
	delete(in.players, id)
	return p
}

// TryEnterPortal returns the portal iff it exists, is not flagged for
// removal and the player stands within interaction range. The blink
// visibility flag is not checked. The player is not moved.
func (in *Instance) TryEnterPortal(p *model.Player, portalID model.EntityID) *model.Portal {
	portal, ok := in.portals[portalID]
	if !ok || portal.Removed() {
		return nil
	}
	if p.Pos.Dist(portal.Pos) > constants.PortalInteractRange {
		return nil
	}
	return portal
}

// TryPickupLoot moves the first item of a bag into the player's first free
// inventory slot. Fails silently when out of range, soulbound to another
// player, or the inventory is full.
func (in *Instance) TryPickupLoot(p *model.Player, lootID model.EntityID) bool {
	bag, ok := in.loot[lootID]
	if !ok || bag.Removed() {
		return false
	}
	if p.Pos.Dist(bag.Pos) > constants.PickupRange {
		return false
	}
	if bag.Soulbound && bag.OwnerID != p.ID() {
		return false
	}
	slot := p.FirstFreeInventorySlot()
	if slot < 0 {
		return false
	}
	item, ok := bag.TakeFirst()
	if !ok {
		return false
	}
	p.Inventory[slot] = item
	return true
}

// DropItem drops an item at the player's feet: merged into a nearby bag of
// the same owner and soulbound flag when possible, otherwise a fresh
// 60-second bag. Soulbound items only ever land in soulbound bags.
func (in *Instance) DropItem(p *model.Player, itemID string, now time.Time) {
	it := content.GetItem(itemID)
	if it == nil {
		return
	}
	soulbound := it.Soulbound
	owner := model.NilID
	if soulbound {
		owner = p.ID()
	}

	for _, bag := range in.loot {
		if bag.Removed() || bag.Soulbound != soulbound {
			continue
		}
		if soulbound && bag.OwnerID != p.ID() {
			continue
		}
		if bag.Pos.Dist(p.Pos) >= 0.5 {
			continue
		}
		if bag.Add(itemID) {
			return
		}
	}

	bag := model.NewLootBag(p.Pos, []string{itemID}, now.Add(constants.LootDespawn), owner, soulbound)
	in.loot[bag.ID()] = bag
	in.announceLoot(bag)
}

// SpawnEnemy creates an enemy from its definition. Unknown ids are dropped.
func (in *Instance) SpawnEnemy(defID string, pos geom.Vec2) *model.Enemy {
	def := content.GetEnemy(defID)
	if def == nil {
		return nil
	}
	e := model.NewEnemy(def, pos)
	in.enemies[e.ID()] = e
	return e
}

// SpawnProjectile adds a projectile entity.
func (in *Instance) SpawnProjectile(owner model.EntityID, side model.Side, typ *content.ProjectileType, pos geom.Vec2, angle float64, damage int, pierce bool, lifetime float64) *model.Projectile {
	proj := model.NewProjectile(owner, side, typ, pos, angle, damage, pierce, lifetime)
	in.projectiles[proj.ID()] = proj
	return proj
}

// AddPortal adds a portal entity.
func (in *Instance) AddPortal(portal *model.Portal) {
	in.portals[portal.ID()] = portal
}

// AddChest places a vault chest.
func (in *Instance) AddChest(chest *model.VaultChest) {
	in.chests[chest.ID()] = chest
}

// ChestInRange returns a chest within interaction range of the player.
func (in *Instance) ChestInRange(p *model.Player) *model.VaultChest {
	for _, c := range in.chests {
		if p.Pos.Dist(c.Pos) <= constants.VaultChestInteractRange {
			return c
		}
	}
	return nil
}

// send delivers to one player, tolerating a missing hook in tests.
func (in *Instance) send(playerID model.EntityID, msgType string, data any) {
	if in.hooks.Send != nil {
		in.hooks.Send(playerID, msgType, data)
	}
}

// broadcastNear delivers to all resident players within AOI of pos.
func (in *Instance) broadcastNear(pos geom.Vec2, msgType string, data any) {
	for id, p := range in.players {
		if p.Pos.Dist(pos) <= constants.AOIRadius {
			in.send(id, msgType, data)
		}
	}
}

// broadcastAll delivers to every resident player.
func (in *Instance) broadcastAll(msgType string, data any) {
	for id := range in.players {
		in.send(id, msgType, data)
	}
}

// Broadcast delivers to every resident player. Tick context only.
func (in *Instance) Broadcast(msgType string, data any) {
	in.broadcastAll(msgType, data)
}

// Send delivers to one resident player. Tick context only.
func (in *Instance) Send(playerID model.EntityID, msgType string, data any) {
	in.send(playerID, msgType, data)
}
