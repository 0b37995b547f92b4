package protocol

import (
	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/model"
)

// Snapshot is the per-client AOI-filtered world view emitted at 10 Hz.
type Snapshot struct {
	Tick        uint64           `msgpack:"tick"`
	SelfID      string           `msgpack:"selfId"`
	Players     []PlayerView     `msgpack:"players"`
	Enemies     []EnemyView      `msgpack:"enemies"`
	Projectiles []ProjectileView `msgpack:"projectiles"`
	Loot        []LootView       `msgpack:"loot"`
	Portals     []PortalView     `msgpack:"portals"`
	Chests      []ChestView      `msgpack:"chests"`
	Self        *SelfView        `msgpack:"self,omitempty"`
}

// PlayerView projects the fields any client may see of a player.
type PlayerView struct {
	ID      string  `msgpack:"id"`
	Name    string  `msgpack:"name"`
	ClassID string  `msgpack:"classId"`
	Pos     Vec     `msgpack:"pos"`
	HP      int     `msgpack:"hp"`
	MaxHP   int     `msgpack:"maxHp"`
	Level   int     `msgpack:"level"`
	Aim     float64 `msgpack:"aim"`
}

// SelfView extends the viewer's own entry with private state.
type SelfView struct {
	MP        int      `msgpack:"mp"`
	MaxMP     int      `msgpack:"maxMp"`
	Exp       int      `msgpack:"exp"`
	ExpNext   int      `msgpack:"expNext"`
	Equipment []string `msgpack:"equipment"`
	Inventory []string `msgpack:"inventory"`
}

type EnemyView struct {
	ID    string `msgpack:"id"`
	DefID string `msgpack:"defId"`
	Pos   Vec    `msgpack:"pos"`
	HP    int    `msgpack:"hp"`
	MaxHP int    `msgpack:"maxHp"`
}

type ProjectileView struct {
	ID     string `msgpack:"id"`
	TypeID string `msgpack:"typeId"`
	Pos    Vec    `msgpack:"pos"`
	Vel    Vec    `msgpack:"vel"`
	Enemy  bool   `msgpack:"enemy"`
}

type LootView struct {
	ID    string   `msgpack:"id"`
	Pos   Vec      `msgpack:"pos"`
	Items []string `msgpack:"items"`
}

type PortalView struct {
	ID      string `msgpack:"id"`
	Pos     Vec    `msgpack:"pos"`
	Name    string `msgpack:"name"`
	Kind    string `msgpack:"kind"`
	Visible bool   `msgpack:"visible"`
}

type ChestView struct {
	ID  string `msgpack:"id"`
	Pos Vec    `msgpack:"pos"`
}

// ViewPlayer projects a player entity.
func ViewPlayer(p *model.Player) PlayerView {
	return PlayerView{
		ID:      p.ID().String(),
		Name:    p.Name,
		ClassID: p.ClassID,
		Pos:     Vec{X: p.Pos.X, Y: p.Pos.Y},
		HP:      p.HP,
		MaxHP:   p.EffectiveMaxHP(),
		Level:   p.Level,
		Aim:     p.InputState().Aim,
	}
}

// ViewSelf projects the viewer-private fields.
func ViewSelf(p *model.Player) *SelfView {
	return &SelfView{
		MP:        p.MP,
		MaxMP:     p.EffectiveMaxMP(),
		Exp:       p.Exp,
		ExpNext:   content.ExpForNextLevel(p.Level),
		Equipment: p.Equipment[:],
		Inventory: p.Inventory[:],
	}
}

// ViewEnemy projects an enemy entity.
func ViewEnemy(e *model.Enemy) EnemyView {
	return EnemyView{
		ID:    e.ID().String(),
		DefID: e.Def.ID,
		Pos:   Vec{X: e.Pos.X, Y: e.Pos.Y},
		HP:    e.HP,
		MaxHP: e.Def.MaxHP,
	}
}

// ViewProjectile projects a projectile entity.
func ViewProjectile(p *model.Projectile) ProjectileView {
	return ProjectileView{
		ID:     p.ID().String(),
		TypeID: p.Type.ID,
		Pos:    Vec{X: p.Pos.X, Y: p.Pos.Y},
		Vel:    Vec{X: p.Velocity.X, Y: p.Velocity.Y},
		Enemy:  p.Side == model.SideEnemy,
	}
}

// ViewLoot projects a loot bag.
func ViewLoot(b *model.LootBag) LootView {
	return LootView{
		ID:    b.ID().String(),
		Pos:   Vec{X: b.Pos.X, Y: b.Pos.Y},
		Items: append([]string(nil), b.Items...),
	}
}

// ViewPortal projects a portal.
func ViewPortal(p *model.Portal) PortalView {
	return PortalView{
		ID:      p.ID().String(),
		Pos:     Vec{X: p.Pos.X, Y: p.Pos.Y},
		Name:    p.Name,
		Kind:    string(p.TargetKind),
		Visible: p.Visible,
	}
}

// ViewChest projects a vault chest.
func ViewChest(c *model.VaultChest) ChestView {
	return ChestView{ID: c.ID().String(), Pos: Vec{X: c.Pos.X, Y: c.Pos.Y}}
}
