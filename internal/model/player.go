package model

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/game"
	"github.com/veydras/realmd/internal/geom"
)

// Equipment slot indices.
const (
	SlotWeapon  = 0
	SlotAbility = 1
	SlotArmor   = 2
	SlotRing    = 3
)

// Input is the latest movement/aim state reported by the client. It is
// written by the session goroutine and read by the instance tick, so access
// goes through Player.SetInput / Player.InputState.
type Input struct {
	Move     geom.Vec2 // desired direction, magnitude <= 1
	Aim      float64   // radians
	Shooting bool
}

// Buff is a temporary stat bonus.
type Buff struct {
	Stat      content.StatKind
	Amount    int
	ExpiresAt time.Time
}

// Counters are the lifetime statistics accrued by a character.
type Counters struct {
	DamageDealt     int64
	DamageTaken     int64
	Shots           int64
	Abilities       int64
	EnemiesKilled   int64
	DungeonsCleared int64
	TimePlayed      float64 // seconds
}

// Player is a character resident in an instance. The instance owns the
// entity while resident; the persistence layer owns the durable record.
type Player struct {
	Entity

	CharacterID int64
	AccountID   int64
	Name        string
	ClassID     string

	Level int
	Exp   int
	HP    int
	MaxHP int
	MP    int
	MaxMP int
	Base  content.Stats

	Equipment [constants.EquipmentSize]string
	Inventory [constants.InventorySize]string

	Buffs    []Buff
	Counters Counters
	LastHit  time.Time

	// InstanceID is the non-owning back-reference to the resident instance.
	InstanceID string

	inputMu sync.Mutex
	input   Input

	shootCooldown   float64
	abilityCooldown float64
	hpRegenAcc      float64
	mpRegenAcc      float64
}

// NewPlayer builds a resident player entity. Stats come from the durable
// character record; the caller places the player in an instance.
func NewPlayer(characterID, accountID int64, name, classID string, pos geom.Vec2) *Player {
	return &Player{
		Entity:      NewEntity(pos, constants.PlayerRadius),
		CharacterID: characterID,
		AccountID:   accountID,
		Name:        name,
		ClassID:     classID,
		Level:       1,
	}
}

// SetInput stores the latest client input. Single assignment under the
// input mutex; safe against the instance tick reading concurrently.
func (p *Player) SetInput(in Input) {
	p.inputMu.Lock()
	p.input = in
	p.inputMu.Unlock()
}

// InputState returns the most recent client input.
func (p *Player) InputState() Input {
	p.inputMu.Lock()
	defer p.inputMu.Unlock()
	return p.input
}

// Class returns the player's class definition.
func (p *Player) Class() *content.Class { return content.GetClass(p.ClassID) }

// Weapon returns the equipped weapon spec, or nil.
func (p *Player) Weapon() *content.WeaponSpec {
	if it := content.GetItem(p.Equipment[SlotWeapon]); it != nil {
		return it.Weapon
	}
	return nil
}

// Ability returns the equipped ability spec, or nil.
func (p *Player) Ability() *content.AbilitySpec {
	if it := content.GetItem(p.Equipment[SlotAbility]); it != nil {
		return it.Ability
	}
	return nil
}

// EffectiveStats returns base stats plus ring bonus plus active buffs.
func (p *Player) EffectiveStats() content.Stats {
	s := p.Base
	if it := content.GetItem(p.Equipment[SlotRing]); it != nil && it.Ring != nil {
		s = s.Add(it.Ring.Bonus)
	}
	for _, b := range p.Buffs {
		switch b.Stat {
		case content.StatAttack:
			s.Attack += b.Amount
		case content.StatDefense:
			s.Defense += b.Amount
		case content.StatSpeed:
			s.Speed += b.Amount
		case content.StatDexterity:
			s.Dexterity += b.Amount
		case content.StatVitality:
			s.Vitality += b.Amount
		case content.StatWisdom:
			s.Wisdom += b.Amount
		}
	}
	return s
}

// EffectiveMaxHP returns max hp including ring bonus.
func (p *Player) EffectiveMaxHP() int {
	m := p.MaxHP
	if it := content.GetItem(p.Equipment[SlotRing]); it != nil && it.Ring != nil {
		m += it.Ring.MaxHP
	}
	return m
}

// EffectiveMaxMP returns max mp including ring bonus.
func (p *Player) EffectiveMaxMP() int {
	m := p.MaxMP
	if it := content.GetItem(p.Equipment[SlotRing]); it != nil && it.Ring != nil {
		m += it.Ring.MaxMP
	}
	return m
}

// EffectiveSpeed returns tiles/second: 4 + 0.1 per effective speed point.
func (p *Player) EffectiveSpeed() float64 {
	return 4 + float64(p.EffectiveStats().Speed)*0.1
}

// EffectiveAttack returns the flat damage bonus stat.
func (p *Player) EffectiveAttack() int { return p.EffectiveStats().Attack }

// EffectiveDefense returns defense including armor.
func (p *Player) EffectiveDefense() int {
	d := p.EffectiveStats().Defense
	if it := content.GetItem(p.Equipment[SlotArmor]); it != nil && it.Armor != nil {
		d += it.Armor.Defense
	}
	return d
}

// ClampVitals bounds hp/mp to the effective maximums. Called after any
// equipment change in the armor or ring slots.
func (p *Player) ClampVitals() {
	if m := p.EffectiveMaxHP(); p.HP > m {
		p.HP = m
	}
	if m := p.EffectiveMaxMP(); p.MP > m {
		p.MP = m
	}
	if p.HP < 0 {
		p.HP = 0
	}
	if p.MP < 0 {
		p.MP = 0
	}
}

// AddBuff appends a timed stat bonus.
func (p *Player) AddBuff(stat content.StatKind, amount int, duration time.Duration, now time.Time) {
	p.Buffs = append(p.Buffs, Buff{Stat: stat, Amount: amount, ExpiresAt: now.Add(duration)})
}

// Update advances the player by one tick: expires buffs, applies
// input-directed movement with wall-slide, accrues regen and cooldowns.
func (p *Player) Update(dt float64, now time.Time, m *game.TileMap, safeZone bool) {
	kept := p.Buffs[:0]
	for _, b := range p.Buffs {
		if b.ExpiresAt.After(now) {
			kept = append(kept, b)
		}
	}
	p.Buffs = kept

	in := p.InputState()
	if in.Move.X != 0 || in.Move.Y != 0 {
		step := in.Move.Scale(p.EffectiveSpeed() * dt)
		p.Pos = m.TryMove(p.Pos, step, p.Radius)
	}

	if safeZone {
		p.hpRegenAcc += float64(p.EffectiveMaxHP()) * constants.SafeZoneRegenFraction * dt
		p.mpRegenAcc += float64(p.EffectiveMaxMP()) * constants.SafeZoneRegenFraction * dt
	} else {
		s := p.EffectiveStats()
		p.hpRegenAcc += (1 + float64(s.Vitality)*0.12) * dt
		p.mpRegenAcc += (0.5 + float64(s.Wisdom)*0.06) * dt
	}
	if d := int(p.hpRegenAcc); d > 0 {
		p.hpRegenAcc -= float64(d)
		p.HP = min(p.HP+d, p.EffectiveMaxHP())
	}
	if d := int(p.mpRegenAcc); d > 0 {
		p.mpRegenAcc -= float64(d)
		p.MP = min(p.MP+d, p.EffectiveMaxMP())
	}

	p.shootCooldown = math.Max(0, p.shootCooldown-dt)
	p.abilityCooldown = math.Max(0, p.abilityCooldown-dt)
	p.Counters.TimePlayed += dt
}

// Shot is one projectile of a weapon volley.
type Shot struct {
	Angle      float64
	Damage     int
	Pierce     bool
	Lifetime   float64
	Projectile *content.ProjectileType
}

// Fire attempts to discharge the equipped weapon at the aim angle. Returns
// the volley, or nil while on cooldown or with no weapon equipped.
func (p *Player) Fire(rng *rand.Rand, aim float64) []Shot {
	w := p.Weapon()
	if w == nil || p.shootCooldown > 0 {
		return nil
	}
	proj := content.GetProjectile(w.Projectile)
	if proj == nil {
		return nil
	}
	p.shootCooldown = 1 / w.RateOfFire
	p.Counters.Shots++

	base := w.MinDamage
	if w.MaxDamage > w.MinDamage {
		base += rng.IntN(w.MaxDamage - w.MinDamage + 1)
	}
	damage := int(math.Floor(float64(base) + float64(p.EffectiveAttack())*0.5))

	return FanAngles(aim, w.NumProjectiles, w.ArcGapDeg*math.Pi/180, func(angle float64) Shot {
		return Shot{
			Angle:      angle,
			Damage:     damage,
			Pierce:     w.Pierce,
			Lifetime:   w.Range / proj.Speed,
			Projectile: proj,
		}
	})
}

// TryUseAbility gates the equipped ability behind mp cost and cooldown.
// On success mp is consumed and the cooldown set; the caller executes the
// effect.
func (p *Player) TryUseAbility() (*content.AbilitySpec, bool) {
	ab := p.Ability()
	if ab == nil || p.abilityCooldown > 0 || p.MP < ab.MPCost {
		return nil, false
	}
	p.MP -= ab.MPCost
	p.abilityCooldown = ab.Cooldown
	p.Counters.Abilities++
	return ab, true
}

// GainExp adds experience and applies level-ups. Returns the number of
// levels gained.
func (p *Player) GainExp(amount int) int {
	if p.Level >= content.MaxLevel {
		return 0
	}
	p.Exp += amount
	levels := 0
	for p.Level < content.MaxLevel && p.Exp >= content.ExpForNextLevel(p.Level) {
		p.Level++
		levels++
		p.Exp = 0
		if c := p.Class(); c != nil {
			p.Base = p.Base.Add(c.Growth)
			p.MaxHP += c.GrowthHP
			p.MaxMP += c.GrowthMP
		}
		p.HP = p.EffectiveMaxHP()
		p.MP = p.EffectiveMaxMP()
	}
	return levels
}

// FirstFreeInventorySlot returns the first empty inventory index, or -1.
func (p *Player) FirstFreeInventorySlot() int {
	for i, it := range p.Inventory {
		if it == "" {
			return i
		}
	}
	return -1
}

// FanAngles builds a symmetric fan of n angles around aim with the given
// gap. An even count is offset by half a gap so no projectile flies exactly
// along the aim line; an odd count centers one on it.
func FanAngles[T any](aim float64, n int, gap float64, mk func(angle float64) T) []T {
	if n <= 0 {
		return nil
	}
	out := make([]T, 0, n)
	start := aim - gap*float64(n-1)/2
	for i := range n {
		out = append(out, mk(start+gap*float64(i)))
	}
	return out
}
