package content

// ItemKind discriminates the item union.
type ItemKind string

const (
	KindWeapon     ItemKind = "weapon"
	KindAbility    ItemKind = "ability"
	KindArmor      ItemKind = "armor"
	KindRing       ItemKind = "ring"
	KindConsumable ItemKind = "consumable"
)

// Equipment type tags. A class equips only matching weapon/ability/armor
// types; any ring fits any class.
type (
	WeaponType  string
	AbilityType string
	ArmorType   string
)

const (
	WeaponStaff  WeaponType = "staff"
	WeaponBow    WeaponType = "bow"
	WeaponSword  WeaponType = "sword"
	WeaponDagger WeaponType = "dagger"

	AbilitySpellbook AbilityType = "spellbook"
	AbilityQuiver    AbilityType = "quiver"
	AbilityShield    AbilityType = "shield"
	AbilityCloak     AbilityType = "cloak"

	ArmorRobe    ArmorType = "robe"
	ArmorLeather ArmorType = "leather"
	ArmorHeavy   ArmorType = "heavy"
)

// AbilityEffect selects what an ability does when used.
type AbilityEffect string

const (
	EffectDamage   AbilityEffect = "damage"
	EffectBuff     AbilityEffect = "buff"
	EffectHeal     AbilityEffect = "heal"
	EffectTeleport AbilityEffect = "teleport"
)

// WeaponSpec describes a weapon's firing profile.
type WeaponSpec struct {
	Type           WeaponType
	RateOfFire     float64 // shots per second
	NumProjectiles int
	ArcGapDeg      float64 // degrees between projectiles in a fan
	Pierce         bool
	Range          float64 // tiles; lifetime = Range / projectile speed
	MinDamage      int
	MaxDamage      int
	Projectile     string // projectile type id
}

// AbilitySpec describes an ability item.
type AbilitySpec struct {
	Type     AbilityType
	MPCost   int
	Cooldown float64 // seconds

	Effect AbilityEffect

	// damage
	Damage int
	Radius float64

	// buff
	Stat     StatKind
	Amount   int
	Duration float64

	// heal
	Heal int

	// teleport
	TeleportRange float64
}

// ArmorSpec describes an armor item.
type ArmorSpec struct {
	Type    ArmorType
	Defense int
}

// RingSpec describes a ring's flat bonuses.
type RingSpec struct {
	Bonus Stats
	MaxHP int
	MaxMP int
}

// Item is one entry of the item table. Exactly one of the spec pointers is
// non-nil for equipment kinds.
type Item struct {
	ID        string
	Name      string
	Kind      ItemKind
	Tier      int
	Soulbound bool

	Weapon  *WeaponSpec
	Ability *AbilitySpec
	Armor   *ArmorSpec
	Ring    *RingSpec
}

var itemTable = map[string]*Item{
	// --- Staves ---
	"starter_staff": {
		ID: "starter_staff", Name: "Cracked Staff", Kind: KindWeapon, Tier: 0,
		Weapon: &WeaponSpec{Type: WeaponStaff, RateOfFire: 2.5, NumProjectiles: 1, Pierce: false, Range: 8, MinDamage: 15, MaxDamage: 25, Projectile: "magic_bolt"},
	},
	"ember_staff": {
		ID: "ember_staff", Name: "Ember Staff", Kind: KindWeapon, Tier: 3,
		Weapon: &WeaponSpec{Type: WeaponStaff, RateOfFire: 2.5, NumProjectiles: 2, ArcGapDeg: 8, Range: 8.5, MinDamage: 25, MaxDamage: 40, Projectile: "magic_bolt"},
	},
	"voidcaller_staff": {
		ID: "voidcaller_staff", Name: "Voidcaller Staff", Kind: KindWeapon, Tier: 6, Soulbound: true,
		Weapon: &WeaponSpec{Type: WeaponStaff, RateOfFire: 2.2, NumProjectiles: 2, ArcGapDeg: 6, Range: 9, MinDamage: 45, MaxDamage: 70, Projectile: "void_bolt"},
	},

	// --- Bows ---
	"starter_bow": {
		ID: "starter_bow", Name: "Worn Shortbow", Kind: KindWeapon, Tier: 0,
		Weapon: &WeaponSpec{Type: WeaponBow, RateOfFire: 3, NumProjectiles: 1, Range: 7, MinDamage: 10, MaxDamage: 20, Projectile: "arrow"},
	},
	"hunter_bow": {
		ID: "hunter_bow", Name: "Hunter's Longbow", Kind: KindWeapon, Tier: 4,
		Weapon: &WeaponSpec{Type: WeaponBow, RateOfFire: 3, NumProjectiles: 3, ArcGapDeg: 10, Range: 7.5, MinDamage: 15, MaxDamage: 25, Projectile: "arrow"},
	},
	"stormpiercer": {
		ID: "stormpiercer", Name: "Stormpiercer", Kind: KindWeapon, Tier: 6, Soulbound: true,
		Weapon: &WeaponSpec{Type: WeaponBow, RateOfFire: 2.8, NumProjectiles: 3, ArcGapDeg: 8, Pierce: true, Range: 8, MinDamage: 25, MaxDamage: 35, Projectile: "storm_arrow"},
	},

	// --- Swords ---
	"starter_sword": {
		ID: "starter_sword", Name: "Rusty Blade", Kind: KindWeapon, Tier: 0,
		Weapon: &WeaponSpec{Type: WeaponSword, RateOfFire: 3.3, NumProjectiles: 1, Range: 4.5, MinDamage: 20, MaxDamage: 30, Projectile: "blade_wave"},
	},
	"ravager_sword": {
		ID: "ravager_sword", Name: "Ravager", Kind: KindWeapon, Tier: 5, Soulbound: true,
		Weapon: &WeaponSpec{Type: WeaponSword, RateOfFire: 3.3, NumProjectiles: 1, Range: 4.5, MinDamage: 40, MaxDamage: 60, Projectile: "blade_wave"},
	},

	// --- Daggers ---
	"starter_dagger": {
		ID: "starter_dagger", Name: "Bent Dagger", Kind: KindWeapon, Tier: 0,
		Weapon: &WeaponSpec{Type: WeaponDagger, RateOfFire: 4, NumProjectiles: 1, Range: 5.5, MinDamage: 12, MaxDamage: 22, Projectile: "blade_wave"},
	},

	// --- Abilities ---
	"starter_spellbook": {
		ID: "starter_spellbook", Name: "Tattered Spellbook", Kind: KindAbility, Tier: 0,
		Ability: &AbilitySpec{Type: AbilitySpellbook, MPCost: 30, Cooldown: 1, Effect: EffectDamage, Damage: 60, Radius: 3},
	},
	"nova_spellbook": {
		ID: "nova_spellbook", Name: "Book of the Nova", Kind: KindAbility, Tier: 5, Soulbound: true,
		Ability: &AbilitySpec{Type: AbilitySpellbook, MPCost: 55, Cooldown: 1, Effect: EffectDamage, Damage: 140, Radius: 4},
	},
	"starter_quiver": {
		ID: "starter_quiver", Name: "Leather Quiver", Kind: KindAbility, Tier: 0,
		Ability: &AbilitySpec{Type: AbilityQuiver, MPCost: 25, Cooldown: 2, Effect: EffectBuff, Stat: StatDexterity, Amount: 10, Duration: 4},
	},
	"starter_shield": {
		ID: "starter_shield", Name: "Battered Shield", Kind: KindAbility, Tier: 0,
		Ability: &AbilitySpec{Type: AbilityShield, MPCost: 30, Cooldown: 3, Effect: EffectBuff, Stat: StatDefense, Amount: 12, Duration: 5},
	},
	"starter_cloak": {
		ID: "starter_cloak", Name: "Frayed Cloak", Kind: KindAbility, Tier: 0,
		Ability: &AbilitySpec{Type: AbilityCloak, MPCost: 20, Cooldown: 4, Effect: EffectTeleport, TeleportRange: 8},
	},
	"mending_tome": {
		ID: "mending_tome", Name: "Mending Tome", Kind: KindAbility, Tier: 2,
		Ability: &AbilitySpec{Type: AbilitySpellbook, MPCost: 35, Cooldown: 1, Effect: EffectHeal, Heal: 80},
	},

	// --- Armors ---
	"cloth_robe":    {ID: "cloth_robe", Name: "Cloth Robe", Kind: KindArmor, Tier: 0, Armor: &ArmorSpec{Type: ArmorRobe, Defense: 2}},
	"mystic_robe":   {ID: "mystic_robe", Name: "Mystic Robe", Kind: KindArmor, Tier: 4, Armor: &ArmorSpec{Type: ArmorRobe, Defense: 8}},
	"hide_armor":    {ID: "hide_armor", Name: "Hide Armor", Kind: KindArmor, Tier: 0, Armor: &ArmorSpec{Type: ArmorLeather, Defense: 3}},
	"drake_leather": {ID: "drake_leather", Name: "Drakehide Armor", Kind: KindArmor, Tier: 4, Armor: &ArmorSpec{Type: ArmorLeather, Defense: 10}},
	"chain_mail":    {ID: "chain_mail", Name: "Chain Mail", Kind: KindArmor, Tier: 0, Armor: &ArmorSpec{Type: ArmorHeavy, Defense: 5}},
	"golem_plate":   {ID: "golem_plate", Name: "Golem Plate", Kind: KindArmor, Tier: 5, Soulbound: true, Armor: &ArmorSpec{Type: ArmorHeavy, Defense: 14}},

	// --- Rings ---
	"ring_attack":   {ID: "ring_attack", Name: "Ring of Fury", Kind: KindRing, Tier: 2, Ring: &RingSpec{Bonus: Stats{Attack: 4}}},
	"ring_defense":  {ID: "ring_defense", Name: "Ring of Stone", Kind: KindRing, Tier: 2, Ring: &RingSpec{Bonus: Stats{Defense: 4}}},
	"ring_speed":    {ID: "ring_speed", Name: "Ring of Haste", Kind: KindRing, Tier: 2, Ring: &RingSpec{Bonus: Stats{Speed: 4}}},
	"ring_vitality": {ID: "ring_vitality", Name: "Ring of Blood", Kind: KindRing, Tier: 2, Ring: &RingSpec{Bonus: Stats{Vitality: 4}, MaxHP: 20}},
	"ring_wisdom":   {ID: "ring_wisdom", Name: "Ring of Insight", Kind: KindRing, Tier: 2, Ring: &RingSpec{Bonus: Stats{Wisdom: 4}, MaxMP: 20}},
	"crown_ring":    {ID: "crown_ring", Name: "Crown of the Overlord", Kind: KindRing, Tier: 6, Soulbound: true, Ring: &RingSpec{Bonus: Stats{Attack: 4, Defense: 4, Speed: 4, Dexterity: 4, Vitality: 4, Wisdom: 4}, MaxHP: 40, MaxMP: 40}},

	// --- Consumables ---
	"health_potion": {ID: "health_potion", Name: "Health Potion", Kind: KindConsumable, Tier: 0},
	"magic_potion":  {ID: "magic_potion", Name: "Magic Potion", Kind: KindConsumable, Tier: 0},
}
