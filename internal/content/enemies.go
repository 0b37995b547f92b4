package content

// Behavior selects an enemy's outer movement state machine.
type Behavior string

const (
	BehaviorWander     Behavior = "wander"
	BehaviorChase      Behavior = "chase"
	BehaviorOrbit      Behavior = "orbit"
	BehaviorStationary Behavior = "stationary"
)

// EnemyAttack is one entry in an enemy's attack list. Each attack cools
// down independently.
type EnemyAttack struct {
	RateOfFire     float64 // shots per second
	NumProjectiles int
	ArcGapDeg      float64
	Damage         int
	Range          float64 // tiles; also the projectile travel range
	Projectile     string  // projectile type id
	Predictive     bool    // lead the target using its observed velocity
}

// EnemyPhase gates a subset of attacks behind an hp threshold. Phases are
// listed in descending HPPercent order; the active phase is the last one
// whose threshold is >= current hp%.
type EnemyPhase struct {
	HPPercent      float64
	AttackIndices  []int
	AttackDuration float64 // seconds attacking
	RestDuration   float64 // seconds resting (attacks suppressed)
}

// LootDrop is one independent roll of an enemy's loot table.
type LootDrop struct {
	ItemID    string
	Chance    float64
	Soulbound bool
}

// Enemy is one entry of the enemy table.
type Enemy struct {
	ID      string
	Name    string
	MaxHP   int
	Defense int
	XP      int
	Speed   float64 // tiles per second
	Radius  float64

	Behavior   Behavior
	Range      float64 // behavior range: chase engage distance / orbit radius
	OrbitSpeed float64 // radians per second, orbit behavior only

	Attacks []EnemyAttack
	Phases  []EnemyPhase
	Loot    []LootDrop

	// PortalDrop names a dungeon seeded on death with PortalChance.
	PortalDrop   string
	PortalChance float64

	Boss bool
}

var enemyTable = map[string]*Enemy{
	// --- Realm trash ---
	"pirate": {
		ID: "pirate", Name: "Pirate", MaxHP: 100, Defense: 2, XP: 20,
		Speed: 2.4, Radius: 0.4, Behavior: BehaviorChase, Range: 9,
		Attacks: []EnemyAttack{
			{RateOfFire: 1, NumProjectiles: 1, Damage: 10, Range: 6, Projectile: "enemy_bolt"},
		},
		Loot: []LootDrop{
			{ItemID: "health_potion", Chance: 0.3},
			{ItemID: "starter_sword", Chance: 0.05},
		},
	},
	"snake": {
		ID: "snake", Name: "Snake", MaxHP: 60, Defense: 0, XP: 10,
		Speed: 3.2, Radius: 0.35, Behavior: BehaviorWander, Range: 0,
		Attacks: []EnemyAttack{
			{RateOfFire: 1.2, NumProjectiles: 1, Damage: 6, Range: 4, Projectile: "enemy_shard"},
		},
		Loot: []LootDrop{{ItemID: "health_potion", Chance: 0.15}},
	},
	"hobbit_mage": {
		ID: "hobbit_mage", Name: "Hobbit Mage", MaxHP: 150, Defense: 3, XP: 35,
		Speed: 2.8, Radius: 0.4, Behavior: BehaviorOrbit, Range: 4, OrbitSpeed: 1.2,
		Attacks: []EnemyAttack{
			{RateOfFire: 0.8, NumProjectiles: 3, ArcGapDeg: 15, Damage: 12, Range: 6, Projectile: "enemy_shard"},
		},
		Loot: []LootDrop{
			{ItemID: "magic_potion", Chance: 0.25},
			{ItemID: "ring_wisdom", Chance: 0.04},
		},
	},
	"sand_golem": {
		ID: "sand_golem", Name: "Sand Golem", MaxHP: 400, Defense: 8, XP: 80,
		Speed: 1.4, Radius: 0.6, Behavior: BehaviorChase, Range: 10,
		Attacks: []EnemyAttack{
			{RateOfFire: 0.6, NumProjectiles: 4, ArcGapDeg: 20, Damage: 18, Range: 5, Projectile: "enemy_orb"},
		},
		Loot: []LootDrop{
			{ItemID: "chain_mail", Chance: 0.1},
			{ItemID: "ring_defense", Chance: 0.05},
		},
	},
	"demon": {
		ID: "demon", Name: "Demon", MaxHP: 800, Defense: 10, XP: 150,
		Speed: 2.2, Radius: 0.6, Behavior: BehaviorChase, Range: 11,
		Attacks: []EnemyAttack{
			{RateOfFire: 1, NumProjectiles: 2, ArcGapDeg: 10, Damage: 25, Range: 7, Projectile: "demon_flame", Predictive: true},
			{RateOfFire: 0.4, NumProjectiles: 8, ArcGapDeg: 45, Damage: 15, Range: 5, Projectile: "enemy_orb"},
		},
		Loot: []LootDrop{
			{ItemID: "ember_staff", Chance: 0.08},
			{ItemID: "hunter_bow", Chance: 0.08},
			{ItemID: "mystic_robe", Chance: 0.06},
		},
		PortalDrop:   "cube_citadel",
		PortalChance: 0.1,
	},

	// --- Dungeon population ---
	"cube_minion": {
		ID: "cube_minion", Name: "Cube Minion", MaxHP: 120, Defense: 4, XP: 30,
		Speed: 3, Radius: 0.4, Behavior: BehaviorChase, Range: 8,
		Attacks: []EnemyAttack{
			{RateOfFire: 1.2, NumProjectiles: 1, Damage: 14, Range: 5, Projectile: "enemy_shard"},
		},
		Loot: []LootDrop{{ItemID: "magic_potion", Chance: 0.2}},
	},
	"cube_guardian": {
		ID: "cube_guardian", Name: "Cube Guardian", MaxHP: 500, Defense: 10, XP: 100,
		Speed: 2, Radius: 0.55, Behavior: BehaviorOrbit, Range: 3.5, OrbitSpeed: 1,
		Attacks: []EnemyAttack{
			{RateOfFire: 0.9, NumProjectiles: 4, ArcGapDeg: 12, Damage: 20, Range: 6, Projectile: "enemy_orb"},
		},
		Loot: []LootDrop{
			{ItemID: "drake_leather", Chance: 0.08},
			{ItemID: "ring_attack", Chance: 0.06},
		},
	},
	"cube_overlord": {
		ID: "cube_overlord", Name: "Cube Overlord", MaxHP: 5000, Defense: 15, XP: 1000,
		Speed: 1.6, Radius: 1.2, Behavior: BehaviorChase, Range: 12, Boss: true,
		Attacks: []EnemyAttack{
			{RateOfFire: 1, NumProjectiles: 4, ArcGapDeg: 12, Damage: 30, Range: 8, Projectile: "boss_wave"},
			{RateOfFire: 0.5, NumProjectiles: 12, ArcGapDeg: 30, Damage: 22, Range: 6, Projectile: "enemy_orb"},
			{RateOfFire: 1.5, NumProjectiles: 1, Damage: 45, Range: 9, Projectile: "void_bolt", Predictive: true},
		},
		Phases: []EnemyPhase{
			{HPPercent: 100, AttackIndices: []int{0}, AttackDuration: 3, RestDuration: 2},
			{HPPercent: 66, AttackIndices: []int{0, 1}, AttackDuration: 4, RestDuration: 2},
			{HPPercent: 33, AttackIndices: []int{0, 1, 2}, AttackDuration: 5, RestDuration: 1},
		},
		Loot: []LootDrop{
			{ItemID: "voidcaller_staff", Chance: 0.05, Soulbound: true},
			{ItemID: "stormpiercer", Chance: 0.05, Soulbound: true},
			{ItemID: "ravager_sword", Chance: 0.05, Soulbound: true},
			{ItemID: "golem_plate", Chance: 0.04, Soulbound: true},
			{ItemID: "nova_spellbook", Chance: 0.04, Soulbound: true},
			{ItemID: "crown_ring", Chance: 0.02, Soulbound: true},
			{ItemID: "health_potion", Chance: 0.8},
			{ItemID: "magic_potion", Chance: 0.8},
		},
	},
}
