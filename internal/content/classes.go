package content

// Class describes a playable class: equipment compatibility, starting
// loadout and per-level growth.
type Class struct {
	ID   string
	Name string

	WeaponType  WeaponType
	AbilityType AbilityType
	ArmorType   ArmorType

	StartHP int
	StartMP int
	Start   Stats

	GrowthHP int
	GrowthMP int
	Growth   Stats

	// StarterItems fills equipment slots 0..3 on character creation.
	// Empty string leaves the slot empty.
	StarterItems [4]string
}

var classTable = map[string]*Class{
	"wizard": {
		ID: "wizard", Name: "Wizard",
		WeaponType: WeaponStaff, AbilityType: AbilitySpellbook, ArmorType: ArmorRobe,
		StartHP: 100, StartMP: 100,
		Start:    Stats{Attack: 12, Defense: 0, Speed: 10, Dexterity: 12, Vitality: 8, Wisdom: 12},
		GrowthHP: 20, GrowthMP: 10,
		Growth:       Stats{Attack: 2, Defense: 0, Speed: 1, Dexterity: 1, Vitality: 1, Wisdom: 2},
		StarterItems: [4]string{"starter_staff", "starter_spellbook", "cloth_robe", ""},
	},
	"archer": {
		ID: "archer", Name: "Archer",
		WeaponType: WeaponBow, AbilityType: AbilityQuiver, ArmorType: ArmorLeather,
		StartHP: 130, StartMP: 80,
		Start:    Stats{Attack: 12, Defense: 2, Speed: 12, Dexterity: 14, Vitality: 10, Wisdom: 8},
		GrowthHP: 25, GrowthMP: 8,
		Growth:       Stats{Attack: 2, Defense: 1, Speed: 1, Dexterity: 2, Vitality: 1, Wisdom: 1},
		StarterItems: [4]string{"starter_bow", "starter_quiver", "hide_armor", ""},
	},
	"knight": {
		ID: "knight", Name: "Knight",
		WeaponType: WeaponSword, AbilityType: AbilityShield, ArmorType: ArmorHeavy,
		StartHP: 200, StartMP: 60,
		Start:    Stats{Attack: 10, Defense: 5, Speed: 8, Dexterity: 10, Vitality: 14, Wisdom: 6},
		GrowthHP: 35, GrowthMP: 5,
		Growth:       Stats{Attack: 1, Defense: 2, Speed: 1, Dexterity: 1, Vitality: 2, Wisdom: 1},
		StarterItems: [4]string{"starter_sword", "starter_shield", "chain_mail", ""},
	},
	"rogue": {
		ID: "rogue", Name: "Rogue",
		WeaponType: WeaponDagger, AbilityType: AbilityCloak, ArmorType: ArmorLeather,
		StartHP: 150, StartMP: 70,
		Start:    Stats{Attack: 14, Defense: 2, Speed: 14, Dexterity: 14, Vitality: 10, Wisdom: 6},
		GrowthHP: 25, GrowthMP: 6,
		Growth:       Stats{Attack: 2, Defense: 1, Speed: 2, Dexterity: 2, Vitality: 1, Wisdom: 1},
		StarterItems: [4]string{"starter_dagger", "starter_cloak", "hide_armor", ""},
	},
}
