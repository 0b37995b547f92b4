package content

import "testing"

func TestLoad(t *testing.T) {
	if err := Load(); err != nil {
		t.Fatalf("Load() = %v", err)
	}
}

func TestExpForNextLevel(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{1, 100},
		{2, 120},
		{3, 144},
		{4, 172},
		{0, 100}, // clamped to level 1
	}
	for _, c := range cases {
		if got := ExpForNextLevel(c.level); got != c.want {
			t.Errorf("ExpForNextLevel(%d) = %d, want %d", c.level, got, c.want)
		}
	}
}

func TestPhaseOrdering(t *testing.T) {
	boss := GetEnemy("cube_overlord")
	if boss == nil {
		t.Fatal("cube_overlord missing from enemy table")
	}
	for i := 1; i < len(boss.Phases); i++ {
		if boss.Phases[i].HPPercent >= boss.Phases[i-1].HPPercent {
			t.Errorf("phase %d threshold %.0f not below phase %d threshold %.0f",
				i, boss.Phases[i].HPPercent, i-1, boss.Phases[i-1].HPPercent)
		}
	}
}

func TestClassStarterItemsMatchTypes(t *testing.T) {
	for id, class := range Classes() {
		if w := GetItem(class.StarterItems[0]); w == nil || w.Weapon == nil || w.Weapon.Type != class.WeaponType {
			t.Errorf("class %q: starter weapon mismatch", id)
		}
		if a := GetItem(class.StarterItems[1]); a == nil || a.Ability == nil || a.Ability.Type != class.AbilityType {
			t.Errorf("class %q: starter ability mismatch", id)
		}
		if ar := GetItem(class.StarterItems[2]); ar == nil || ar.Armor == nil || ar.Armor.Type != class.ArmorType {
			t.Errorf("class %q: starter armor mismatch", id)
		}
	}
}

func TestStatsGet(t *testing.T) {
	s := Stats{Attack: 1, Defense: 2, Speed: 3, Dexterity: 4, Vitality: 5, Wisdom: 6}
	for k, want := range map[StatKind]int{
		StatAttack: 1, StatDefense: 2, StatSpeed: 3,
		StatDexterity: 4, StatVitality: 5, StatWisdom: 6,
	} {
		if got := s.Get(k); got != want {
			t.Errorf("Get(%s) = %d, want %d", k, got, want)
		}
	}
}
