package content

// Dungeon describes the population of a procedurally generated dungeon.
type Dungeon struct {
	ID        string
	Name      string
	Minions   []string
	Guardians []string
	Boss      string
}

var dungeonTable = map[string]*Dungeon{
	"cube_citadel": {
		ID:        "cube_citadel",
		Name:      "Cube Citadel",
		Minions:   []string{"cube_minion"},
		Guardians: []string{"cube_guardian"},
		Boss:      "cube_overlord",
	},
}
