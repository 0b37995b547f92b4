package content

// ProjectileType describes the ballistic profile shared by weapon shots and
// enemy attacks of the same visual type.
type ProjectileType struct {
	ID     string
	Speed  float64 // tiles per second
	Radius float64
}

var projectileTable = map[string]*ProjectileType{
	"magic_bolt":   {ID: "magic_bolt", Speed: 12, Radius: 0.25},
	"void_bolt":    {ID: "void_bolt", Speed: 14, Radius: 0.3},
	"arrow":        {ID: "arrow", Speed: 16, Radius: 0.2},
	"storm_arrow":  {ID: "storm_arrow", Speed: 18, Radius: 0.2},
	"blade_wave":   {ID: "blade_wave", Speed: 10, Radius: 0.35},
	"enemy_bolt":   {ID: "enemy_bolt", Speed: 8, Radius: 0.3},
	"enemy_shard":  {ID: "enemy_shard", Speed: 10, Radius: 0.25},
	"enemy_orb":    {ID: "enemy_orb", Speed: 6, Radius: 0.45},
	"boss_wave":    {ID: "boss_wave", Speed: 7, Radius: 0.5},
	"demon_flame":  {ID: "demon_flame", Speed: 9, Radius: 0.4},
}
