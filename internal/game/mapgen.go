package game

import (
	"math/rand/v2"

	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/geom"
)

// NexusLayout is the nexus map plus its fixed portal anchors.
type NexusLayout struct {
	Map         *TileMap
	RealmPortal geom.Vec2
	VaultPortal geom.Vec2
}

// BuildNexus builds the safe hub: an open floor with a wall border,
// spawn tiles around the center and two portal anchors.
func BuildNexus() *NexusLayout {
	const size = 40
	m := NewTileMap(size, size)
	m.Fill(Rect{1, 1, size - 2, size - 2}, TileFloor)
	m.Fill(Rect{size/2 - 3, size/2 + 2, 6, 4}, TileSpawn)
	m.SpawnPoint = geom.Vec2{X: size / 2, Y: size/2 + 4}

	return &NexusLayout{
		Map:         m,
		RealmPortal: geom.Vec2{X: size / 2, Y: size/2 - 6},
		VaultPortal: geom.Vec2{X: size/2 + 8, Y: size / 2},
	}
}

// RealmLayout is the realm map plus its return-portal anchor.
type RealmLayout struct {
	Map         *TileMap
	NexusPortal geom.Vec2
}

// BuildRealm builds the open hostile world: bordered terrain with water and
// lava patches and a grid of spawn regions. The center cell stays clear so
// arrivals are not instantly swarmed.
func BuildRealm(rng *rand.Rand) *RealmLayout {
	const size = 120
	m := NewTileMap(size, size)
	m.Fill(Rect{1, 1, size - 2, size - 2}, TileFloor)

	// Terrain blobs.
	for range 18 {
		blob := Rect{
			X: 2 + rng.IntN(size-12),
			Y: 2 + rng.IntN(size-12),
			W: 3 + rng.IntN(7),
			H: 3 + rng.IntN(7),
		}
		tile := TileWater
		if rng.Float64() < 0.3 {
			tile = TileLava
		}
		m.Fill(blob, tile)
	}

	center := Rect{size/2 - 6, size/2 - 6, 12, 12}
	m.Fill(center, TileFloor)
	m.Fill(Rect{size/2 - 2, size/2 + 2, 4, 2}, TileSpawn)
	m.SpawnPoint = geom.Vec2{X: size / 2, Y: size/2 + 3}

	trash := []WeightedEnemy{
		{EnemyID: "snake", Weight: 4},
		{EnemyID: "pirate", Weight: 3},
		{EnemyID: "hobbit_mage", Weight: 2},
	}
	elite := []WeightedEnemy{
		{EnemyID: "sand_golem", Weight: 3},
		{EnemyID: "demon", Weight: 1},
	}

	const cell = 30
	for cy := 0; cy < size/cell; cy++ {
		for cx := 0; cx < size/cell; cx++ {
			area := Rect{cx * cell, cy * cell, cell, cell}
			if area.Contains(size/2, size/2) {
				continue
			}
			m.Regions = append(m.Regions, SpawnRegion{
				Area:     area,
				Enemies:  trash,
				MaxAlive: 10,
				Rate:     0.5,
			})
			m.Regions = append(m.Regions, SpawnRegion{
				Area:     area,
				Enemies:  elite,
				MaxAlive: 2,
				Rate:     0.1,
			})
		}
	}

	return &RealmLayout{
		Map:         m,
		NexusPortal: geom.Vec2{X: size / 2, Y: size/2 - 3},
	}
}

// VaultLayout is a vault map plus its chest and portal anchors.
type VaultLayout struct {
	Map         *TileMap
	Chest       geom.Vec2
	NexusPortal geom.Vec2
}

// BuildVault builds the small private room holding the vault chest.
func BuildVault() *VaultLayout {
	const size = 13
	m := NewTileMap(size, size)
	m.Fill(Rect{1, 1, size - 2, size - 2}, TileFloor)
	m.SpawnPoint = geom.Vec2{X: size / 2, Y: size - 3}

	return &VaultLayout{
		Map:         m,
		Chest:       geom.Vec2{X: size / 2, Y: size / 2},
		NexusPortal: geom.Vec2{X: size / 2, Y: size - 2.5},
	}
}

// DungeonLayout is a generated dungeon map plus its landmarks.
type DungeonLayout struct {
	Map         *TileMap
	StartCenter geom.Vec2
	BossCenter  geom.Vec2
	Rooms       []Rect
}

const (
	dungeonWidth  = 180
	dungeonHeight = 110

	minRooms = 12
	maxRooms = 18

	minRoomSize = 8
	maxRoomSize = 14

	minCorridorGap = 6
	maxCorridorGap = 12

	roomBuffer = 2
)

// GenerateDungeon carves a branching room layout: a start room at
// left-center, rooms branched mostly rightward, the rightmost room upsized
// into the boss room, 2-wide L-corridors between connected rooms, spawn
// tiles in the start room and spawn regions per room populated from the
// dungeon definition.
func GenerateDungeon(rng *rand.Rand, def *content.Dungeon) *DungeonLayout {
	m := NewTileMap(dungeonWidth, dungeonHeight)

	type placedRoom struct {
		area   Rect
		parent int
	}

	roomSize := func() int { return minRoomSize + rng.IntN(maxRoomSize-minRoomSize+1) }

	start := Rect{
		X: 2,
		Y: dungeonHeight/2 - roomSize()/2,
		W: roomSize(),
		H: roomSize(),
	}
	rooms := []placedRoom{{area: start, parent: -1}}

	fits := func(r Rect) bool {
		if r.X < 1 || r.Y < 1 || r.X+r.W >= dungeonWidth-1 || r.Y+r.H >= dungeonHeight-1 {
			return false
		}
		grown := Rect{r.X - roomBuffer, r.Y - roomBuffer, r.W + 2*roomBuffer, r.H + 2*roomBuffer}
		for _, p := range rooms {
			if grown.X < p.area.X+p.area.W && p.area.X < grown.X+grown.W &&
				grown.Y < p.area.Y+p.area.H && p.area.Y < grown.Y+grown.H {
				return false
			}
		}
		return true
	}

	target := minRooms + rng.IntN(maxRooms-minRooms+1)
	for attempts := 0; len(rooms) < target && attempts < 400; attempts++ {
		parentIdx := rng.IntN(len(rooms))
		parent := rooms[parentIdx].area
		gap := minCorridorGap + rng.IntN(maxCorridorGap-minCorridorGap+1)
		w, h := roomSize(), roomSize()

		var next Rect
		switch roll := rng.Float64(); {
		case roll < 0.6: // right
			next = Rect{parent.X + parent.W + gap, parent.Y + rng.IntN(parent.H) - h/2, w, h}
		case roll < 0.8: // down
			next = Rect{parent.X + rng.IntN(parent.W) - w/2, parent.Y + parent.H + gap, w, h}
		default: // up
			next = Rect{parent.X + rng.IntN(parent.W) - w/2, parent.Y - gap - h, w, h}
		}
		if !fits(next) {
			continue
		}
		rooms = append(rooms, placedRoom{area: next, parent: parentIdx})
	}

	// Rightmost room becomes the boss room, at least 12x12.
	bossIdx := 0
	for i, r := range rooms {
		if r.area.X+r.area.W > rooms[bossIdx].area.X+rooms[bossIdx].area.W {
			bossIdx = i
		}
	}
	boss := &rooms[bossIdx].area
	if boss.W < 12 {
		boss.W = 12
	}
	if boss.H < 12 {
		boss.H = 12
	}
	if boss.X+boss.W >= dungeonWidth-1 {
		boss.X = dungeonWidth - 1 - boss.W
	}
	if boss.Y+boss.H >= dungeonHeight-1 {
		boss.Y = dungeonHeight - 1 - boss.H
	}

	// Connect each room to its parent with a 2-wide L-corridor through the
	// room centers. Corridors go first so room floors (and the boss room's
	// boss-floor) repaint the overlap.
	carveCorridor := func(a, b Rect) {
		ax, ay := a.X+a.W/2, a.Y+a.H/2
		bx, by := b.X+b.W/2, b.Y+b.H/2
		x0, x1 := min(ax, bx), max(ax, bx)
		m.Fill(Rect{x0, ay, x1 - x0 + 2, 2}, TileFloor)
		y0, y1 := min(ay, by), max(ay, by)
		m.Fill(Rect{bx, y0, 2, y1 - y0 + 2}, TileFloor)
	}
	for _, r := range rooms[1:] {
		carveCorridor(rooms[r.parent].area, r.area)
	}

	// Carve floors.
	for i, r := range rooms {
		tile := TileFloor
		if i == bossIdx {
			tile = TileBossFloor
		}
		m.Fill(r.area, tile)
	}

	// Start room interior is the spawn area.
	interior := Rect{start.X + 1, start.Y + 1, start.W - 2, start.H - 2}
	m.Fill(interior, TileSpawn)
	m.SpawnPoint = geom.Vec2{
		X: float64(start.X) + float64(start.W)/2,
		Y: float64(start.Y) + float64(start.H)/2,
	}

	minions := make([]WeightedEnemy, 0, len(def.Minions))
	for _, id := range def.Minions {
		minions = append(minions, WeightedEnemy{EnemyID: id, Weight: 1})
	}
	guardians := make([]WeightedEnemy, 0, len(def.Guardians))
	for _, id := range def.Guardians {
		guardians = append(guardians, WeightedEnemy{EnemyID: id, Weight: 1})
	}

	roomRects := make([]Rect, 0, len(rooms))
	for i, r := range rooms {
		roomRects = append(roomRects, r.area)
		switch i {
		case 0:
			// No spawns in the start room.
		case bossIdx:
			m.Regions = append(m.Regions, SpawnRegion{
				Area:     r.area,
				Enemies:  []WeightedEnemy{{EnemyID: def.Boss, Weight: 1}},
				MaxAlive: 1,
				Rate:     0.02,
			})
			m.Regions = append(m.Regions, SpawnRegion{
				Area:     r.area,
				Enemies:  guardians,
				MaxAlive: 2,
				Rate:     0.2,
			})
		default:
			m.Regions = append(m.Regions, SpawnRegion{
				Area:     r.area,
				Enemies:  minions,
				MaxAlive: 4,
				Rate:     0.4,
			})
			m.Regions = append(m.Regions, SpawnRegion{
				Area:     r.area,
				Enemies:  guardians,
				MaxAlive: 1,
				Rate:     0.1,
			})
		}
	}

	return &DungeonLayout{
		Map:         m,
		StartCenter: m.SpawnPoint,
		BossCenter: geom.Vec2{
			X: float64(boss.X) + float64(boss.W)/2,
			Y: float64(boss.Y) + float64(boss.H)/2,
		},
		Rooms: roomRects,
	}
}
