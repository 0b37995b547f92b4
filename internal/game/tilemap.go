// Package game holds the tile model, collision queries and the map
// builders for every instance kind.
package game

import (
	"math"
	"math/rand/v2"

	"github.com/veydras/realmd/internal/geom"
)

// Tile is one cell of a map grid.
type Tile uint8

const (
	TileVoid Tile = iota
	TileFloor
	TileWall
	TileWater
	TileLava
	TileSpawn
	TileBossFloor
)

// Walkable reports whether entities may stand on the tile.
func (t Tile) Walkable() bool {
	switch t {
	case TileFloor, TileWater, TileLava, TileSpawn, TileBossFloor:
		return true
	}
	return false
}

// WeightedEnemy is one entry of a spawn region's enemy mix.
type WeightedEnemy struct {
	EnemyID string
	Weight  float64
}

// Rect is an integer tile rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the tile position lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// ContainsPos reports whether the world position lies inside the rect.
func (r Rect) ContainsPos(p geom.Vec2) bool {
	return r.Contains(int(math.Floor(p.X)), int(math.Floor(p.Y)))
}

// SpawnRegion describes a continuously repopulated area of a map.
type SpawnRegion struct {
	Area     Rect
	Enemies  []WeightedEnemy
	MaxAlive int
	Rate     float64 // spawns per second while under MaxAlive
}

// PickEnemy samples the weighted enemy mix.
func (s SpawnRegion) PickEnemy(rng *rand.Rand) string {
	total := 0.0
	for _, e := range s.Enemies {
		total += e.Weight
	}
	if total <= 0 {
		return ""
	}
	roll := rng.Float64() * total
	for _, e := range s.Enemies {
		roll -= e.Weight
		if roll <= 0 {
			return e.EnemyID
		}
	}
	return s.Enemies[len(s.Enemies)-1].EnemyID
}

// TileMap is an immutable tile grid plus its spawn regions. Width*Height
// cells stored row-major.
type TileMap struct {
	Width   int
	Height  int
	Tiles   []Tile
	Regions []SpawnRegion

	// SpawnPoint is the default player spawn position.
	SpawnPoint geom.Vec2
}

// NewTileMap allocates a void-filled map.
func NewTileMap(width, height int) *TileMap {
	return &TileMap{
		Width:  width,
		Height: height,
		Tiles:  make([]Tile, width*height),
	}
}

// At returns the tile at (x, y), or TileVoid out of bounds.
func (m *TileMap) At(x, y int) Tile {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return TileVoid
	}
	return m.Tiles[y*m.Width+x]
}

// Set writes the tile at (x, y); out-of-bounds writes are dropped.
func (m *TileMap) Set(x, y int, t Tile) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Tiles[y*m.Width+x] = t
}

// Fill paints the rect with the tile, clipped to the map.
func (m *TileMap) Fill(r Rect, t Tile) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			m.Set(x, y, t)
		}
	}
}

// Walkable reports whether the tile at (x, y) is walkable.
func (m *TileMap) Walkable(x, y int) bool {
	return m.At(x, y).Walkable()
}

// WalkableAt reports whether the world position lands on a walkable tile.
func (m *TileMap) WalkableAt(p geom.Vec2) bool {
	return m.Walkable(int(math.Floor(p.X)), int(math.Floor(p.Y)))
}

// CanOccupy reports whether a circle of the given radius fits at the
// position. Samples the center and the four radius corners; all five must
// land on walkable tiles.
func (m *TileMap) CanOccupy(p geom.Vec2, radius float64) bool {
	probes := [5]geom.Vec2{
		p,
		{X: p.X - radius, Y: p.Y - radius},
		{X: p.X + radius, Y: p.Y - radius},
		{X: p.X - radius, Y: p.Y + radius},
		{X: p.X + radius, Y: p.Y + radius},
	}
	for _, probe := range probes {
		if !m.WalkableAt(probe) {
			return false
		}
	}
	return true
}

// TryMove moves a circle from pos by delta with axis fallback: the full
// diagonal step first, then x-only, then y-only. Returns the final
// position; a fully blocked move returns pos unchanged.
func (m *TileMap) TryMove(pos, delta geom.Vec2, radius float64) geom.Vec2 {
	if next := pos.Add(delta); m.CanOccupy(next, radius) {
		return next
	}
	if next := (geom.Vec2{X: pos.X + delta.X, Y: pos.Y}); delta.X != 0 && m.CanOccupy(next, radius) {
		return next
	}
	if next := (geom.Vec2{X: pos.X, Y: pos.Y + delta.Y}); delta.Y != 0 && m.CanOccupy(next, radius) {
		return next
	}
	return pos
}

// RandomWalkableIn samples a random walkable position inside the rect,
// trying up to attempts times. The position is centered on its tile.
func (m *TileMap) RandomWalkableIn(rng *rand.Rand, r Rect, attempts int) (geom.Vec2, bool) {
	for range attempts {
		x := r.X + rng.IntN(max(r.W, 1))
		y := r.Y + rng.IntN(max(r.H, 1))
		if m.Walkable(x, y) {
			return geom.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}, true
		}
	}
	return geom.Vec2{}, false
}

// CountWalkable returns the number of walkable tiles inside the rect.
func (m *TileMap) CountWalkable(r Rect) int {
	n := 0
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if m.Walkable(x, y) {
				n++
			}
		}
	}
	return n
}
