package game

import (
	"math/rand/v2"
	"testing"

	"github.com/veydras/realmd/internal/geom"
)

func testRoom(size int) *TileMap {
	m := NewTileMap(size, size)
	m.Fill(Rect{1, 1, size - 2, size - 2}, TileFloor)
	return m
}

func TestTileMap_At_OutOfBounds(t *testing.T) {
	m := testRoom(10)
	if got := m.At(-1, 5); got != TileVoid {
		t.Errorf("At(-1, 5) = %v, want void", got)
	}
	if got := m.At(5, 10); got != TileVoid {
		t.Errorf("At(5, 10) = %v, want void", got)
	}
}

func TestCanOccupy_CornerProbe(t *testing.T) {
	m := testRoom(10)
	m.Set(6, 5, TileWall)

	// Center clear of the wall but a radius corner inside it.
	if m.CanOccupy(geom.Vec2{X: 5.9, Y: 5.5}, 0.35) {
		t.Error("expected corner probe to reject position overlapping wall tile")
	}
	if !m.CanOccupy(geom.Vec2{X: 5.5, Y: 5.5}, 0.35) {
		t.Error("expected clear position to be occupiable")
	}
}

func TestTryMove_WallSlide(t *testing.T) {
	m := testRoom(12)
	m.Set(6, 5, TileWall)

	// Moving diagonally into the wall slides along y.
	pos := geom.Vec2{X: 5.5, Y: 5.5}
	next := m.TryMove(pos, geom.Vec2{X: 0.5, Y: 0.5}, 0.35)
	if next.X != pos.X {
		t.Errorf("expected x blocked, got x=%f", next.X)
	}
	if next.Y != pos.Y+0.5 {
		t.Errorf("expected y slide to %f, got %f", pos.Y+0.5, next.Y)
	}
}

// A wizard at (5.0, 5.0) with a wall at (6,5) walking +x for 200 ms at
// speed 5 must stop with its radius short of the wall face.
func TestTryMove_WallStopsAdvance(t *testing.T) {
	m := testRoom(12)
	m.Set(6, 5, TileWall)

	pos := geom.Vec2{X: 5.0, Y: 5.0}
	const (
		radius = 0.35
		speed  = 5.0
		dt     = 0.05
	)
	for range 4 { // 200 ms of ticks
		pos = m.TryMove(pos, geom.Vec2{X: speed * dt, Y: 0}, radius)
	}
	if pos.X > 6-radius {
		t.Errorf("x = %f, want <= %f", pos.X, 6-radius)
	}
	if pos.Y != 5.0 {
		t.Errorf("y = %f, want unchanged", pos.Y)
	}
}

func TestRandomWalkableIn(t *testing.T) {
	m := testRoom(10)
	rng := rand.New(rand.NewPCG(1, 2))

	pos, ok := m.RandomWalkableIn(rng, Rect{1, 1, 8, 8}, 20)
	if !ok {
		t.Fatal("expected a walkable position in an open room")
	}
	if !m.WalkableAt(pos) {
		t.Errorf("returned position %+v is not walkable", pos)
	}

	// A rect of solid wall yields nothing.
	m.Fill(Rect{1, 1, 8, 8}, TileWall)
	if _, ok := m.RandomWalkableIn(rng, Rect{1, 1, 8, 8}, 20); ok {
		t.Error("expected no walkable position in walled rect")
	}
}

func TestSpawnRegion_PickEnemy(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	region := SpawnRegion{
		Enemies: []WeightedEnemy{
			{EnemyID: "snake", Weight: 1},
			{EnemyID: "pirate", Weight: 0},
		},
	}
	for range 50 {
		if got := region.PickEnemy(rng); got != "snake" {
			t.Fatalf("PickEnemy() = %q, want snake (zero-weight entry picked)", got)
		}
	}
}
