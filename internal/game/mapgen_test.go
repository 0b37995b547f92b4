package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veydras/realmd/internal/content"
)

func TestBuildNexus(t *testing.T) {
	layout := BuildNexus()
	require.True(t, layout.Map.WalkableAt(layout.Map.SpawnPoint))
	require.True(t, layout.Map.WalkableAt(layout.RealmPortal))
	require.True(t, layout.Map.WalkableAt(layout.VaultPortal))
	require.Empty(t, layout.Map.Regions, "nexus must not spawn enemies")
}

func TestBuildRealm(t *testing.T) {
	layout := BuildRealm(rand.New(rand.NewPCG(1, 1)))
	require.True(t, layout.Map.WalkableAt(layout.Map.SpawnPoint))
	require.True(t, layout.Map.WalkableAt(layout.NexusPortal))
	require.NotEmpty(t, layout.Map.Regions)
	for _, r := range layout.Map.Regions {
		require.NotEmpty(t, r.Enemies)
		require.Positive(t, r.Rate)
	}
}

func TestBuildVault(t *testing.T) {
	layout := BuildVault()
	require.True(t, layout.Map.WalkableAt(layout.Map.SpawnPoint))
	require.True(t, layout.Map.WalkableAt(layout.Chest))
	require.Empty(t, layout.Map.Regions)
}

func TestGenerateDungeon(t *testing.T) {
	require.NoError(t, content.Load())
	def := content.GetDungeon("cube_citadel")
	require.NotNil(t, def)

	for seed := uint64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))
		layout := GenerateDungeon(rng, def)

		require.GreaterOrEqual(t, len(layout.Rooms), 2, "seed %d", seed)
		require.LessOrEqual(t, len(layout.Rooms), maxRooms, "seed %d", seed)

		// Spawn point sits on spawn tiles inside the start room.
		require.True(t, layout.Map.WalkableAt(layout.StartCenter), "seed %d", seed)

		// Boss center lands on boss-floor and the boss room is >= 12x12.
		bx, by := int(layout.BossCenter.X), int(layout.BossCenter.Y)
		require.Equal(t, TileBossFloor, layout.Map.At(bx, by), "seed %d", seed)

		bossRooms := 0
		for _, r := range layout.Rooms {
			if r.Contains(bx, by) {
				bossRooms++
				require.GreaterOrEqual(t, r.W, 12, "seed %d", seed)
				require.GreaterOrEqual(t, r.H, 12, "seed %d", seed)
			}
		}
		require.Equal(t, 1, bossRooms, "seed %d", seed)

		// Exactly one boss spawn region with MaxAlive 1.
		bossRegions := 0
		for _, region := range layout.Map.Regions {
			for _, e := range region.Enemies {
				if e.EnemyID == def.Boss {
					bossRegions++
					require.Equal(t, 1, region.MaxAlive, "seed %d", seed)
				}
			}
		}
		require.Equal(t, 1, bossRegions, "seed %d", seed)

		// Every room is reachable: all carved tiles form one component
		// when flooded from the start.
		requireConnected(t, layout, seed)
	}
}

func requireConnected(t *testing.T, layout *DungeonLayout, seed uint64) {
	t.Helper()
	m := layout.Map
	visited := make([]bool, m.Width*m.Height)
	sx, sy := int(layout.StartCenter.X), int(layout.StartCenter.Y)
	queue := [][2]int{{sx, sy}}
	visited[sy*m.Width+sx] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cur[0]+d[0], cur[1]+d[1]
			if nx < 0 || ny < 0 || nx >= m.Width || ny >= m.Height {
				continue
			}
			if visited[ny*m.Width+nx] || !m.Walkable(nx, ny) {
				continue
			}
			visited[ny*m.Width+nx] = true
			queue = append(queue, [2]int{nx, ny})
		}
	}
	for _, r := range layout.Rooms {
		cx, cy := r.X+r.W/2, r.Y+r.H/2
		require.True(t, visited[cy*m.Width+cx],
			"seed %d: room at (%d,%d) unreachable from start", seed, r.X, r.Y)
	}
}
