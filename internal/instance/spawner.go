package instance

// runSpawns accumulates per-region timers and repopulates regions under
// their caps. Dungeons go inert once the initial bulk spawn is done.
func (in *Instance) runSpawns(dt float64) {
	if in.Dungeon != nil && in.Dungeon.InitialSpawnDone {
		return
	}
	for i := range in.Map.Regions {
		region := &in.Map.Regions[i]
		if region.Rate <= 0 {
			continue
		}
		in.regionTimers[i] += dt
		interval := 1 / region.Rate
		if in.regionTimers[i] < interval {
			continue
		}
		in.regionTimers[i] = 0

		if in.regionPopulation(i) >= region.MaxAlive {
			continue
		}
		pos, ok := in.Map.RandomWalkableIn(in.rng, region.Area, 20)
		if !ok {
			continue
		}
		if defID := region.PickEnemy(in.rng); defID != "" {
			in.SpawnEnemy(defID, pos)
		}
	}
}

// regionPopulation counts live enemies standing inside the region rect.
func (in *Instance) regionPopulation(regionIdx int) int {
	area := in.Map.Regions[regionIdx].Area
	n := 0
	for _, e := range in.enemies {
		if !e.Removed() && area.ContainsPos(e.Pos) {
			n++
		}
	}
	return n
}

// BulkSpawn fills every region up to its cap at once. Used when a dungeon
// is minted; afterwards the scheduler is inert for dungeon instances.
func (in *Instance) BulkSpawn() {
	for i := range in.Map.Regions {
		region := &in.Map.Regions[i]
		for in.regionPopulation(i) < region.MaxAlive {
			pos, ok := in.Map.RandomWalkableIn(in.rng, region.Area, 20)
			if !ok {
				break
			}
			defID := region.PickEnemy(in.rng)
			if defID == "" {
				break
			}
			if in.SpawnEnemy(defID, pos) == nil {
				break
			}
		}
	}
	if in.Dungeon != nil {
		in.Dungeon.InitialSpawnDone = true
	}
}
