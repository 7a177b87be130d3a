package geology

import (
	"sort"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/world"
)

// Transition gates. Tiles at or below the flood floor are permanent sea
// bed and tiles at or above the ceiling are permanent land; neither
// ever changes type. Draining additionally requires clearing the drain
// floor, so land that sank deep enough stays submerged even when the
// sea falls past it.
const (
	floodFloor   = 0.0
	floodCeiling = 8.0
	drainFloor   = 1.0
)

// Sweep compares every tile's fixed elevation against the current sea
// level, flooding sunken land and draining risen sea bed. The grid is
// mutated in place and the building list is filtered; the surviving
// list is returned alongside a result describing the change. Folding
// population losses into the settlement and deciding game-over are the
// caller's job.
//
// At a constant sea level the sweep is idempotent: a second pass finds
// nothing to do.
func Sweep(grid *world.Grid, buildings []*model.Building, player *model.Player, seaLevel float64) (model.FloodResult, []*model.Building) {
	var res model.FloodResult
	seen := make(map[*model.Building]struct{})
	doomed := make(map[int]struct{})

	grid.Each(func(x, y int, t *model.Tile) {
		if t.Elevation <= floodFloor || t.Elevation >= floodCeiling {
			return
		}
		switch {
		case t.Elevation < seaLevel && !t.Type.IsWater():
			floodTile(x, y, t, buildings, player, seen, doomed, &res)
		case t.Type.IsWater() && t.Elevation >= seaLevel && t.Elevation > drainFloor:
			drainTile(t, &res)
		}
	})

	// A structure with any footprint tile underwater is lost whole, so
	// the dry remainder of its footprint must drop its reference too.
	for b := range seen {
		clearFootprint(grid, b)
	}

	return res, removeDoomed(buildings, doomed)
}

// TilesAtRisk counts dry land that would flood if the sea rose by
// margin, using the same exemptions as the sweep itself.
func TilesAtRisk(grid *world.Grid, seaLevel, margin float64) int {
	n := 0
	grid.Each(func(x, y int, t *model.Tile) {
		if t.Elevation <= floodFloor || t.Elevation >= floodCeiling {
			return
		}
		if !t.Type.IsWater() && t.Elevation < seaLevel+margin {
			n++
		}
	})
	return n
}

func clearFootprint(grid *world.Grid, b *model.Building) {
	s := b.Type.Footprint()
	for dy := 0; dy < s; dy++ {
		for dx := 0; dx < s; dx++ {
			if t := grid.At(b.X+dx, b.Y+dy); t != nil && t.Building == b {
				t.Building = nil
			}
		}
	}
}

// floodTile submerges one tile: occupants from both the tile itself and
// the building list are merged through a single identity set so a
// structure spanning several flooded tiles, or referenced from both
// places, loses its population exactly once.
func floodTile(x, y int, t *model.Tile, buildings []*model.Building, player *model.Player, seen map[*model.Building]struct{}, doomed map[int]struct{}, res *model.FloodResult) {
	if t.Building != nil {
		destroy(t.Building, seen, res)
	}
	for i, b := range buildings {
		if b.Covers(x, y) {
			destroy(b, seen, res)
			doomed[i] = struct{}{}
		}
	}
	if player != nil && player.X == x && player.Y == y {
		res.PopulationDrowned += player.Population
		res.PlayerDrowned = true
	}

	t.ClearFeatures()
	t.Type = model.TerrainWater
	res.TilesFlooded++
}

func destroy(b *model.Building, seen map[*model.Building]struct{}, res *model.FloodResult) {
	if _, ok := seen[b]; ok {
		return
	}
	seen[b] = struct{}{}
	res.Destroyed = append(res.Destroyed, model.DestroyedBuilding{
		X:          b.X,
		Y:          b.Y,
		Type:       b.Type,
		Population: b.Population,
	})
	res.PopulationDrowned += b.Population
	if b.Type == model.BuildingWell {
		res.WellsLost++
	}
}

// drainTile restores the pre-flood terrain. A water original, which can
// only mean the tile has carried water since generation, resurfaces as
// sand.
func drainTile(t *model.Tile, res *model.FloodResult) {
	restored := t.OriginalType
	if restored.IsWater() {
		restored = model.TerrainSand
	}
	t.Type = restored
	res.TilesDrained++
}

// removeDoomed splices out the collected indices highest-first, since
// ascending removal would shift every later index mid-loop.
func removeDoomed(buildings []*model.Building, doomed map[int]struct{}) []*model.Building {
	if len(doomed) == 0 {
		return buildings
	}
	idx := make([]int, 0, len(doomed))
	for i := range doomed {
		idx = append(idx, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(idx)))
	for _, i := range idx {
		buildings = append(buildings[:i], buildings[i+1:]...)
	}
	return buildings
}
