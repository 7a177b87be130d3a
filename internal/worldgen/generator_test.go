package worldgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/world"
)

func testParams(seed int64) Params {
	return Params{
		Width:     64,
		Height:    64,
		Seed:      seed,
		SeaLevel:  3.0,
		Patches:   6,
		PatchSize: 5,
	}
}

func generateWorld(t *testing.T, p Params) (*world.Grid, []model.HighGroundPatch) {
	t.Helper()
	g, err := NewGenerator(p)
	require.NoError(t, err)
	grid, patches, err := g.Generate()
	require.NoError(t, err)
	return grid, patches
}

func TestNewGenerator_Validation(t *testing.T) {
	_, err := NewGenerator(Params{Width: 0, Height: 64})
	assert.Error(t, err)

	_, err = NewGenerator(Params{Width: 64, Height: -1})
	assert.Error(t, err)

	_, err = NewGenerator(Params{Width: 64, Height: 64, PatchSize: 65})
	assert.Error(t, err)
}

func TestGenerate_Deterministic(t *testing.T) {
	grid1, patches1 := generateWorld(t, testParams(42))
	grid2, patches2 := generateWorld(t, testParams(42))

	assert.Equal(t, patches1, patches2)
	assert.Equal(t, grid1.TypeGrid(), grid2.TypeGrid())

	grid1.Each(func(x, y int, tile *model.Tile) {
		other := grid2.At(x, y)
		assert.Equal(t, tile.Elevation, other.Elevation)
		assert.Equal(t, tile.Tree, other.Tree)
		assert.Equal(t, tile.Berry, other.Berry)
		assert.Equal(t, tile.Deposit, other.Deposit)
	})
}

func TestGenerate_SeedsDiverge(t *testing.T) {
	grid1, _ := generateWorld(t, testParams(1))
	grid2, _ := generateWorld(t, testParams(2))
	assert.NotEqual(t, grid1.TypeGrid(), grid2.TypeGrid())
}

func TestGenerate_ElevationBounds(t *testing.T) {
	grid, _ := generateWorld(t, testParams(42))
	grid.Each(func(x, y int, tile *model.Tile) {
		assert.GreaterOrEqual(t, tile.Elevation, 0.0, "tile (%d,%d)", x, y)
		assert.LessOrEqual(t, tile.Elevation, 10.0, "tile (%d,%d)", x, y)
	})
}

func TestGenerate_HighGroundGuarantee(t *testing.T) {
	grid, patches := generateWorld(t, testParams(42))
	require.Len(t, patches, 6)

	for _, p := range patches {
		for y := p.Y; y < p.Y+p.Size; y++ {
			for x := p.X; x < p.X+p.Size; x++ {
				e, ok := grid.ElevationAt(x, y)
				require.True(t, ok)
				assert.GreaterOrEqual(t, e, 7.0, "patch tile (%d,%d)", x, y)
			}
		}
	}
}

func TestGenerate_Seed42Scenario(t *testing.T) {
	grid, _ := generateWorld(t, testParams(42))

	grid.Each(func(x, y int, tile *model.Tile) {
		if tile.Elevation < 1.5 {
			assert.Equal(t, model.TerrainDeepOcean, tile.Type, "tile (%d,%d) e=%.2f", x, y, tile.Elevation)
		}
		if tile.Elevation > 9 {
			assert.Equal(t, model.TerrainStone, tile.Type, "tile (%d,%d) e=%.2f", x, y, tile.Elevation)
		}
	})

	regen, _ := generateWorld(t, testParams(42))
	assert.Equal(t, grid.TypeGrid(), regen.TypeGrid())
}

func TestGenerate_OriginalTypeNeverWater(t *testing.T) {
	grid, _ := generateWorld(t, testParams(42))
	grid.Each(func(x, y int, tile *model.Tile) {
		assert.False(t, tile.OriginalType.IsWater(), "tile (%d,%d)", x, y)
	})
}

func TestGenerate_SeaTilesRestoreToSand(t *testing.T) {
	grid, _ := generateWorld(t, testParams(42))
	grid.Each(func(x, y int, tile *model.Tile) {
		if tile.Type.IsWater() {
			assert.Equal(t, model.TerrainSand, tile.OriginalType)
		} else {
			assert.Equal(t, tile.Type, tile.OriginalType)
		}
	})
}

func TestGenerate_TreesRestrictedToGrassForestSnow(t *testing.T) {
	grid, _ := generateWorld(t, testParams(42))
	grid.Each(func(x, y int, tile *model.Tile) {
		if tile.Tree {
			assert.Contains(t,
				[]model.TerrainType{model.TerrainGrass, model.TerrainForest, model.TerrainSnow},
				tile.Type, "tile (%d,%d)", x, y)
		}
	})
}

func TestGenerate_DepositQuantities(t *testing.T) {
	grid, _ := generateWorld(t, testParams(42))
	grid.Each(func(x, y int, tile *model.Tile) {
		switch {
		case tile.Type == model.TerrainStone:
			require.NotNil(t, tile.Deposit, "stone tile (%d,%d) missing lode", x, y)
			assert.GreaterOrEqual(t, tile.Deposit.Stone, lodeStoneMin)
		case tile.Deposit != nil:
			// Scattered surface deposits land on rock or grass only.
			assert.Contains(t,
				[]model.TerrainType{model.TerrainRock, model.TerrainGrass},
				tile.Type)
			assert.GreaterOrEqual(t, tile.Deposit.Stone, surfaceStoneMin)
			assert.GreaterOrEqual(t, tile.Deposit.Metal, 1)
		}
	})
}

func TestGenerate_ClassificationConsistency(t *testing.T) {
	p := testParams(42)
	grid, patches := generateWorld(t, p)
	sea := p.SeaLevel

	grid.Each(func(x, y int, tile *model.Tile) {
		e := tile.Elevation
		switch tile.Type {
		case model.TerrainDeepOcean:
			assert.Less(t, e, sea-deepDelta, "deep tile (%d,%d)", x, y)
		case model.TerrainWater:
			assert.LessOrEqual(t, e, sea-shallowDelta, "water tile (%d,%d)", x, y)
		case model.TerrainRiver:
			assert.Equal(t, sea, e, "river tile (%d,%d)", x, y)
		case model.TerrainSand:
			assert.GreaterOrEqual(t, e, sea-shallowDelta)
			assert.LessOrEqual(t, e, sea)
		case model.TerrainStone:
			assert.GreaterOrEqual(t, e, 9.0)
			assert.LessOrEqual(t, e, 10.0)
		case model.TerrainGrass:
			if !InHighGround(x, y, patches) {
				assert.LessOrEqual(t, e, grassMax)
			}
		case model.TerrainForest:
			assert.Greater(t, e, grassMax)
			assert.LessOrEqual(t, e, forestMax)
		case model.TerrainRock:
			assert.Greater(t, e, forestMax)
			assert.LessOrEqual(t, e, rockMax)
		case model.TerrainSnow:
			assert.Greater(t, e, rockMax)
		}
	})
}

func TestGenerate_BerriesOnPassableTiles(t *testing.T) {
	grid, _ := generateWorld(t, testParams(42))
	grid.Each(func(x, y int, tile *model.Tile) {
		if tile.Berry {
			assert.True(t, tile.Passable(), "berry tile (%d,%d)", x, y)
		}
	})
}

func TestFindSpawn_NearCenterAndPassable(t *testing.T) {
	grid, _ := generateWorld(t, testParams(42))

	x, y, ok := FindSpawn(grid)
	require.True(t, ok)

	tile := grid.At(x, y)
	require.NotNil(t, tile)
	assert.True(t, tile.Passable())

	cx, cy := grid.Width()/2, grid.Height()/2
	assert.LessOrEqual(t, abs(x-cx), maxSpawnRadius)
	assert.LessOrEqual(t, abs(y-cy), maxSpawnRadius)
}

func TestFindSpawn_AllWaterFails(t *testing.T) {
	grid, err := world.NewGrid(16, 16)
	require.NoError(t, err)
	grid.Each(func(_, _ int, tile *model.Tile) {
		tile.Type = model.TerrainDeepOcean
	})

	_, _, ok := FindSpawn(grid)
	assert.False(t, ok)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
