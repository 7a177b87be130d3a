package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

func TestNewGrid_InvalidDimensions(t *testing.T) {
	_, err := NewGrid(0, 10)
	assert.Error(t, err)
	_, err = NewGrid(10, -1)
	assert.Error(t, err)
}

func TestGrid_AtBounds(t *testing.T) {
	g, err := NewGrid(4, 3)
	require.NoError(t, err)

	assert.NotNil(t, g.At(0, 0))
	assert.NotNil(t, g.At(3, 2))
	assert.Nil(t, g.At(4, 0))
	assert.Nil(t, g.At(0, 3))
	assert.Nil(t, g.At(-1, 0))
}

func TestGrid_TypeAndElevationAccessors(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)

	tile := g.At(1, 1)
	tile.Type = model.TerrainForest
	tile.Elevation = 6.25

	tt, ok := g.TypeAt(1, 1)
	require.True(t, ok)
	assert.Equal(t, model.TerrainForest, tt)

	e, ok := g.ElevationAt(1, 1)
	require.True(t, ok)
	assert.Equal(t, 6.25, e)

	_, ok = g.TypeAt(2, 0)
	assert.False(t, ok)
	_, ok = g.ElevationAt(0, 2)
	assert.False(t, ok)
}

func TestGrid_ExploreArea_ClipsToEdges(t *testing.T) {
	g, err := NewGrid(5, 5)
	require.NoError(t, err)

	g.ExploreArea(0, 0, 2)

	assert.True(t, g.ExploredAt(0, 0))
	assert.True(t, g.ExploredAt(2, 2))
	assert.False(t, g.ExploredAt(3, 3))
	assert.False(t, g.ExploredAt(-1, 0))
}

func TestGrid_Each_VisitsAllInRowMajorOrder(t *testing.T) {
	g, err := NewGrid(3, 2)
	require.NoError(t, err)

	var visited []int
	g.Each(func(x, y int, _ *model.Tile) {
		visited = append(visited, y*3+x)
	})

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, visited)
}

func TestGrid_Census(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)

	g.At(0, 0).Type = model.TerrainWater
	g.At(1, 0).Type = model.TerrainGrass
	g.At(1, 0).Tree = true
	g.At(0, 1).Type = model.TerrainGrass
	g.At(1, 1).Type = model.TerrainRock
	g.At(1, 1).Deposit = &model.Deposit{Stone: 10}

	c := g.Census()

	assert.Equal(t, 1, c.Water)
	assert.Equal(t, 3, c.Land)
	assert.Equal(t, 2, c.ByType[model.TerrainGrass])
	assert.Equal(t, 2, c.Buildable)
	assert.Equal(t, 1, c.Trees)
	assert.Equal(t, 1, c.Deposits)
}

func TestGrid_TypeGrid_Snapshot(t *testing.T) {
	g, err := NewGrid(2, 1)
	require.NoError(t, err)
	g.At(0, 0).Type = model.TerrainSand

	snap := g.TypeGrid()
	require.Len(t, snap, 2)
	assert.Equal(t, model.TerrainSand, snap[0])

	// Snapshot is a copy, later mutation must not leak in.
	g.At(0, 0).Type = model.TerrainSnow
	assert.Equal(t, model.TerrainSand, snap[0])
}
