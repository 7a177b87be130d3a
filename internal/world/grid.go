// Package world holds the tile grid and its access rules. The grid is
// flat row-major storage; nothing here is safe for concurrent mutation,
// callers serialize writes.
package world

import (
	"github.com/rotisserie/eris"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

// Grid is the world surface. All tile state lives in a single flat
// slice indexed y*width+x.
type Grid struct {
	width  int
	height int
	tiles  []model.Tile
}

// NewGrid allocates a grid of the given dimensions.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, eris.Errorf("world: invalid grid dimensions %dx%d", width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		tiles:  make([]model.Tile, width*height),
	}, nil
}

// Width returns the horizontal tile count.
func (g *Grid) Width() int { return g.width }

// Height returns the vertical tile count.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the tile at (x, y), or nil when out of bounds.
func (g *Grid) At(x, y int) *model.Tile {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.tiles[y*g.width+x]
}

// TypeAt returns the terrain type at (x, y). The second return is false
// when the coordinate is off the grid.
func (g *Grid) TypeAt(x, y int) (model.TerrainType, bool) {
	if !g.InBounds(x, y) {
		return 0, false
	}
	return g.tiles[y*g.width+x].Type, true
}

// ElevationAt returns the elevation at (x, y), false when out of bounds.
func (g *Grid) ElevationAt(x, y int) (float64, bool) {
	if !g.InBounds(x, y) {
		return 0, false
	}
	return g.tiles[y*g.width+x].Elevation, true
}

// ExploredAt reports whether (x, y) has been explored. Off-grid
// coordinates read as unexplored.
func (g *Grid) ExploredAt(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.tiles[y*g.width+x].Explored
}

// ExploreArea marks every tile within a square radius as explored,
// clipped to the grid edges.
func (g *Grid) ExploreArea(centerX, centerY, radius int) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if t := g.At(centerX+dx, centerY+dy); t != nil {
				t.Explored = true
			}
		}
	}
}

// Each visits every tile in row-major order.
func (g *Grid) Each(fn func(x, y int, t *model.Tile)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			fn(x, y, &g.tiles[y*g.width+x])
		}
	}
}

// TypeGrid returns a flat row-major copy of every tile's terrain type,
// used for snapshot comparison.
func (g *Grid) TypeGrid() []model.TerrainType {
	out := make([]model.TerrainType, len(g.tiles))
	for i := range g.tiles {
		out[i] = g.tiles[i].Type
	}
	return out
}

// Census summarizes grid composition.
type Census struct {
	ByType    map[model.TerrainType]int
	Land      int
	Water     int
	Buildable int
	Explored  int
	Trees     int
	Deposits  int
}

// Census counts tiles by classification in a single scan.
func (g *Grid) Census() Census {
	c := Census{ByType: make(map[model.TerrainType]int)}
	for i := range g.tiles {
		t := &g.tiles[i]
		c.ByType[t.Type]++
		if t.Type.IsWater() {
			c.Water++
		} else {
			c.Land++
		}
		if t.Buildable() {
			c.Buildable++
		}
		if t.Explored {
			c.Explored++
		}
		if t.Tree {
			c.Trees++
		}
		if t.Deposit != nil {
			c.Deposits++
		}
	}
	return c
}
