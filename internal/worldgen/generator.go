package worldgen

import (
	"math/rand"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/world"
)

// Feature spawn tuning.
const (
	treeChanceForest = 0.75
	treeChanceGrass  = 0.10
	treeChanceSnow   = 0.04

	lodeStoneMin  = 500
	lodeStoneSpan = 1500

	surfaceDepositAttempts = 80
	surfaceStoneMin        = 50
	surfaceStoneSpan       = 150
	surfaceMetalMax        = 9

	berryAttempts = 400

	maxSpawnRadius = 50
)

// Params configures world generation. SeaLevel is the initial level,
// normally the first geological period's target.
type Params struct {
	Width     int
	Height    int
	Seed      int64
	SeaLevel  float64
	Patches   int
	PatchSize int
}

// Generator builds a world grid from a seed. Every random draw flows
// from the one seeded RNG or the seeded noise field, so a fixed seed
// reproduces the whole world, patches and spawns included.
type Generator struct {
	params     Params
	sampler    Sampler
	classifier Classifier
	rng        *rand.Rand
}

// NewGenerator validates params and prepares the seeded context.
func NewGenerator(p Params) (*Generator, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, eris.Errorf("worldgen: invalid map dimensions %dx%d", p.Width, p.Height)
	}
	if p.PatchSize > p.Width || p.PatchSize > p.Height {
		return nil, eris.Errorf("worldgen: patch size %d exceeds map dimensions", p.PatchSize)
	}
	s := NewSampler(p.Seed, p.Width, p.Height)
	return &Generator{
		params:     p,
		sampler:    s,
		classifier: NewClassifier(s),
		rng:        rand.New(rand.NewSource(p.Seed)),
	}, nil
}

// Generate runs the full pipeline: patch planning, per-tile
// classification, then feature spawning.
func (g *Generator) Generate() (*world.Grid, []model.HighGroundPatch, error) {
	grid, err := world.NewGrid(g.params.Width, g.params.Height)
	if err != nil {
		return nil, nil, err
	}

	patches := PlanPatches(g.rng, g.params.Width, g.params.Height, g.params.Patches, g.params.PatchSize)

	grid.Each(func(x, y int, t *model.Tile) {
		high := InHighGround(x, y, patches)
		height := g.sampler.Height(x, y)

		elevation := g.sampler.Elevation(x, y)
		if high {
			elevation = highGroundElevation(g.rng)
		}

		typ, finalElevation := g.classifier.Classify(x, y, elevation, g.params.SeaLevel, height, high)
		t.Type = typ
		t.Elevation = finalElevation
		t.OriginalType = restoreTypeFor(typ)

		g.decorate(t)
	})

	g.scatterDeposits(grid)
	g.scatterBerries(grid)

	census := grid.Census()
	zap.L().Info("worldgen: terrain generated",
		zap.Int64("seed", g.params.Seed),
		zap.Int("width", g.params.Width),
		zap.Int("height", g.params.Height),
		zap.Int("land", census.Land),
		zap.Int("water", census.Water),
		zap.Int("buildable", census.Buildable),
		zap.Int("patches", len(patches)),
	)

	return grid, patches, nil
}

// restoreTypeFor picks the terrain a tile returns to when it drains.
// Sea tiles fall back to Sand; everything else, rivers included,
// restores to itself.
func restoreTypeFor(t model.TerrainType) model.TerrainType {
	if t.IsWater() {
		return model.TerrainSand
	}
	return t
}

// decorate assigns the probabilistic tree flag and the stone lode
// attached to mountain tiles.
func (g *Generator) decorate(t *model.Tile) {
	switch t.Type {
	case model.TerrainForest:
		t.Tree = g.rng.Float64() < treeChanceForest
	case model.TerrainGrass:
		t.Tree = g.rng.Float64() < treeChanceGrass
	case model.TerrainSnow:
		t.Tree = g.rng.Float64() < treeChanceSnow
	case model.TerrainStone:
		t.Deposit = &model.Deposit{Stone: lodeStoneMin + g.rng.Intn(lodeStoneSpan)}
	}
}

// scatterDeposits sprinkles mineable surface deposits on rock and
// grass. Metal richness clusters around worley feature points.
func (g *Generator) scatterDeposits(grid *world.Grid) {
	for i := 0; i < surfaceDepositAttempts; i++ {
		x := g.rng.Intn(grid.Width())
		y := g.rng.Intn(grid.Height())
		t := grid.At(x, y)
		if t.Type != model.TerrainRock && t.Type != model.TerrainGrass {
			continue
		}
		if t.Deposit != nil {
			continue
		}
		richness := 1 - g.sampler.Worley(x, y)
		t.Deposit = &model.Deposit{
			Stone: surfaceStoneMin + g.rng.Intn(surfaceStoneSpan),
			Metal: 1 + int(richness*surfaceMetalMax),
		}
	}
}

// scatterBerries marks forageable berry bushes on passable tiles.
func (g *Generator) scatterBerries(grid *world.Grid) {
	for i := 0; i < berryAttempts; i++ {
		x := g.rng.Intn(grid.Width())
		y := g.rng.Intn(grid.Height())
		if t := grid.At(x, y); t.Passable() {
			t.Berry = true
		}
	}
}

// FindSpawn locates a passable tile near the map center, widening the
// search square ring by ring. The boolean is false when nothing
// passable exists within the search radius; callers may still fall
// back to the center coordinate.
func FindSpawn(grid *world.Grid) (int, int, bool) {
	cx := grid.Width() / 2
	cy := grid.Height() / 2
	for radius := 0; radius <= maxSpawnRadius; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				x, y := cx+dx, cy+dy
				if t := grid.At(x, y); t != nil && t.Passable() {
					return x, y, true
				}
			}
		}
	}
	return cx, cy, false
}
