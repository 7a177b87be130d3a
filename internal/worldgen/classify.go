package worldgen

import (
	"math"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

// Classification thresholds. Band edges are elevation units; noise
// thresholds apply to normalized channels in [0, 1].
const (
	mountainThreshold = 0.75
	mountainHeightMin = 0.55

	deepDelta    = 1.5
	shallowDelta = 0.5

	lakeRarity  = 0.12
	lakeNearSea = 0.8

	grassMax  = 5.5
	forestMax = 7.0
	rockMax   = 8.2

	riverWidth = 0.035
)

// Classifier assigns terrain types through an ordered threshold
// cascade. It is a pure function of the sampler's seed and its inputs.
type Classifier struct {
	sampler Sampler
}

// NewClassifier wraps a sampler.
func NewClassifier(s Sampler) Classifier {
	return Classifier{sampler: s}
}

// channelGates are the thresholded noise reads for one coordinate.
type channelGates struct {
	mountain     bool
	lake         bool
	river        bool
	mountainElev float64
}

func (c Classifier) gatesAt(x, y int) channelGates {
	return channelGates{
		mountain:     c.sampler.Mountain(x, y) > mountainThreshold,
		lake:         c.sampler.Lake(x, y) < lakeRarity,
		river:        c.sampler.IsRiverAt(x, y, riverWidth),
		mountainElev: c.sampler.MountainElevation(x, y),
	}
}

// Classify resolves the terrain type and final elevation for one tile.
func (c Classifier) Classify(x, y int, elevation, seaLevel, heightNoise float64, highGround bool) (model.TerrainType, float64) {
	return resolve(c.gatesAt(x, y), elevation, seaLevel, heightNoise, highGround)
}

// resolve applies the ordered cascade. The check order is load-bearing:
// mountains ignore sea level entirely, open sea wins over lakes, lakes
// over bands, and rivers carve last but never through open sea or high
// ground.
func resolve(g channelGates, elevation, seaLevel, heightNoise float64, highGround bool) (model.TerrainType, float64) {
	if g.mountain && heightNoise > mountainHeightMin {
		return model.TerrainStone, g.mountainElev
	}

	if elevation < seaLevel-deepDelta {
		return model.TerrainDeepOcean, math.Max(elevation, 0)
	}
	if elevation < seaLevel-shallowDelta {
		return model.TerrainWater, elevation
	}

	if g.lake && !highGround && elevation < seaLevel+lakeNearSea {
		return model.TerrainWater, seaLevel - shallowDelta
	}

	t := bandFor(elevation, seaLevel, highGround)

	if g.river && !highGround {
		return model.TerrainRiver, seaLevel
	}

	return t, elevation
}

// bandFor maps elevation to the standard land bands. High-ground tiles
// always read as Grass so the safe patches stay buildable.
func bandFor(elevation, seaLevel float64, highGround bool) model.TerrainType {
	if highGround {
		return model.TerrainGrass
	}
	switch {
	case elevation <= seaLevel:
		return model.TerrainSand
	case elevation <= grassMax:
		return model.TerrainGrass
	case elevation <= forestMax:
		return model.TerrainForest
	case elevation <= rockMax:
		return model.TerrainRock
	default:
		return model.TerrainSnow
	}
}
