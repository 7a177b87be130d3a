package worldgen

import (
	"math/rand"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

// High-ground member tiles are forced into this elevation range, above
// any reachable sea level, so they never flood.
const (
	highGroundMin  = 7.0
	highGroundSpan = 1.5
)

// PlanPatches scatters count square patches of the given size across
// the map using the generation RNG. Patches may overlap; with a handful
// of patches on a large map overlaps stay rare and are harmless.
func PlanPatches(rng *rand.Rand, width, height, count, size int) []model.HighGroundPatch {
	if count <= 0 || size <= 0 || size > width || size > height {
		return nil
	}
	patches := make([]model.HighGroundPatch, 0, count)
	for i := 0; i < count; i++ {
		patches = append(patches, model.HighGroundPatch{
			X:    rng.Intn(width - size + 1),
			Y:    rng.Intn(height - size + 1),
			Size: size,
		})
	}
	return patches
}

// InHighGround is a linear-scan membership test, called once per tile
// during generation only.
func InHighGround(x, y int, patches []model.HighGroundPatch) bool {
	for _, p := range patches {
		if p.Contains(x, y) {
			return true
		}
	}
	return false
}

// highGroundElevation draws a member tile's elevation from [7.0, 8.5).
func highGroundElevation(rng *rand.Rand) float64 {
	return highGroundMin + rng.Float64()*highGroundSpan
}
