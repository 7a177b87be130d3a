// Package worldgen builds the initial world: noise channel sampling,
// high-ground planning, terrain classification and feature spawning.
package worldgen

import (
	"math"

	"github.com/beautifulplanet/Civil-Zones-sub001/pkg/noise"
)

// Channel frequencies and offsets. All five channels share one seeded
// field; the offsets decorrelate features that would otherwise overlap
// spatially.
const (
	heightFreq   = 8.0
	oceanFreq    = 4.0
	lakeFreq     = 6.0
	mountainFreq = 5.0
	riverFreq    = 3.0

	oceanOffset    = 1000.0
	lakeOffset     = 5000.0
	mountainOffset = 9000.0
	riverOffset    = 3000.0
)

// landScale maps composite noise into elevation units. Ordinary terrain
// tops out at 9; only the mountain draw may exceed it.
const landScale = 9.0

// oceanWeight is the ocean channel's share of composite elevation; it
// shapes basins and coastlines independently of the height channel.
const oceanWeight = 0.2

// Sampler exposes the derived terrain channels for one world. Grid
// coordinates are normalized by map dimensions before sampling so the
// same seed yields the same continent shape at any resolution.
type Sampler struct {
	field noise.Field
	invW  float64
	invH  float64
}

// NewSampler builds a Sampler over a seeded field.
func NewSampler(seed int64, width, height int) Sampler {
	return Sampler{
		field: noise.New(seed),
		invW:  1.0 / float64(width),
		invH:  1.0 / float64(height),
	}
}

// Height is the primary terrain channel in [0, 1].
func (s Sampler) Height(x, y int) float64 {
	return s.field.FBMNorm(float64(x)*s.invW*heightFreq, float64(y)*s.invH*heightFreq)
}

// Ocean is the basin-shaping channel in [0, 1].
func (s Sampler) Ocean(x, y int) float64 {
	return s.field.FBMNorm(float64(x)*s.invW*oceanFreq+oceanOffset, float64(y)*s.invH*oceanFreq+oceanOffset)
}

// Lake is the inland-lake rarity channel in [0, 1].
func (s Sampler) Lake(x, y int) float64 {
	return s.field.FBMNorm(float64(x)*s.invW*lakeFreq+lakeOffset, float64(y)*s.invH*lakeFreq+lakeOffset)
}

// Mountain is the mountain-override channel in [0, 1].
func (s Sampler) Mountain(x, y int) float64 {
	return s.field.FBMNorm(float64(x)*s.invW*mountainFreq+mountainOffset, float64(y)*s.invH*mountainFreq+mountainOffset)
}

// River is the river-carving channel in [0, 1].
func (s Sampler) River(x, y int) float64 {
	return s.field.FBMNorm(float64(x)*s.invW*riverFreq+riverOffset, float64(y)*s.invH*riverFreq+riverOffset)
}

// IsRiverAt reports whether the river channel sits on its midpoint
// iso-band at (x, y) within the given half-width.
func (s Sampler) IsRiverAt(x, y int, width float64) bool {
	return math.Abs(s.River(x, y)-0.5) < width
}

// Elevation composes height and ocean channels into ordinary terrain
// elevation in [0, 9].
func (s Sampler) Elevation(x, y int) float64 {
	v := (1-oceanWeight)*s.Height(x, y) + oceanWeight*s.Ocean(x, y)
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v * landScale
}

// MountainElevation draws a deterministic peak elevation from [9, 11)
// and clamps it to the domain ceiling of 10.
func (s Sampler) MountainElevation(x, y int) float64 {
	e := 9 + 2*s.field.Hash(float64(x)+mountainOffset, float64(y)+mountainOffset)
	if e > 10 {
		e = 10
	}
	return e
}

// Worley exposes cellular noise in map coordinates, used to cluster
// metal richness in scattered deposits.
func (s Sampler) Worley(x, y int) float64 {
	return s.field.Worley(float64(x)*s.invW*lakeFreq, float64(y)*s.invH*lakeFreq)
}
