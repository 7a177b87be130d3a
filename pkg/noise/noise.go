// Package noise implements seeded deterministic 2D value noise with
// fractal combination. It is the single randomness primitive behind
// terrain generation: two Fields built from the same seed agree at
// every coordinate, and there is no package-level state.
package noise

import "math"

// Octaves is the number of layers summed by FBM.
const Octaves = 5

// fbmCeiling normalizes raw FBM sums into [0, 1]. The theoretical
// 5-octave maximum is 1.9375 but observed sums stay under 1.8.
const fbmCeiling = 1.8

// Field is a seeded noise context.
type Field struct {
	seed float64
}

// New returns a Field for the given seed.
func New(seed int64) Field {
	return Field{seed: float64(seed)}
}

// Hash maps a lattice coordinate to a pseudo-random value in [0, 1).
func (f Field) Hash(x, y float64) float64 {
	v := math.Sin(x*12.98+y*78.23+f.seed) * 43758.54
	return v - math.Floor(v)
}

// Value samples smoothed noise at (x, y): the four surrounding lattice
// hashes blended bilinearly with smoothstep easing. Result is in [0, 1).
func (f Field) Value(x, y float64) float64 {
	ix := math.Floor(x)
	iy := math.Floor(y)
	fx := x - ix
	fy := y - iy

	a := f.Hash(ix, iy)
	b := f.Hash(ix+1, iy)
	c := f.Hash(ix, iy+1)
	d := f.Hash(ix+1, iy+1)

	u := fx * fx * (3 - 2*fx)
	v := fy * fy * (3 - 2*fy)

	return a*(1-u)*(1-v) + b*u*(1-v) + c*(1-u)*v + d*u*v
}

// FBMOctaves sums octaves layers of Value, doubling frequency and
// halving amplitude per layer.
func (f Field) FBMOctaves(x, y float64, octaves int) float64 {
	sum := 0.0
	amplitude := 1.0
	frequency := 1.0
	for i := 0; i < octaves; i++ {
		sum += f.Value(x*frequency, y*frequency) * amplitude
		frequency *= 2
		amplitude *= 0.5
	}
	return sum
}

// FBM is FBMOctaves at the standard depth. The raw sum lies in
// [0, 1.9375).
func (f Field) FBM(x, y float64) float64 {
	return f.FBMOctaves(x, y, Octaves)
}

// FBMNorm is FBM scaled by the empirical ceiling and clamped to [0, 1].
func (f Field) FBMNorm(x, y float64) float64 {
	v := f.FBM(x, y) / fbmCeiling
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Worley returns cellular noise: distance from (x, y) to the nearest
// feature point in the surrounding 3x3 lattice cells, clamped to [0, 1].
// Values near 0 cluster tightly around feature points.
func (f Field) Worley(x, y float64) float64 {
	cx := math.Floor(x)
	cy := math.Floor(y)
	best := math.MaxFloat64
	for j := -1.0; j <= 1; j++ {
		for i := -1.0; i <= 1; i++ {
			px := cx + i + f.Hash(cx+i, cy+j)
			py := cy + j + f.Hash(cx+i+57, cy+j+113)
			if d := math.Hypot(px-x, py-y); d < best {
				best = d
			}
		}
	}
	if best > 1 {
		return 1
	}
	return best
}
