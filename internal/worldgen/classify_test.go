package worldgen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

func TestResolve_DeepOcean(t *testing.T) {
	typ, e := resolve(channelGates{}, 1.0, 3.0, 0.1, false)
	assert.Equal(t, model.TerrainDeepOcean, typ)
	assert.Equal(t, 1.0, e)
}

func TestResolve_DeepOceanClampsElevation(t *testing.T) {
	typ, e := resolve(channelGates{}, -0.25, 3.0, 0.1, false)
	assert.Equal(t, model.TerrainDeepOcean, typ)
	assert.Equal(t, 0.0, e)
}

func TestResolve_ShallowWater(t *testing.T) {
	typ, e := resolve(channelGates{}, 2.0, 3.0, 0.1, false)
	assert.Equal(t, model.TerrainWater, typ)
	assert.Equal(t, 2.0, e)
}

func TestResolve_LakeCarvePinsElevation(t *testing.T) {
	typ, e := resolve(channelGates{lake: true}, 3.2, 3.0, 0.1, false)
	assert.Equal(t, model.TerrainWater, typ)
	assert.Equal(t, 2.5, e)
}

func TestResolve_LakeNeedsNearSeaElevation(t *testing.T) {
	typ, _ := resolve(channelGates{lake: true}, 4.5, 3.0, 0.1, false)
	assert.Equal(t, model.TerrainGrass, typ)
}

func TestResolve_LakeSuppressedOnHighGround(t *testing.T) {
	typ, e := resolve(channelGates{lake: true}, 3.2, 3.0, 0.1, true)
	assert.Equal(t, model.TerrainGrass, typ)
	assert.Equal(t, 3.2, e)
}

func TestResolve_ElevationBands(t *testing.T) {
	cases := []struct {
		elevation float64
		want      model.TerrainType
	}{
		{2.8, model.TerrainSand},
		{3.0, model.TerrainSand},
		{4.0, model.TerrainGrass},
		{5.5, model.TerrainGrass},
		{6.0, model.TerrainForest},
		{7.0, model.TerrainForest},
		{7.5, model.TerrainRock},
		{8.2, model.TerrainRock},
		{8.5, model.TerrainSnow},
	}
	for _, tc := range cases {
		typ, e := resolve(channelGates{}, tc.elevation, 3.0, 0.1, false)
		assert.Equal(t, tc.want, typ, "elevation %.1f", tc.elevation)
		assert.Equal(t, tc.elevation, e)
	}
}

func TestResolve_RiverCarvePinsToSeaLevel(t *testing.T) {
	typ, e := resolve(channelGates{river: true}, 4.0, 3.0, 0.1, false)
	assert.Equal(t, model.TerrainRiver, typ)
	assert.Equal(t, 3.0, e)
}

func TestResolve_RiverNeverOverridesOpenSea(t *testing.T) {
	typ, _ := resolve(channelGates{river: true}, 1.0, 3.0, 0.1, false)
	assert.Equal(t, model.TerrainDeepOcean, typ)

	typ, _ = resolve(channelGates{river: true}, 2.0, 3.0, 0.1, false)
	assert.Equal(t, model.TerrainWater, typ)
}

func TestResolve_RiverSuppressedOnHighGround(t *testing.T) {
	typ, _ := resolve(channelGates{river: true}, 7.5, 3.0, 0.1, true)
	assert.Equal(t, model.TerrainGrass, typ)
}

func TestResolve_MountainOverride(t *testing.T) {
	// Mountains ignore sea level: an elevation far below the waterline
	// still turns to stone when both gates pass.
	typ, e := resolve(channelGates{mountain: true, mountainElev: 9.6}, 1.0, 3.0, 0.9, false)
	assert.Equal(t, model.TerrainStone, typ)
	assert.Equal(t, 9.6, e)
}

func TestResolve_MountainNeedsBothGates(t *testing.T) {
	typ, _ := resolve(channelGates{mountain: true, mountainElev: 9.6}, 4.0, 3.0, 0.2, false)
	assert.NotEqual(t, model.TerrainStone, typ)

	typ, _ = resolve(channelGates{mountain: false}, 4.0, 3.0, 0.9, false)
	assert.NotEqual(t, model.TerrainStone, typ)
}

func TestResolve_MountainBeatsLakeAndRiver(t *testing.T) {
	g := channelGates{mountain: true, lake: true, river: true, mountainElev: 9.2}
	typ, e := resolve(g, 3.2, 3.0, 0.9, false)
	assert.Equal(t, model.TerrainStone, typ)
	assert.Equal(t, 9.2, e)
}

func TestResolve_HighGroundReadsGrass(t *testing.T) {
	// Band logic would call 7.8 Rock; safe patches stay buildable.
	typ, e := resolve(channelGates{}, 7.8, 3.0, 0.1, true)
	assert.Equal(t, model.TerrainGrass, typ)
	assert.Equal(t, 7.8, e)
}

func TestClassify_Deterministic(t *testing.T) {
	c1 := NewClassifier(NewSampler(42, 64, 64))
	c2 := NewClassifier(NewSampler(42, 64, 64))

	for y := 0; y < 64; y += 5 {
		for x := 0; x < 64; x += 5 {
			t1, e1 := c1.Classify(x, y, 4.2, 3.0, 0.6, false)
			t2, e2 := c2.Classify(x, y, 4.2, 3.0, 0.6, false)
			assert.Equal(t, t1, t2)
			assert.Equal(t, e1, e2)
		}
	}
}
