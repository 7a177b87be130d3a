package worldgen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

func TestPlanPatches_QuotaAndBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	patches := PlanPatches(rng, 100, 80, 12, 5)

	require.Len(t, patches, 12)
	for _, p := range patches {
		assert.GreaterOrEqual(t, p.X, 0)
		assert.GreaterOrEqual(t, p.Y, 0)
		assert.LessOrEqual(t, p.X+p.Size, 100)
		assert.LessOrEqual(t, p.Y+p.Size, 80)
		assert.Equal(t, 5, p.Size)
	}
}

func TestPlanPatches_Deterministic(t *testing.T) {
	p1 := PlanPatches(rand.New(rand.NewSource(9)), 64, 64, 6, 4)
	p2 := PlanPatches(rand.New(rand.NewSource(9)), 64, 64, 6, 4)
	assert.Equal(t, p1, p2)
}

func TestPlanPatches_DegenerateConfigs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Nil(t, PlanPatches(rng, 64, 64, 0, 5))
	assert.Nil(t, PlanPatches(rng, 64, 64, 3, 0))
	assert.Nil(t, PlanPatches(rng, 64, 64, 3, 65))
}

func TestPlanPatches_PatchAsLargeAsMap(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	patches := PlanPatches(rng, 8, 8, 1, 8)
	require.Len(t, patches, 1)
	assert.Equal(t, model.HighGroundPatch{X: 0, Y: 0, Size: 8}, patches[0])
}

func TestInHighGround(t *testing.T) {
	patches := []model.HighGroundPatch{
		{X: 10, Y: 10, Size: 5},
		{X: 40, Y: 2, Size: 3},
	}
	assert.True(t, InHighGround(12, 13, patches))
	assert.True(t, InHighGround(42, 4, patches))
	assert.False(t, InHighGround(15, 10, patches))
	assert.False(t, InHighGround(0, 0, patches))
	assert.False(t, InHighGround(12, 13, nil))
}

func TestHighGroundElevation_Range(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		e := highGroundElevation(rng)
		assert.GreaterOrEqual(t, e, 7.0)
		assert.Less(t, e, 8.5)
	}
}
