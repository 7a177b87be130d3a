package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

func TestGradeFlood_Tiers(t *testing.T) {
	cases := []struct {
		name string
		res  model.FloodResult
		want Severity
	}{
		{"five drowned is minor", model.FloodResult{PopulationDrowned: 5}, SeverityMinor},
		{"ten drowned is severe", model.FloodResult{PopulationDrowned: 10}, SeveritySevere},
		{"ninety nine drowned is severe", model.FloodResult{PopulationDrowned: 99}, SeveritySevere},
		{"one hundred drowned is catastrophe", model.FloodResult{PopulationDrowned: 100}, SeverityCatastrophe},
		{"player drowning overrides count", model.FloodResult{PlayerDrowned: true}, SeverityCatastrophe},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GradeFlood(tc.res))
		})
	}
}

func TestFloodMessage_PlayerDrowned(t *testing.T) {
	msg := NewNarrator().FloodMessage(model.FloodResult{PlayerDrowned: true, PopulationDrowned: 9})
	assert.Contains(t, msg, "leader")
	assert.Contains(t, msg, "Catastrophe")
}

func TestFloodMessage_CatastropheFormatsThousands(t *testing.T) {
	res := model.FloodResult{
		TilesFlooded:      300,
		PopulationDrowned: 1204,
		Destroyed:         make([]model.DestroyedBuilding, 12),
	}
	msg := NewNarrator().FloodMessage(res)
	assert.Contains(t, msg, "Catastrophe")
	assert.Contains(t, msg, "1,204")
}

func TestFloodMessage_Severe(t *testing.T) {
	msg := NewNarrator().FloodMessage(model.FloodResult{TilesFlooded: 8, PopulationDrowned: 15})
	assert.Contains(t, msg, "Severe")
}

func TestFloodMessage_MinorVariants(t *testing.T) {
	n := NewNarrator()

	assert.Contains(t, n.FloodMessage(model.FloodResult{TilesFlooded: 3}), "claims")
	assert.Contains(t, n.FloodMessage(model.FloodResult{TilesDrained: 4}), "retreats")
	assert.Contains(t, n.FloodMessage(model.FloodResult{TilesFlooded: 2, TilesDrained: 1}), "coastline")
}

func TestFloodMessage_QuietPassIsEmpty(t *testing.T) {
	assert.Empty(t, NewNarrator().FloodMessage(model.FloodResult{}))
}

func TestPeriodMessage_Direction(t *testing.T) {
	n := NewNarrator()
	p := model.GeologicalPeriod{Name: "The Great Thaw", TargetSeaLevel: 5.0}

	assert.Contains(t, n.PeriodMessage(p, 3.0), "rise")
	assert.Contains(t, n.PeriodMessage(p, 6.0), "recede")
	assert.Contains(t, n.PeriodMessage(p, 5.0), "steady")
	assert.Contains(t, n.PeriodMessage(p, 3.0), "The Great Thaw")
}

func TestWarningMessage(t *testing.T) {
	n := NewNarrator()
	assert.Empty(t, n.WarningMessage(0, 0.5))
	assert.Contains(t, n.WarningMessage(3, 0.5), "3 structures")
}
