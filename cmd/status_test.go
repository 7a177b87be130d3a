package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

func TestComputeWorldStatus(t *testing.T) {
	meta := model.WorldMeta{ID: "w1", Name: "Coastal Basin"}
	events := []model.FloodEvent{
		{Century: 3, TilesFlooded: 40, TilesDrained: 0, PopulationDrowned: 5, WellsLost: 1},
		{Century: 9, TilesFlooded: 10, TilesDrained: 25, PopulationDrowned: 0},
		{Century: 6, TilesFlooded: 0, TilesDrained: 12, PopulationDrowned: 30, PlayerDrowned: true},
	}

	s := computeWorldStatus(meta, events)
	assert.Equal(t, 3, s.Events)
	assert.Equal(t, 50, s.TilesFlooded)
	assert.Equal(t, 37, s.TilesDrained)
	assert.Equal(t, 35, s.Drowned)
	assert.Equal(t, 1, s.WellsLost)
	assert.True(t, s.PlayerDrowned)
	// Latest event century, not list order.
	assert.Equal(t, 9, s.LastCentury)
}

func TestComputeWorldStatus_NoEvents(t *testing.T) {
	s := computeWorldStatus(model.WorldMeta{ID: "w1", Name: "Quiet"}, nil)
	assert.Equal(t, 0, s.Events)
	assert.False(t, s.PlayerDrowned)
	assert.Equal(t, 0, s.LastCentury)
}

func TestFormatStatus(t *testing.T) {
	rows := []worldStatus{
		{
			Meta:         model.WorldMeta{Name: "Coastal Basin"},
			Events:       4,
			TilesFlooded: 120,
			TilesDrained: 80,
			Drowned:      35,
			WellsLost:    2,
			LastCentury:  17,
		},
		{
			Meta:          model.WorldMeta{Name: "Drowned Realm"},
			Events:        1,
			TilesFlooded:  500,
			Drowned:       210,
			PlayerDrowned: true,
			LastCentury:   5,
		},
	}

	var buf bytes.Buffer
	formatStatus(&buf, rows)

	output := buf.String()
	assert.Contains(t, output, "WORLD")
	assert.Contains(t, output, "Coastal Basin")
	assert.Contains(t, output, "century 17")
	assert.Contains(t, output, "Drowned Realm (game over)")
	// Totals: 5 events, 620 flooded, 80 drained, 245 drowned.
	assert.Contains(t, output, "TOTAL (2 worlds)")
	assert.Contains(t, output, "620")
	assert.Contains(t, output, "245")
}

func TestFormatStatus_QuietWorld(t *testing.T) {
	rows := []worldStatus{
		{Meta: model.WorldMeta{Name: "Quiet"}},
	}

	var buf bytes.Buffer
	formatStatus(&buf, rows)

	// A world with no events shows a dash instead of a century.
	assert.Contains(t, buf.String(), "-")
	assert.Contains(t, buf.String(), "TOTAL (1 worlds)")
}
