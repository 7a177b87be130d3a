package model

// GeologicalPeriod is one entry in the cyclic climate schedule. Duration
// is measured in centuries, one century per geological tick.
type GeologicalPeriod struct {
	Name           string  `yaml:"name" json:"name"`
	Duration       int     `yaml:"duration" json:"duration"`
	TargetSeaLevel float64 `yaml:"target_sea_level" json:"target_sea_level"`
}

// GeologyState is the mutable geological simulation state. The flood,
// drain and drowned counters are cumulative over the world's lifetime.
type GeologyState struct {
	SeaLevel          float64 `json:"sea_level"`
	PeriodIndex       int     `json:"period_index"`
	CenturiesInPeriod int     `json:"centuries_in_period"`
	TilesFlooded      int     `json:"tiles_flooded"`
	TilesDrained      int     `json:"tiles_drained"`
	PopulationDrowned int     `json:"population_drowned"`
}

// DestroyedBuilding records one structure lost to a flood pass.
type DestroyedBuilding struct {
	X          int          `json:"x"`
	Y          int          `json:"y"`
	Type       BuildingType `json:"type"`
	Population int          `json:"population"`
}

// FloodResult describes the outcome of a single flood/drain pass. The
// pass mutates the grid and building list; committing population and
// game-over consequences is the settlement's job.
type FloodResult struct {
	TilesFlooded      int                 `json:"tiles_flooded"`
	TilesDrained      int                 `json:"tiles_drained"`
	Destroyed         []DestroyedBuilding `json:"destroyed,omitempty"`
	PopulationDrowned int                 `json:"population_drowned"`
	WellsLost         int                 `json:"wells_lost"`
	PlayerDrowned     bool                `json:"player_drowned"`
}

// Changed reports whether the pass altered any tile.
func (r FloodResult) Changed() bool {
	return r.TilesFlooded > 0 || r.TilesDrained > 0
}
