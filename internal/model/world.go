package model

import "time"

// WorldMeta is the store bookkeeping row for a generated world.
type WorldMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Seed      int64     `json:"seed"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HighGroundPatch is a square region forced to safe elevation during
// generation so every world keeps some flood-proof buildable land.
type HighGroundPatch struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Size int `json:"size"`
}

// Contains reports whether (x, y) falls inside the patch.
func (p HighGroundPatch) Contains(x, y int) bool {
	return x >= p.X && x < p.X+p.Size && y >= p.Y && y < p.Y+p.Size
}

// Player is the explorer avatar tracked by the settlement. Population
// counts the band travelling with the player, drowned along with them
// if the tile they stand on floods.
type Player struct {
	X          int `json:"x"`
	Y          int `json:"y"`
	Population int `json:"population"`
}

// FloodEvent is one recorded flood/drain outcome in a world's history.
type FloodEvent struct {
	ID                string    `json:"id"`
	WorldID           string    `json:"world_id"`
	Century           int       `json:"century"`
	Period            string    `json:"period"`
	SeaLevel          float64   `json:"sea_level"`
	TilesFlooded      int       `json:"tiles_flooded"`
	TilesDrained      int       `json:"tiles_drained"`
	PopulationDrowned int       `json:"population_drowned"`
	WellsLost         int       `json:"wells_lost"`
	PlayerDrowned     bool      `json:"player_drowned"`
	CreatedAt         time.Time `json:"created_at"`
}
