package model

import "github.com/rotisserie/eris"

// TerrainType classifies the surface of a tile.
type TerrainType uint8

const (
	TerrainDeepOcean TerrainType = iota
	TerrainWater
	TerrainRiver
	TerrainSand
	TerrainGrass
	TerrainForest
	TerrainRock
	TerrainStone
	TerrainSnow
)

var terrainNames = [...]string{
	TerrainDeepOcean: "deep_ocean",
	TerrainWater:     "water",
	TerrainRiver:     "river",
	TerrainSand:      "sand",
	TerrainGrass:     "grass",
	TerrainForest:    "forest",
	TerrainRock:      "rock",
	TerrainStone:     "stone",
	TerrainSnow:      "snow",
}

func (t TerrainType) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "unknown"
}

// ParseTerrainType resolves a stored terrain name.
func ParseTerrainType(s string) (TerrainType, error) {
	for i, name := range terrainNames {
		if name == s {
			return TerrainType(i), nil
		}
	}
	return 0, eris.Errorf("model: unknown terrain type %q", s)
}

// MarshalText renders the terrain name for JSON and exports.
func (t TerrainType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a terrain name.
func (t *TerrainType) UnmarshalText(b []byte) error {
	parsed, err := ParseTerrainType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsWater reports standing sea water. Rivers are carved land, not sea.
func (t TerrainType) IsWater() bool {
	return t == TerrainDeepOcean || t == TerrainWater
}

// Drinkable reports fresh or shallow water a settlement can draw from.
func (t TerrainType) Drinkable() bool {
	return t == TerrainWater || t == TerrainRiver
}
