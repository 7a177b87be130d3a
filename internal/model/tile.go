package model

// Deposit is a mineable stone/metal reserve attached to a tile.
type Deposit struct {
	Stone int `json:"stone"`
	Metal int `json:"metal"`
}

// Tile is one cell of the world grid. Elevation is fixed at generation
// time and never changes afterward; flood and drain rewrite Type only.
type Tile struct {
	Type         TerrainType `json:"type"`
	OriginalType TerrainType `json:"original_type"`
	Elevation    float64     `json:"elevation"`
	Explored     bool        `json:"explored"`
	Tree         bool        `json:"tree,omitempty"`
	Road         bool        `json:"road,omitempty"`
	Berry        bool        `json:"berry,omitempty"`
	Zone         byte        `json:"zone,omitempty"` // 'R', 'C', 'I' or 0
	Building     *Building   `json:"building,omitempty"`
	Deposit      *Deposit    `json:"deposit,omitempty"`
}

// Passable reports whether the tile can be walked on.
func (t *Tile) Passable() bool {
	if t.Type == TerrainWater || t.Type == TerrainDeepOcean || t.Type == TerrainRiver {
		return false
	}
	return t.Deposit == nil
}

// Buildable reports whether a structure may be placed here.
func (t *Tile) Buildable() bool {
	return t.Passable() &&
		t.Building == nil &&
		!t.Road &&
		(t.Type == TerrainGrass || t.Type == TerrainSand)
}

// ClearFeatures strips every structure-related field, leaving terrain
// and elevation intact. Flooding calls this before rewriting the type.
func (t *Tile) ClearFeatures() {
	t.Zone = 0
	t.Building = nil
	t.Road = false
	t.Tree = false
	t.Deposit = nil
	t.Berry = false
}
