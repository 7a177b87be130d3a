package model

// BuildingType identifies the function of a structure.
type BuildingType string

const (
	BuildingWell        BuildingType = "well"
	BuildingResidential BuildingType = "residential"
	BuildingCommercial  BuildingType = "commercial"
	BuildingIndustrial  BuildingType = "industrial"
)

// Footprint returns the side length of the square the building occupies.
// Wells, commercial and industrial structures fit on one tile; the rest
// take a 2x2 block anchored at the building's coordinate.
func (bt BuildingType) Footprint() int {
	switch bt {
	case BuildingWell, BuildingCommercial, BuildingIndustrial:
		return 1
	}
	return 2
}

// DefaultCapacity returns the base occupancy for a new level-1 building.
func (bt BuildingType) DefaultCapacity() int {
	switch bt {
	case BuildingResidential:
		return 20
	case BuildingCommercial:
		return 10
	case BuildingIndustrial:
		return 15
	case BuildingWell:
		return 500
	}
	return 0
}

// Building is a placed structure. X, Y anchor the top-left tile of its
// footprint; Population is meaningful for residential buildings only.
type Building struct {
	ID         string       `json:"id"`
	Type       BuildingType `json:"type"`
	X          int          `json:"x"`
	Y          int          `json:"y"`
	Level      int          `json:"level"`
	Population int          `json:"population"`
	Capacity   int          `json:"capacity"`
}

// Covers reports whether the building's footprint includes (x, y).
func (b *Building) Covers(x, y int) bool {
	s := b.Type.Footprint()
	return x >= b.X && x < b.X+s && y >= b.Y && y < b.Y+s
}

// Occupancy returns the population fraction in [0, 1].
func (b *Building) Occupancy() float64 {
	if b.Capacity == 0 {
		return 0
	}
	return float64(b.Population) / float64(b.Capacity)
}
