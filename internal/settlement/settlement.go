// Package settlement owns the population side of the world: the
// building list, the player, and the commit step that folds flood
// results into population totals and game state.
package settlement

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/world"
)

// Settlement tracks structures and population for one world. The flood
// engine reads and filters the building list; only the settlement
// mutates population totals.
type Settlement struct {
	buildings  []*model.Building
	player     *model.Player
	population int
	gameOver   bool
}

// New starts a settlement with a player and an initial population.
func New(player *model.Player, population int) *Settlement {
	if population < 0 {
		population = 0
	}
	return &Settlement{player: player, population: population}
}

// Restore rebuilds a settlement from persisted parts.
func Restore(player *model.Player, population int, buildings []*model.Building, gameOver bool) *Settlement {
	s := New(player, population)
	s.buildings = buildings
	s.gameOver = gameOver
	return s
}

// Buildings returns the live building list. During a tick the flood
// engine works on this same slice; callers must not retain it across
// ticks.
func (s *Settlement) Buildings() []*model.Building {
	return s.buildings
}

// Player returns the player entity, nil for an unattended world.
func (s *Settlement) Player() *model.Player {
	return s.player
}

// Population returns the settlement total, never negative.
func (s *Settlement) Population() int {
	return s.population
}

// GameOver reports whether the player has drowned. It latches: once
// raised it stays raised.
func (s *Settlement) GameOver() bool {
	return s.gameOver
}

// Wells counts surviving wells.
func (s *Settlement) Wells() int {
	n := 0
	for _, b := range s.buildings {
		if b.Type == model.BuildingWell {
			n++
		}
	}
	return n
}

// AddPopulation adjusts the total by delta, floored at zero.
func (s *Settlement) AddPopulation(delta int) {
	s.population += delta
	if s.population < 0 {
		s.population = 0
	}
}

// PlaceBuilding validates the footprint and anchors a new structure at
// (x, y). Every footprint tile must be in bounds and buildable; on
// success each footprint tile references the created building.
func (s *Settlement) PlaceBuilding(g *world.Grid, bt model.BuildingType, x, y int) (*model.Building, error) {
	size := bt.Footprint()
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			t := g.At(x+dx, y+dy)
			if t == nil {
				return nil, eris.Errorf("settlement: footprint tile (%d, %d) out of bounds", x+dx, y+dy)
			}
			if !t.Buildable() {
				return nil, eris.Errorf("settlement: tile (%d, %d) is not buildable", x+dx, y+dy)
			}
		}
	}

	b := &model.Building{
		ID:       uuid.New().String(),
		Type:     bt,
		X:        x,
		Y:        y,
		Level:    1,
		Capacity: bt.DefaultCapacity(),
	}
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			g.At(x+dx, y+dy).Building = b
		}
	}
	s.buildings = append(s.buildings, b)
	return b, nil
}

// ApplyFlood commits one sweep's outcome: the surviving list replaces
// the old one, drowned population is deducted with a floor at zero, and
// a drowned player ends the game.
func (s *Settlement) ApplyFlood(res model.FloodResult, remaining []*model.Building) {
	s.buildings = remaining
	s.population -= res.PopulationDrowned
	if s.population < 0 {
		s.population = 0
	}
	if res.PlayerDrowned {
		s.gameOver = true
		if s.player != nil {
			s.player.Population = 0
		}
	}
}

// AtRisk returns buildings whose footprint dips below the sea level
// plus the warning margin, in list order.
func (s *Settlement) AtRisk(g *world.Grid, seaLevel, margin float64) []*model.Building {
	threshold := seaLevel + margin
	var out []*model.Building
	for _, b := range s.buildings {
		if footprintLowPoint(g, b) < threshold {
			out = append(out, b)
		}
	}
	return out
}

// footprintLowPoint returns the lowest elevation under the building.
func footprintLowPoint(g *world.Grid, b *model.Building) float64 {
	size := b.Type.Footprint()
	low := 0.0
	first := true
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			t := g.At(b.X+dx, b.Y+dy)
			if t == nil {
				continue
			}
			if first || t.Elevation < low {
				low = t.Elevation
				first = false
			}
		}
	}
	return low
}
