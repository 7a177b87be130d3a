package sim

import (
	"github.com/rotisserie/eris"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/geology"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/settlement"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/world"
)

// Snapshot captures everything the store persists for one world. It
// must round-trip exactly: a restored session reproduces the identical
// sequence of future ticks.
type Snapshot struct {
	Meta       model.WorldMeta
	Grid       *world.Grid
	Patches    []model.HighGroundPatch
	Periods    []model.GeologicalPeriod
	Geology    model.GeologyState
	Buildings  []*model.Building
	Player     *model.Player
	Population int
	Century    int
	GameOver   bool
}

// Snapshot assembles the persistable view of the session. The grid and
// building list are the live objects, not copies; persist before the
// next tick.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Meta:       s.meta,
		Grid:       s.grid,
		Patches:    s.patches,
		Periods:    s.clock.Periods(),
		Geology:    s.clock.State(),
		Buildings:  s.settlement.Buildings(),
		Player:     s.settlement.Player(),
		Population: s.settlement.Population(),
		Century:    s.century,
		GameOver:   s.gameOver,
	}
}

// RestoreSession rebuilds a session from a persisted snapshot and
// relinks footprint tiles to their building entries, restoring the
// identity the flood pass dedupes on.
func RestoreSession(snap Snapshot, bounds geology.Bounds, warnMargin float64) (*Session, error) {
	if snap.Grid == nil {
		return nil, eris.New("sim: snapshot has no grid")
	}
	clock, err := geology.RestoreClock(snap.Periods, bounds, snap.Geology)
	if err != nil {
		return nil, err
	}
	RelinkBuildings(snap.Grid, snap.Buildings)
	sett := settlement.Restore(snap.Player, snap.Population, snap.Buildings, snap.GameOver)
	return New(snap.Meta, snap.Grid, snap.Patches, clock, sett, warnMargin, snap.Century), nil
}

// RelinkBuildings points footprint tiles at their list entries. Tiles
// and buildings are stored separately, so the pointer identity has to
// be rebuilt after a load.
func RelinkBuildings(grid *world.Grid, buildings []*model.Building) {
	for _, b := range buildings {
		size := b.Type.Footprint()
		for dy := 0; dy < size; dy++ {
			for dx := 0; dx < size; dx++ {
				if t := grid.At(b.X+dx, b.Y+dy); t != nil {
					t.Building = b
				}
			}
		}
	}
}
