// Package geology drives the long-run climate: a cyclic period clock
// interpolating a bounded sea level, and the flood pass reconciling the
// grid against it.
package geology

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

// Standard sea-level envelope, in elevation units. The rate is the
// maximum movement per century tick; it is what makes transitions
// gradual instead of instantaneous.
const (
	SeaLevelMin  = 0.5
	SeaLevelMax  = 6.5
	SeaLevelRate = 0.1
)

// Bounds sets the sea-level envelope and per-tick movement rate.
type Bounds struct {
	Min  float64
	Max  float64
	Rate float64
}

// DefaultBounds returns the standard envelope.
func DefaultBounds() Bounds {
	return Bounds{Min: SeaLevelMin, Max: SeaLevelMax, Rate: SeaLevelRate}
}

// DefaultPeriods is the built-in climate schedule.
func DefaultPeriods() []model.GeologicalPeriod {
	return []model.GeologicalPeriod{
		{Name: "Age of Calm Seas", Duration: 8, TargetSeaLevel: 3.0},
		{Name: "The Great Thaw", Duration: 6, TargetSeaLevel: 5.0},
		{Name: "Long Drought", Duration: 7, TargetSeaLevel: 1.8},
		{Name: "Second Deluge", Duration: 5, TargetSeaLevel: 5.8},
		{Name: "Age of Retreat", Duration: 6, TargetSeaLevel: 2.5},
	}
}

// Clock cycles through geological periods and interpolates the current
// sea level toward the active period's target. It never terminates;
// the schedule wraps to index 0 forever.
type Clock struct {
	periods []model.GeologicalPeriod
	bounds  Bounds
	state   model.GeologyState
}

// NewClock validates the schedule and starts at period 0 with its
// target as the initial sea level.
func NewClock(periods []model.GeologicalPeriod, b Bounds) (*Clock, error) {
	if err := validate(periods, b); err != nil {
		return nil, err
	}
	return &Clock{
		periods: periods,
		bounds:  b,
		state:   model.GeologyState{SeaLevel: clamp(periods[0].TargetSeaLevel, b.Min, b.Max)},
	}, nil
}

// RestoreClock rebuilds a clock from persisted state so a saved world
// reproduces identical future behavior.
func RestoreClock(periods []model.GeologicalPeriod, b Bounds, state model.GeologyState) (*Clock, error) {
	if err := validate(periods, b); err != nil {
		return nil, err
	}
	if state.PeriodIndex < 0 || state.PeriodIndex >= len(periods) {
		return nil, eris.Errorf("geology: period index %d outside schedule of %d", state.PeriodIndex, len(periods))
	}
	state.SeaLevel = clamp(state.SeaLevel, b.Min, b.Max)
	return &Clock{periods: periods, bounds: b, state: state}, nil
}

func validate(periods []model.GeologicalPeriod, b Bounds) error {
	if len(periods) == 0 {
		return eris.New("geology: empty period list")
	}
	for _, p := range periods {
		if p.Duration <= 0 {
			return eris.Errorf("geology: period %q has non-positive duration", p.Name)
		}
	}
	if b.Min >= b.Max {
		return eris.Errorf("geology: sea bounds min %.2f not below max %.2f", b.Min, b.Max)
	}
	if b.Rate <= 0 {
		return eris.Errorf("geology: non-positive sea rate %.3f", b.Rate)
	}
	return nil
}

// Current returns the active period.
func (c *Clock) Current() model.GeologicalPeriod {
	return c.periods[c.state.PeriodIndex]
}

// SeaLevel returns the current sea level.
func (c *Clock) SeaLevel() float64 {
	return c.state.SeaLevel
}

// State returns a snapshot of the geology state for persistence.
func (c *Clock) State() model.GeologyState {
	return c.state
}

// Periods returns the configured schedule.
func (c *Clock) Periods() []model.GeologicalPeriod {
	return c.periods
}

// Tick advances one century. When the active period completes, the
// clock wraps to the next period and returns it; otherwise nil.
func (c *Clock) Tick() *model.GeologicalPeriod {
	next, entered := advance(c.state, c.periods)
	c.state = next
	return entered
}

// StepSeaLevel moves the sea toward the active target by at most the
// configured rate and returns the new level.
func (c *Clock) StepSeaLevel() float64 {
	target := c.periods[c.state.PeriodIndex].TargetSeaLevel
	c.state.SeaLevel = stepToward(c.state.SeaLevel, target, c.bounds)
	return c.state.SeaLevel
}

// RecordFlood folds a flood result into the cumulative counters.
func (c *Clock) RecordFlood(r model.FloodResult) {
	c.state.TilesFlooded += r.TilesFlooded
	c.state.TilesDrained += r.TilesDrained
	c.state.PopulationDrowned += r.PopulationDrowned
}

// advance is the pure period transition: one century forward, wrapping
// cyclically. The second return is the period just entered, if a
// boundary was crossed.
func advance(state model.GeologyState, periods []model.GeologicalPeriod) (model.GeologyState, *model.GeologicalPeriod) {
	state.CenturiesInPeriod++
	if state.CenturiesInPeriod < periods[state.PeriodIndex].Duration {
		return state, nil
	}
	state.CenturiesInPeriod = 0
	state.PeriodIndex = (state.PeriodIndex + 1) % len(periods)
	entered := periods[state.PeriodIndex]
	return state, &entered
}

// stepToward moves level toward target by at most b.Rate, clamping into
// the envelope. Landing exactly on target avoids oscillation around it.
func stepToward(level, target float64, b Bounds) float64 {
	delta := target - level
	switch {
	case math.Abs(delta) <= b.Rate:
		level = target
	case delta > 0:
		level += b.Rate
	default:
		level -= b.Rate
	}
	return clamp(level, b.Min, b.Max)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
