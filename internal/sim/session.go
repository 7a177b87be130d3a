// Package sim wires the grid, geology clock, flood engine and
// settlement into one simulation session advanced a century at a time.
package sim

import (
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/geology"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/settlement"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/world"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/worldgen"
)

// Session owns one world's mutable state. Ticks are synchronous and
// single-threaded; callers must not interleave AdvanceCentury with
// reads from another goroutine.
type Session struct {
	meta       model.WorldMeta
	grid       *world.Grid
	patches    []model.HighGroundPatch
	clock      *geology.Clock
	settlement *settlement.Settlement
	narrator   *settlement.Narrator
	warnMargin float64
	century    int
	gameOver   bool
}

// CenturyReport is the outcome of one tick, handed to the CLI loop and
// the flood-event log.
type CenturyReport struct {
	Century       int
	Period        string
	EnteredPeriod *model.GeologicalPeriod
	SeaLevel      float64
	Result        model.FloodResult
	Messages      []string
	GameOver      bool
}

// BootstrapConfig collects everything needed to start a fresh world.
type BootstrapConfig struct {
	Name             string
	Width            int
	Height           int
	Seed             int64
	Patches          int
	PatchSize        int
	Periods          []model.GeologicalPeriod
	Bounds           geology.Bounds
	WarnMargin       float64
	PlayerPopulation int
	PlayerVision     int
}

// New assembles a session from prepared parts.
func New(meta model.WorldMeta, grid *world.Grid, patches []model.HighGroundPatch, clock *geology.Clock, sett *settlement.Settlement, warnMargin float64, century int) *Session {
	return &Session{
		meta:       meta,
		grid:       grid,
		patches:    patches,
		clock:      clock,
		settlement: sett,
		narrator:   settlement.NewNarrator(),
		warnMargin: warnMargin,
		century:    century,
		gameOver:   sett.GameOver(),
	}
}

// Bootstrap generates a fresh world and wraps it in a session. The
// initial sea level is the first period's target, so generation and
// the clock agree from century zero.
func Bootstrap(cfg BootstrapConfig) (*Session, error) {
	clock, err := geology.NewClock(cfg.Periods, cfg.Bounds)
	if err != nil {
		return nil, err
	}

	gen, err := worldgen.NewGenerator(worldgen.Params{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Seed:      cfg.Seed,
		SeaLevel:  clock.SeaLevel(),
		Patches:   cfg.Patches,
		PatchSize: cfg.PatchSize,
	})
	if err != nil {
		return nil, err
	}
	grid, patches, err := gen.Generate()
	if err != nil {
		return nil, err
	}

	var player *model.Player
	if cfg.PlayerPopulation > 0 {
		x, y, ok := worldgen.FindSpawn(grid)
		if !ok {
			return nil, eris.New("sim: no passable spawn tile")
		}
		player = &model.Player{X: x, Y: y, Population: cfg.PlayerPopulation}
		vision := cfg.PlayerVision
		if vision <= 0 {
			vision = 3
		}
		grid.ExploreArea(x, y, vision)
	}

	meta := model.WorldMeta{
		ID:        uuid.New().String(),
		Name:      cfg.Name,
		Seed:      cfg.Seed,
		Width:     cfg.Width,
		Height:    cfg.Height,
		CreatedAt: time.Now().UTC(),
	}
	sett := settlement.New(player, cfg.PlayerPopulation)
	return New(meta, grid, patches, clock, sett, cfg.WarnMargin, 0), nil
}

// Meta returns the world's identity record.
func (s *Session) Meta() model.WorldMeta { return s.meta }

// Grid returns the live tile grid.
func (s *Session) Grid() *world.Grid { return s.grid }

// Patches returns the planned high-ground refuges.
func (s *Session) Patches() []model.HighGroundPatch { return s.patches }

// Clock returns the geology clock.
func (s *Session) Clock() *geology.Clock { return s.clock }

// Settlement returns the population collaborator.
func (s *Session) Settlement() *settlement.Settlement { return s.settlement }

// Century returns how many centuries have elapsed.
func (s *Session) Century() int { return s.century }

// GameOver reports whether the player has drowned.
func (s *Session) GameOver() bool { return s.gameOver }

// AdvanceCentury runs one geological tick: the clock advances, the sea
// steps toward its target, and the flood pass is swept and committed.
// Terrain keeps evolving after game over; only the settlement is done.
func (s *Session) AdvanceCentury() CenturyReport {
	s.century++
	entered := s.clock.Tick()
	sea := s.clock.StepSeaLevel()

	res, remaining := geology.Sweep(s.grid, s.settlement.Buildings(), s.settlement.Player(), sea)
	s.settlement.ApplyFlood(res, remaining)
	s.clock.RecordFlood(res)
	if s.settlement.GameOver() {
		s.gameOver = true
	}

	var msgs []string
	if entered != nil {
		msgs = append(msgs, s.narrator.PeriodMessage(*entered, sea))
		zap.L().Info("sim: geological period entered",
			zap.String("period", entered.Name),
			zap.Int("century", s.century),
			zap.Float64("target_sea_level", entered.TargetSeaLevel))
	}
	if m := s.narrator.FloodMessage(res); m != "" {
		msgs = append(msgs, m)
	}
	atRisk := len(s.settlement.AtRisk(s.grid, sea, s.warnMargin))
	if w := s.narrator.WarningMessage(atRisk, s.warnMargin); w != "" {
		msgs = append(msgs, w)
	}

	zap.L().Debug("sim: century advanced",
		zap.Int("century", s.century),
		zap.Float64("sea_level", sea),
		zap.Int("tiles_flooded", res.TilesFlooded),
		zap.Int("tiles_drained", res.TilesDrained),
		zap.Int("population_drowned", res.PopulationDrowned))

	return CenturyReport{
		Century:       s.century,
		Period:        s.clock.Current().Name,
		EnteredPeriod: entered,
		SeaLevel:      sea,
		Result:        res,
		Messages:      msgs,
		GameOver:      s.gameOver,
	}
}

// RunCenturies advances up to n centuries, stopping early once the
// game is over.
func (s *Session) RunCenturies(n int) []CenturyReport {
	reports := make([]CenturyReport, 0, n)
	for i := 0; i < n; i++ {
		r := s.AdvanceCentury()
		reports = append(reports, r)
		if r.GameOver {
			break
		}
	}
	return reports
}
