package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/sim"
)

// Sheet names in the report workbook.
const (
	SheetSummary = "Summary"
	SheetPeriods = "Periods"
	SheetFloods  = "Flood History"
)

// BuildReport assembles the XLSX report workbook for a snapshot and
// its flood-event history.
func BuildReport(snap sim.Snapshot, events []model.FloodEvent) (*xlsx.File, error) {
	if snap.Grid == nil {
		return nil, eris.New("export: snapshot has no grid")
	}

	f := xlsx.NewFile()
	if err := addSummarySheet(f, snap); err != nil {
		return nil, err
	}
	if err := addPeriodsSheet(f, snap); err != nil {
		return nil, err
	}
	if err := addFloodSheet(f, events); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteReport writes the XLSX report to path.
func WriteReport(path string, snap sim.Snapshot, events []model.FloodEvent) error {
	f, err := BuildReport(snap, events)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save report")
	}
	return nil
}

func addSummarySheet(f *xlsx.File, snap sim.Snapshot) error {
	sheet, err := f.AddSheet(SheetSummary)
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	census := snap.Grid.Census()

	labelRow(sheet, "World").SetString(snap.Meta.Name)
	labelRow(sheet, "ID").SetString(snap.Meta.ID)
	labelRow(sheet, "Seed").SetInt64(snap.Meta.Seed)
	labelRow(sheet, "Size").SetString(fmt.Sprintf("%dx%d", snap.Meta.Width, snap.Meta.Height))
	labelRow(sheet, "Created").SetString(snap.Meta.CreatedAt.Format("2006-01-02"))
	labelRow(sheet, "Century").SetInt(snap.Century)
	labelRow(sheet, "Sea level").SetFloat(snap.Geology.SeaLevel)
	labelRow(sheet, "Period").SetString(activePeriodName(snap))
	labelRow(sheet, "Population").SetInt(snap.Population)
	labelRow(sheet, "Buildings").SetInt(len(snap.Buildings))
	labelRow(sheet, "Game over").SetBool(snap.GameOver)

	sheet.AddRow()
	labelRow(sheet, "Land tiles").SetInt(census.Land)
	labelRow(sheet, "Water tiles").SetInt(census.Water)
	labelRow(sheet, "Buildable tiles").SetInt(census.Buildable)
	labelRow(sheet, "Explored tiles").SetInt(census.Explored)
	labelRow(sheet, "Trees").SetInt(census.Trees)
	labelRow(sheet, "Deposits").SetInt(census.Deposits)

	sheet.AddRow()
	labelRow(sheet, "Tiles flooded").SetInt(snap.Geology.TilesFlooded)
	labelRow(sheet, "Tiles drained").SetInt(snap.Geology.TilesDrained)
	labelRow(sheet, "Population drowned").SetInt(snap.Geology.PopulationDrowned)

	sheet.AddRow()
	labelRow(sheet, "Terrain").SetString("Tiles")
	for t := model.TerrainDeepOcean; t <= model.TerrainSnow; t++ {
		labelRow(sheet, t.String()).SetInt(census.ByType[t])
	}

	return nil
}

func addPeriodsSheet(f *xlsx.File, snap sim.Snapshot) error {
	sheet, err := f.AddSheet(SheetPeriods)
	if err != nil {
		return eris.Wrap(err, "export: add periods sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"#", "Name", "Duration (centuries)", "Target sea level", "Active"} {
		header.AddCell().SetString(h)
	}

	for i, p := range snap.Periods {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetInt(p.Duration)
		row.AddCell().SetFloat(p.TargetSeaLevel)

		active := ""
		if i == snap.Geology.PeriodIndex {
			active = fmt.Sprintf("century %d of %d", snap.Geology.CenturiesInPeriod, p.Duration)
		}
		row.AddCell().SetString(active)
	}
	return nil
}

func addFloodSheet(f *xlsx.File, events []model.FloodEvent) error {
	sheet, err := f.AddSheet(SheetFloods)
	if err != nil {
		return eris.Wrap(err, "export: add flood history sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Century", "Period", "Sea level", "Flooded", "Drained", "Drowned", "Wells lost", "Player drowned"} {
		header.AddCell().SetString(h)
	}

	for _, ev := range events {
		row := sheet.AddRow()
		row.AddCell().SetInt(ev.Century)
		row.AddCell().SetString(ev.Period)
		row.AddCell().SetFloat(ev.SeaLevel)
		row.AddCell().SetInt(ev.TilesFlooded)
		row.AddCell().SetInt(ev.TilesDrained)
		row.AddCell().SetInt(ev.PopulationDrowned)
		row.AddCell().SetInt(ev.WellsLost)
		row.AddCell().SetBool(ev.PlayerDrowned)
	}
	return nil
}

// labelRow appends a two-column row and returns the value cell.
func labelRow(sheet *xlsx.Sheet, label string) *xlsx.Cell {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	return row.AddCell()
}
