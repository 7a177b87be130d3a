package settlement

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

// Severity grades a flood event for narration.
type Severity string

const (
	SeverityMinor       Severity = "minor"
	SeveritySevere      Severity = "severe"
	SeverityCatastrophe Severity = "catastrophe"
)

// Narrative tier thresholds, in population lost.
const (
	catastropheThreshold = 100
	severeThreshold      = 10
)

// GradeFlood assigns a severity tier by population lost. A drowned
// player is a catastrophe regardless of the count.
func GradeFlood(res model.FloodResult) Severity {
	switch {
	case res.PlayerDrowned || res.PopulationDrowned >= catastropheThreshold:
		return SeverityCatastrophe
	case res.PopulationDrowned >= severeThreshold:
		return SeveritySevere
	default:
		return SeverityMinor
	}
}

// Narrator renders geological events as operator-facing prose with
// locale-aware number formatting.
type Narrator struct {
	printer *message.Printer
}

// NewNarrator returns an English narrator.
func NewNarrator() *Narrator {
	return &Narrator{printer: message.NewPrinter(language.English)}
}

// FloodMessage renders one sweep's outcome. A pass that changed nothing
// returns the empty string.
func (n *Narrator) FloodMessage(res model.FloodResult) string {
	if res.PlayerDrowned {
		return n.printer.Sprintf("Catastrophe: the flood has taken the settlement's leader and %d souls with them.",
			res.PopulationDrowned)
	}
	switch GradeFlood(res) {
	case SeverityCatastrophe:
		return n.printer.Sprintf("Catastrophe: the sea swallowed %d tiles, drowning %d souls and destroying %d structures.",
			res.TilesFlooded, res.PopulationDrowned, len(res.Destroyed))
	case SeveritySevere:
		return n.printer.Sprintf("Severe flooding: %d tiles lost to the water and %d souls drowned.",
			res.TilesFlooded, res.PopulationDrowned)
	}
	switch {
	case res.TilesFlooded > 0 && res.TilesDrained > 0:
		return n.printer.Sprintf("The coastline shifts: %d tiles flooded, %d drained.",
			res.TilesFlooded, res.TilesDrained)
	case res.TilesFlooded > 0:
		return n.printer.Sprintf("The sea claims %d tiles.", res.TilesFlooded)
	case res.TilesDrained > 0:
		return n.printer.Sprintf("The sea retreats, baring %d tiles of new land.", res.TilesDrained)
	default:
		return ""
	}
}

// PeriodMessage announces a geological transition relative to the
// current sea level.
func (n *Narrator) PeriodMessage(p model.GeologicalPeriod, seaLevel float64) string {
	switch {
	case p.TargetSeaLevel > seaLevel:
		return n.printer.Sprintf("A new age begins: %s. The waters will rise toward %.1f.", p.Name, p.TargetSeaLevel)
	case p.TargetSeaLevel < seaLevel:
		return n.printer.Sprintf("A new age begins: %s. The waters will recede toward %.1f.", p.Name, p.TargetSeaLevel)
	default:
		return n.printer.Sprintf("A new age begins: %s. The sea holds steady.", p.Name)
	}
}

// WarningMessage reports structures standing close to the waterline.
// Zero structures yields the empty string.
func (n *Narrator) WarningMessage(count int, margin float64) string {
	if count <= 0 {
		return ""
	}
	return n.printer.Sprintf("%d structures stand within %.1f of the waterline.", count, margin)
}
