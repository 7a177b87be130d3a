// Package export renders stored worlds into interchange formats:
// GeoJSON feature collections for map tooling and XLSX workbooks for
// simulation reports.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/sim"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/world"
)

// FeatureCollection renders a world snapshot as GeoJSON. Coordinates
// are planar tile indices, not geographic: polygons trace tile
// corners, point features sit at tile centers. Features appear in a
// fixed order: the world boundary, one polygon per high-ground patch,
// the player, one point per building, one point per mineral deposit,
// and a multipoint of river tiles.
func FeatureCollection(snap sim.Snapshot) (*geojson.FeatureCollection, error) {
	if snap.Grid == nil {
		return nil, eris.New("export: snapshot has no grid")
	}

	boundary, err := boundaryFeature(snap)
	if err != nil {
		return nil, err
	}

	fc := &geojson.FeatureCollection{}
	fc.Features = append(fc.Features, boundary)

	for i, p := range snap.Patches {
		f, err := patchFeature(i, p)
		if err != nil {
			zap.L().Debug("export: skipping malformed patch", zap.Int("patch", i), zap.Error(err))
			continue
		}
		fc.Features = append(fc.Features, f)
	}

	if snap.Player != nil {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       "player",
			Geometry: tileCenter(snap.Player.X, snap.Player.Y),
			Properties: map[string]interface{}{
				"kind":       "player",
				"population": snap.Player.Population,
			},
		})
	}

	for _, b := range snap.Buildings {
		fc.Features = append(fc.Features, buildingFeature(b))
	}

	deposits, rivers := scanGrid(snap.Grid)
	fc.Features = append(fc.Features, deposits...)
	if rivers != nil {
		fc.Features = append(fc.Features, rivers)
	}

	return fc, nil
}

// EncodeGeoJSON writes the snapshot's feature collection to w as
// indented JSON.
func EncodeGeoJSON(w io.Writer, snap sim.Snapshot) error {
	fc, err := FeatureCollection(snap)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return eris.Wrap(err, "export: encode geojson")
	}
	return nil
}

// WriteGeoJSON renders the snapshot to a GeoJSON file at path.
func WriteGeoJSON(path string, snap sim.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create output file")
	}
	defer f.Close() //nolint:errcheck

	return EncodeGeoJSON(f, snap)
}

// boundaryFeature is the world outline carrying the snapshot metadata
// as properties.
func boundaryFeature(snap sim.Snapshot) (*geojson.Feature, error) {
	poly, err := rectPolygon(0, 0, float64(snap.Meta.Width), float64(snap.Meta.Height))
	if err != nil {
		return nil, err
	}

	return &geojson.Feature{
		ID:       snap.Meta.ID,
		Geometry: poly,
		Properties: map[string]interface{}{
			"kind":       "world",
			"name":       snap.Meta.Name,
			"seed":       snap.Meta.Seed,
			"width":      snap.Meta.Width,
			"height":     snap.Meta.Height,
			"century":    snap.Century,
			"sea_level":  snap.Geology.SeaLevel,
			"period":     activePeriodName(snap),
			"population": snap.Population,
			"game_over":  snap.GameOver,
		},
	}, nil
}

func patchFeature(i int, p model.HighGroundPatch) (*geojson.Feature, error) {
	poly, err := rectPolygon(float64(p.X), float64(p.Y), float64(p.X+p.Size), float64(p.Y+p.Size))
	if err != nil {
		return nil, err
	}

	return &geojson.Feature{
		ID:       fmt.Sprintf("patch-%d", i),
		Geometry: poly,
		Properties: map[string]interface{}{
			"kind": "high_ground",
			"size": p.Size,
		},
	}, nil
}

func buildingFeature(b *model.Building) *geojson.Feature {
	return &geojson.Feature{
		ID:       b.ID,
		Geometry: tileCenter(b.X, b.Y),
		Properties: map[string]interface{}{
			"kind":       "building",
			"type":       string(b.Type),
			"level":      b.Level,
			"population": b.Population,
			"capacity":   b.Capacity,
			"footprint":  b.Type.Footprint(),
		},
	}
}

// scanGrid collects one point feature per deposit tile and a single
// multipoint of river tiles, in row-major order. The river feature is
// nil when the world has no rivers.
func scanGrid(grid *world.Grid) ([]*geojson.Feature, *geojson.Feature) {
	var deposits []*geojson.Feature
	var riverFlat []float64

	grid.Each(func(x, y int, t *model.Tile) {
		if t.Deposit != nil {
			deposits = append(deposits, &geojson.Feature{
				Geometry: tileCenter(x, y),
				Properties: map[string]interface{}{
					"kind":      "deposit",
					"stone":     t.Deposit.Stone,
					"metal":     t.Deposit.Metal,
					"elevation": t.Elevation,
				},
			})
		}
		if t.Type == model.TerrainRiver {
			riverFlat = append(riverFlat, float64(x)+0.5, float64(y)+0.5)
		}
	})

	if riverFlat == nil {
		return deposits, nil
	}

	return deposits, &geojson.Feature{
		ID:       "rivers",
		Geometry: geom.NewMultiPointFlat(geom.XY, riverFlat),
		Properties: map[string]interface{}{
			"kind":  "river",
			"tiles": len(riverFlat) / 2,
		},
	}
}

// rectPolygon builds a closed axis-aligned rectangle from two corners.
func rectPolygon(x0, y0, x1, y1 float64) (*geom.Polygon, error) {
	ring := geom.NewLinearRingFlat(geom.XY, []float64{x0, y0, x1, y0, x1, y1, x0, y1, x0, y0})
	poly := geom.NewPolygon(geom.XY)
	if err := poly.Push(ring); err != nil {
		return nil, eris.Wrap(err, "export: build polygon")
	}
	return poly, nil
}

func tileCenter(x, y int) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{float64(x) + 0.5, float64(y) + 0.5})
}

// activePeriodName returns the name of the period the clock sits in,
// or "" when the index is out of range.
func activePeriodName(snap sim.Snapshot) string {
	if snap.Geology.PeriodIndex < 0 || snap.Geology.PeriodIndex >= len(snap.Periods) {
		return ""
	}
	return snap.Periods[snap.Geology.PeriodIndex].Name
}
