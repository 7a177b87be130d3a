package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/sim"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/world"
)

// testSnapshot is a 4x3 world with one of everything the exporters
// render: a patch, a player, a building, a deposit and two river tiles.
func testSnapshot(t *testing.T) sim.Snapshot {
	t.Helper()

	grid, err := world.NewGrid(4, 3)
	require.NoError(t, err)
	grid.Each(func(x, y int, tile *model.Tile) {
		tile.Type = model.TerrainGrass
		tile.OriginalType = model.TerrainGrass
		tile.Elevation = 3
	})

	grid.At(3, 1).Type = model.TerrainRiver
	grid.At(3, 2).Type = model.TerrainRiver

	rock := grid.At(2, 0)
	rock.Type = model.TerrainRock
	rock.Elevation = 7.4
	rock.Deposit = &model.Deposit{Stone: 40, Metal: 12}

	well := &model.Building{ID: "b-well", Type: model.BuildingWell, X: 2, Y: 2, Level: 1, Capacity: 500}
	grid.At(2, 2).Building = well

	return sim.Snapshot{
		Meta: model.WorldMeta{
			ID:        "world-1",
			Name:      "Coastal Basin",
			Seed:      42,
			Width:     4,
			Height:    3,
			CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		},
		Grid:    grid,
		Patches: []model.HighGroundPatch{{X: 1, Y: 1, Size: 2}},
		Periods: []model.GeologicalPeriod{
			{Name: "Rise", Duration: 4, TargetSeaLevel: 4},
			{Name: "Fall", Duration: 6, TargetSeaLevel: 1.5},
		},
		Geology: model.GeologyState{
			SeaLevel:          3,
			PeriodIndex:       1,
			CenturiesInPeriod: 2,
			TilesFlooded:      9,
			TilesDrained:      4,
			PopulationDrowned: 17,
		},
		Buildings:  []*model.Building{well},
		Player:     &model.Player{X: 1, Y: 1, Population: 10},
		Population: 25,
		Century:    12,
	}
}

func TestFeatureCollection_NoGrid(t *testing.T) {
	_, err := FeatureCollection(sim.Snapshot{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot has no grid")
}

func TestFeatureCollection_Features(t *testing.T) {
	fc, err := FeatureCollection(testSnapshot(t))
	require.NoError(t, err)

	// boundary + patch + player + building + deposit + rivers
	require.Len(t, fc.Features, 6)

	boundary := fc.Features[0]
	assert.Equal(t, "world-1", boundary.ID)
	poly, ok := boundary.Geometry.(*geom.Polygon)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0, 4, 0, 4, 3, 0, 3, 0, 0}, poly.FlatCoords())
	assert.Equal(t, "Coastal Basin", boundary.Properties["name"])
	assert.Equal(t, int64(42), boundary.Properties["seed"])
	assert.Equal(t, "Fall", boundary.Properties["period"])
	assert.Equal(t, 12, boundary.Properties["century"])

	patch := fc.Features[1]
	assert.Equal(t, "patch-0", patch.ID)
	ppoly, ok := patch.Geometry.(*geom.Polygon)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 1, 3, 1, 3, 3, 1, 3, 1, 1}, ppoly.FlatCoords())
	assert.Equal(t, "high_ground", patch.Properties["kind"])

	player := fc.Features[2]
	assert.Equal(t, "player", player.ID)
	pt, ok := player.Geometry.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, []float64{1.5, 1.5}, pt.FlatCoords())
	assert.Equal(t, 10, player.Properties["population"])

	building := fc.Features[3]
	assert.Equal(t, "b-well", building.ID)
	assert.Equal(t, "well", building.Properties["type"])
	assert.Equal(t, 1, building.Properties["footprint"])

	deposit := fc.Features[4]
	dpt, ok := deposit.Geometry.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, []float64{2.5, 0.5}, dpt.FlatCoords())
	assert.Equal(t, 40, deposit.Properties["stone"])
	assert.Equal(t, 12, deposit.Properties["metal"])

	rivers := fc.Features[5]
	assert.Equal(t, "rivers", rivers.ID)
	mp, ok := rivers.Geometry.(*geom.MultiPoint)
	require.True(t, ok)
	assert.Equal(t, 2, mp.NumPoints())
	assert.Equal(t, []float64{3.5, 1.5, 3.5, 2.5}, mp.FlatCoords())
	assert.Equal(t, 2, rivers.Properties["tiles"])
}

func TestFeatureCollection_BareWorld(t *testing.T) {
	grid, err := world.NewGrid(2, 2)
	require.NoError(t, err)

	fc, err := FeatureCollection(sim.Snapshot{
		Meta: model.WorldMeta{ID: "w-bare", Width: 2, Height: 2},
		Grid: grid,
	})
	require.NoError(t, err)

	// Nothing to render but the boundary itself.
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "w-bare", fc.Features[0].ID)
}

func TestEncodeGeoJSON_Document(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeGeoJSON(&buf, testSnapshot(t)))

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 6)
	assert.Equal(t, "Feature", doc.Features[0].Type)
	assert.Equal(t, "Polygon", doc.Features[0].Geometry.Type)
	assert.Equal(t, "Polygon", doc.Features[1].Geometry.Type)
	assert.Equal(t, "Point", doc.Features[2].Geometry.Type)
	assert.Equal(t, "MultiPoint", doc.Features[5].Geometry.Type)

	// JSON numbers decode as float64.
	assert.Equal(t, float64(42), doc.Features[0].Properties["seed"])
	assert.Equal(t, "world", doc.Features[0].Properties["kind"])
}

func TestWriteGeoJSON_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.geojson")
	require.NoError(t, WriteGeoJSON(path, testSnapshot(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.Contains(t, string(data), `"FeatureCollection"`)
}

func TestWriteGeoJSON_BadPath(t *testing.T) {
	err := WriteGeoJSON(filepath.Join(t.TempDir(), "missing", "out.geojson"), testSnapshot(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create output file")
}
