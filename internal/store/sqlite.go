package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/sim"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/world"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS worlds (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	seed       INTEGER NOT NULL,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	patches    TEXT NOT NULL,
	periods    TEXT NOT NULL,
	geology    TEXT NOT NULL,
	player     TEXT,
	population INTEGER NOT NULL DEFAULT 0,
	century    INTEGER NOT NULL DEFAULT 0,
	game_over  INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS tiles (
	world_id      TEXT NOT NULL REFERENCES worlds(id),
	x             INTEGER NOT NULL,
	y             INTEGER NOT NULL,
	type          TEXT NOT NULL,
	original_type TEXT NOT NULL,
	elevation     REAL NOT NULL,
	explored      INTEGER NOT NULL DEFAULT 0,
	tree          INTEGER NOT NULL DEFAULT 0,
	road          INTEGER NOT NULL DEFAULT 0,
	berry         INTEGER NOT NULL DEFAULT 0,
	zone          INTEGER NOT NULL DEFAULT 0,
	deposit_stone INTEGER,
	deposit_metal INTEGER,
	PRIMARY KEY (world_id, x, y)
);

CREATE TABLE IF NOT EXISTS buildings (
	id         TEXT PRIMARY KEY,
	world_id   TEXT NOT NULL REFERENCES worlds(id),
	type       TEXT NOT NULL,
	x          INTEGER NOT NULL,
	y          INTEGER NOT NULL,
	level      INTEGER NOT NULL DEFAULT 1,
	population INTEGER NOT NULL DEFAULT 0,
	capacity   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS flood_events (
	id                 TEXT PRIMARY KEY,
	world_id           TEXT NOT NULL REFERENCES worlds(id),
	century            INTEGER NOT NULL,
	period             TEXT NOT NULL,
	sea_level          REAL NOT NULL,
	tiles_flooded      INTEGER NOT NULL DEFAULT 0,
	tiles_drained      INTEGER NOT NULL DEFAULT 0,
	population_drowned INTEGER NOT NULL DEFAULT 0,
	wells_lost         INTEGER NOT NULL DEFAULT 0,
	player_drowned     INTEGER NOT NULL DEFAULT 0,
	created_at         DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_worlds_name ON worlds(name);
CREATE INDEX IF NOT EXISTS idx_buildings_world_id ON buildings(world_id);
CREATE INDEX IF NOT EXISTS idx_flood_events_world_id ON flood_events(world_id);
CREATE INDEX IF NOT EXISTS idx_flood_events_century ON flood_events(world_id, century);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveWorld(ctx context.Context, snap sim.Snapshot) error {
	if snap.Grid == nil {
		return eris.New("sqlite: snapshot has no grid")
	}

	patchesJSON, err := json.Marshal(snap.Patches)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal patches")
	}
	periodsJSON, err := json.Marshal(snap.Periods)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal periods")
	}
	geologyJSON, err := json.Marshal(snap.Geology)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal geology")
	}
	var playerArg any
	if snap.Player != nil {
		playerJSON, err := json.Marshal(snap.Player)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal player")
		}
		playerArg = string(playerJSON)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save")
	}
	defer func() { _ = tx.Rollback() }()

	// Seed, dimensions, patches and periods are fixed at generation time,
	// so a re-save only touches the mutable columns.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO worlds (id, name, seed, width, height, patches, periods, geology, player, population, century, game_over, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name, geology = excluded.geology, player = excluded.player,
		   population = excluded.population, century = excluded.century,
		   game_over = excluded.game_over, updated_at = excluded.updated_at`,
		snap.Meta.ID, snap.Meta.Name, snap.Meta.Seed, snap.Meta.Width, snap.Meta.Height,
		string(patchesJSON), string(periodsJSON), string(geologyJSON), playerArg,
		snap.Population, snap.Century, snap.GameOver, snap.Meta.CreatedAt, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert world %s", snap.Meta.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tiles WHERE world_id = ?`, snap.Meta.ID); err != nil {
		return eris.Wrapf(err, "sqlite: clear tiles for %s", snap.Meta.ID)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tiles (world_id, x, y, type, original_type, elevation, explored, tree, road, berry, zone, deposit_stone, deposit_metal)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare tile insert")
	}
	defer stmt.Close()

	var tileErr error
	snap.Grid.Each(func(x, y int, t *model.Tile) {
		if tileErr != nil {
			return
		}
		var stone, metal any
		if t.Deposit != nil {
			stone, metal = t.Deposit.Stone, t.Deposit.Metal
		}
		_, tileErr = stmt.ExecContext(ctx,
			snap.Meta.ID, x, y, t.Type.String(), t.OriginalType.String(), t.Elevation,
			t.Explored, t.Tree, t.Road, t.Berry, int(t.Zone), stone, metal,
		)
	})
	if tileErr != nil {
		return eris.Wrapf(tileErr, "sqlite: insert tiles for %s", snap.Meta.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM buildings WHERE world_id = ?`, snap.Meta.ID); err != nil {
		return eris.Wrapf(err, "sqlite: clear buildings for %s", snap.Meta.ID)
	}
	for _, b := range snap.Buildings {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO buildings (id, world_id, type, x, y, level, population, capacity) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, snap.Meta.ID, string(b.Type), b.X, b.Y, b.Level, b.Population, b.Capacity,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert building %s", b.ID)
		}
	}

	return eris.Wrapf(tx.Commit(), "sqlite: commit save for %s", snap.Meta.ID)
}

func (s *SQLiteStore) LoadWorld(ctx context.Context, worldID string) (sim.Snapshot, error) {
	var snap sim.Snapshot
	var patchesJSON, periodsJSON, geologyJSON string
	var playerJSON sql.NullString

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, seed, width, height, patches, periods, geology, player, population, century, game_over, created_at, updated_at
		 FROM worlds WHERE id = ?`,
		worldID,
	)
	err := row.Scan(
		&snap.Meta.ID, &snap.Meta.Name, &snap.Meta.Seed, &snap.Meta.Width, &snap.Meta.Height,
		&patchesJSON, &periodsJSON, &geologyJSON, &playerJSON,
		&snap.Population, &snap.Century, &snap.GameOver,
		&snap.Meta.CreatedAt, &snap.Meta.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return snap, eris.Errorf("world not found: %s", worldID)
	}
	if err != nil {
		return snap, eris.Wrapf(err, "sqlite: load world %s", worldID)
	}

	if err := json.Unmarshal([]byte(patchesJSON), &snap.Patches); err != nil {
		return snap, eris.Wrap(err, "sqlite: unmarshal patches")
	}
	if err := json.Unmarshal([]byte(periodsJSON), &snap.Periods); err != nil {
		return snap, eris.Wrap(err, "sqlite: unmarshal periods")
	}
	if err := json.Unmarshal([]byte(geologyJSON), &snap.Geology); err != nil {
		return snap, eris.Wrap(err, "sqlite: unmarshal geology")
	}
	if playerJSON.Valid {
		snap.Player = &model.Player{}
		if err := json.Unmarshal([]byte(playerJSON.String), snap.Player); err != nil {
			return snap, eris.Wrap(err, "sqlite: unmarshal player")
		}
	}

	grid, err := world.NewGrid(snap.Meta.Width, snap.Meta.Height)
	if err != nil {
		return snap, err
	}
	if err := s.loadTiles(ctx, worldID, grid); err != nil {
		return snap, err
	}
	snap.Grid = grid

	snap.Buildings, err = s.loadBuildings(ctx, worldID)
	if err != nil {
		return snap, err
	}
	return snap, nil
}

func (s *SQLiteStore) loadTiles(ctx context.Context, worldID string, grid *world.Grid) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT x, y, type, original_type, elevation, explored, tree, road, berry, zone, deposit_stone, deposit_metal
		 FROM tiles WHERE world_id = ?`,
		worldID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: load tiles for %s", worldID)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var x, y, zone int
		var typeName, origName string
		var elevation float64
		var explored, tree, road, berry bool
		var stone, metal sql.NullInt64

		if err := rows.Scan(&x, &y, &typeName, &origName, &elevation, &explored, &tree, &road, &berry, &zone, &stone, &metal); err != nil {
			return eris.Wrap(err, "sqlite: scan tile")
		}
		t := grid.At(x, y)
		if t == nil {
			return eris.Errorf("sqlite: tile (%d, %d) outside %dx%d world %s", x, y, grid.Width(), grid.Height(), worldID)
		}
		tt, err := model.ParseTerrainType(typeName)
		if err != nil {
			return err
		}
		ot, err := model.ParseTerrainType(origName)
		if err != nil {
			return err
		}
		t.Type = tt
		t.OriginalType = ot
		t.Elevation = elevation
		t.Explored = explored
		t.Tree = tree
		t.Road = road
		t.Berry = berry
		t.Zone = byte(zone)
		if stone.Valid {
			t.Deposit = &model.Deposit{Stone: int(stone.Int64), Metal: int(metal.Int64)}
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return eris.Wrap(err, "sqlite: load tiles iterate")
	}
	if want := grid.Width() * grid.Height(); count != want {
		return eris.Errorf("sqlite: world %s has %d tiles, want %d", worldID, count, want)
	}
	return nil
}

func (s *SQLiteStore) loadBuildings(ctx context.Context, worldID string) ([]*model.Building, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, x, y, level, population, capacity FROM buildings WHERE world_id = ? ORDER BY id`,
		worldID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: load buildings for %s", worldID)
	}
	defer rows.Close()

	var buildings []*model.Building
	for rows.Next() {
		var b model.Building
		var bt string
		if err := rows.Scan(&b.ID, &bt, &b.X, &b.Y, &b.Level, &b.Population, &b.Capacity); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan building")
		}
		b.Type = model.BuildingType(bt)
		buildings = append(buildings, &b)
	}
	return buildings, eris.Wrap(rows.Err(), "sqlite: load buildings iterate")
}

func (s *SQLiteStore) ListWorlds(ctx context.Context, filter WorldFilter) ([]model.WorldMeta, error) {
	query := `SELECT id, name, seed, width, height, created_at, updated_at FROM worlds WHERE 1=1`
	var args []any

	if filter.Name != "" {
		query += ` AND name = ?`
		args = append(args, filter.Name)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list worlds")
	}
	defer rows.Close()

	var worlds []model.WorldMeta
	for rows.Next() {
		var m model.WorldMeta
		if err := rows.Scan(&m.ID, &m.Name, &m.Seed, &m.Width, &m.Height, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan world")
		}
		worlds = append(worlds, m)
	}
	return worlds, eris.Wrap(rows.Err(), "sqlite: list worlds iterate")
}

func (s *SQLiteStore) DeleteWorld(ctx context.Context, worldID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin delete")
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"flood_events", "buildings", "tiles"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE world_id = ?`, worldID); err != nil {
			return eris.Wrapf(err, "sqlite: delete %s for %s", table, worldID)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM worlds WHERE id = ?`, worldID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete world %s", worldID)
	}
	if err := checkRowsAffected(res, "world", worldID); err != nil {
		return err
	}
	return eris.Wrapf(tx.Commit(), "sqlite: commit delete for %s", worldID)
}

func (s *SQLiteStore) RecordFloodEvent(ctx context.Context, ev model.FloodEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO flood_events (id, world_id, century, period, sea_level, tiles_flooded, tiles_drained, population_drowned, wells_lost, player_drowned, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.WorldID, ev.Century, ev.Period, ev.SeaLevel,
		ev.TilesFlooded, ev.TilesDrained, ev.PopulationDrowned, ev.WellsLost, ev.PlayerDrowned, ev.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: record flood event for %s", ev.WorldID)
}

func (s *SQLiteStore) ListFloodEvents(ctx context.Context, worldID string, limit int) ([]model.FloodEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, world_id, century, period, sea_level, tiles_flooded, tiles_drained, population_drowned, wells_lost, player_drowned, created_at
		 FROM flood_events WHERE world_id = ? ORDER BY century ASC LIMIT ?`,
		worldID, limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list flood events for %s", worldID)
	}
	defer rows.Close()

	var events []model.FloodEvent
	for rows.Next() {
		var ev model.FloodEvent
		if err := rows.Scan(&ev.ID, &ev.WorldID, &ev.Century, &ev.Period, &ev.SeaLevel,
			&ev.TilesFlooded, &ev.TilesDrained, &ev.PopulationDrowned, &ev.WellsLost, &ev.PlayerDrowned, &ev.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan flood event")
		}
		events = append(events, ev)
	}
	return events, eris.Wrap(rows.Err(), "sqlite: list flood events iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
