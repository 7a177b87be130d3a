package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/db"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/sim"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/world"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot store operations.
var preparedStatements = map[string]string{
	"world_exists":       `SELECT EXISTS (SELECT 1 FROM worlds WHERE id = $1)`,
	"get_world":          `SELECT id, name, seed, width, height, patches, periods, geology, player, population, century, game_over, created_at, updated_at FROM worlds WHERE id = $1`,
	"select_tiles":       `SELECT x, y, type, original_type, elevation, explored, tree, road, berry, zone, deposit_stone, deposit_metal FROM tiles WHERE world_id = $1`,
	"select_buildings":   `SELECT id, type, x, y, level, population, capacity FROM buildings WHERE world_id = $1 ORDER BY id`,
	"insert_flood_event": `INSERT INTO flood_events (id, world_id, century, period, sea_level, tiles_flooded, tiles_drained, population_drowned, wells_lost, player_drowned, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
	"list_flood_events":  `SELECT id, world_id, century, period, sea_level, tiles_flooded, tiles_drained, population_drowned, wells_lost, player_drowned, created_at FROM flood_events WHERE world_id = $1 ORDER BY century ASC LIMIT $2`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS worlds (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	seed       BIGINT NOT NULL,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	patches    JSONB NOT NULL,
	periods    JSONB NOT NULL,
	geology    JSONB NOT NULL,
	player     JSONB,
	population INTEGER NOT NULL DEFAULT 0,
	century    INTEGER NOT NULL DEFAULT 0,
	game_over  BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tiles (
	world_id      TEXT NOT NULL REFERENCES worlds(id),
	x             INTEGER NOT NULL,
	y             INTEGER NOT NULL,
	type          TEXT NOT NULL,
	original_type TEXT NOT NULL,
	elevation     DOUBLE PRECISION NOT NULL,
	explored      BOOLEAN NOT NULL DEFAULT false,
	tree          BOOLEAN NOT NULL DEFAULT false,
	road          BOOLEAN NOT NULL DEFAULT false,
	berry         BOOLEAN NOT NULL DEFAULT false,
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
	sea_level          DOUBLE PRECISION NOT NULL,
	tiles_flooded      INTEGER NOT NULL DEFAULT 0,
	tiles_drained      INTEGER NOT NULL DEFAULT 0,
	population_drowned INTEGER NOT NULL DEFAULT 0,
	wells_lost         INTEGER NOT NULL DEFAULT 0,
	player_drowned     BOOLEAN NOT NULL DEFAULT false,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_worlds_name ON worlds(name);
CREATE INDEX IF NOT EXISTS idx_buildings_world_id ON buildings(world_id);
CREATE INDEX IF NOT EXISTS idx_flood_events_world_id ON flood_events(world_id);
CREATE INDEX IF NOT EXISTS idx_flood_events_century ON flood_events(world_id, century);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// tileColumns is the COPY/upsert column order for the tiles table.
var tileColumns = []string{
	"world_id", "x", "y", "type", "original_type", "elevation",
	"explored", "tree", "road", "berry", "zone", "deposit_stone", "deposit_metal",
}

// tileRows flattens the grid into COPY rows in tileColumns order.
func tileRows(worldID string, grid *world.Grid) [][]any {
	rows := make([][]any, 0, grid.Width()*grid.Height())
	grid.Each(func(x, y int, t *model.Tile) {
		var stone, metal any
		if t.Deposit != nil {
			stone, metal = t.Deposit.Stone, t.Deposit.Metal
		}
		rows = append(rows, []any{
			worldID, x, y, t.Type.String(), t.OriginalType.String(), t.Elevation,
			t.Explored, t.Tree, t.Road, t.Berry, int(t.Zone), stone, metal,
		})
	})
	return rows
}

func (s *PostgresStore) SaveWorld(ctx context.Context, snap sim.Snapshot) error {
	if snap.Grid == nil {
		return eris.New("postgres: snapshot has no grid")
	}

	patchesJSON, err := json.Marshal(snap.Patches)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal patches")
	}
	periodsJSON, err := json.Marshal(snap.Periods)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal periods")
	}
	geologyJSON, err := json.Marshal(snap.Geology)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal geology")
	}
	var playerJSON []byte
	if snap.Player != nil {
		playerJSON, err = json.Marshal(snap.Player)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal player")
		}
	}

	var exists bool
	err = s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM worlds WHERE id = $1)`, snap.Meta.ID).Scan(&exists)
	if err != nil {
		return eris.Wrapf(err, "postgres: check world %s", snap.Meta.ID)
	}

	// Seed, dimensions, patches and periods are fixed at generation time,
	// so a re-save only touches the mutable columns.
	_, err = s.pool.Exec(ctx,
		`INSERT INTO worlds (id, name, seed, width, height, patches, periods, geology, player, population, century, game_over, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, geology = EXCLUDED.geology, player = EXCLUDED.player,
		   population = EXCLUDED.population, century = EXCLUDED.century,
		   game_over = EXCLUDED.game_over, updated_at = EXCLUDED.updated_at`,
		snap.Meta.ID, snap.Meta.Name, snap.Meta.Seed, snap.Meta.Width, snap.Meta.Height,
		patchesJSON, periodsJSON, geologyJSON, playerJSON,
		snap.Population, snap.Century, snap.GameOver, snap.Meta.CreatedAt, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: upsert world %s", snap.Meta.ID)
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM buildings WHERE world_id = $1`, snap.Meta.ID); err != nil {
		return eris.Wrapf(err, "postgres: clear buildings for %s", snap.Meta.ID)
	}
	for _, b := range snap.Buildings {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO buildings (id, world_id, type, x, y, level, population, capacity) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			b.ID, snap.Meta.ID, string(b.Type), b.X, b.Y, b.Level, b.Population, b.Capacity,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert building %s", b.ID)
		}
	}

	rows := tileRows(snap.Meta.ID, snap.Grid)
	if !exists {
		// First save of a world: COPY is the fast path for a full grid.
		if _, err := db.CopyFrom(ctx, s.pool, "tiles", tileColumns, rows); err != nil {
			return err
		}
		return nil
	}
	// Re-save: upsert through a temp table so the grid is rewritten in
	// two statements instead of one per tile.
	_, err = db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "tiles",
		Columns:      tileColumns,
		ConflictKeys: []string{"world_id", "x", "y"},
	}, rows)
	return err
}

func (s *PostgresStore) LoadWorld(ctx context.Context, worldID string) (sim.Snapshot, error) {
	var snap sim.Snapshot
	var patchesJSON, periodsJSON, geologyJSON []byte
	var playerJSON *[]byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, name, seed, width, height, patches, periods, geology, player, population, century, game_over, created_at, updated_at FROM worlds WHERE id = $1`,
		worldID,
	).Scan(
		&snap.Meta.ID, &snap.Meta.Name, &snap.Meta.Seed, &snap.Meta.Width, &snap.Meta.Height,
		&patchesJSON, &periodsJSON, &geologyJSON, &playerJSON,
		&snap.Population, &snap.Century, &snap.GameOver,
		&snap.Meta.CreatedAt, &snap.Meta.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return snap, eris.Errorf("world not found: %s", worldID)
	}
	if err != nil {
		return snap, eris.Wrapf(err, "postgres: load world %s", worldID)
	}

	if err := json.Unmarshal(patchesJSON, &snap.Patches); err != nil {
		return snap, eris.Wrap(err, "postgres: unmarshal patches")
	}
	if err := json.Unmarshal(periodsJSON, &snap.Periods); err != nil {
		return snap, eris.Wrap(err, "postgres: unmarshal periods")
	}
	if err := json.Unmarshal(geologyJSON, &snap.Geology); err != nil {
		return snap, eris.Wrap(err, "postgres: unmarshal geology")
	}
	if playerJSON != nil {
		snap.Player = &model.Player{}
		if err := json.Unmarshal(*playerJSON, snap.Player); err != nil {
			return snap, eris.Wrap(err, "postgres: unmarshal player")
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

func (s *PostgresStore) loadTiles(ctx context.Context, worldID string, grid *world.Grid) error {
	rows, err := s.pool.Query(ctx,
		`SELECT x, y, type, original_type, elevation, explored, tree, road, berry, zone, deposit_stone, deposit_metal FROM tiles WHERE world_id = $1`,
		worldID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: load tiles for %s", worldID)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var x, y, zone int
		var typeName, origName string
		var elevation float64
		var explored, tree, road, berry bool
		var stone, metal *int

		if err := rows.Scan(&x, &y, &typeName, &origName, &elevation, &explored, &tree, &road, &berry, &zone, &stone, &metal); err != nil {
			return eris.Wrap(err, "postgres: scan tile")
		}
		t := grid.At(x, y)
		if t == nil {
			return eris.Errorf("postgres: tile (%d, %d) outside %dx%d world %s", x, y, grid.Width(), grid.Height(), worldID)
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
		if stone != nil {
			d := model.Deposit{Stone: *stone}
			if metal != nil {
				d.Metal = *metal
			}
			t.Deposit = &d
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return eris.Wrap(err, "postgres: load tiles iterate")
	}
	if want := grid.Width() * grid.Height(); count != want {
		return eris.Errorf("postgres: world %s has %d tiles, want %d", worldID, count, want)
	}
	return nil
}

func (s *PostgresStore) loadBuildings(ctx context.Context, worldID string) ([]*model.Building, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, type, x, y, level, population, capacity FROM buildings WHERE world_id = $1 ORDER BY id`,
		worldID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: load buildings for %s", worldID)
	}
	defer rows.Close()

	var buildings []*model.Building
	for rows.Next() {
		var b model.Building
		var bt string
		if err := rows.Scan(&b.ID, &bt, &b.X, &b.Y, &b.Level, &b.Population, &b.Capacity); err != nil {
			return nil, eris.Wrap(err, "postgres: scan building")
		}
		b.Type = model.BuildingType(bt)
		buildings = append(buildings, &b)
	}
	return buildings, eris.Wrap(rows.Err(), "postgres: load buildings iterate")
}

func (s *PostgresStore) ListWorlds(ctx context.Context, filter WorldFilter) ([]model.WorldMeta, error) {
	query := `SELECT id, name, seed, width, height, created_at, updated_at FROM worlds WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Name != "" {
		query += fmt.Sprintf(` AND name = $%d`, argIdx)
		args = append(args, filter.Name)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list worlds")
	}
	defer rows.Close()

	var worlds []model.WorldMeta
	for rows.Next() {
		var m model.WorldMeta
		if err := rows.Scan(&m.ID, &m.Name, &m.Seed, &m.Width, &m.Height, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan world")
		}
		worlds = append(worlds, m)
	}
	return worlds, eris.Wrap(rows.Err(), "postgres: list worlds iterate")
}

func (s *PostgresStore) DeleteWorld(ctx context.Context, worldID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin delete")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, table := range []string{"flood_events", "buildings", "tiles"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE world_id = $1`, worldID); err != nil {
			return eris.Wrapf(err, "postgres: delete %s for %s", table, worldID)
		}
	}
	tag, err := tx.Exec(ctx, `DELETE FROM worlds WHERE id = $1`, worldID)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete world %s", worldID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("world not found: %s", worldID)
	}
	return eris.Wrapf(tx.Commit(ctx), "postgres: commit delete for %s", worldID)
}

func (s *PostgresStore) RecordFloodEvent(ctx context.Context, ev model.FloodEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO flood_events (id, world_id, century, period, sea_level, tiles_flooded, tiles_drained, population_drowned, wells_lost, player_drowned, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		ev.ID, ev.WorldID, ev.Century, ev.Period, ev.SeaLevel,
		ev.TilesFlooded, ev.TilesDrained, ev.PopulationDrowned, ev.WellsLost, ev.PlayerDrowned, ev.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: record flood event for %s", ev.WorldID)
}

func (s *PostgresStore) ListFloodEvents(ctx context.Context, worldID string, limit int) ([]model.FloodEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, world_id, century, period, sea_level, tiles_flooded, tiles_drained, population_drowned, wells_lost, player_drowned, created_at
		 FROM flood_events WHERE world_id = $1 ORDER BY century ASC LIMIT $2`,
		worldID, limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list flood events for %s", worldID)
	}
	defer rows.Close()

	var events []model.FloodEvent
	for rows.Next() {
		var ev model.FloodEvent
		if err := rows.Scan(&ev.ID, &ev.WorldID, &ev.Century, &ev.Period, &ev.SeaLevel,
			&ev.TilesFlooded, &ev.TilesDrained, &ev.PopulationDrowned, &ev.WellsLost, &ev.PlayerDrowned, &ev.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan flood event")
		}
		events = append(events, ev)
	}
	return events, eris.Wrap(rows.Err(), "postgres: list flood events iterate")
}
