package store

import (
	"context"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/sim"
)

// WorldFilter specifies criteria for listing worlds.
type WorldFilter struct {
	Name   string `json:"name,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for worlds and their history.
//
// SaveWorld persists the full snapshot: metadata, every tile, the
// building list and the geological state. Saving an existing world ID
// overwrites it in place. LoadWorld returns the snapshot without
// relinking building pointers into the grid; sim.RestoreSession does
// that on top.
type Store interface {
	// Worlds
	SaveWorld(ctx context.Context, snap sim.Snapshot) error
	LoadWorld(ctx context.Context, worldID string) (sim.Snapshot, error)
	ListWorlds(ctx context.Context, filter WorldFilter) ([]model.WorldMeta, error)
	DeleteWorld(ctx context.Context, worldID string) error

	// Flood history
	RecordFloodEvent(ctx context.Context, ev model.FloodEvent) error
	ListFloodEvents(ctx context.Context, worldID string, limit int) ([]model.FloodEvent, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
