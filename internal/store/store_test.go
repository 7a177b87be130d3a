package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// storeTestSuite checks interface-level behavior any backend must share.
func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("SaveLoadDeleteLifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		snap := testSnapshot(t)
		require.NoError(t, s.SaveWorld(ctx, snap))

		loaded, err := s.LoadWorld(ctx, snap.Meta.ID)
		require.NoError(t, err)
		assert.Equal(t, snap.Meta.ID, loaded.Meta.ID)
		assert.Equal(t, snap.Grid.TypeGrid(), loaded.Grid.TypeGrid())

		require.NoError(t, s.DeleteWorld(ctx, snap.Meta.ID))

		_, err = s.LoadWorld(ctx, snap.Meta.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("ResaveKeepsOneCopy", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		snap := testSnapshot(t)
		require.NoError(t, s.SaveWorld(ctx, snap))

		snap.Century = 30
		snap.Geology.SeaLevel = 4.1
		require.NoError(t, s.SaveWorld(ctx, snap))

		worlds, err := s.ListWorlds(ctx, WorldFilter{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, worlds, 1)

		loaded, err := s.LoadWorld(ctx, snap.Meta.ID)
		require.NoError(t, err)
		assert.Equal(t, 30, loaded.Century)
		assert.Equal(t, 4.1, loaded.Geology.SeaLevel)
	})

	t.Run("FloodHistoryAccumulates", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		snap := testSnapshot(t)
		require.NoError(t, s.SaveWorld(ctx, snap))

		for century := 1; century <= 3; century++ {
			require.NoError(t, s.RecordFloodEvent(ctx, model.FloodEvent{
				WorldID:      snap.Meta.ID,
				Century:      century,
				Period:       "Rise",
				SeaLevel:     2.5 + float64(century)*0.1,
				TilesFlooded: century * 2,
			}))
		}

		events, err := s.ListFloodEvents(ctx, snap.Meta.ID, 10)
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, 2, events[0].TilesFlooded)
		assert.Equal(t, 6, events[2].TilesFlooded)
	})

	t.Run("ListWorlds_WithOffset", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		base := testSnapshot(t)
		for i := 0; i < 3; i++ {
			snap := testSnapshot(t)
			snap.Meta.ID = base.Meta.ID + string(rune('a'+i))
			snap.Meta.CreatedAt = base.Meta.CreatedAt.Add(time.Duration(i) * time.Hour)
			require.NoError(t, s.SaveWorld(ctx, snap))
		}

		paged, err := s.ListWorlds(ctx, WorldFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, paged, 1)
		// Newest first, so offset 1 is the middle world.
		assert.Equal(t, base.Meta.ID+"b", paged[0].ID)
	})

	t.Run("DeleteWorld_NotFound", func(t *testing.T) {
		s := newStore(t)

		err := s.DeleteWorld(context.Background(), "nonexistent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("FloodEvents_EmptyWorld", func(t *testing.T) {
		s := newStore(t)

		events, err := s.ListFloodEvents(context.Background(), "nonexistent", 10)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}
