package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/config"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/store"
)

func TestInitStore_UnsupportedDriver(t *testing.T) {
	setTestConfig(t, &config.Config{
		Store: config.StoreConfig{Driver: "oracle"},
	})

	_, err := initStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver: oracle")
}

func TestOpenStore_SQLite(t *testing.T) {
	setTestConfig(t, &config.Config{
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(t.TempDir(), "cmd.db"),
		},
	})

	st, err := openStore(context.Background())
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	// Migrations ran, so the store accepts queries immediately.
	worlds, err := st.ListWorlds(context.Background(), store.WorldFilter{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, worlds)
}
