package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/tenant-improvements/internal/config"
	"github.com/nurpe/tenant-improvements/internal/db"
	"github.com/nurpe/tenant-improvements/internal/repository"
)

const (
	admin      = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"
	landlord   = "ST1LANDLORD0000000000000000000000000000"
	tenant     = "ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG"
	contractor = "ST3CONTRACTOR00000000000000000000000000"
	stranger   = "ST4STRANGER0000000000000000000000000000"
)

func testConfig(mods ...func(*config.Config)) *config.Config {
	cfg := &config.Config{
		Environment: "test",
		DB:          config.DBConfig{DSN: "file::memory:"},
		Auth:        config.AuthConfig{AccessSecret: "secret"},
		Registry:    config.RegistryConfig{AdminPrincipal: admin},
	}
	for _, mod := range mods {
		mod(cfg)
	}
	return cfg
}

func setupStore(t *testing.T) *repository.Store {
	t.Helper()
	database, err := db.New(testConfig(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(database))
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewStore(database)
}

func ledgerHeight(t *testing.T, store *repository.Store) int64 {
	t.Helper()
	height, err := store.Read().Ledger.Height(context.Background())
	require.NoError(t, err)
	return height
}

// assertRejected checks the error and that nothing reached the ledger.
func assertRejected(t *testing.T, store *repository.Store, before int64, err, want error) {
	t.Helper()
	assert.ErrorIs(t, err, want)
	assert.Equal(t, before, ledgerHeight(t, store), "rejected transaction must not be recorded")
}
