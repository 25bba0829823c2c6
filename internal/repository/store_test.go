package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/tenant-improvements/internal/config"
	"github.com/nurpe/tenant-improvements/internal/db"
	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/repository"
)

func newStore(t *testing.T) *repository.Store {
	t.Helper()
	cfg := &config.Config{Environment: "test", DB: config.DBConfig{DSN: "file::memory:"}}
	database, err := db.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(database))
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewStore(database)
}

func TestTransactCommitsEntryAndState(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	entry, err := store.Transact(ctx, model.Transaction{
		Component: model.ComponentProperty,
		Operation: "register",
		Caller:    "owner",
		Subject:   "prop1",
		Args:      map[string]string{"physical_address": "1 Main St"},
	}, func(repos *repository.Repositories, entry *model.LedgerEntry) error {
		assert.NotZero(t, entry.Height)
		return repos.Properties.Create(ctx, &model.Property{
			ID:                   "prop1",
			Owner:                "owner",
			PhysicalAddress:      "1 Main St",
			Condition:            model.PropertyConditionUnverified,
			LastInspectionHeight: entry.Height,
		})
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.TxID)
	assert.Equal(t, `{"physical_address":"1 Main St"}`, entry.Payload)

	property, err := store.Read().Properties.Get(ctx, "prop1")
	require.NoError(t, err)
	assert.Equal(t, entry.Height, property.LastInspectionHeight)

	height, err := store.Read().Ledger.Height(ctx)
	require.NoError(t, err)
	assert.Equal(t, entry.Height, height)
}

func TestTransactRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	boom := errors.New("boom")

	_, err := store.Transact(ctx, model.Transaction{
		Component: model.ComponentAllowance,
		Operation: "create_allowance",
		Caller:    "landlord",
		Subject:   "proj1",
	}, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		require.NoError(t, repos.Allowances.Create(ctx, &model.Allowance{
			ProjectID:       "proj1",
			Landlord:        "landlord",
			Tenant:          "tenant",
			TotalAmount:     100,
			RemainingAmount: 100,
			Status:          model.AllowanceStatusActive,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Read().Allowances.Get(ctx, "proj1")
	assert.Error(t, err)

	entries, err := store.Read().Ledger.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAllowanceMilestoneQueries(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	repos := store.Read()

	require.NoError(t, repos.Allowances.Create(ctx, &model.Allowance{
		ProjectID: "proj1", Landlord: "l", Tenant: "t", TotalAmount: 100, RemainingAmount: 100,
		Status: model.AllowanceStatusActive,
	}))
	for _, m := range []model.Milestone{
		{ProjectID: "proj1", MilestoneID: "a", Amount: 10},
		{ProjectID: "proj1", MilestoneID: "b", Amount: 20, Completed: true, Paid: true},
		{ProjectID: "proj1", MilestoneID: "c", Amount: 30, Completed: true},
		{ProjectID: "proj2", MilestoneID: "a", Amount: 40},
	} {
		m := m
		require.NoError(t, repos.Allowances.CreateMilestone(ctx, &m))
	}

	milestones, err := repos.Allowances.ListMilestones(ctx, "proj1")
	require.NoError(t, err)
	assert.Len(t, milestones, 3)

	unpaid, err := repos.Allowances.UnpaidMilestoneTotal(ctx, "proj1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), unpaid)

	milestone, err := repos.Allowances.GetMilestone(ctx, model.MilestoneKey{ProjectID: "proj2", MilestoneID: "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(40), milestone.Amount)
}
