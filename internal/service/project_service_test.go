package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/repository"
	"github.com/nurpe/tenant-improvements/internal/service"
)

func newProjectService(t *testing.T) (*service.ProjectService, *repository.Store) {
	store := setupStore(t)
	return service.NewProjectService(store, zerolog.Nop(), nil), store
}

func createProject(t *testing.T, svc *service.ProjectService, projectID string) {
	t.Helper()
	_, err := svc.Create(context.Background(), service.CreateProjectInput{
		ProjectID:   projectID,
		PropertyID:  "prop123",
		Landlord:    landlord,
		Description: "Kitchen renovation",
		StartDate:   100,
		EndDate:     200,
		Caller:      tenant,
	})
	require.NoError(t, err)
}

func TestProjectCreate(t *testing.T) {
	ctx := context.Background()
	svc, store := newProjectService(t)
	createProject(t, svc, "proj123")

	project, err := svc.Get(ctx, "proj123")
	require.NoError(t, err)
	assert.Equal(t, "prop123", project.PropertyID)
	assert.Equal(t, model.Principal(tenant), project.Tenant)
	assert.Equal(t, model.Principal(landlord), project.Landlord)
	assert.Equal(t, model.ProjectStatusPending, project.Status)
	assert.False(t, project.Approved)
	assert.Equal(t, int64(100), project.StartDate)
	assert.Equal(t, int64(200), project.EndDate)

	before := ledgerHeight(t, store)
	_, err = svc.Create(ctx, service.CreateProjectInput{ProjectID: "proj123", Landlord: landlord, Caller: stranger})
	assertRejected(t, store, before, err, service.ErrProjectExists)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestProjectApprove(t *testing.T) {
	ctx := context.Background()
	svc, store := newProjectService(t)

	_, err := svc.Approve(ctx, "missing", landlord)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)

	createProject(t, svc, "proj123")

	for _, caller := range []model.Principal{tenant, stranger, admin} {
		before := ledgerHeight(t, store)
		_, err = svc.Approve(ctx, "proj123", caller)
		assertRejected(t, store, before, err, service.ErrNotProjectLandlord)
	}
	project, err := svc.Get(ctx, "proj123")
	require.NoError(t, err)
	assert.False(t, project.Approved)
	assert.Equal(t, model.ProjectStatusPending, project.Status)

	_, err = svc.Approve(ctx, "proj123", landlord)
	require.NoError(t, err)

	project, err = svc.Get(ctx, "proj123")
	require.NoError(t, err)
	assert.True(t, project.Approved)
	assert.Equal(t, model.ProjectStatusApproved, project.Status)
}

func TestProjectModificationFlow(t *testing.T) {
	ctx := context.Background()
	svc, store := newProjectService(t)
	createProject(t, svc, "proj123")
	key := model.ModificationKey{ProjectID: "proj123", ModificationID: "mod1"}

	// proposals are accepted before the project is approved
	_, err := svc.AddModification(ctx, service.AddModificationInput{
		ProjectID:      "proj123",
		ModificationID: "mod1",
		Description:    "Add an extra outlet",
		Caller:         tenant,
	})
	require.NoError(t, err)

	modification, err := svc.GetModification(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Add an extra outlet", modification.Description)
	assert.False(t, modification.Approved)
	assert.False(t, modification.Completed)

	before := ledgerHeight(t, store)
	_, err = svc.CompleteModification(ctx, key, tenant)
	assertRejected(t, store, before, err, service.ErrModificationNotApproved)

	_, err = svc.ApproveModification(ctx, key, tenant)
	assert.ErrorIs(t, err, service.ErrNotProjectLandlord)

	_, err = svc.ApproveModification(ctx, key, landlord)
	require.NoError(t, err)

	_, err = svc.CompleteModification(ctx, key, stranger)
	assert.ErrorIs(t, err, service.ErrNotProjectParty)

	_, err = svc.CompleteModification(ctx, key, landlord)
	require.NoError(t, err)

	modification, err = svc.GetModification(ctx, key)
	require.NoError(t, err)
	assert.True(t, modification.Approved)
	assert.True(t, modification.Completed)

	before = ledgerHeight(t, store)
	_, err = svc.CompleteModification(ctx, key, tenant)
	assertRejected(t, store, before, err, service.ErrModificationCompleted)
}

func TestProjectModificationRejections(t *testing.T) {
	ctx := context.Background()
	svc, store := newProjectService(t)

	add := func(caller model.Principal) error {
		_, err := svc.AddModification(ctx, service.AddModificationInput{
			ProjectID:      "proj123",
			ModificationID: "mod1",
			Description:    "Add an extra outlet",
			Caller:         caller,
		})
		return err
	}

	assert.ErrorIs(t, add(tenant), service.ErrProjectNotFound)

	createProject(t, svc, "proj123")

	before := ledgerHeight(t, store)
	assertRejected(t, store, before, add(landlord), service.ErrNotProjectTenant)

	require.NoError(t, add(tenant))
	before = ledgerHeight(t, store)
	assertRejected(t, store, before, add(tenant), service.ErrModificationExists)

	missing := model.ModificationKey{ProjectID: "proj123", ModificationID: "nope"}
	_, err := svc.ApproveModification(ctx, missing, landlord)
	assert.ErrorIs(t, err, service.ErrModificationNotFound)
	_, err = svc.CompleteModification(ctx, missing, landlord)
	assert.ErrorIs(t, err, service.ErrModificationNotFound)
	_, err = svc.GetModification(ctx, missing)
	assert.ErrorIs(t, err, service.ErrModificationNotFound)

	noProject := model.ModificationKey{ProjectID: "ghost", ModificationID: "mod1"}
	_, err = svc.ApproveModification(ctx, noProject, landlord)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
	_, err = svc.CompleteModification(ctx, noProject, landlord)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}
