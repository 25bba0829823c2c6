package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/repository"
)

// ProjectService is the project scope registry. The tenant proposes a project
// and modifications to it; the landlord approves them.
type ProjectService struct {
	ledger
}

type CreateProjectInput struct {
	ProjectID   string
	PropertyID  string
	Landlord    model.Principal
	Description string
	StartDate   int64
	EndDate     int64
	Caller      model.Principal
}

type AddModificationInput struct {
	ProjectID      string
	ModificationID string
	Description    string
	Caller         model.Principal
}

func NewProjectService(store *repository.Store, log zerolog.Logger, observer TxObserver) *ProjectService {
	return &ProjectService{ledger: newLedger(store, log, observer)}
}

func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*model.LedgerEntry, error) {
	if err := requireID("project_id", input.ProjectID); err != nil {
		return nil, err
	}
	if err := requirePrincipal("landlord", input.Landlord); err != nil {
		return nil, err
	}

	txn := model.Transaction{
		Component: model.ComponentProject,
		Operation: "create_project",
		Caller:    input.Caller,
		Subject:   input.ProjectID,
		Args: map[string]any{
			"property_id": input.PropertyID,
			"landlord":    input.Landlord,
			"description": input.Description,
			"start_date":  input.StartDate,
			"end_date":    input.EndDate,
		},
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		if _, err := repos.Projects.Get(ctx, input.ProjectID); err == nil {
			return ErrProjectExists
		} else if !isNotFound(err) {
			return err
		}

		err := repos.Projects.Create(ctx, &model.Project{
			ID:          input.ProjectID,
			PropertyID:  input.PropertyID,
			Tenant:      input.Caller,
			Landlord:    input.Landlord,
			Description: input.Description,
			Status:      model.ProjectStatusPending,
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
		})
		if isDuplicate(err) {
			return ErrProjectExists
		}
		return err
	})
}

func (s *ProjectService) Approve(ctx context.Context, projectID string, caller model.Principal) (*model.LedgerEntry, error) {
	txn := model.Transaction{
		Component: model.ComponentProject,
		Operation: "approve_project",
		Caller:    caller,
		Subject:   projectID,
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		project, err := repos.Projects.Get(ctx, projectID)
		if err != nil {
			return notFoundAs(err, ErrProjectNotFound)
		}
		if project.Landlord != caller {
			return ErrNotProjectLandlord
		}
		project.Approved = true
		project.Status = model.ProjectStatusApproved
		return repos.Projects.Save(ctx, project)
	})
}

// AddModification lets the tenant propose a scope change. Proposals are
// accepted whether or not the project itself is approved yet.
func (s *ProjectService) AddModification(ctx context.Context, input AddModificationInput) (*model.LedgerEntry, error) {
	if err := requireID("modification_id", input.ModificationID); err != nil {
		return nil, err
	}
	key := model.ModificationKey{ProjectID: input.ProjectID, ModificationID: input.ModificationID}

	txn := model.Transaction{
		Component: model.ComponentProject,
		Operation: "add_modification",
		Caller:    input.Caller,
		Subject:   key.String(),
		Args:      map[string]any{"description": input.Description},
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		project, err := repos.Projects.Get(ctx, input.ProjectID)
		if err != nil {
			return notFoundAs(err, ErrProjectNotFound)
		}
		if project.Tenant != input.Caller {
			return ErrNotProjectTenant
		}
		if _, err := repos.Projects.GetModification(ctx, key); err == nil {
			return ErrModificationExists
		} else if !isNotFound(err) {
			return err
		}

		err = repos.Projects.CreateModification(ctx, &model.Modification{
			ProjectID:      key.ProjectID,
			ModificationID: key.ModificationID,
			Description:    input.Description,
		})
		if isDuplicate(err) {
			return ErrModificationExists
		}
		return err
	})
}

func (s *ProjectService) ApproveModification(ctx context.Context, key model.ModificationKey, caller model.Principal) (*model.LedgerEntry, error) {
	txn := model.Transaction{
		Component: model.ComponentProject,
		Operation: "approve_modification",
		Caller:    caller,
		Subject:   key.String(),
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		project, err := repos.Projects.Get(ctx, key.ProjectID)
		if err != nil {
			return notFoundAs(err, ErrProjectNotFound)
		}
		if project.Landlord != caller {
			return ErrNotProjectLandlord
		}
		modification, err := repos.Projects.GetModification(ctx, key)
		if err != nil {
			return notFoundAs(err, ErrModificationNotFound)
		}
		modification.Approved = true
		return repos.Projects.SaveModification(ctx, modification)
	})
}

// CompleteModification may be called by either party once the landlord has
// approved the modification.
func (s *ProjectService) CompleteModification(ctx context.Context, key model.ModificationKey, caller model.Principal) (*model.LedgerEntry, error) {
	txn := model.Transaction{
		Component: model.ComponentProject,
		Operation: "complete_modification",
		Caller:    caller,
		Subject:   key.String(),
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		project, err := repos.Projects.Get(ctx, key.ProjectID)
		if err != nil {
			return notFoundAs(err, ErrProjectNotFound)
		}
		modification, err := repos.Projects.GetModification(ctx, key)
		if err != nil {
			return notFoundAs(err, ErrModificationNotFound)
		}
		if !project.IsParty(caller) {
			return ErrNotProjectParty
		}
		if !modification.Approved {
			return ErrModificationNotApproved
		}
		if modification.Completed {
			return ErrModificationCompleted
		}
		modification.Completed = true
		return repos.Projects.SaveModification(ctx, modification)
	})
}

func (s *ProjectService) Get(ctx context.Context, projectID string) (*model.Project, error) {
	project, err := s.store.Read().Projects.Get(ctx, projectID)
	if err != nil {
		return nil, notFoundAs(err, ErrProjectNotFound)
	}
	return project, nil
}

func (s *ProjectService) GetModification(ctx context.Context, key model.ModificationKey) (*model.Modification, error) {
	modification, err := s.store.Read().Projects.GetModification(ctx, key)
	if err != nil {
		return nil, notFoundAs(err, ErrModificationNotFound)
	}
	return modification, nil
}
