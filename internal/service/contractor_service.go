package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nurpe/tenant-improvements/internal/config"
	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/repository"
)

// ContractorService is the contractor verification registry.
//
// A contractor moves Registered -> Verified through an administrator action; an
// assignment of a verified contractor to a project moves Assigned -> Completed,
// and completion folds the performance score into the contractor rating.
type ContractorService struct {
	ledger
	admin model.Principal
}

type RegisterContractorInput struct {
	ContractorID  string
	Name          string
	Specialties   []string
	LicenseNumber string
	Caller        model.Principal
}

func NewContractorService(store *repository.Store, cfg *config.Config, log zerolog.Logger, observer TxObserver) *ContractorService {
	return &ContractorService{
		ledger: newLedger(store, log, observer),
		admin:  model.Principal(cfg.Registry.AdminPrincipal),
	}
}

func (s *ContractorService) Register(ctx context.Context, input RegisterContractorInput) (*model.LedgerEntry, error) {
	if err := requireID("contractor_id", input.ContractorID); err != nil {
		return nil, err
	}
	specialties := normalizeSpecialties(input.Specialties)

	txn := model.Transaction{
		Component: model.ComponentContractor,
		Operation: "register",
		Caller:    input.Caller,
		Subject:   input.ContractorID,
		Args: map[string]any{
			"name":           input.Name,
			"specialties":    specialties,
			"license_number": input.LicenseNumber,
		},
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		if _, err := repos.Contractors.Get(ctx, input.ContractorID); err == nil {
			return ErrContractorExists
		} else if !isNotFound(err) {
			return err
		}

		err := repos.Contractors.Create(ctx, &model.Contractor{
			ID:            input.ContractorID,
			Name:          input.Name,
			Address:       input.Caller,
			Specialties:   specialties,
			LicenseNumber: input.LicenseNumber,
		})
		if isDuplicate(err) {
			return ErrContractorExists
		}
		return err
	})
}

func (s *ContractorService) Verify(ctx context.Context, contractorID string, insuranceVerified bool, caller model.Principal) (*model.LedgerEntry, error) {
	txn := model.Transaction{
		Component: model.ComponentContractor,
		Operation: "verify",
		Caller:    caller,
		Subject:   contractorID,
		Args:      map[string]any{"insurance_verified": insuranceVerified},
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		contractor, err := repos.Contractors.Get(ctx, contractorID)
		if err != nil {
			return notFoundAs(err, ErrContractorNotFound)
		}
		if caller != s.admin {
			return ErrContractorAdminOnly
		}
		contractor.InsuranceVerified = insuranceVerified
		contractor.Verified = true
		return repos.Contractors.Save(ctx, contractor)
	})
}

// Assign engages a verified contractor on a project. An assignment can be
// created only once per contractor and project.
func (s *ContractorService) Assign(ctx context.Context, key model.AssignmentKey, caller model.Principal) (*model.LedgerEntry, error) {
	if err := requireID("project_id", key.ProjectID); err != nil {
		return nil, err
	}

	txn := model.Transaction{
		Component: model.ComponentContractor,
		Operation: "assign",
		Caller:    caller,
		Subject:   key.String(),
		Args:      map[string]any{"contractor_id": key.ContractorID, "project_id": key.ProjectID},
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		contractor, err := repos.Contractors.Get(ctx, key.ContractorID)
		if err != nil {
			return notFoundAs(err, ErrContractorNotFound)
		}
		if !contractor.Verified {
			return ErrContractorNotVerified
		}
		if _, err := repos.Contractors.GetAssignment(ctx, key); err == nil {
			return ErrAlreadyAssigned
		} else if !isNotFound(err) {
			return err
		}

		err = repos.Contractors.CreateAssignment(ctx, &model.ContractorAssignment{
			ContractorID: key.ContractorID,
			ProjectID:    key.ProjectID,
			Assigned:     true,
		})
		if isDuplicate(err) {
			return ErrAlreadyAssigned
		}
		return err
	})
}

func (s *ContractorService) CompleteAssignment(ctx context.Context, key model.AssignmentKey, rating int, caller model.Principal) (*model.LedgerEntry, error) {
	txn := model.Transaction{
		Component: model.ComponentContractor,
		Operation: "complete_assignment",
		Caller:    caller,
		Subject:   key.String(),
		Args:      map[string]any{"contractor_id": key.ContractorID, "project_id": key.ProjectID, "rating": rating},
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		// contractor row first, same lock order as Assign
		contractor, err := repos.Contractors.Get(ctx, key.ContractorID)
		if err != nil {
			return notFoundAs(err, ErrContractorNotFound)
		}
		assignment, err := repos.Contractors.GetAssignment(ctx, key)
		if err != nil {
			return notFoundAs(err, ErrAssignmentNotFound)
		}
		if !assignment.Assigned {
			return ErrNotAssigned
		}
		if assignment.Completed {
			return ErrAssignmentCompleted
		}
		if rating < model.MinRating || rating > model.MaxRating {
			return ErrInvalidRating
		}

		assignment.Completed = true
		assignment.PerformanceRating = rating
		contractor.Rating = model.SmoothRating(contractor.Rating, rating)

		if err := repos.Contractors.SaveAssignment(ctx, assignment); err != nil {
			return err
		}
		return repos.Contractors.Save(ctx, contractor)
	})
}

func (s *ContractorService) IsVerified(ctx context.Context, contractorID string) (bool, error) {
	contractor, err := s.Get(ctx, contractorID)
	if err != nil {
		return false, err
	}
	return contractor.Verified, nil
}

func (s *ContractorService) Get(ctx context.Context, contractorID string) (*model.Contractor, error) {
	contractor, err := s.store.Read().Contractors.Get(ctx, contractorID)
	if err != nil {
		return nil, notFoundAs(err, ErrContractorNotFound)
	}
	return contractor, nil
}

func (s *ContractorService) GetAssignment(ctx context.Context, key model.AssignmentKey) (*model.ContractorAssignment, error) {
	assignment, err := s.store.Read().Contractors.GetAssignment(ctx, key)
	if err != nil {
		return nil, notFoundAs(err, ErrAssignmentNotFound)
	}
	return assignment, nil
}

// normalizeSpecialties trims and de-duplicates, keeping first-seen order.
func normalizeSpecialties(specialties []string) []string {
	seen := make(map[string]struct{}, len(specialties))
	result := make([]string, 0, len(specialties))
	for _, specialty := range specialties {
		specialty = strings.TrimSpace(specialty)
		if specialty == "" {
			continue
		}
		key := strings.ToLower(specialty)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, specialty)
	}
	return result
}
