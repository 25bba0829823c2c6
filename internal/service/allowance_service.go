package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nurpe/tenant-improvements/internal/config"
	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/repository"
)

// AllowanceService is the improvement allowance ledger. The landlord escrows a
// total amount per project and releases it milestone by milestone once the
// tenant reports each one completed.
//
// By default addMilestone only checks the amount against the balance not yet
// released, so milestones added one after another may jointly promise more than
// the allowance holds. With ReserveMilestones the check also subtracts every
// unpaid milestone. Release never lets the remaining balance go negative.
type AllowanceService struct {
	ledger
	reserveMilestones bool
	enforceClosed     bool
}

type CreateAllowanceInput struct {
	ProjectID   string
	Tenant      model.Principal
	TotalAmount int64
	Caller      model.Principal
}

type AddMilestoneInput struct {
	ProjectID   string
	MilestoneID string
	Description string
	Amount      int64
	Caller      model.Principal
}

func NewAllowanceService(store *repository.Store, cfg *config.Config, log zerolog.Logger, observer TxObserver) *AllowanceService {
	return &AllowanceService{
		ledger:            newLedger(store, log, observer),
		reserveMilestones: cfg.Allowance.ReserveMilestones,
		enforceClosed:     cfg.Allowance.EnforceClosed,
	}
}

func (s *AllowanceService) Create(ctx context.Context, input CreateAllowanceInput) (*model.LedgerEntry, error) {
	if err := requireID("project_id", input.ProjectID); err != nil {
		return nil, err
	}
	if err := requirePrincipal("tenant", input.Tenant); err != nil {
		return nil, err
	}

	txn := model.Transaction{
		Component: model.ComponentAllowance,
		Operation: "create_allowance",
		Caller:    input.Caller,
		Subject:   input.ProjectID,
		Args:      map[string]any{"tenant": input.Tenant, "total_amount": input.TotalAmount},
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		if _, err := repos.Allowances.Get(ctx, input.ProjectID); err == nil {
			return ErrAllowanceExists
		} else if !isNotFound(err) {
			return err
		}
		if input.TotalAmount < 0 {
			return ErrNegativeAmount
		}

		err := repos.Allowances.Create(ctx, &model.Allowance{
			ProjectID:       input.ProjectID,
			Landlord:        input.Caller,
			Tenant:          input.Tenant,
			TotalAmount:     input.TotalAmount,
			ReleasedAmount:  0,
			RemainingAmount: input.TotalAmount,
			Status:          model.AllowanceStatusActive,
		})
		if isDuplicate(err) {
			return ErrAllowanceExists
		}
		return err
	})
}

func (s *AllowanceService) AddMilestone(ctx context.Context, input AddMilestoneInput) (*model.LedgerEntry, error) {
	if err := requireID("milestone_id", input.MilestoneID); err != nil {
		return nil, err
	}
	key := model.MilestoneKey{ProjectID: input.ProjectID, MilestoneID: input.MilestoneID}

	txn := model.Transaction{
		Component: model.ComponentAllowance,
		Operation: "add_milestone",
		Caller:    input.Caller,
		Subject:   key.String(),
		Args:      map[string]any{"description": input.Description, "amount": input.Amount},
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		allowance, err := repos.Allowances.Get(ctx, input.ProjectID)
		if err != nil {
			return notFoundAs(err, ErrAllowanceNotFound)
		}
		if allowance.Landlord != input.Caller {
			return ErrNotAllowanceLandlord
		}
		if s.enforceClosed && allowance.IsClosed() {
			return ErrAllowanceClosed
		}
		if _, err := repos.Allowances.GetMilestone(ctx, key); err == nil {
			return ErrMilestoneExists
		} else if !isNotFound(err) {
			return err
		}
		if input.Amount < 0 {
			return ErrNegativeAmount
		}

		available := allowance.RemainingAmount
		if s.reserveMilestones {
			committed, err := repos.Allowances.UnpaidMilestoneTotal(ctx, input.ProjectID)
			if err != nil {
				return err
			}
			available -= committed
		}
		if input.Amount > available {
			return ErrExceedsRemaining
		}

		err = repos.Allowances.CreateMilestone(ctx, &model.Milestone{
			ProjectID:   key.ProjectID,
			MilestoneID: key.MilestoneID,
			Description: input.Description,
			Amount:      input.Amount,
		})
		if isDuplicate(err) {
			return ErrMilestoneExists
		}
		return err
	})
}

func (s *AllowanceService) CompleteMilestone(ctx context.Context, key model.MilestoneKey, caller model.Principal) (*model.LedgerEntry, error) {
	txn := model.Transaction{
		Component: model.ComponentAllowance,
		Operation: "complete_milestone",
		Caller:    caller,
		Subject:   key.String(),
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		allowance, err := repos.Allowances.Get(ctx, key.ProjectID)
		if err != nil {
			return notFoundAs(err, ErrAllowanceNotFound)
		}
		if allowance.Tenant != caller {
			return ErrNotAllowanceTenant
		}
		if s.enforceClosed && allowance.IsClosed() {
			return ErrAllowanceClosed
		}
		milestone, err := repos.Allowances.GetMilestone(ctx, key)
		if err != nil {
			return notFoundAs(err, ErrMilestoneNotFound)
		}
		if milestone.Completed {
			return ErrMilestoneCompleted
		}
		milestone.Completed = true
		return repos.Allowances.SaveMilestone(ctx, milestone)
	})
}

// ReleaseFunds pays out a completed milestone. The milestone flag and both
// balances are written in the same transaction.
func (s *AllowanceService) ReleaseFunds(ctx context.Context, key model.MilestoneKey, caller model.Principal) (*model.LedgerEntry, error) {
	txn := model.Transaction{
		Component: model.ComponentAllowance,
		Operation: "release_funds",
		Caller:    caller,
		Subject:   key.String(),
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		allowance, err := repos.Allowances.Get(ctx, key.ProjectID)
		if err != nil {
			return notFoundAs(err, ErrAllowanceNotFound)
		}
		if allowance.Landlord != caller {
			return ErrNotAllowanceLandlord
		}
		if s.enforceClosed && allowance.IsClosed() {
			return ErrAllowanceClosed
		}
		milestone, err := repos.Allowances.GetMilestone(ctx, key)
		if err != nil {
			return notFoundAs(err, ErrMilestoneNotFound)
		}
		if !milestone.Completed {
			return ErrMilestoneNotCompleted
		}
		if milestone.Paid {
			return ErrMilestonePaid
		}
		if milestone.Amount > allowance.RemainingAmount {
			return ErrExceedsRemaining
		}

		milestone.Paid = true
		allowance.Release(milestone.Amount)

		if err := repos.Allowances.SaveMilestone(ctx, milestone); err != nil {
			return err
		}
		return repos.Allowances.Save(ctx, allowance)
	})
}

// Close marks the allowance closed. Unless closed allowances are enforced the
// flag is informational and milestone operations keep working.
func (s *AllowanceService) Close(ctx context.Context, projectID string, caller model.Principal) (*model.LedgerEntry, error) {
	txn := model.Transaction{
		Component: model.ComponentAllowance,
		Operation: "close_allowance",
		Caller:    caller,
		Subject:   projectID,
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		allowance, err := repos.Allowances.Get(ctx, projectID)
		if err != nil {
			return notFoundAs(err, ErrAllowanceNotFound)
		}
		if allowance.Landlord != caller {
			return ErrNotAllowanceLandlord
		}
		allowance.Status = model.AllowanceStatusClosed
		return repos.Allowances.Save(ctx, allowance)
	})
}

func (s *AllowanceService) Get(ctx context.Context, projectID string) (*model.Allowance, error) {
	allowance, err := s.store.Read().Allowances.Get(ctx, projectID)
	if err != nil {
		return nil, notFoundAs(err, ErrAllowanceNotFound)
	}
	return allowance, nil
}

func (s *AllowanceService) GetMilestone(ctx context.Context, key model.MilestoneKey) (*model.Milestone, error) {
	milestone, err := s.store.Read().Allowances.GetMilestone(ctx, key)
	if err != nil {
		return nil, notFoundAs(err, ErrMilestoneNotFound)
	}
	return milestone, nil
}

func (s *AllowanceService) ListMilestones(ctx context.Context, projectID string) ([]model.Milestone, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.Read().Allowances.ListMilestones(ctx, projectID)
}
