package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nurpe/tenant-improvements/internal/config"
	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/repository"
)

// PropertyService is the property verification registry. Condition updates are
// reserved to the configured administrator.
type PropertyService struct {
	ledger
	admin                model.Principal
	restrictRegistration bool
}

type RegisterPropertyInput struct {
	PropertyID      string
	PhysicalAddress string
	Caller          model.Principal
}

func NewPropertyService(store *repository.Store, cfg *config.Config, log zerolog.Logger, observer TxObserver) *PropertyService {
	return &PropertyService{
		ledger:               newLedger(store, log, observer),
		admin:                model.Principal(cfg.Registry.AdminPrincipal),
		restrictRegistration: cfg.Registry.RestrictPropertyRegistration,
	}
}

func (s *PropertyService) Register(ctx context.Context, input RegisterPropertyInput) (*model.LedgerEntry, error) {
	if err := requireID("property_id", input.PropertyID); err != nil {
		return nil, err
	}

	txn := model.Transaction{
		Component: model.ComponentProperty,
		Operation: "register",
		Caller:    input.Caller,
		Subject:   input.PropertyID,
		Args:      map[string]any{"physical_address": input.PhysicalAddress},
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, entry *model.LedgerEntry) error {
		if s.restrictRegistration && input.Caller != s.admin {
			return ErrPropertyRegistrationRestricted
		}
		if _, err := repos.Properties.Get(ctx, input.PropertyID); err == nil {
			return ErrPropertyExists
		} else if !isNotFound(err) {
			return err
		}

		err := repos.Properties.Create(ctx, &model.Property{
			ID:                   input.PropertyID,
			Owner:                input.Caller,
			PhysicalAddress:      input.PhysicalAddress,
			Condition:            model.PropertyConditionUnverified,
			LastInspectionHeight: entry.Height,
			Verified:             false,
		})
		if isDuplicate(err) {
			return ErrPropertyExists
		}
		return err
	})
}

func (s *PropertyService) TransferOwnership(ctx context.Context, propertyID string, newOwner, caller model.Principal) (*model.LedgerEntry, error) {
	if err := requirePrincipal("new_owner", newOwner); err != nil {
		return nil, err
	}

	txn := model.Transaction{
		Component: model.ComponentProperty,
		Operation: "transfer_ownership",
		Caller:    caller,
		Subject:   propertyID,
		Args:      map[string]any{"new_owner": newOwner},
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, _ *model.LedgerEntry) error {
		property, err := repos.Properties.Get(ctx, propertyID)
		if err != nil {
			return notFoundAs(err, ErrPropertyNotFound)
		}
		if property.Owner != caller {
			return ErrNotPropertyOwner
		}
		property.Owner = newOwner
		return repos.Properties.Save(ctx, property)
	})
}

// UpdateCondition records an inspection result and marks the property verified.
func (s *PropertyService) UpdateCondition(ctx context.Context, propertyID, condition string, caller model.Principal) (*model.LedgerEntry, error) {
	txn := model.Transaction{
		Component: model.ComponentProperty,
		Operation: "update_condition",
		Caller:    caller,
		Subject:   propertyID,
		Args:      map[string]any{"condition": condition},
	}
	return s.commit(ctx, txn, func(repos *repository.Repositories, entry *model.LedgerEntry) error {
		property, err := repos.Properties.Get(ctx, propertyID)
		if err != nil {
			return notFoundAs(err, ErrPropertyNotFound)
		}
		if caller != s.admin {
			return ErrPropertyAdminOnly
		}
		property.Condition = condition
		property.LastInspectionHeight = entry.Height
		property.Verified = true
		return repos.Properties.Save(ctx, property)
	})
}

func (s *PropertyService) IsVerified(ctx context.Context, propertyID string) (bool, error) {
	property, err := s.Get(ctx, propertyID)
	if err != nil {
		return false, err
	}
	return property.Verified, nil
}

func (s *PropertyService) Get(ctx context.Context, propertyID string) (*model.Property, error) {
	property, err := s.store.Read().Properties.Get(ctx, propertyID)
	if err != nil {
		return nil, notFoundAs(err, ErrPropertyNotFound)
	}
	return property, nil
}
