package repository

import (
	"context"

	"github.com/nurpe/tenant-improvements/internal/model"
)

type ContractorRepository struct {
	baseRepository
}

func (r *ContractorRepository) Get(ctx context.Context, id string) (*model.Contractor, error) {
	var contractor model.Contractor
	if err := r.query(ctx).Where("id = ?", id).First(&contractor).Error; err != nil {
		return nil, err
	}
	return &contractor, nil
}

func (r *ContractorRepository) Create(ctx context.Context, contractor *model.Contractor) error {
	return r.session(ctx).Create(contractor).Error
}

func (r *ContractorRepository) Save(ctx context.Context, contractor *model.Contractor) error {
	return r.session(ctx).Save(contractor).Error
}

func (r *ContractorRepository) GetAssignment(ctx context.Context, key model.AssignmentKey) (*model.ContractorAssignment, error) {
	var assignment model.ContractorAssignment
	err := r.query(ctx).
		Where("contractor_id = ? AND project_id = ?", key.ContractorID, key.ProjectID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *ContractorRepository) CreateAssignment(ctx context.Context, assignment *model.ContractorAssignment) error {
	return r.session(ctx).Create(assignment).Error
}

func (r *ContractorRepository) SaveAssignment(ctx context.Context, assignment *model.ContractorAssignment) error {
	return r.session(ctx).Save(assignment).Error
}
