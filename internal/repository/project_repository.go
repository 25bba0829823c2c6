package repository

import (
	"context"

	"github.com/nurpe/tenant-improvements/internal/model"
)

type ProjectRepository struct {
	baseRepository
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	if err := r.query(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.session(ctx).Create(project).Error
}

func (r *ProjectRepository) Save(ctx context.Context, project *model.Project) error {
	return r.session(ctx).Save(project).Error
}

func (r *ProjectRepository) GetModification(ctx context.Context, key model.ModificationKey) (*model.Modification, error) {
	var modification model.Modification
	err := r.query(ctx).
		Where("project_id = ? AND modification_id = ?", key.ProjectID, key.ModificationID).
		First(&modification).Error
	if err != nil {
		return nil, err
	}
	return &modification, nil
}

func (r *ProjectRepository) CreateModification(ctx context.Context, modification *model.Modification) error {
	return r.session(ctx).Create(modification).Error
}

func (r *ProjectRepository) SaveModification(ctx context.Context, modification *model.Modification) error {
	return r.session(ctx).Save(modification).Error
}
