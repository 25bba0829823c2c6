package repository

import (
	"context"

	"github.com/nurpe/tenant-improvements/internal/model"
)

type PropertyRepository struct {
	baseRepository
}

func (r *PropertyRepository) Get(ctx context.Context, id string) (*model.Property, error) {
	var property model.Property
	if err := r.query(ctx).Where("id = ?", id).First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepository) Create(ctx context.Context, property *model.Property) error {
	return r.session(ctx).Create(property).Error
}

func (r *PropertyRepository) Save(ctx context.Context, property *model.Property) error {
	return r.session(ctx).Save(property).Error
}
