package repository

import (
	"context"

	"github.com/nurpe/tenant-improvements/internal/model"
)

type AllowanceRepository struct {
	baseRepository
}

func (r *AllowanceRepository) Get(ctx context.Context, projectID string) (*model.Allowance, error) {
	var allowance model.Allowance
	if err := r.query(ctx).Where("project_id = ?", projectID).First(&allowance).Error; err != nil {
		return nil, err
	}
	return &allowance, nil
}

func (r *AllowanceRepository) Create(ctx context.Context, allowance *model.Allowance) error {
	return r.session(ctx).Create(allowance).Error
}

func (r *AllowanceRepository) Save(ctx context.Context, allowance *model.Allowance) error {
	return r.session(ctx).Save(allowance).Error
}

func (r *AllowanceRepository) GetMilestone(ctx context.Context, key model.MilestoneKey) (*model.Milestone, error) {
	var milestone model.Milestone
	err := r.query(ctx).
		Where("project_id = ? AND milestone_id = ?", key.ProjectID, key.MilestoneID).
		First(&milestone).Error
	if err != nil {
		return nil, err
	}
	return &milestone, nil
}

func (r *AllowanceRepository) ListMilestones(ctx context.Context, projectID string) ([]model.Milestone, error) {
	var milestones []model.Milestone
	err := r.session(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, milestone_id ASC").
		Find(&milestones).Error
	if err != nil {
		return nil, err
	}
	return milestones, nil
}

// UnpaidMilestoneTotal sums the amounts of milestones not yet released.
func (r *AllowanceRepository) UnpaidMilestoneTotal(ctx context.Context, projectID string) (int64, error) {
	var total int64
	err := r.session(ctx).
		Model(&model.Milestone{}).
		Where("project_id = ? AND paid = ?", projectID, false).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *AllowanceRepository) CreateMilestone(ctx context.Context, milestone *model.Milestone) error {
	return r.session(ctx).Create(milestone).Error
}

func (r *AllowanceRepository) SaveMilestone(ctx context.Context, milestone *model.Milestone) error {
	return r.session(ctx).Save(milestone).Error
}
