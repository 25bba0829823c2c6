package repository

import (
	"context"

	"github.com/nurpe/tenant-improvements/internal/model"
)

const maxLedgerPage = 500

type LedgerRepository struct {
	baseRepository
}

// List returns entries with a height greater than after, oldest first.
func (r *LedgerRepository) List(ctx context.Context, after int64, limit int) ([]model.LedgerEntry, error) {
	if limit <= 0 || limit > maxLedgerPage {
		limit = maxLedgerPage
	}
	var entries []model.LedgerEntry
	err := r.session(ctx).
		Where("height > ?", after).
		Order("height ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Height is the height of the latest committed entry, zero for an empty ledger.
func (r *LedgerRepository) Height(ctx context.Context) (int64, error) {
	var height int64
	err := r.session(ctx).
		Model(&model.LedgerEntry{}).
		Select("COALESCE(MAX(height), 0)").
		Scan(&height).Error
	return height, err
}
