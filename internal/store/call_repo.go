package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"voice-leads-go/internal/types"
)

type CallRepository struct {
	db *gorm.DB
}

func NewCallRepository(db *gorm.DB) *CallRepository {
	return &CallRepository{db: db}
}

// Create persists a normalized call record. Records are immutable after
// this point.
func (r *CallRepository) Create(ctx context.Context, call *types.CallRecord) error {
	if err := r.db.WithContext(ctx).Create(call).Error; err != nil {
		return fmt.Errorf("create call: %w", err)
	}
	return nil
}

func (r *CallRepository) GetByID(ctx context.Context, id string) (*types.CallRecord, error) {
	var call types.CallRecord
	if err := r.db.WithContext(ctx).First(&call, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get call %s: %w", id, err)
	}
	return &call, nil
}

// Recent returns the most recent calls by start time, newest first,
// bounded by limit.
func (r *CallRepository) Recent(ctx context.Context, limit int) ([]types.CallRecord, error) {
	var calls []types.CallRecord
	q := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&calls).Error; err != nil {
		return nil, fmt.Errorf("recent calls: %w", err)
	}
	return calls, nil
}

func (r *CallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&types.CallRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count calls: %w", err)
	}
	return count, nil
}
