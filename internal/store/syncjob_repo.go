package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"voice-leads-go/internal/types"
)

type SyncJobRepository struct {
	db *gorm.DB
}

func NewSyncJobRepository(db *gorm.DB) *SyncJobRepository {
	return &SyncJobRepository{db: db}
}

func (r *SyncJobRepository) Create(ctx context.Context, job *types.SyncJob) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("enqueue sync job: %w", err)
	}
	return nil
}

// NextBatch returns up to limit unprocessed jobs that still have attempts
// left, ordered by (priority asc, created_at asc).
func (r *SyncJobRepository) NextBatch(ctx context.Context, limit, maxAttempts int) ([]types.SyncJob, error) {
	var jobs []types.SyncJob
	err := r.db.WithContext(ctx).
		Where("processed_at IS NULL AND retry_count < ?", maxAttempts).
		Order("priority ASC, created_at ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("next sync batch: %w", err)
	}
	return jobs, nil
}

// MarkProcessed stamps the job done. Jobs are never deleted.
func (r *SyncJobRepository) MarkProcessed(ctx context.Context, id string) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).
		Model(&types.SyncJob{}).
		Where("id = ?", id).
		Updates(map[string]any{"processed_at": &now}).Error
	if err != nil {
		return fmt.Errorf("mark processed %s: %w", id, err)
	}
	return nil
}

// MarkFailed bumps the retry counter and records the error text.
func (r *SyncJobRepository) MarkFailed(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	err := r.db.WithContext(ctx).
		Model(&types.SyncJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"retry_count": gorm.Expr("retry_count + 1"),
			"last_error":  msg,
		}).Error
	if err != nil {
		return fmt.Errorf("mark failed %s: %w", id, err)
	}
	return nil
}

func (r *SyncJobRepository) GetByID(ctx context.Context, id string) (*types.SyncJob, error) {
	var job types.SyncJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get sync job %s: %w", id, err)
	}
	return &job, nil
}

// PendingCount counts jobs that are neither processed nor exhausted.
func (r *SyncJobRepository) PendingCount(ctx context.Context, maxAttempts int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&types.SyncJob{}).
		Where("processed_at IS NULL AND retry_count < ?", maxAttempts).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("pending count: %w", err)
	}
	return count, nil
}
