package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"voice-leads-go/internal/types"
)

type ResponseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// CreateBatch inserts all extracted responses for one call in a single
// transaction.
func (r *ResponseRepository) CreateBatch(ctx context.Context, responses []types.ExtractedResponse) error {
	if len(responses) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(responses, 50).Error
	})
	if err != nil {
		return fmt.Errorf("insert responses: %w", err)
	}
	return nil
}

func (r *ResponseRepository) GetByCall(ctx context.Context, callID string) ([]types.ExtractedResponse, error) {
	var responses []types.ExtractedResponse
	err := r.db.WithContext(ctx).
		Where("call_id = ?", callID).
		Order("created_at ASC").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("responses for call %s: %w", callID, err)
	}
	return responses, nil
}
