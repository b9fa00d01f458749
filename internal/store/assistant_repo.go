package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"voice-leads-go/internal/types"
)

type AssistantRepository struct {
	db *gorm.DB
}

func NewAssistantRepository(db *gorm.DB) *AssistantRepository {
	return &AssistantRepository{db: db}
}

// Upsert creates or refreshes the local mirror of a platform assistant.
func (r *AssistantRepository) Upsert(ctx context.Context, a *types.Assistant) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "disabled"}),
		}).
		Create(a).Error
	if err != nil {
		return fmt.Errorf("upsert assistant %s: %w", a.ID, err)
	}
	return nil
}

func (r *AssistantRepository) List(ctx context.Context) ([]types.Assistant, error) {
	var assistants []types.Assistant
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&assistants).Error; err != nil {
		return nil, fmt.Errorf("list assistants: %w", err)
	}
	return assistants, nil
}

// SetDisabled flips the local mirror after the remote change lands.
func (r *AssistantRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	err := r.db.WithContext(ctx).
		Model(&types.Assistant{}).
		Where("id = ?", id).
		Update("disabled", disabled).Error
	if err != nil {
		return fmt.Errorf("set disabled for %s: %w", id, err)
	}
	return nil
}
