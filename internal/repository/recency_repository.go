package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"tasksync/internal/model"
)

// RecencyRepository persists the recently-visited workspace list, one
// row per user.
type RecencyRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRecencyRepository(db *gorm.DB, logger *slog.Logger) *RecencyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecencyRepository{db: db, logger: logger.With("component", "recency_store")}
}

// Load returns the persisted list, most recent first. An absent or
// undecodable row yields an empty list.
func (r *RecencyRepository) Load(ctx context.Context, userID string) ([]string, error) {
	var record model.RecencyRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("read recency: %w", err)
	}

	var names []string
	if err := json.Unmarshal(record.Payload, &names); err != nil {
		r.logger.Warn("discarding undecodable recency list", "user", userID, "error", err)
		return nil, nil
	}
	return names, nil
}

// Save overwrites the persisted list.
func (r *RecencyRepository) Save(ctx context.Context, userID string, names []string) error {
	payload, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encode recency: %w", err)
	}

	db := r.db.WithContext(ctx)
	var record model.RecencyRecord
	err = db.Where("user_id = ?", userID).First(&record).Error
	switch {
	case err == nil:
		record.Payload = payload
		if err := db.Save(&record).Error; err != nil {
			return fmt.Errorf("update recency: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = model.RecencyRecord{UserID: userID, Payload: payload}
		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("create recency: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find recency: %w", err)
	}
}

// Clear removes the persisted list.
func (r *RecencyRepository) Clear(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Delete(&model.RecencyRecord{}).Error; err != nil {
		return fmt.Errorf("clear recency: %w", err)
	}
	return nil
}
