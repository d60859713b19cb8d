package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"tasksync/internal/model"
)

// SnapshotRepository stores the cached workspace tree, one envelope per user.
type SnapshotRepository struct {
	db     *gorm.DB
	now    func() time.Time
	logger *slog.Logger
}

func NewSnapshotRepository(db *gorm.DB, logger *slog.Logger) *SnapshotRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotRepository{
		db:     db,
		now:    time.Now,
		logger: logger.With("component", "snapshot_cache"),
	}
}

// Read returns the stored envelope for the user, or (nil, nil) when no
// usable envelope exists. Deciding whether the envelope is still fresh
// is the caller's job. A row that fails to decode is treated as absent.
func (r *SnapshotRepository) Read(ctx context.Context, userID string) (*model.CacheEnvelope, error) {
	var record model.SnapshotRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var workspaces []model.Workspace
	if err := json.Unmarshal(record.Payload, &workspaces); err != nil {
		r.logger.Warn("discarding undecodable snapshot", "user", userID, "error", err)
		return nil, nil
	}

	return &model.CacheEnvelope{Data: workspaces, Timestamp: record.Timestamp}, nil
}

// Write overwrites the user's envelope unconditionally and stamps it
// with the current time.
func (r *SnapshotRepository) Write(ctx context.Context, userID string, workspaces []model.Workspace) error {
	payload, err := json.Marshal(workspaces)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	db := r.db.WithContext(ctx)
	var record model.SnapshotRecord
	err = db.Where("user_id = ?", userID).First(&record).Error
	switch {
	case err == nil:
		record.Payload = payload
		record.Timestamp = r.now()
		if err := db.Save(&record).Error; err != nil {
			return fmt.Errorf("update snapshot: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = model.SnapshotRecord{UserID: userID, Payload: payload, Timestamp: r.now()}
		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find snapshot: %w", err)
	}
}

// Invalidate deletes the user's envelope. Deleting an absent row is not
// an error.
func (r *SnapshotRepository) Invalidate(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Delete(&model.SnapshotRecord{}).Error; err != nil {
		return fmt.Errorf("invalidate snapshot: %w", err)
	}
	return nil
}
