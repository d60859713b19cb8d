package model

import "time"

// CacheEnvelope is the disk-cached form of the workspace tree. The
// envelope is only trusted while now - Timestamp stays inside the
// freshness window; judging that is the reader's job.
type CacheEnvelope struct {
	Data      []Workspace `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// SnapshotRecord is the persisted cache envelope, one row per user.
// Payload is the JSON-encoded workspace list.
type SnapshotRecord struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex"`
	Payload   []byte
	Timestamp time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecencyRecord is the persisted recently-visited workspace list, one
// row per user. Payload is a JSON string array, most recent first.
type RecencyRecord struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex"`
	Payload   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}
