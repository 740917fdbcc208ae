package models

import "time"

// SnapshotEntry is one durable storage key holding a serialized Session.
type SnapshotEntry struct {
	StorageKey string    `gorm:"primaryKey;size:128" json:"storage_key"`
	Value      string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (SnapshotEntry) TableName() string {
	return "session_snapshots"
}
