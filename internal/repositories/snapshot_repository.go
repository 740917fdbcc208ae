package repositories

import (
	"context"
	"errors"
	"time"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository stores session snapshots in a SQL table, one row per key.
type SnapshotRepository struct {
	DB *gorm.DB
}

func (r *SnapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var entry models.SnapshotEntry
	err := r.DB.WithContext(ctx).Where("storage_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(entry.Value), nil
}

// Save upserts the snapshot for key.
func (r *SnapshotRepository) Save(ctx context.Context, key string, data []byte) error {
	entry := models.SnapshotEntry{
		StorageKey: key,
		Value:      string(data),
		UpdatedAt:  time.Now().UTC(),
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (r *SnapshotRepository) Delete(ctx context.Context, key string) error {
	return r.DB.WithContext(ctx).Where("storage_key = ?", key).Delete(&models.SnapshotEntry{}).Error
}

func (r *SnapshotRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var _ store.Backend = (*SnapshotRepository)(nil)
