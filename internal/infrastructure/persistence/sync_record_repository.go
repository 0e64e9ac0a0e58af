package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// GormSyncRecordRepository implements OrderSyncRecordRepository using GORM.
type GormSyncRecordRepository struct {
	db *gorm.DB
}

// NewGormSyncRecordRepository creates a new GormSyncRecordRepository.
func NewGormSyncRecordRepository(db *gorm.DB) *GormSyncRecordRepository {
	return &GormSyncRecordRepository{db: db}
}

// Save persists one sync record.
func (r *GormSyncRecordRepository) Save(ctx context.Context, record *reconcile.OrderSyncRecord) error {
	var model SyncRecordModel
	model.FromDomain(record)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByOriginTag returns all attempts recorded for an origin tag, newest
// first.
func (r *GormSyncRecordRepository) FindByOriginTag(ctx context.Context, originTag string) ([]reconcile.OrderSyncRecord, error) {
	var models []SyncRecordModel
	if err := r.db.WithContext(ctx).
		Where("origin_tag = ?", originTag).
		Order("synced_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainRecords(models), nil
}

// FindRecent returns the most recent records, newest first.
func (r *GormSyncRecordRepository) FindRecent(ctx context.Context, limit int) ([]reconcile.OrderSyncRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var models []SyncRecordModel
	if err := r.db.WithContext(ctx).
		Order("synced_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainRecords(models), nil
}

// CountByStatus counts records with the given status.
func (r *GormSyncRecordRepository) CountByStatus(ctx context.Context, status reconcile.OutcomeStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&SyncRecordModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toDomainRecords(models []SyncRecordModel) []reconcile.OrderSyncRecord {
	records := make([]reconcile.OrderSyncRecord, len(models))
	for i := range models {
		records[i] = *models[i].ToDomain()
	}
	return records
}

// Ensure GormSyncRecordRepository implements the repository interface
var _ reconcile.OrderSyncRecordRepository = (*GormSyncRecordRepository)(nil)
