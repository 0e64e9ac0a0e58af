package persistence

import (
	"time"

	"github.com/google/uuid"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// SyncRecordModel is the persistence model for the OrderSyncRecord entity.
type SyncRecordModel struct {
	ID           uuid.UUID               `gorm:"type:uuid;primary_key"`
	RunID        uuid.UUID               `gorm:"type:uuid;not null;index:idx_sync_records_run"`
	OriginTag    string                  `gorm:"type:varchar(64);not null;index:idx_sync_records_origin"`
	StoreOrderID int64                   `gorm:"not null"`
	Status       reconcile.OutcomeStatus `gorm:"type:varchar(20);not null;index:idx_sync_records_status"`
	Reason       string                  `gorm:"type:varchar(255)"`
	DownstreamID int64                   `gorm:"not null;default:0"`
	SyncedAt     time.Time               `gorm:"not null;index:idx_sync_records_synced_at"`
}

// TableName returns the table name for GORM
func (SyncRecordModel) TableName() string {
	return "order_sync_records"
}

// ToDomain converts the persistence model to a domain OrderSyncRecord.
func (m *SyncRecordModel) ToDomain() *reconcile.OrderSyncRecord {
	return &reconcile.OrderSyncRecord{
		ID:           m.ID,
		RunID:        m.RunID,
		OriginTag:    m.OriginTag,
		StoreOrderID: m.StoreOrderID,
		Status:       m.Status,
		Reason:       m.Reason,
		DownstreamID: m.DownstreamID,
		SyncedAt:     m.SyncedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderSyncRecord.
func (m *SyncRecordModel) FromDomain(r *reconcile.OrderSyncRecord) {
	m.ID = r.ID
	m.RunID = r.RunID
	m.OriginTag = r.OriginTag
	m.StoreOrderID = r.StoreOrderID
	m.Status = r.Status
	m.Reason = r.Reason
	m.DownstreamID = r.DownstreamID
	m.SyncedAt = r.SyncedAt
}
