package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderSyncRecord is the persisted trace of one per-order reconciliation
// attempt. Records are written after each order for observability; the
// engine itself never reads them back (the downstream origin field is the
// source of truth for idempotence).
type OrderSyncRecord struct {
	// ID is the unique identifier of the record
	ID uuid.UUID
	// RunID groups all records produced by one reconciliation run
	RunID uuid.UUID
	// OriginTag is the de-duplication key of the order
	OriginTag string
	// StoreOrderID is the upstream order ID
	StoreOrderID int64
	// Status is the terminal state of the attempt
	Status OutcomeStatus
	// Reason explains a skip or failure
	Reason string
	// DownstreamID is the created sales order ID, zero unless created
	DownstreamID int64
	// SyncedAt is when the attempt completed
	SyncedAt time.Time
}

// NewOrderSyncRecord builds a record from a per-order outcome.
func NewOrderSyncRecord(runID uuid.UUID, o Outcome) *OrderSyncRecord {
	return &OrderSyncRecord{
		ID:           uuid.New(),
		RunID:        runID,
		OriginTag:    o.OriginTag,
		StoreOrderID: o.StoreOrderID,
		Status:       o.Status,
		Reason:       o.Reason,
		DownstreamID: o.DownstreamID,
		SyncedAt:     time.Now(),
	}
}

// OrderSyncRecordRepository persists per-order sync records.
type OrderSyncRecordRepository interface {
	// Save persists one record
	Save(ctx context.Context, record *OrderSyncRecord) error

	// FindByOriginTag returns all attempts recorded for an origin tag,
	// newest first
	FindByOriginTag(ctx context.Context, originTag string) ([]OrderSyncRecord, error)

	// FindRecent returns the most recent records, newest first
	FindRecent(ctx context.Context, limit int) ([]OrderSyncRecord, error)

	// CountByStatus counts records with the given status
	CountByStatus(ctx context.Context, status OutcomeStatus) (int64, error)
}
