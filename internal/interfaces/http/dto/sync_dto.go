package dto

import (
	"time"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// RunSummaryResponse reports the result of one reconciliation pass
type RunSummaryResponse struct {
	Fetched  int               `json:"fetched"`
	Created  int               `json:"created"`
	Skipped  int               `json:"skipped"`
	Failed   int               `json:"failed"`
	Outcomes []OutcomeResponse `json:"outcomes"`
}

// OutcomeResponse reports the result for a single order
type OutcomeResponse struct {
	OriginTag    string `json:"origin_tag"`
	StoreOrderID int64  `json:"store_order_id"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
	DownstreamID int64  `json:"downstream_id,omitempty"`
}

// SyncRecordResponse is a persisted per-order sync attempt
type SyncRecordResponse struct {
	ID           string    `json:"id"`
	RunID        string    `json:"run_id"`
	OriginTag    string    `json:"origin_tag"`
	StoreOrderID int64     `json:"store_order_id"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
	DownstreamID int64     `json:"downstream_id,omitempty"`
	SyncedAt     time.Time `json:"synced_at"`
}

// RecordsQuery holds query parameters for listing sync records
type RecordsQuery struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=200"`
	OriginTag string `form:"origin_tag"`
}

// FromRunSummary converts a domain run summary to its response form
func FromRunSummary(summary *reconcile.RunSummary) RunSummaryResponse {
	resp := RunSummaryResponse{
		Fetched:  summary.Fetched,
		Created:  summary.Created,
		Skipped:  summary.Skipped,
		Failed:   summary.Failed,
		Outcomes: make([]OutcomeResponse, 0, len(summary.Outcomes)),
	}
	for _, o := range summary.Outcomes {
		resp.Outcomes = append(resp.Outcomes, OutcomeResponse{
			OriginTag:    o.OriginTag,
			StoreOrderID: o.StoreOrderID,
			Status:       string(o.Status),
			Reason:       o.Reason,
			DownstreamID: o.DownstreamID,
		})
	}
	return resp
}

// FromSyncRecords converts domain sync records to their response form
func FromSyncRecords(records []reconcile.OrderSyncRecord) []SyncRecordResponse {
	out := make([]SyncRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, SyncRecordResponse{
			ID:           r.ID.String(),
			RunID:        r.RunID.String(),
			OriginTag:    r.OriginTag,
			StoreOrderID: r.StoreOrderID,
			Status:       string(r.Status),
			Reason:       r.Reason,
			DownstreamID: r.DownstreamID,
			SyncedAt:     r.SyncedAt,
		})
	}
	return out
}
