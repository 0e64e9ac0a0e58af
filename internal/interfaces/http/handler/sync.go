package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ordersync/backend/internal/domain/reconcile"
	"github.com/ordersync/backend/internal/interfaces/http/dto"
)

// RunStarter triggers a single reconciliation pass
type RunStarter interface {
	RunOnce(ctx context.Context) (*reconcile.RunSummary, error)
}

// SyncHandler exposes reconciliation runs and their history over HTTP
type SyncHandler struct {
	BaseHandler
	runner  RunStarter
	records reconcile.OrderSyncRecordRepository
	logger  *zap.Logger
}

// NewSyncHandler creates a sync handler. The records repository may be nil
// when run-history persistence is disabled.
func NewSyncHandler(runner RunStarter, records reconcile.OrderSyncRecordRepository, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		runner:  runner,
		records: records,
		logger:  logger.Named("sync_handler"),
	}
}

// RegisterRoutes registers sync routes on the given group
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/runs", h.TriggerRun)
		sync.GET("/records", h.ListRecords)
	}
}

// TriggerRun starts a reconciliation pass and returns its summary
func (h *SyncHandler) TriggerRun(c *gin.Context) {
	summary, err := h.runner.RunOnce(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrRunInProgress):
			h.Conflict(c, "a reconciliation run is already in progress")
		case errors.Is(err, reconcile.ErrSourceUnavailable),
			errors.Is(err, reconcile.ErrSourceRequestFailed):
			h.logger.Error("Order fetch failed", zap.Error(err))
			h.BadGateway(c, "failed to fetch orders from the store")
		default:
			h.logger.Error("Reconciliation run failed", zap.Error(err))
			h.Internal(c, "reconciliation run failed")
		}
		return
	}

	h.Success(c, dto.FromRunSummary(summary))
}

// ListRecords returns persisted sync attempts, newest first. An origin_tag
// query filters to a single order's history.
func (h *SyncHandler) ListRecords(c *gin.Context) {
	if h.records == nil {
		h.Success(c, []dto.SyncRecordResponse{})
		return
	}

	var query dto.RecordsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if query.Limit == 0 {
		query.Limit = 50
	}

	var (
		records []reconcile.OrderSyncRecord
		err     error
	)
	if query.OriginTag != "" {
		records, err = h.records.FindByOriginTag(c.Request.Context(), query.OriginTag)
	} else {
		records, err = h.records.FindRecent(c.Request.Context(), query.Limit)
	}
	if err != nil {
		h.logger.Error("Failed to list sync records", zap.Error(err))
		h.Internal(c, "failed to list sync records")
		return
	}

	h.Success(c, dto.FromSyncRecords(records))
}
