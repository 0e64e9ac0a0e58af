package reconcile

import (
	"context"

	"go.uber.org/zap"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// Resolver finds or creates downstream records by natural key. It is used
// for customers (keyed by email) and products (keyed by SKU-or-name).
//
// Natural-key uniqueness is not enforced downstream: when duplicates already
// exist, every resolution returns the first match the ERP reports, so the
// reconciler keeps pointing at one record instead of multiplying them.
type Resolver struct {
	gateway reconcile.ERPGateway
	logger  *zap.Logger
}

// NewResolver creates a resolver backed by the given gateway.
func NewResolver(gateway reconcile.ERPGateway, logger *zap.Logger) *Resolver {
	return &Resolver{
		gateway: gateway,
		logger:  logger.Named("resolver"),
	}
}

// Resolve looks up records of entity whose keyField equals keyValue and
// returns the first match. With zero matches it creates a record from
// valuesIfAbsent and returns the new ID. An error means resolution failed;
// callers abort the current order only, never the batch.
func (r *Resolver) Resolve(ctx context.Context, entity reconcile.Entity, keyField string, keyValue any, valuesIfAbsent reconcile.Values) (int64, error) {
	records, err := r.gateway.Find(ctx, entity, keyField, keyValue)
	if err != nil {
		return 0, err
	}

	if len(records) > 0 {
		if len(records) > 1 {
			r.logger.Warn("natural key matches multiple downstream records, using first",
				zap.String("entity", entity.String()),
				zap.String("field", keyField),
				zap.Any("value", keyValue),
				zap.Int("matches", len(records)))
		}
		return records[0].ID, nil
	}

	id, err := r.gateway.Create(ctx, entity, valuesIfAbsent)
	if err != nil {
		return 0, err
	}

	r.logger.Debug("created downstream record",
		zap.String("entity", entity.String()),
		zap.String("field", keyField),
		zap.Any("value", keyValue),
		zap.Int64("id", id))

	return id, nil
}
