package reconcile

import (
	"context"

	"go.uber.org/zap"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// Engine reconciles one store order at a time against the downstream ERP.
// Per order it runs a strictly sequential state machine: existence check by
// origin tag, customer resolution, line assembly, order creation. Failures
// terminate the current order only.
type Engine struct {
	gateway    reconcile.ERPGateway
	resolver   *Resolver
	translator *Translator
	logger     *zap.Logger
}

// NewEngine creates a reconciliation engine.
func NewEngine(gateway reconcile.ERPGateway, resolver *Resolver, translator *Translator, logger *zap.Logger) *Engine {
	return &Engine{
		gateway:    gateway,
		resolver:   resolver,
		translator: translator,
		logger:     logger.Named("engine"),
	}
}

// SyncOne reconciles a single order and returns its terminal outcome. The
// existence check and the create are not atomic; the batch runner's run
// guard keeps overlapping runs from racing on the same origin tag.
func (e *Engine) SyncOne(ctx context.Context, order *reconcile.StoreOrder) reconcile.Outcome {
	originTag := order.OriginTag()
	logger := e.logger.With(zap.String("origin_tag", originTag))

	// Step 1: existence check by origin tag.
	existing, err := e.gateway.Find(ctx, reconcile.EntityOrder, "origin", originTag)
	if err != nil {
		logger.Error("existence check failed", zap.Error(err))
		return reconcile.Failed(order, reconcile.ReasonUnexpected)
	}
	if len(existing) > 0 {
		logger.Info("order already imported, skipping")
		return reconcile.Skipped(order, reconcile.ReasonAlreadyImported)
	}

	// Step 2: customer resolution.
	customerID, err := e.resolver.Resolve(ctx,
		reconcile.EntityCustomer,
		"email", e.translator.CustomerKey(order),
		e.translator.CustomerValues(order))
	if err != nil {
		logger.Error("customer resolution failed", zap.Error(err))
		return reconcile.Failed(order, reconcile.ReasonCustomerResolution)
	}

	// Step 3: line assembly. Items whose product cannot be resolved are
	// dropped from the order rather than aborting it.
	lines := make([]reconcile.Values, 0, len(order.LineItems))
	for i := range order.LineItems {
		item := &order.LineItems[i]
		productID, err := e.resolver.Resolve(ctx,
			reconcile.EntityProduct,
			"default_code", e.translator.ProductKey(item),
			e.translator.ProductValues(item))
		if err != nil {
			logger.Warn("product resolution failed, dropping line",
				zap.String("sku", item.SKU),
				zap.String("item", item.Name),
				zap.Error(err))
			continue
		}
		lines = append(lines, e.translator.Line(item, productID))
	}

	if len(lines) == 0 {
		logger.Warn("no valid product lines, rejecting order")
		return reconcile.Failed(order, reconcile.ReasonNoValidLines)
	}

	// Step 4: order creation.
	downstreamID, err := e.gateway.CreateOrder(ctx, e.translator.OrderValues(order, customerID, lines))
	if err != nil {
		logger.Error("order creation failed", zap.Error(err))
		return reconcile.Failed(order, reconcile.ReasonOrderCreation)
	}

	logger.Info("order created downstream",
		zap.Int64("downstream_id", downstreamID),
		zap.Int("lines", len(lines)))

	return reconcile.Created(order, downstreamID)
}
