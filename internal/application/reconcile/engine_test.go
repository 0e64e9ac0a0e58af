package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

func newTestEngine(t *testing.T, gateway reconcile.ERPGateway) *Engine {
	t.Helper()
	logger := zap.NewNop()
	translator, err := NewTranslator(TranslatorConfig{HomeCountryID: 195})
	require.NoError(t, err)
	return NewEngine(gateway, NewResolver(gateway, logger), translator, logger)
}

func sampleOrder(id int64) reconcile.StoreOrder {
	return reconcile.StoreOrder{
		ID: id,
		Billing: reconcile.OrderBilling{
			Email:     "buyer@shop.sn",
			FirstName: "Awa",
			LastName:  "Ndiaye",
		},
		LineItems: []reconcile.OrderLineItem{
			{SKU: "TSHIRT-M", Name: "T-Shirt (M)", Quantity: "2", Price: "5000"},
			{SKU: "BAG-01", Name: "Tote Bag", Quantity: "1", Price: "7500"},
		},
	}
}

func TestEngine_SyncOne_CreatesOrder(t *testing.T) {
	gateway := newFakeGateway()
	engine := newTestEngine(t, gateway)
	order := sampleOrder(100)

	outcome := engine.SyncOne(context.Background(), &order)

	assert.Equal(t, reconcile.OutcomeCreated, outcome.Status)
	assert.Equal(t, "WC-100", outcome.OriginTag)
	assert.NotZero(t, outcome.DownstreamID)
	assert.Equal(t, 1, gateway.count(reconcile.EntityCustomer))
	assert.Equal(t, 2, gateway.count(reconcile.EntityProduct))
	assert.Equal(t, 1, gateway.count(reconcile.EntityOrder))
}

func TestEngine_SyncOne_Idempotent(t *testing.T) {
	gateway := newFakeGateway()
	engine := newTestEngine(t, gateway)
	order := sampleOrder(100)
	ctx := context.Background()

	first := engine.SyncOne(ctx, &order)
	require.Equal(t, reconcile.OutcomeCreated, first.Status)

	second := engine.SyncOne(ctx, &order)
	assert.Equal(t, reconcile.OutcomeSkipped, second.Status)
	assert.Equal(t, reconcile.ReasonAlreadyImported, second.Reason)

	// Still exactly one downstream order for the origin tag.
	assert.Equal(t, 1, gateway.count(reconcile.EntityOrder))
	assert.Equal(t, 1, gateway.count(reconcile.EntityCustomer))
}

func TestEngine_SyncOne_CustomerDedup(t *testing.T) {
	gateway := newFakeGateway()
	engine := newTestEngine(t, gateway)
	ctx := context.Background()

	first := sampleOrder(1)
	second := sampleOrder(2)

	engine.SyncOne(ctx, &first)
	engine.SyncOne(ctx, &second)

	// Same billing email resolves to the same customer record.
	assert.Equal(t, 1, gateway.count(reconcile.EntityCustomer))
	assert.Equal(t, 2, gateway.count(reconcile.EntityOrder))
}

func TestEngine_SyncOne_SyntheticEmailFallback(t *testing.T) {
	gateway := newFakeGateway()
	engine := newTestEngine(t, gateway)

	order := sampleOrder(200)
	order.Billing.Email = ""
	order.Billing.FirstName = ""
	order.Billing.LastName = ""

	outcome := engine.SyncOne(context.Background(), &order)

	require.Equal(t, reconcile.OutcomeCreated, outcome.Status)
	customers := gateway.records[reconcile.EntityCustomer]
	require.Len(t, customers, 1)
	assert.Equal(t, "no-email-200@example.com", customers[0].values["email"])
	assert.Equal(t, "Woo Client #200", customers[0].values["name"])
}

func TestEngine_SyncOne_ProductDedupBySKU(t *testing.T) {
	gateway := newFakeGateway()
	engine := newTestEngine(t, gateway)
	ctx := context.Background()

	first := sampleOrder(1)
	second := sampleOrder(2)
	second.Billing.Email = "other@shop.sn"

	engine.SyncOne(ctx, &first)
	engine.SyncOne(ctx, &second)

	// Both orders share SKUs, so only two product records exist.
	assert.Equal(t, 2, gateway.count(reconcile.EntityProduct))
}

func TestEngine_SyncOne_ProductDedupByName(t *testing.T) {
	gateway := newFakeGateway()
	engine := newTestEngine(t, gateway)
	ctx := context.Background()

	order := sampleOrder(1)
	order.LineItems = []reconcile.OrderLineItem{
		{Name: "Handmade Scarf", Quantity: "1", Price: "3000"},
	}
	other := sampleOrder(2)
	other.LineItems = []reconcile.OrderLineItem{
		{Name: "Handmade Scarf", Quantity: "4", Price: "3000"},
	}

	engine.SyncOne(ctx, &order)
	engine.SyncOne(ctx, &other)

	// Absent SKUs, items with the same name collapse to one product.
	assert.Equal(t, 1, gateway.count(reconcile.EntityProduct))
}

func TestEngine_SyncOne_CustomerResolutionFailure(t *testing.T) {
	gateway := newFakeGateway()
	gateway.createErr["buyer@shop.sn"] = reconcile.ErrGatewayErrorPayload
	engine := newTestEngine(t, gateway)

	order := sampleOrder(10)
	outcome := engine.SyncOne(context.Background(), &order)

	assert.Equal(t, reconcile.OutcomeFailed, outcome.Status)
	assert.Equal(t, reconcile.ReasonCustomerResolution, outcome.Reason)
	assert.Zero(t, gateway.count(reconcile.EntityOrder))
}

func TestEngine_SyncOne_PartialLineResilience(t *testing.T) {
	gateway := newFakeGateway()
	gateway.createErr["BAG-01"] = reconcile.ErrGatewayErrorPayload
	engine := newTestEngine(t, gateway)

	order := sampleOrder(11)
	order.LineItems = append(order.LineItems, reconcile.OrderLineItem{
		SKU: "HAT-02", Name: "Sun Hat", Quantity: "1", Price: "2500",
	})

	outcome := engine.SyncOne(context.Background(), &order)

	// One of three lines fails product resolution; the order is still
	// created with the remaining two.
	require.Equal(t, reconcile.OutcomeCreated, outcome.Status)
	orders := gateway.records[reconcile.EntityOrder]
	require.Len(t, orders, 1)
	lines := orders[0].values["order_line"].([]any)
	assert.Len(t, lines, 2)
}

func TestEngine_SyncOne_NoValidLines(t *testing.T) {
	gateway := newFakeGateway()
	gateway.findErr[reconcile.EntityProduct] = reconcile.ErrGatewayUnavailable
	engine := newTestEngine(t, gateway)

	order := sampleOrder(12)
	outcome := engine.SyncOne(context.Background(), &order)

	assert.Equal(t, reconcile.OutcomeFailed, outcome.Status)
	assert.Equal(t, reconcile.ReasonNoValidLines, outcome.Reason)
	assert.Zero(t, gateway.count(reconcile.EntityOrder))
}

func TestEngine_SyncOne_OrderCreationFailure(t *testing.T) {
	gateway := newFakeGateway()
	gateway.createOrderErr = reconcile.ErrGatewayErrorPayload
	engine := newTestEngine(t, gateway)

	order := sampleOrder(13)
	outcome := engine.SyncOne(context.Background(), &order)

	assert.Equal(t, reconcile.OutcomeFailed, outcome.Status)
	assert.Equal(t, reconcile.ReasonOrderCreation, outcome.Reason)

	// The customer created before the failure is not rolled back.
	assert.Equal(t, 1, gateway.count(reconcile.EntityCustomer))
}

func TestEngine_SyncOne_SeededDuplicatesResolveToFirst(t *testing.T) {
	gateway := newFakeGateway()
	firstID := gateway.seed(reconcile.EntityCustomer, reconcile.Values{"email": "buyer@shop.sn"})
	gateway.seed(reconcile.EntityCustomer, reconcile.Values{"email": "buyer@shop.sn"})
	engine := newTestEngine(t, gateway)

	order := sampleOrder(14)
	outcome := engine.SyncOne(context.Background(), &order)

	require.Equal(t, reconcile.OutcomeCreated, outcome.Status)
	orders := gateway.records[reconcile.EntityOrder]
	require.Len(t, orders, 1)
	assert.Equal(t, firstID, orders[0].values["partner_id"])
}
