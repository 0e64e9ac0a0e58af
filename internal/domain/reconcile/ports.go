package reconcile

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// Entity Kinds
// ---------------------------------------------------------------------------

// Entity identifies a downstream record kind by its ERP model name.
type Entity string

const (
	// EntityCustomer is the downstream customer/partner model
	EntityCustomer Entity = "res.partner"
	// EntityProduct is the downstream product model
	EntityProduct Entity = "product.product"
	// EntityOrder is the downstream sales order model
	EntityOrder Entity = "sale.order"
)

// IsValid returns true if the entity kind is known.
func (e Entity) IsValid() bool {
	switch e {
	case EntityCustomer, EntityProduct, EntityOrder:
		return true
	default:
		return false
	}
}

// String returns the ERP model name.
func (e Entity) String() string {
	return string(e)
}

// ---------------------------------------------------------------------------
// Records and Values
// ---------------------------------------------------------------------------

// Record is one downstream record as returned by a gateway lookup. Only the
// identifier is interpreted by the reconciler; remaining fields are opaque.
type Record struct {
	// ID is the downstream record identifier
	ID int64
	// Fields holds the raw field values returned by the lookup
	Fields map[string]any
}

// Values are the field values submitted on a downstream create call.
type Values map[string]any

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// OrderSource is the port to the upstream commerce platform. Implementations
// fetch a single fixed-size page of recent orders; pagination beyond that is
// out of scope.
type OrderSource interface {
	// FetchOrders fetches up to pageSize recent orders. A transport failure
	// or non-success response yields an error wrapping ErrSourceUnavailable
	// or ErrSourceRequestFailed.
	FetchOrders(ctx context.Context, pageSize int) ([]StoreOrder, error)
}

// ERPGateway is the port to the downstream ERP. Each call is a single
// synchronous attempt; an application-level error payload in the response is
// surfaced as an error wrapping ErrGatewayErrorPayload, never as success.
type ERPGateway interface {
	// Find looks up records of the given entity whose field equals value.
	// Order among multiple matches is whatever the ERP returns.
	Find(ctx context.Context, entity Entity, field string, value any) ([]Record, error)

	// Create creates one record of the given entity and returns its ID.
	Create(ctx context.Context, entity Entity, values Values) (int64, error)

	// CreateOrder creates one sales order and returns its ID.
	CreateOrder(ctx context.Context, values Values) (int64, error)
}

// RunLock is the single-flight guard preventing overlapping reconciliation
// runs from racing on the same origin-tag existence checks.
type RunLock interface {
	// Acquire takes the guard for at most ttl. It returns false when
	// another run currently holds it.
	Acquire(ctx context.Context, ttl time.Duration) (bool, error)

	// Release frees the guard.
	Release(ctx context.Context) error
}
