package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// fakeGateway is a stateful in-memory stand-in for the downstream ERP. It
// stores created records per entity and supports fault injection per call.
type fakeGateway struct {
	nextID  int64
	records map[reconcile.Entity][]fakeRecordEntry

	// findErr, when set, fails Find calls matching the entity
	findErr map[reconcile.Entity]error
	// createErr, when set, fails Create calls whose values carry the
	// given natural-key value
	createErr map[string]error
	// createOrderErr fails CreateOrder when set
	createOrderErr error
	// panicOnFindValue triggers a panic when Find is called with this value
	panicOnFindValue string

	findCalls   int
	createCalls int
	orderCalls  int
}

type fakeRecordEntry struct {
	id     int64
	values reconcile.Values
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		records:   make(map[reconcile.Entity][]fakeRecordEntry),
		findErr:   make(map[reconcile.Entity]error),
		createErr: make(map[string]error),
	}
}

func (g *fakeGateway) Find(_ context.Context, entity reconcile.Entity, field string, value any) ([]reconcile.Record, error) {
	g.findCalls++
	if g.panicOnFindValue != "" && fmt.Sprint(value) == g.panicOnFindValue {
		panic("gateway exploded")
	}
	if err := g.findErr[entity]; err != nil {
		return nil, err
	}

	var matches []reconcile.Record
	for _, entry := range g.records[entity] {
		if fmt.Sprint(entry.values[field]) == fmt.Sprint(value) {
			matches = append(matches, reconcile.Record{ID: entry.id, Fields: entry.values})
		}
	}
	return matches, nil
}

func (g *fakeGateway) Create(_ context.Context, entity reconcile.Entity, values reconcile.Values) (int64, error) {
	g.createCalls++
	for key, err := range g.createErr {
		if fmt.Sprint(values["default_code"]) == key || fmt.Sprint(values["email"]) == key {
			return 0, err
		}
	}
	return g.insert(entity, values), nil
}

func (g *fakeGateway) CreateOrder(_ context.Context, values reconcile.Values) (int64, error) {
	g.orderCalls++
	if g.createOrderErr != nil {
		return 0, g.createOrderErr
	}
	return g.insert(reconcile.EntityOrder, values), nil
}

func (g *fakeGateway) insert(entity reconcile.Entity, values reconcile.Values) int64 {
	g.nextID++
	g.records[entity] = append(g.records[entity], fakeRecordEntry{id: g.nextID, values: values})
	return g.nextID
}

// seed inserts a pre-existing downstream record and returns its ID.
func (g *fakeGateway) seed(entity reconcile.Entity, values reconcile.Values) int64 {
	return g.insert(entity, values)
}

func (g *fakeGateway) count(entity reconcile.Entity) int {
	return len(g.records[entity])
}

// fakeSource serves a fixed page of orders or a configured error.
type fakeSource struct {
	orders []reconcile.StoreOrder
	err    error
}

func (s *fakeSource) FetchOrders(_ context.Context, _ int) ([]reconcile.StoreOrder, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.orders, nil
}

// fakeLock is a single-process run guard for tests.
type fakeLock struct {
	held       bool
	acquireErr error
}

func (l *fakeLock) Acquire(_ context.Context, _ time.Duration) (bool, error) {
	if l.acquireErr != nil {
		return false, l.acquireErr
	}
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLock) Release(_ context.Context) error {
	l.held = false
	return nil
}

// fakeRecordRepo collects persisted sync records in memory.
type fakeRecordRepo struct {
	saved   []reconcile.OrderSyncRecord
	saveErr error
}

func (r *fakeRecordRepo) Save(_ context.Context, record *reconcile.OrderSyncRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, *record)
	return nil
}

func (r *fakeRecordRepo) FindByOriginTag(_ context.Context, originTag string) ([]reconcile.OrderSyncRecord, error) {
	var out []reconcile.OrderSyncRecord
	for _, rec := range r.saved {
		if rec.OriginTag == originTag {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRecordRepo) FindRecent(_ context.Context, limit int) ([]reconcile.OrderSyncRecord, error) {
	if limit > len(r.saved) {
		limit = len(r.saved)
	}
	return r.saved[len(r.saved)-limit:], nil
}

func (r *fakeRecordRepo) CountByStatus(_ context.Context, status reconcile.OutcomeStatus) (int64, error) {
	var n int64
	for _, rec := range r.saved {
		if rec.Status == status {
			n++
		}
	}
	return n, nil
}
