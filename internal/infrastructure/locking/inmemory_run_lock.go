package locking

import (
	"context"
	"sync"
	"time"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// InMemoryRunLock implements the RunLock port for single-process
// deployments and tests. The TTL is honored so a run that never released
// (e.g. a crashed goroutine) does not block the process forever.
type InMemoryRunLock struct {
	mu        sync.Mutex
	held      bool
	expiresAt time.Time
}

// NewInMemoryRunLock creates an in-memory run lock.
func NewInMemoryRunLock() *InMemoryRunLock {
	return &InMemoryRunLock{}
}

// Acquire takes the guard unless it is held and unexpired.
func (l *InMemoryRunLock) Acquire(_ context.Context, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if l.held && now.Before(l.expiresAt) {
		return false, nil
	}
	l.held = true
	l.expiresAt = now.Add(ttl)
	return true, nil
}

// Release frees the guard.
func (l *InMemoryRunLock) Release(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	return nil
}

// Ensure InMemoryRunLock implements the RunLock port
var _ reconcile.RunLock = (*InMemoryRunLock)(nil)
