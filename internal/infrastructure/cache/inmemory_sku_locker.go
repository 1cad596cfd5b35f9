package cache

import (
	"context"
	"sync"
	"time"

	integrationapp "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/domain/integration"
)

// InMemorySKULocker implements SKULocker for a single process
type InMemorySKULocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
	wait time.Duration
}

var _ integrationapp.SKULocker = (*InMemorySKULocker)(nil)

// NewInMemorySKULocker creates a locker; Lock blocks up to wait for a held SKU
func NewInMemorySKULocker(wait time.Duration) *InMemorySKULocker {
	return &InMemorySKULocker{
		held: make(map[string]chan struct{}),
		wait: wait,
	}
}

// Lock acquires the SKU, waiting for the current holder to release it
func (l *InMemorySKULocker) Lock(ctx context.Context, sku string) (func(), error) {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	for {
		l.mu.Lock()
		released, busy := l.held[sku]
		if !busy {
			done := make(chan struct{})
			l.held[sku] = done
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, sku)
					l.mu.Unlock()
					close(done)
				})
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-released:
		case <-timer.C:
			return nil, integration.ErrSKULocked
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Held returns the number of SKUs currently locked
func (l *InMemorySKULocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
