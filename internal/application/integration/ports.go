package integration

import (
	"context"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
)

// AssetStore persists downloaded media under a storage key such as
// "products/m/h/mh01.jpg" and names it with a stable URI.
type AssetStore interface {
	// Put writes data under key and returns its URI
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Exists reports whether key is already stored
	Exists(ctx context.Context, key string) (bool, error)
	// URI returns the URI key would be stored under
	URI(key string) string
}

// SKULocker serializes synchronization of the same SKU across workers.
// Lock returns integration.ErrSKULocked when the SKU stays held past the
// locker's wait budget.
type SKULocker interface {
	Lock(ctx context.Context, sku string) (unlock func(), err error)
}

// SyncRecorder receives one observation per synchronization attempt
type SyncRecorder interface {
	RecordSync(ctx context.Context, class integration.ErrorClass, duration time.Duration, variations int)
}

type nopRecorder struct{}

func (nopRecorder) RecordSync(context.Context, integration.ErrorClass, time.Duration, int) {}

type nopLocker struct{}

func (nopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }
