package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared"
	"go.uber.org/zap"
)

// defaultStore is the online store new products are published to
func defaultStore() *catalog.Store {
	return &catalog.Store{
		Type:             "online",
		Name:             "Online store",
		Mail:             "store@example.com",
		DefaultCurrency:  "USD",
		BillingCountries: []string{"US"},
		Address: catalog.Address{
			CountryCode:        "US",
			AddressLine1:       "Malibu",
			Locality:           "Malibu",
			AdministrativeArea: "CA",
			PostalCode:         "93291",
		},
		IsDefault: true,
	}
}

// StoreProvisioner loads or creates the default store once per process
type StoreProvisioner struct {
	stores catalog.StoreRepository
	logger *zap.Logger

	mu    sync.Mutex
	store *catalog.Store
}

// NewStoreProvisioner creates a new StoreProvisioner
func NewStoreProvisioner(stores catalog.StoreRepository, logger *zap.Logger) *StoreProvisioner {
	return &StoreProvisioner{
		stores: stores,
		logger: logger.Named("store"),
	}
}

// EnsureDefaultStore returns the default store, creating it on first use
func (p *StoreProvisioner) EnsureDefaultStore(ctx context.Context) (*catalog.Store, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.store != nil {
		return p.store, nil
	}

	store, err := p.stores.FindDefault(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: load default store: %v", integration.ErrPersistence, err)
		}
		store = defaultStore()
		if err := p.stores.Save(ctx, store); err != nil {
			return nil, fmt.Errorf("%w: create default store: %v", integration.ErrPersistence, err)
		}
		p.logger.Info("Created default store", zap.Uint("store_id", store.ID))
	}
	p.store = store
	return store, nil
}
