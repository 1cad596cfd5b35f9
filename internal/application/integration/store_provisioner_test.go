package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreProvisioner_EnsureDefaultStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	store, err := env.engine.Stores.EnsureDefaultStore(ctx)
	require.NoError(t, err)
	assert.NotZero(t, store.ID)
	assert.True(t, store.IsDefault)
	assert.Equal(t, "USD", store.DefaultCurrency)
	assert.Equal(t, "US", store.Address.CountryCode)
	assert.Equal(t, "93291", store.Address.PostalCode)

	again, err := env.engine.Stores.EnsureDefaultStore(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.ID, again.ID)

	fresh := NewStoreProvisioner(env.repos.Stores, zap.NewNop())
	loaded, err := fresh.EnsureDefaultStore(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.ID, loaded.ID)
}
