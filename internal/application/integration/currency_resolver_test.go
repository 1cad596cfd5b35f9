package integration

import (
	"context"
	"testing"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockStoreSource is a mock implementation of integration.StoreSource
type MockStoreSource struct {
	mock.Mock
}

func (m *MockStoreSource) GetCurrencyCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func TestCurrencyResolver_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		fallback  string
		override  string
		remote    string
		remoteErr error
		want      string
	}{
		{name: "override wins", fallback: "USD", override: "eur", remote: "GBP", want: "EUR"},
		{name: "remote base currency", fallback: "USD", remote: "gbp", want: "GBP"},
		{name: "invalid override falls through", fallback: "USD", override: "euro", remote: "JPY", want: "JPY"},
		{name: "invalid remote uses fallback", fallback: "CAD", remote: "??", want: "CAD"},
		{name: "remote unavailable uses fallback", fallback: "CAD", remoteErr: integration.ErrSourceUnavailable, want: "CAD"},
		{name: "invalid fallback uses USD", fallback: "", remoteErr: integration.ErrSourceNotFound, want: "USD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(MockStoreSource)
			source.On("GetCurrencyCode", mock.Anything).Return(tt.remote, tt.remoteErr).Maybe()

			resolver := NewCurrencyResolver(source, tt.fallback, zap.NewNop())
			assert.Equal(t, tt.want, resolver.Resolve(context.Background(), tt.override))
		})
	}
}

func TestCurrencyResolver_OverrideSkipsRemote(t *testing.T) {
	source := new(MockStoreSource)

	resolver := NewCurrencyResolver(source, "USD", zap.NewNop())
	assert.Equal(t, "EUR", resolver.Resolve(context.Background(), "EUR"))
	source.AssertNotCalled(t, "GetCurrencyCode", mock.Anything)
}
