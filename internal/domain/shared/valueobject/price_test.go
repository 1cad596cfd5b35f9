package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrice(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		wantErr  bool
		wantCode CurrencyCode
	}{
		{name: "valid USD", amount: "12.50", currency: "USD", wantCode: "USD"},
		{name: "lower case is normalized", amount: "1", currency: " eur ", wantCode: "EUR"},
		{name: "empty currency", amount: "1", currency: "", wantErr: true},
		{name: "bad currency", amount: "1", currency: "US", wantErr: true},
		{name: "bad amount", amount: "abc", currency: "USD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPriceFromString(tt.amount, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, p.Currency())
		})
	}
}

func TestPrice_Equals(t *testing.T) {
	a := MustNewPrice("12.50", "USD")
	b := MustNewPrice("12.5", "usd")
	c := MustNewPrice("12.5", "EUR")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.Equal(t, "12.5 USD", a.String())
}

func TestPrice_JSON(t *testing.T) {
	p, err := NewPrice(decimal.RequireFromString("12.50"), "USD")
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"number":"12.5","currency_code":"USD"}`, string(data))

	var decoded Price
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, p.Equals(decoded))
}
