package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyCode is an ISO 4217 currency code such as "USD"
type CurrencyCode string

// DefaultCurrencyCode is used when neither the caller nor the remote catalog names a currency
const DefaultCurrencyCode CurrencyCode = "USD"

// ErrEmptyCurrency is returned when a price is built without a currency
var ErrEmptyCurrency = errors.New("currency cannot be empty")

// NormalizeCurrency upper-cases and trims a currency code
func NormalizeCurrency(code string) CurrencyCode {
	return CurrencyCode(strings.ToUpper(strings.TrimSpace(code)))
}

// IsValid reports whether the code has the three-letter ISO shape
func (c CurrencyCode) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// String returns the string representation
func (c CurrencyCode) String() string {
	return string(c)
}

// Price is an immutable amount in a currency.
// Variation prices and stock receipt unit costs are Prices.
type Price struct {
	amount   decimal.Decimal
	currency CurrencyCode
}

// NewPrice creates a price; the currency code is normalized
func NewPrice(amount decimal.Decimal, currency string) (Price, error) {
	code := NormalizeCurrency(currency)
	if code == "" {
		return Price{}, ErrEmptyCurrency
	}
	if !code.IsValid() {
		return Price{}, fmt.Errorf("invalid currency code %q", currency)
	}
	return Price{amount: amount, currency: code}, nil
}

// NewPriceFromString parses the amount before building the price
func NewPriceFromString(amount, currency string) (Price, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Price{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewPrice(d, currency)
}

// MustNewPrice panics on invalid input. Intended for tests and constants.
func MustNewPrice(amount string, currency string) Price {
	p, err := NewPriceFromString(amount, currency)
	if err != nil {
		panic(err)
	}
	return p
}

// Amount returns the decimal amount
func (p Price) Amount() decimal.Decimal {
	return p.amount
}

// Currency returns the currency code
func (p Price) Currency() CurrencyCode {
	return p.currency
}

// IsZero returns true if the amount is zero
func (p Price) IsZero() bool {
	return p.amount.IsZero()
}

// Equals compares amount numerically and currency exactly
func (p Price) Equals(other Price) bool {
	return p.currency == other.currency && p.amount.Equal(other.amount)
}

// String renders "12.5 USD"
func (p Price) String() string {
	return fmt.Sprintf("%s %s", p.amount.String(), p.currency)
}

// MarshalJSON implements json.Marshaler
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Number       string       `json:"number"`
		CurrencyCode CurrencyCode `json:"currency_code"`
	}{
		Number:       p.amount.String(),
		CurrencyCode: p.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Price) UnmarshalJSON(data []byte) error {
	var v struct {
		Number       decimal.Decimal `json:"number"`
		CurrencyCode string          `json:"currency_code"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewPrice(v.Number, v.CurrencyCode)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
