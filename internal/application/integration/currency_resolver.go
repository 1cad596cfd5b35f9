package integration

import (
	"context"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CurrencyResolver picks the currency of a run: an explicit code, else the
// remote store base currency, else the configured default
type CurrencyResolver struct {
	source   integration.StoreSource
	fallback valueobject.CurrencyCode
	logger   *zap.Logger
}

// NewCurrencyResolver creates a new CurrencyResolver
func NewCurrencyResolver(source integration.StoreSource, fallback string, logger *zap.Logger) *CurrencyResolver {
	code := valueobject.NormalizeCurrency(fallback)
	if !code.IsValid() {
		code = valueobject.DefaultCurrencyCode
	}
	return &CurrencyResolver{
		source:   source,
		fallback: code,
		logger:   logger.Named("currency"),
	}
}

// Resolve returns the currency code to price variations in
func (r *CurrencyResolver) Resolve(ctx context.Context, override string) string {
	if code := valueobject.NormalizeCurrency(override); code.IsValid() {
		return code.String()
	} else if override != "" {
		r.logger.Warn("Ignoring invalid currency override", zap.String("currency", override))
	}

	remote, err := r.source.GetCurrencyCode(ctx)
	if err == nil {
		if code := valueobject.NormalizeCurrency(remote); code.IsValid() {
			return code.String()
		}
		r.logger.Warn("Remote store reported an invalid currency", zap.String("currency", remote))
	} else {
		r.logger.Debug("Remote currency unavailable, using default", zap.Error(err))
	}
	return r.fallback.String()
}
