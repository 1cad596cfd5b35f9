package ecommerce

import (
	"errors"
	"strings"
	"time"

	"github.com/erp/catalogsync/internal/infrastructure/config"
)

// MagentoConfig holds configuration for the Magento REST API
type MagentoConfig struct {
	// BaseURL is the REST root including the version, e.g. https://shop/rest/V1
	BaseURL string
	// AccessToken is the integration bearer token
	AccessToken string
	// Debug dumps every request and response through the logger
	Debug bool
	// Timeout bounds one HTTP round trip
	Timeout time.Duration
	// PageSize is the listing page size when a query does not set one
	PageSize int
	// RetryCount is the number of retries on transport errors and 5xx
	RetryCount int
}

// Errors for Magento configuration
var (
	ErrMagentoConfigMissingURL   = errors.New("magento: url is required")
	ErrMagentoConfigMissingToken = errors.New("magento: access token is required")
)

// NewMagentoConfig builds the adapter configuration from application config
func NewMagentoConfig(cfg config.MagentoConfig) *MagentoConfig {
	return &MagentoConfig{
		BaseURL:     cfg.BaseURL(),
		AccessToken: cfg.AccessToken,
		Debug:       cfg.DebugMode,
		Timeout:     cfg.Timeout,
		PageSize:    cfg.PageSize,
		RetryCount:  cfg.RetryCount,
	}
}

// Validate checks required settings and fills defaults
func (c *MagentoConfig) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" || strings.HasPrefix(c.BaseURL, "/rest/") {
		return ErrMagentoConfigMissingURL
	}
	if c.AccessToken == "" {
		return ErrMagentoConfigMissingToken
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	return nil
}
