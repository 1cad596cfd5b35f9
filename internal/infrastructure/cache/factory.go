package cache

import (
	"fmt"
	"io"

	integrationapp "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SKULockerFactory creates SKU lockers based on configuration
type SKULockerFactory struct {
	importConfig          config.ImportConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SKULockerFactoryOption is a functional option for configuring the factory
type SKULockerFactoryOption func(*SKULockerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SKULockerFactoryOption {
	return func(f *SKULockerFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to an
// in-process locker. Default is false.
func WithInMemoryFallback(allow bool) SKULockerFactoryOption {
	return func(f *SKULockerFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSKULockerFactory creates a new factory
func NewSKULockerFactory(importCfg config.ImportConfig, redisCfg config.RedisConfig, opts ...SKULockerFactoryOption) *SKULockerFactory {
	f := &SKULockerFactory{
		importConfig: importCfg,
		redisConfig:  redisCfg,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Create returns the locker selected by import.lock_backend and a closer for
// any connection it opened.
func (f *SKULockerFactory) Create() (integrationapp.SKULocker, io.Closer, error) {
	if f.importConfig.LockBackend != "redis" {
		f.logger.Info("Using in-memory sku locker")
		return NewInMemorySKULocker(f.importConfig.LockWait), nopCloser{}, nil
	}

	client, err := NewRedisClient(RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("Using Redis sku locker", zap.String("addr", f.redisConfig.Addr()))
		return NewRedisSKULocker(client, f.importConfig.LockTTL, f.importConfig.LockWait, f.logger), client, nil
	}

	if !f.allowInMemoryFallback {
		return nil, nil, fmt.Errorf("redis required for sku locks but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory sku locker. "+
		"Workers in other processes may synchronize the same SKU concurrently.",
		zap.Error(err),
	)
	return NewInMemorySKULocker(f.importConfig.LockWait), nopCloser{}, nil
}
