package storage

import (
	"context"
	"fmt"

	integrationapp "github.com/erp/catalogsync/internal/application/integration"
	infraconfig "github.com/erp/catalogsync/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewAssetStore builds the asset store selected by assets.backend.
// An S3 bucket is created when it does not exist yet.
func NewAssetStore(ctx context.Context, assets infraconfig.AssetsConfig, s3cfg *infraconfig.StorageConfig, logger *zap.Logger) (integrationapp.AssetStore, error) {
	switch assets.Backend {
	case "", "local":
		return NewLocalAssetStore(assets.Root)
	case "memory":
		return NewMemoryAssetStore(), nil
	case "s3":
		store, err := NewS3AssetStore(s3cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown asset backend %q", assets.Backend)
	}
}
