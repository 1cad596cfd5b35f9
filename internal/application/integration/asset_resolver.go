package integration

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	// mediaPrefix is where the remote catalog serves product media
	mediaPrefix = "/media/catalog/product"
	// assetKeyPrefix is the storage key prefix of product media
	assetKeyPrefix = "products"
	// legacySuffix marks duplicated uploads in older catalogs ("mh01_1.jpg")
	legacySuffix = "_1"
)

// AssetResolver copies remote product media into the asset store and
// registers each copy as a permanent managed file.
type AssetResolver struct {
	media     integration.MediaFetcher
	store     AssetStore
	files     catalog.FileRepository
	baseURL   string
	overwrite bool
	logger    *zap.Logger
}

// NewAssetResolver creates a new AssetResolver. baseURL is the catalog
// site root, without the REST path. With overwrite off, an asset already
// registered and present in the store is not downloaded again.
func NewAssetResolver(
	media integration.MediaFetcher,
	store AssetStore,
	files catalog.FileRepository,
	baseURL string,
	overwrite bool,
	logger *zap.Logger,
) *AssetResolver {
	return &AssetResolver{
		media:     media,
		store:     store,
		files:     files,
		baseURL:   strings.TrimRight(baseURL, "/"),
		overwrite: overwrite,
		logger:    logger.Named("assets"),
	}
}

// NormalizeMediaPath strips the legacy "_1" marker before the extension and
// gives the path exactly one leading slash
func NormalizeMediaPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	ext := path.Ext(p)
	stem := strings.TrimSuffix(p, ext)
	if strings.HasSuffix(stem, legacySuffix) {
		p = strings.TrimSuffix(stem, legacySuffix) + ext
	}
	return "/" + strings.TrimLeft(p, "/")
}

// Materialize downloads the media at the relative path and returns its
// managed file. The caller skips the asset on error.
func (r *AssetResolver) Materialize(ctx context.Context, relativePath string) (*catalog.File, error) {
	return r.materialize(ctx, nil, relativePath)
}

func (r *AssetResolver) materialize(ctx context.Context, pass *syncPass, relativePath string) (*catalog.File, error) {
	rel := NormalizeMediaPath(relativePath)
	if rel == "" || rel == "/" {
		return nil, fmt.Errorf("empty media path")
	}
	if pass != nil {
		if file, ok := pass.files[rel]; ok {
			return file, nil
		}
	}

	file, err := r.fetch(ctx, rel)
	if err != nil {
		r.logger.Warn("Skipping media asset", zap.String("path", rel), zap.Error(err))
		return nil, err
	}
	if pass != nil {
		pass.files[rel] = file
	}
	return file, nil
}

func (r *AssetResolver) fetch(ctx context.Context, rel string) (*catalog.File, error) {
	key := assetKeyPrefix + rel
	uri := r.store.URI(key)

	file, err := r.files.FindByURI(ctx, uri)
	switch {
	case err == nil:
		if !r.overwrite {
			if exists, err := r.store.Exists(ctx, key); err == nil && exists {
				return file, nil
			}
		}
	case errors.Is(err, shared.ErrNotFound):
		file = nil
	default:
		return nil, fmt.Errorf("%w: load file: %v", integration.ErrPersistence, err)
	}

	obj, err := r.media.FetchMedia(ctx, r.baseURL+mediaPrefix+rel)
	if err != nil {
		return nil, err
	}
	if _, err := r.store.Put(ctx, key, obj.Body, obj.ContentType); err != nil {
		return nil, fmt.Errorf("store asset: %w", err)
	}

	if file == nil {
		file = &catalog.File{URI: uri, Filename: path.Base(rel)}
	}
	file.MimeType = obj.ContentType
	file.Size = int64(len(obj.Body))
	file.Permanent = true
	if err := r.files.Save(ctx, file); err != nil {
		return nil, fmt.Errorf("%w: register file: %v", integration.ErrPersistence, err)
	}
	r.logger.Debug("Materialized media asset", zap.String("uri", uri), zap.Int64("size", file.Size))
	return file, nil
}

// RegisterFile records a managed file for media that is referenced but not
// downloaded, such as gallery entries
func (r *AssetResolver) RegisterFile(ctx context.Context, relativePath string) (*catalog.File, error) {
	rel := NormalizeMediaPath(relativePath)
	if rel == "" {
		return nil, fmt.Errorf("empty media path")
	}
	uri := r.store.URI(assetKeyPrefix + rel)
	file, err := r.files.FindByURI(ctx, uri)
	if err == nil {
		return file, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: load file: %v", integration.ErrPersistence, err)
	}
	file = &catalog.File{URI: uri, Filename: path.Base(rel)}
	if err := r.files.Save(ctx, file); err != nil {
		return nil, fmt.Errorf("%w: register file: %v", integration.ErrPersistence, err)
	}
	return file, nil
}
