package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-listings/core"
)

const productCacheKeyPrefix = "go-listings::product::v1"

// ProductCatalog is the store surface CachedProductStore fronts.
type ProductCatalog interface {
	Product(ctx context.Context, productID string) (core.Product, error)
	Upsert(ctx context.Context, product core.Product) error
	List(ctx context.Context) ([]core.Product, error)
}

// CachedProductStore fronts a product store with a read-through cache.
// Catalog rows change only on import, so reads are cached until the
// next upsert invalidates the key.
type CachedProductStore struct {
	base  ProductCatalog
	cache repositorycache.CacheService
}

func NewCachedProductStore(base ProductCatalog, cacheService repositorycache.CacheService) (*CachedProductStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base product store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: product cache service is required")
	}
	return &CachedProductStore{base: base, cache: cacheService}, nil
}

// ProductCacheKey returns the deterministic cache key for a catalog row:
// go-listings::product::v1::<product_id> with the id URL-path escaped.
func ProductCacheKey(productID string) (string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return "", core.NewBadInputError("sqlstore: product id is required")
	}
	return productCacheKeyPrefix + "::" + url.PathEscape(productID), nil
}

func (s *CachedProductStore) Product(ctx context.Context, productID string) (core.Product, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.Product{}, fmt.Errorf("sqlstore: cached product store is not configured")
	}
	cacheKey, err := ProductCacheKey(productID)
	if err != nil {
		return core.Product{}, err
	}
	return repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (core.Product, error) {
		return s.base.Product(ctx, productID)
	})
}

func (s *CachedProductStore) Upsert(ctx context.Context, product core.Product) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached product store is not configured")
	}
	if err := s.base.Upsert(ctx, product); err != nil {
		return err
	}
	cacheKey, err := ProductCacheKey(product.ID)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

func (s *CachedProductStore) List(ctx context.Context) ([]core.Product, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("sqlstore: cached product store is not configured")
	}
	return s.base.List(ctx)
}

var _ core.ProductSource = (*CachedProductStore)(nil)
