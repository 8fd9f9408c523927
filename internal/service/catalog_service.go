package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/xcursocr/shopkit/internal/adapter/outbound/rest"
	"github.com/xcursocr/shopkit/internal/domain/catalog"
)

// featuredLimit is how many products the storefront's featured strip shows.
const featuredLimit = 8

// CatalogService exposes typed catalog operations over the generic resource
// layer, with a short-lived read cache for repeated listings.
type CatalogService struct {
	client   *rest.Client
	cache    *listCache
	validate *validator.Validate
	logger   *slog.Logger
}

// NewCatalogService creates a CatalogService. cacheTTL <= 0 disables the
// read cache.
func NewCatalogService(client *rest.Client, cacheTTL time.Duration, logger *slog.Logger) (*CatalogService, error) {
	v, err := catalog.NewValidator()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		client:   client,
		cache:    newListCache(cacheTTL),
		validate: v,
		logger:   logger,
	}, nil
}

// Products lists products. Cached listings are returned without a network
// round trip until the entry expires.
func (s *CatalogService) Products(ctx context.Context, q rest.ListQuery) (*rest.Page[catalog.Product], error) {
	key := s.cache.key(rest.CollectionProducts, q)
	if page, ok := cacheGet[catalog.Product](s.cache, key); ok {
		return page, nil
	}
	page, err := rest.List[catalog.Product](ctx, s.client, rest.CollectionProducts, q)
	if err != nil {
		return nil, err
	}
	cachePut(s.cache, key, page)
	return page, nil
}

// FeaturedProducts lists the newest active products for the storefront
// front page. A backend failure degrades to an empty result instead of
// failing the page; this is the one deliberate error swallow in the client.
func (s *CatalogService) FeaturedProducts(ctx context.Context) []catalog.Product {
	q := rest.ListQuery{
		Limit:   featuredLimit,
		Include: []string{"brands"},
		Filters: map[string]string{"is_active": "true"},
	}.Sort("id", rest.SortDesc)

	page, err := s.Products(ctx, q)
	if err != nil {
		s.logger.Warn("featured products unavailable, showing none", "error", err)
		return nil
	}
	return page.Items
}

// Product fetches one product by id.
func (s *CatalogService) Product(ctx context.Context, id int64) (catalog.Product, error) {
	return rest.Get[catalog.Product](ctx, s.client, rest.CollectionProducts, id)
}

// CreateProduct validates the payload locally and posts it.
func (s *CatalogService) CreateProduct(ctx context.Context, p catalog.ProductPayload) (catalog.Product, error) {
	if err := catalog.ValidatePayload(s.validate, p); err != nil {
		return catalog.Product{}, err
	}
	s.cache.clear()
	return rest.Create[catalog.Product](ctx, s.client, rest.CollectionProducts, p)
}

// UpdateProduct validates the changed fields and puts them.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, p catalog.ProductPayload) (catalog.Product, error) {
	if err := catalog.ValidatePayload(s.validate, p); err != nil {
		return catalog.Product{}, err
	}
	s.cache.clear()
	return rest.Update[catalog.Product](ctx, s.client, rest.CollectionProducts, id, p)
}

// DeleteProduct removes a product and returns the deleted id. A reference
// conflict (product still on an order) surfaces as *rest.ConflictError.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	s.cache.clear()
	return rest.Remove(ctx, s.client, rest.CollectionProducts, id)
}

// Brands lists brands.
func (s *CatalogService) Brands(ctx context.Context, q rest.ListQuery) (*rest.Page[catalog.Brand], error) {
	return rest.List[catalog.Brand](ctx, s.client, rest.CollectionBrands, q)
}

// Brand fetches one brand by id.
func (s *CatalogService) Brand(ctx context.Context, id int64) (catalog.Brand, error) {
	return rest.Get[catalog.Brand](ctx, s.client, rest.CollectionBrands, id)
}

// Categories lists categories.
func (s *CatalogService) Categories(ctx context.Context, q rest.ListQuery) (*rest.Page[catalog.Category], error) {
	return rest.List[catalog.Category](ctx, s.client, rest.CollectionCategories, q)
}

// Category fetches one category by id.
func (s *CatalogService) Category(ctx context.Context, id int64) (catalog.Category, error) {
	return rest.Get[catalog.Category](ctx, s.client, rest.CollectionCategories, id)
}

// Subcategories lists subcategories, optionally embedding the parent
// category via q.Include.
func (s *CatalogService) Subcategories(ctx context.Context, q rest.ListQuery) (*rest.Page[catalog.Subcategory], error) {
	return rest.List[catalog.Subcategory](ctx, s.client, rest.CollectionSubcategories, q)
}

// Subcategory fetches one subcategory by id.
func (s *CatalogService) Subcategory(ctx context.Context, id int64) (catalog.Subcategory, error) {
	return rest.Get[catalog.Subcategory](ctx, s.client, rest.CollectionSubcategories, id)
}

// CreateNamed creates a brand, category, or subcategory row.
func (s *CatalogService) CreateNamed(ctx context.Context, collection string, p catalog.NamedPayload) error {
	if err := catalog.ValidatePayload(s.validate, p); err != nil {
		return err
	}
	switch collection {
	case rest.CollectionBrands:
		_, err := rest.Create[catalog.Brand](ctx, s.client, collection, p)
		return err
	case rest.CollectionCategories:
		_, err := rest.Create[catalog.Category](ctx, s.client, collection, p)
		return err
	case rest.CollectionSubcategories:
		_, err := rest.Create[catalog.Subcategory](ctx, s.client, collection, p)
		return err
	}
	return fmt.Errorf("unknown collection %q", collection)
}

// UpdateNamed updates a brand, category, or subcategory row.
func (s *CatalogService) UpdateNamed(ctx context.Context, collection string, id int64, p catalog.NamedPayload) error {
	if err := catalog.ValidatePayload(s.validate, p); err != nil {
		return err
	}
	switch collection {
	case rest.CollectionBrands:
		_, err := rest.Update[catalog.Brand](ctx, s.client, collection, id, p)
		return err
	case rest.CollectionCategories:
		_, err := rest.Update[catalog.Category](ctx, s.client, collection, id, p)
		return err
	case rest.CollectionSubcategories:
		_, err := rest.Update[catalog.Subcategory](ctx, s.client, collection, id, p)
		return err
	}
	return fmt.Errorf("unknown collection %q", collection)
}

// DeleteNamed removes a brand, category, or subcategory row and returns
// the deleted id. Reference conflicts (e.g. a category with subcategories)
// surface as *rest.ConflictError.
func (s *CatalogService) DeleteNamed(ctx context.Context, collection string, id int64) (int64, error) {
	return rest.Remove(ctx, s.client, collection, id)
}
