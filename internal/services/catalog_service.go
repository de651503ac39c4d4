package services

import (
	"context"
	"time"

	"gmart/internal/cache"
	"gmart/internal/domain"
)

const (
	FeaturedMinRating = 4.0
	FeaturedLimit     = 4
	HomeCategoryLimit = 6
)

type CatalogService struct {
	Cats  CategoryStore
	Prods ProductStore
	Cache cache.Cache
	TTL   time.Duration
}

func NewCatalogService(cats CategoryStore, prods ProductStore, c cache.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Cache: c, TTL: ttl}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return cache.Remember(ctx, s.Cache, "categories:all", s.TTL, func(ctx context.Context) ([]domain.Category, error) {
		return s.Cats.ListCategories(ctx, 0)
	})
}

// HomeCategories returns the first few categories shown on the home page.
func (s *CatalogService) HomeCategories(ctx context.Context) ([]domain.Category, error) {
	return cache.Remember(ctx, s.Cache, "categories:home", s.TTL, func(ctx context.Context) ([]domain.Category, error) {
		return s.Cats.ListCategories(ctx, HomeCategoryLimit)
	})
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	return cache.Remember(ctx, s.Cache, "category:"+id, s.TTL, func(ctx context.Context) (domain.Category, error) {
		return s.Cats.GetCategory(ctx, id)
	})
}

// ListProducts returns the products of a category, or all products for "".
func (s *CatalogService) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return cache.Remember(ctx, s.Cache, "products:"+categoryID, s.TTL, func(ctx context.Context) ([]domain.Product, error) {
		return s.Prods.ListProducts(ctx, categoryID)
	})
}

// Featured is never cached: ratings move with every review.
func (s *CatalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.Featured(ctx, FeaturedMinRating, FeaturedLimit)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Prods.GetProduct(ctx, id)
}

// Browse fetches the full product list of a category (or all products) and
// filters and sorts it in memory.
func (s *CatalogService) Browse(ctx context.Context, categoryID, term string, sort SortKey) (Listing, error) {
	products, err := s.ListProducts(ctx, categoryID)
	if err != nil {
		return Listing{}, err
	}
	return FilterAndSort(products, term, sort), nil
}

// Availability buckets a product's stock level.
func (s *CatalogService) Availability(ctx context.Context, productID string) (domain.Availability, error) {
	p, err := s.Prods.GetProduct(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}
	status := "OUT_OF_STOCK"
	switch {
	case p.Stock >= 5:
		status = "IN_STOCK"
	case p.Stock > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: p.Stock}, nil
}

// InvalidateProducts drops cached product lists after a stock or rating change.
func (s *CatalogService) InvalidateProducts(ctx context.Context, categoryID string) {
	if s.Cache == nil {
		return
	}
	_ = s.Cache.Delete(ctx, "products:", "products:"+categoryID)
}

// SetStock overwrites a product's stock level and drops the cached lists
// that contain it.
func (s *CatalogService) SetStock(ctx context.Context, productID string, stock int) error {
	if stock < 0 {
		return invalid("stock", "Stock cannot be negative")
	}
	p, err := s.Prods.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.Prods.SetStock(ctx, productID, stock); err != nil {
		return err
	}
	s.InvalidateProducts(ctx, p.CategoryID)
	return nil
}
