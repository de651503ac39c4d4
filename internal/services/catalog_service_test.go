package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmart/internal/cache"
	"gmart/internal/domain"
	"gmart/internal/repos"
	"gmart/internal/services"
)

func newCatalog(t *testing.T) *services.CatalogService {
	db := openDB(t)
	return services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db), cache.NewMemory(), time.Minute)
}

func product(name, price string) domain.Product {
	return domain.Product{ID: name, Name: name, Price: decimal.RequireFromString(price)}
}

func names(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestFilterAndSortPriceOrdersAreReverses(t *testing.T) {
	in := []domain.Product{product("b", "2.50"), product("a", "10"), product("c", "0.99"), product("d", "4")}

	low := sortedNames(in, services.SortPriceLow)
	high := sortedNames(in, services.SortPriceHigh)
	assert.Equal(t, []string{"c", "b", "d", "a"}, low)
	for i := range low {
		assert.Equal(t, low[i], high[len(high)-1-i])
	}
}

func sortedNames(in []domain.Product, key services.SortKey) []string {
	return names(services.FilterAndSort(in, "", key).Products)
}

func TestFilterAndSortByName(t *testing.T) {
	in := []domain.Product{product("banana", "1"), product("Apple", "1"), product("cherry", "1")}
	l := services.FilterAndSort(in, "", services.SortName)
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, names(l.Products))

	l = services.FilterAndSort(in, "", services.SortKey("bogus"))
	assert.Equal(t, services.SortName, l.Sort)
	assert.Equal(t, "Apple", l.Products[0].Name)
	assert.Equal(t, "banana", in[0].Name, "input is not reordered")
}

func TestFilterAndSortTerm(t *testing.T) {
	in := []domain.Product{product("Green Tea", "4.25"), product("Orange Juice", "3.99"), product("tea cake", "2")}
	l := services.FilterAndSort(in, "  TEA ", services.SortPriceLow)
	assert.Equal(t, []string{"tea cake", "Green Tea"}, names(l.Products))
	assert.False(t, l.NoResults)
	assert.Equal(t, "TEA", l.Term)

	l = services.FilterAndSort(in, "caviar", services.SortName)
	assert.True(t, l.NoResults)
	assert.Empty(t, l.Products)
	assert.Equal(t, "No products found matching your criteria.", l.Message)
}

func TestFeaturedAndHomeCategories(t *testing.T) {
	s := newCatalog(t)
	ctx := context.Background()

	featured, err := s.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, services.FeaturedLimit)
	for _, p := range featured {
		assert.GreaterOrEqual(t, p.Rating, services.FeaturedMinRating, p.ID)
	}

	cats, err := s.HomeCategories(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(cats), services.HomeCategoryLimit)
}

func TestBrowseCategory(t *testing.T) {
	s := newCatalog(t)
	l, err := s.Browse(context.Background(), "fruits", "", services.SortPriceHigh)
	require.NoError(t, err)
	require.Len(t, l.Products, 3)
	assert.Equal(t, "apple-001", l.Products[0].ID)
	assert.Equal(t, "Fresh Fruits", l.Products[0].CategoryName)

	_, err = s.GetCategory(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAvailabilityBuckets(t *testing.T) {
	s := newCatalog(t)
	ctx := context.Background()

	for id, want := range map[string]string{
		"banana-001": "IN_STOCK",
		"mango-001":  "LOW_STOCK",
		"eggs-001":   "OUT_OF_STOCK",
	} {
		a, err := s.Availability(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, a.Status, id)
	}
}

func TestSetStockRefreshesCachedList(t *testing.T) {
	s := newCatalog(t)
	ctx := context.Background()

	before, err := s.ListProducts(ctx, "dairy")
	require.NoError(t, err)
	require.NotEmpty(t, before)

	require.NoError(t, s.SetStock(ctx, "eggs-001", 12))
	after, err := s.ListProducts(ctx, "dairy")
	require.NoError(t, err)
	for _, p := range after {
		if p.ID == "eggs-001" {
			assert.Equal(t, 12, p.Stock)
		}
	}

	assert.ErrorIs(t, s.SetStock(ctx, "eggs-001", -1), services.ErrInvalidInput)
	assert.ErrorIs(t, s.SetStock(ctx, "missing", 1), domain.ErrNotFound)
}
