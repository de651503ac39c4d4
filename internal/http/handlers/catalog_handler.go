package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gmart/internal/domain"
	applog "gmart/internal/log"
	"gmart/internal/services"
	"gmart/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// GET /
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.HomeCategories(ctx(c))
	if err != nil {
		return err
	}
	featured, err := h.Catalog.Featured(ctx(c))
	if err != nil {
		return err
	}
	return render(c, "home", fiber.Map{"Categories": cats, "Featured": featured})
}

// GET /categories
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(ctx(c))
	if err != nil {
		return err
	}
	return render(c, "categories", fiber.Map{"Categories": cats})
}

// listingParams reads ?q= and ?sort=. Any term filters; one that matches
// nothing gives the no-results message.
func listingParams(c *fiber.Ctx) (string, services.SortKey) {
	return validate.Q(c.Query("q")), services.ParseSortKey(c.Query("sort"))
}

// GET /categories/:id
func (h *CatalogHandler) Category(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Category not found")
	}
	cat, err := h.Catalog.GetCategory(ctx(c), id)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c, "Category not found")
	}
	if err != nil {
		return err
	}

	q, sort := listingParams(c)
	listing, err := h.Catalog.Browse(ctx(c), cat.ID, q, sort)
	if err != nil {
		return err
	}
	return render(c, "category", fiber.Map{
		"Category":    cat,
		"Listing":     listing,
		"SortOptions": sortOptions,
	})
}

// GET /search
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	q, sort := listingParams(c)
	listing, err := h.Catalog.Browse(ctx(c), "", q, sort)
	if err != nil {
		applog.Error(c, "search.error", err, nil)
		return err
	}
	return render(c, "search", fiber.Map{"Listing": listing, "SortOptions": sortOptions})
}

// GET /api/v1/products?category=&q=&sort=
func (h *CatalogHandler) ProductsAPI(c *fiber.Ctx) error {
	catID := c.Query("category")
	if catID != "" {
		if _, ok := validate.ID(catID); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category"})
		}
	}
	listing, err := h.Catalog.Browse(ctx(c), catID, validate.Q(c.Query("q")), services.ParseSortKey(c.Query("sort")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"products": listing.Products,
		"count":    len(listing.Products),
		"sort":     listing.Sort,
		"message":  listing.Message,
	})
}

type sortOption struct {
	Key   services.SortKey
	Label string
}

var sortOptions = []sortOption{
	{services.SortName, "Name"},
	{services.SortPriceLow, "Price: Low to High"},
	{services.SortPriceHigh, "Price: High to Low"},
}
