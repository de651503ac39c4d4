package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gmart/internal/apperr"
	"gmart/internal/domain"
	applog "gmart/internal/log"
	"gmart/internal/services"
	"gmart/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Reviews *services.ReviewService
}

const productGone = "This item is no longer available"

// GET /products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, productGone)
	}
	return h.page(c, id, fiber.StatusOK, fiber.Map{})
}

func (h *ProductHandler) page(c *fiber.Ctx, id string, status int, data fiber.Map) error {
	p, err := h.Catalog.GetProduct(ctx(c), id)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c, productGone)
	}
	if err != nil {
		return err
	}
	reviews, err := h.Reviews.List(ctx(c), id)
	if err != nil {
		return err
	}
	data["P"] = p
	data["Reviews"] = reviews
	data["Mine"] = services.Mine(reviews, currentUser(c))
	return render(c.Status(status), "product", data)
}

// POST /products/:id/reviews
func (h *ProductHandler) SubmitReview(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, productGone)
	}
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/auth")
	}

	rating, _ := validate.Rating(c.FormValue("rating"))
	p, err := h.Reviews.Submit(ctx(c), u, id, rating, c.FormValue("comment"))
	switch {
	case err == nil:
		h.Catalog.InvalidateProducts(ctx(c), p.CategoryID)
		applog.Audit(c, "review.submit", map[string]any{"product_id": id, "rating": rating, "review_count": p.ReviewCount})
		return c.Redirect("/products/" + id + "#reviews")
	case errors.Is(err, services.ErrInvalidInput):
		applog.Security(c, "validation.fail", map[string]any{"field": "review"})
		return h.page(c, id, fiber.StatusBadRequest, fiber.Map{"ReviewErr": apperr.From(err).Message})
	case errors.Is(err, domain.ErrNotFound):
		return notFound(c, productGone)
	}
	applog.Error(c, "review.submit.fail", err, map[string]any{"product_id": id})
	return h.page(c, id, fiber.StatusInternalServerError, fiber.Map{"ReviewErr": apperr.GenericMessage})
}
