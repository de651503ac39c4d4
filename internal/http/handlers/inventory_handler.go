package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gmart/internal/domain"
	"gmart/internal/services"
	"gmart/internal/validate"
)

type InventoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/availability?productId=
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID := strings.TrimSpace(c.Query("productId"))
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing productId",
		})
	}
	if _, ok := validate.ID(productID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid productId",
		})
	}

	avail, err := h.Catalog.Availability(ctx(c), productID)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown product"})
	}
	if err != nil {
		return err
	}
	return c.JSON(avail)
}
