package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "gmart/internal/log"
	"gmart/internal/services"
	"gmart/internal/validate"
)

type AdminHandler struct {
	Order   *services.OrderService
	Catalog *services.CatalogService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return c.Redirect("/admin/orders")
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Order.Latest(ctx(c), 100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return err
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing id")
	}
	status := c.FormValue("status")
	if err := h.Order.SetStatus(ctx(c), id, status); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(fiber.StatusBadRequest).SendString("could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders")
}

// GET /admin/stock
func (h *AdminHandler) StockPage(c *fiber.Ctx) error {
	products, err := h.Catalog.ListProducts(ctx(c), "")
	if err != nil {
		applog.Error(c, "admin.stock.list.fail", err, nil)
		return err
	}
	return render(c, "admin_stock", fiber.Map{"Products": products})
}

// POST /admin/stock
func (h *AdminHandler) UpdateStock(c *fiber.Ctx) error {
	pid := c.FormValue("product_id")
	qty, err := strconv.Atoi(c.FormValue("stock"))
	if _, okID := validate.ID(pid); !okID || err != nil || qty < 0 {
		applog.Security(c, "validation.fail", map[string]any{"field": "stock"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}
	if err := h.Catalog.SetStock(ctx(c), pid, qty); err != nil {
		applog.Error(c, "admin.stock.save.fail", err, map[string]any{"product": pid, "stock": qty})
		return c.Status(fiber.StatusBadRequest).SendString("could not save stock")
	}
	applog.Audit(c, "admin.stock.save", map[string]any{"product": pid, "stock": qty})
	return c.Redirect("/admin/stock")
}
