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

type CartHandler struct {
	Cart *services.CartService
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return render(c, "cart", fiber.Map{"SignIn": true})
	}
	cart, err := h.Cart.View(ctx(c), u)
	if err != nil {
		applog.Error(c, "cart.load.fail", err, nil)
		return render(c.Status(fiber.StatusInternalServerError), "cart", fiber.Map{"Cart": services.Cart{}, "Err": apperr.GenericMessage})
	}
	return render(c, "cart", fiber.Map{"Cart": cart})
}

// mutated renders the cart after a write. On failure it shows the prior
// snapshot the mutation returned, with a message.
func (h *CartHandler) mutated(c *fiber.Ctx, action string, m services.Mutation, err error) error {
	if err == nil {
		return c.Redirect("/cart")
	}
	status := fiber.StatusInternalServerError
	ae := apperr.From(err)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, services.ErrOutOfStock), errors.Is(err, services.ErrInvalidInput):
		status = ae.Code
	default:
		applog.Error(c, action+".fail", err, nil)
		ae.Message = apperr.GenericMessage
	}
	return render(c.Status(status), "cart", fiber.Map{"Cart": m.Current, "Err": ae.Message})
}

// POST /cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/auth")
	}
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))

	m, err := h.Cart.Add(ctx(c), u, productID, qty)
	if err == nil {
		applog.Info(c, "cart.add", map[string]any{"product_id": productID, "qty": qty})
	}
	return h.mutated(c, "cart.add", m, err)
}

// POST /cart/:lineId/quantity with qty=n or op=inc|dec
func (h *CartHandler) Quantity(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/auth")
	}
	lineID, ok := validate.ID(c.Params("lineId"))
	if !ok {
		return notFound(c, "That item is no longer in your cart")
	}

	var (
		m   services.Mutation
		err error
	)
	switch c.FormValue("op") {
	case "inc":
		m, err = h.Cart.Step(ctx(c), u, lineID, +1)
	case "dec":
		m, err = h.Cart.Step(ctx(c), u, lineID, -1)
	default:
		m, err = h.Cart.SetQuantity(ctx(c), u, lineID, validate.Qty(c.FormValue("qty")))
	}
	return h.mutated(c, "cart.quantity", m, err)
}

// POST /cart/:lineId/delete
func (h *CartHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/auth")
	}
	lineID, ok := validate.ID(c.Params("lineId"))
	if !ok {
		return c.Redirect("/cart")
	}
	m, err := h.Cart.Remove(ctx(c), u, lineID)
	return h.mutated(c, "cart.remove", m, err)
}

// GET /api/v1/cart
func (h *CartHandler) API(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "sign in required"})
	}
	cart, err := h.Cart.View(ctx(c), u)
	if err != nil {
		return err
	}
	return c.JSON(cart)
}
