package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gmart/internal/apperr"
	"gmart/internal/domain"
	applog "gmart/internal/log"
	"gmart/internal/services"
)

type OrderHandler struct {
	Cart    *services.CartService
	Order   *services.OrderService
	Profile *services.ProfileService
}

// GET /checkout
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return render(c, "checkout", fiber.Map{"SignIn": true})
	}
	cart, err := h.Cart.View(ctx(c), u)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return err
	}
	if cart.Empty() {
		return render(c, "checkout", fiber.Map{"EmptyCart": true})
	}
	return render(c, "checkout", fiber.Map{
		"Cart":     cart,
		"Form":     h.prefill(c, u),
		"Payments": services.PaymentMethods,
	})
}

// prefill seeds the delivery form from the profile, if there is one.
func (h *OrderHandler) prefill(c *fiber.Ctx, u *domain.User) services.Delivery {
	d := services.Delivery{FullName: u.Name, Email: u.Email, Payment: services.PaymentCard}
	if h.Profile == nil {
		return d
	}
	p, err := h.Profile.Load(ctx(c), u)
	if err != nil {
		return d
	}
	if p.FullName != "" {
		d.FullName = p.FullName
	}
	if p.Email != "" {
		d.Email = p.Email
	}
	d.Phone = p.Phone
	d.Address = p.Address
	return d
}

func deliveryForm(c *fiber.Ctx) services.Delivery {
	return services.Delivery{
		FullName: c.FormValue("full_name"),
		Email:    c.FormValue("email"),
		Phone:    c.FormValue("phone"),
		Address:  c.FormValue("address"),
		City:     c.FormValue("city"),
		ZIP:      c.FormValue("zip"),
		Payment:  services.PaymentMethod(c.FormValue("payment_method")),
	}
}

// POST /orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/auth")
	}
	d := deliveryForm(c)

	res, err := h.Order.Place(ctx(c), u, d)
	if err != nil {
		var fe *services.FieldError
		switch {
		case errors.As(err, &fe):
			applog.Security(c, "validation.fail", map[string]any{"field": fe.Field})
			return h.formError(c, d, fiber.StatusBadRequest, fe.Message)
		case errors.Is(err, services.ErrEmptyCart):
			return render(c.Status(fiber.StatusBadRequest), "checkout", fiber.Map{"EmptyCart": true})
		}
		applog.Error(c, "order.place.fail", err, nil)
		return h.formError(c, d, fiber.StatusInternalServerError, "Failed to place order. Please try again.")
	}

	if !res.CartCleared {
		applog.Error(c, "order.cart.clear.fail", res.ClearErr, map[string]any{"order_id": res.Order.ID})
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": res.Order.ID,
		"total":    res.Order.TotalAmount.StringFixed(2),
		"items":    len(res.Items),
		"payment":  res.Order.PaymentMethod,
	})
	return c.Redirect("/order-confirmation/" + res.Order.ID)
}

func (h *OrderHandler) formError(c *fiber.Ctx, d services.Delivery, status int, msg string) error {
	cart, err := h.Cart.View(ctx(c), currentUser(c))
	if err != nil {
		return err
	}
	return render(c.Status(status), "checkout", fiber.Map{
		"Cart":     cart,
		"Form":     d,
		"Payments": services.PaymentMethods,
		"Err":      msg,
	})
}

// GET /order-confirmation/:id
func (h *OrderHandler) Confirmation(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/auth")
	}
	o, items, err := h.Order.Get(ctx(c), u, c.Params("id"))
	if errors.Is(err, domain.ErrNotFound) {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": c.Params("id")})
		return notFound(c, "Order not found")
	}
	if err != nil {
		applog.Error(c, "order.load.fail", err, nil)
		return apperr.New(fiber.StatusInternalServerError, "Failed to load order details", err)
	}
	return render(c, "order_confirmation", fiber.Map{
		"Order":   o,
		"Items":   items,
		"Payment": services.PaymentMethod(o.PaymentMethod).Label(),
	})
}

// GET /orders
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Order.History(ctx(c), currentUser(c))
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return err
	}
	return render(c, "orders", fiber.Map{"Orders": orders})
}
