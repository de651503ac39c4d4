package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "gmart/internal/log"
	"gmart/internal/services"
)

// CurrentUser resolves the sid cookie and, for a signed-in user, stores the
// user and the cart badge count on the request. Anonymous requests never
// touch the cart.
func CurrentUser(auth services.Authenticator, cart *services.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Next()
		}
		u, err := auth.CurrentUser(c.UserContext(), sid)
		if err != nil {
			applog.Error(c, "auth.session.lookup", err, nil)
			return c.Next()
		}
		if u == nil {
			return c.Next()
		}
		c.Locals("user", u)
		c.SetUserContext(services.WithSessionToken(c.UserContext(), sid))
		if cart != nil && c.Method() == fiber.MethodGet {
			c.Locals("cartCount", cart.Count(c.UserContext(), u))
		}
		return c.Next()
	}
}

// RequireUser sends anonymous visitors to the sign-in page.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			return c.Redirect("/auth")
		}
		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return c.Redirect("/auth")
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", nil)
			return render(c.Status(fiber.StatusForbidden), "notfound", fiber.Map{"Message": "Access denied"})
		}
		return c.Next()
	}
}
