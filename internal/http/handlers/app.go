package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"gmart/internal/config"
	applog "gmart/internal/log"
	"gmart/internal/services"
)

// NewApp builds the storefront: views, middleware and every route.
func NewApp(cfg config.Config, deps *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        NewViews(cfg.TemplatesDir, !cfg.Production()),
		ErrorHandler: ErrorHandler,
		BodyLimit:    1 << 20,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	if !cfg.Production() {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	app.Use(CurrentUser(deps.Auth, deps.Cart))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return render(c.Status(fiber.StatusForbidden), "notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	app.Static("/static", cfg.StaticDir)

	// ---------- Pages ----------
	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/categories", deps.CatalogHandler.Categories)
	app.Get("/categories/:id", deps.CatalogHandler.Category)
	app.Get("/search", deps.CatalogHandler.Search)
	app.Get("/products/:id", deps.ProductHandler.Detail)
	app.Post("/products/:id/reviews", deps.ProductHandler.SubmitReview)
	app.Get("/contact", func(c *fiber.Ctx) error { return render(c, "contact", nil) })

	// ---------- Cart & Orders ----------
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/:lineId/quantity", deps.CartHandler.Quantity)
	app.Post("/cart/:lineId/delete", deps.CartHandler.Delete)
	app.Get("/checkout", deps.OrderHandler.Checkout)
	app.Post("/orders", deps.OrderHandler.Place)
	app.Get("/orders", RequireUser(), deps.OrderHandler.History)
	app.Get("/order-confirmation/:id", deps.OrderHandler.Confirmation)

	app.Get("/profile", RequireUser(), deps.ProfileHandler.View)
	app.Post("/profile", RequireUser(), deps.ProfileHandler.Save)

	// ---------- Auth (login throttled) ----------
	app.Get("/auth", deps.AuthHandler.Form)
	app.Get("/login", deps.AuthHandler.Form)
	app.Post("/auth/login", limiter.New(limiter.Config{
		Max:        cfg.LoginLimit,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return render(c.Status(fiber.StatusTooManyRequests), "auth", fiber.Map{"Err": "Too many attempts. Please try again later.", "Tab": "login"})
		},
	}), deps.AuthHandler.Login)
	app.Post("/auth/signup", deps.AuthHandler.Signup)
	app.Post("/logout", deps.AuthHandler.Logout)

	// ---------- API ----------
	api := app.Group("/api/v1")
	api.Get("/cart", deps.CartHandler.API)
	api.Get("/products", deps.CatalogHandler.ProductsAPI)
	api.Get("/availability", limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), deps.InventoryHandler.Check)

	// ---------- Admin ----------
	admin := app.Group("/admin", RequireAdmin())
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Get("/orders", deps.AdminHandler.OrdersPage)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Get("/stock", deps.AdminHandler.StockPage)
	admin.Post("/stock", deps.AdminHandler.UpdateStock)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return notFound(c, "Page not found")
	})

	return app
}

// NewViews loads the page templates with the helpers they call.
func NewViews(dir string, reload bool) *html.Engine {
	engine := html.New(dir, ".html")
	engine.Reload(reload)
	engine.AddFunc("stars", stars)
	engine.AddFunc("paymentLabel", func(m string) string { return services.PaymentMethod(m).Label() })
	return engine
}

// stars renders a 0-5 rating as filled and empty stars.
func stars(v any) string {
	var n int
	switch r := v.(type) {
	case int:
		n = r
	case float64:
		n = int(r + 0.5)
	}
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
