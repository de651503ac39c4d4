package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"gmart/internal/apperr"
	applog "gmart/internal/log"
	"gmart/internal/services"
	"gmart/internal/validate"
)

type AuthHandler struct {
	Auth         services.Authenticator
	SecureCookie bool
}

const badCreds = "Invalid email or password"

func (h *AuthHandler) setSID(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
		Expires:  expires,
	})
}

// GET /auth, GET /login
func (h *AuthHandler) Form(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/")
	}
	return render(c, "auth", fiber.Map{"Err": "", "Tab": c.Query("tab", "login")})
}

func (h *AuthHandler) fail(c *fiber.Ctx, status int, tab, msg string) error {
	return render(c.Status(status), "auth", fiber.Map{
		"Err":   msg,
		"Tab":   tab,
		"Email": c.FormValue("email"),
		"Name":  c.FormValue("name"),
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return h.fail(c, fiber.StatusUnauthorized, "login", badCreds)
	}

	s, err := h.Auth.SignIn(ctx(c), email, c.FormValue("password"))
	if errors.Is(err, services.ErrBadCreds) {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return h.fail(c, fiber.StatusUnauthorized, "login", badCreds)
	}
	if err != nil {
		applog.Error(c, "auth.login.error", err, nil)
		return h.fail(c, fiber.StatusInternalServerError, "login", apperr.GenericMessage)
	}

	h.setSID(c, s.Token, time.Time{})
	applog.Audit(c, "auth.login.success", map[string]any{"user_id": s.User.ID})
	return c.Redirect("/")
}

// POST /auth/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	pass := c.FormValue("password")
	if pass != c.FormValue("confirm") {
		return h.fail(c, fiber.StatusBadRequest, "signup", "Passwords do not match")
	}

	s, err := h.Auth.SignUp(ctx(c), c.FormValue("name"), c.FormValue("email"), pass)
	if err != nil {
		ae := apperr.From(err)
		if ae.Code >= fiber.StatusInternalServerError {
			applog.Error(c, "auth.signup.error", err, nil)
		} else {
			applog.Security(c, "auth.signup.fail", map[string]any{"reason": ae.Message})
		}
		return h.fail(c, ae.Code, "signup", ae.Message)
	}

	h.setSID(c, s.Token, time.Time{})
	applog.Audit(c, "auth.signup", map[string]any{"user_id": s.User.ID})
	return c.Redirect("/")
}

// POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		if err := h.Auth.SignOut(ctx(c), sid); err != nil {
			applog.Error(c, "auth.logout.error", err, nil)
		}
	}
	h.setSID(c, "", time.Now().Add(-1*time.Hour))
	applog.Audit(c, "auth.logout", nil)
	return c.Redirect("/")
}
