package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gmart/internal/apperr"
	applog "gmart/internal/log"
	"gmart/internal/services"
)

type ProfileHandler struct {
	Profile *services.ProfileService
}

// GET /profile
func (h *ProfileHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	p, err := h.Profile.Load(ctx(c), u)
	if err != nil {
		applog.Error(c, "profile.load.fail", err, nil)
		return apperr.New(fiber.StatusInternalServerError, "Failed to load profile", err)
	}
	if p.Email == "" {
		p.Email = u.Email
	}
	return render(c, "profile", fiber.Map{"Profile": p, "Saved": c.Query("saved") == "1"})
}

// POST /profile
func (h *ProfileHandler) Save(c *fiber.Ctx) error {
	in := services.ProfileInput{
		FullName: c.FormValue("full_name"),
		Email:    c.FormValue("email"),
		Phone:    c.FormValue("phone"),
		Address:  c.FormValue("address"),
	}
	p, err := h.Profile.Save(ctx(c), currentUser(c), in)
	if err == nil {
		applog.Audit(c, "profile.save", nil)
		return c.Redirect("/profile?saved=1")
	}

	var fe *services.FieldError
	if errors.As(err, &fe) {
		applog.Security(c, "validation.fail", map[string]any{"field": fe.Field})
		p.FullName, p.Email, p.Phone, p.Address = in.FullName, in.Email, in.Phone, in.Address
		return render(c.Status(fiber.StatusBadRequest), "profile", fiber.Map{"Profile": p, "Err": fe.Message})
	}
	applog.Error(c, "profile.save.fail", err, nil)
	p.FullName, p.Email, p.Phone, p.Address = in.FullName, in.Email, in.Phone, in.Address
	return render(c.Status(fiber.StatusInternalServerError), "profile", fiber.Map{"Profile": p, "Err": "Failed to update profile"})
}
