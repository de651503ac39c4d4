package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gmart/internal/apperr"
	applog "gmart/internal/log"
)

// ErrorHandler is the app-wide fiber error handler. It never shows internal
// error text.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	var ae *apperr.Error
	if errors.As(err, &fe) {
		ae = apperr.New(fe.Code, http.StatusText(fe.Code), err)
		if fe.Code == fiber.StatusNotFound {
			ae.Message = "Page not found"
		}
	} else {
		ae = apperr.From(err)
	}
	if ae.Code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
		ae.Message = apperr.GenericMessage
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(ae.Code).JSON(fiber.Map{"error": ae.Message})
	}
	tmpl := "error"
	if ae.Code == fiber.StatusNotFound {
		tmpl = "notfound"
	}
	if rerr := render(c.Status(ae.Code), tmpl, fiber.Map{"Message": ae.Message, "Status": ae.Code}); rerr != nil {
		return c.Status(ae.Code).SendString(ae.Message)
	}
	return nil
}
