// Package apperr carries an HTTP status and a user-safe message alongside
// the underlying error.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gmart/internal/domain"
	"gmart/internal/services"
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

const GenericMessage = "Something went wrong. Please try again."

// From classifies err. Field messages of validation errors are safe to show;
// anything unclassified becomes a 500 with the generic message.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var fe *services.FieldError
	switch {
	case errors.As(err, &fe):
		return New(http.StatusBadRequest, fe.Message, err)
	case errors.Is(err, services.ErrInvalidInput):
		return New(http.StatusBadRequest, "Invalid input", err)
	case errors.Is(err, domain.ErrNotFound):
		return New(http.StatusNotFound, "Not found", err)
	case errors.Is(err, services.ErrNotAuthenticated):
		return New(http.StatusUnauthorized, "Please sign in to continue", err)
	case errors.Is(err, services.ErrEmptyCart):
		return New(http.StatusBadRequest, "Your cart is empty", err)
	case errors.Is(err, services.ErrOutOfStock):
		return New(http.StatusConflict, "This product is out of stock", err)
	case errors.Is(err, services.ErrBadCreds):
		return New(http.StatusUnauthorized, "Invalid email or password", err)
	case errors.Is(err, services.ErrEmailTaken):
		return New(http.StatusConflict, "An account with this email already exists", err)
	}
	return New(http.StatusInternalServerError, GenericMessage, err)
}
