package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated = errors.New("sign in required")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrOutOfStock       = errors.New("product is out of stock")
	ErrInvalidInput     = errors.New("invalid input")
	ErrBadCreds         = errors.New("invalid email or password")
	ErrEmailTaken       = errors.New("email already registered")
)

// FieldError reports which form field failed validation. It matches
// ErrInvalidInput with errors.Is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

func (e *FieldError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(field, msg string) error { return &FieldError{Field: field, Message: msg} }
