// Package service implements the asset registry, the checkout and ticket
// lifecycles and the role gate in front of them. Every mutation enters the
// system through this package.
package service

import (
	"errors"
	"fmt"
)

// Error kinds. Failures wrap one of these, so callers match with errors.Is.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidReference  = errors.New("invalid reference")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid transition")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string, id int64) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
}

func invalidReference(what string, id int64) error {
	return fmt.Errorf("%w: %s %d does not exist", ErrInvalidReference, what, id)
}
