package service

import (
	"fmt"

	"github.com/erazemk/sredstva/internal/model"
)

// Authenticated fails with ErrUnauthorized unless actor is a signed-in,
// active user.
func Authenticated(actor *model.Actor) error {
	if actor == nil {
		return fmt.Errorf("%w: not signed in", ErrUnauthorized)
	}
	if !actor.Active {
		return fmt.Errorf("%w: account %s is inactive", ErrUnauthorized, actor.Email)
	}
	return nil
}

// Authorize fails with ErrUnauthorized unless actor is active and holds
// exactly the given role.
func Authorize(actor *model.Actor, role string) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	if actor.Role != role {
		return fmt.Errorf("%w: %s role required", ErrUnauthorized, role)
	}
	return nil
}
