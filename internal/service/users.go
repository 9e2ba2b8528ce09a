package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/store"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email, a
// wrong password or a disabled account.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)

// passwordCost is the bcrypt cost for new hashes.
var passwordCost = bcrypt.DefaultCost

// UserInput describes a new account.
type UserInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Users manages accounts and credentials.
type Users struct {
	db *sql.DB
}

// NewUsers returns a Users backed by db.
func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *Users) create(ctx context.Context, in UserInput) (*model.User, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" || utf8.RuneCountInString(name) > model.MaxNameLength {
		return nil, validationf("full_name must be between 1 and %d characters", model.MaxNameLength)
	}
	email := model.NormalizeEmail(in.Email)
	if err := model.ValidateEmail(email); err != nil {
		return nil, validationf("%v", err)
	}
	if err := model.ValidatePassword(in.Password); err != nil {
		return nil, validationf("%v", err)
	}
	if !model.ValidRole(in.Role) {
		return nil, validationf("unknown role %q", in.Role)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := store.CreateUser(ctx, s.db, name, email, hash, in.Role)
	if store.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: email %s is already registered", ErrConflict, email)
	}
	return user, err
}

// Register creates an active staff account for a new user.
func (s *Users) Register(ctx context.Context, fullName, email, password string) (*model.User, error) {
	return s.create(ctx, UserInput{
		FullName: fullName,
		Email:    email,
		Password: password,
		Role:     model.RoleStaff,
	})
}

// Create adds an account with any role.
func (s *Users) Create(ctx context.Context, actor *model.Actor, in UserInput) (*model.User, error) {
	if err := Authorize(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.create(ctx, in)
}

// List returns all accounts.
func (s *Users) List(ctx context.Context, actor *model.Actor) ([]model.User, error) {
	if err := Authorize(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	return store.ListUsers(ctx, s.db)
}

// Update sets a user's role and active flag. The last active admin cannot
// be demoted or deactivated.
func (s *Users) Update(ctx context.Context, actor *model.Actor, id int64, role string, active bool) (*model.User, error) {
	if err := Authorize(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if !model.ValidRole(role) {
		return nil, validationf("unknown role %q", role)
	}

	var user *model.User
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		current, err := store.GetUser(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil || current.DeletedAt != nil {
			return notFound("user", id)
		}

		if current.Role == model.RoleAdmin && current.Active && (role != model.RoleAdmin || !active) {
			admins, err := store.CountAdmins(ctx, tx)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return fmt.Errorf("%w: cannot remove the last admin", ErrConflict)
			}
		}

		if _, err := store.UpdateUser(ctx, tx, id, role, active); err != nil {
			return err
		}
		user, err = store.GetUser(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete soft-deletes a user. Admins cannot delete themselves, and the last
// active admin cannot be deleted. Checkouts and tickets keep referring to
// the deleted account.
func (s *Users) Delete(ctx context.Context, actor *model.Actor, id int64) error {
	if err := Authorize(actor, model.RoleAdmin); err != nil {
		return err
	}
	if actor.UserID == id {
		return validationf("cannot delete yourself")
	}

	return store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		current, err := store.GetUser(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil || current.DeletedAt != nil {
			return notFound("user", id)
		}

		if current.Role == model.RoleAdmin && current.Active {
			admins, err := store.CountAdmins(ctx, tx)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return fmt.Errorf("%w: cannot remove the last admin", ErrConflict)
			}
		}

		ok, err := store.DeleteUser(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("user", id)
		}
		return nil
	})
}

// Authenticate checks an email and password pair and returns the account.
func (s *Users) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := store.GetUserByEmail(ctx, s.db, model.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Actor().Active {
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("comparing password: %w", err)
	}
	return user, nil
}

// ChangePassword replaces actor's password after checking the current one.
func (s *Users) ChangePassword(ctx context.Context, actor *model.Actor, current, next string) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	if err := model.ValidatePassword(next); err != nil {
		return validationf("%v", err)
	}

	user, err := store.GetUser(ctx, s.db, actor.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return notFound("user", actor.UserID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return store.UpdateUserPassword(ctx, s.db, actor.UserID, hash)
}
