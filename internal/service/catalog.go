package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/store"
)

// MaxCatalogNameLength bounds category names, buildings and rooms.
const MaxCatalogNameLength = 120

// Catalog manages categories and locations.
type Catalog struct {
	db *sql.DB
}

// NewCatalog returns a Catalog backed by db.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

func catalogName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || utf8.RuneCountInString(value) > MaxCatalogNameLength {
		return "", validationf("%s must be between 1 and %d characters", field, MaxCatalogNameLength)
	}
	return value, nil
}

// CreateCategory adds a category. Names are unique.
func (c *Catalog) CreateCategory(ctx context.Context, actor *model.Actor, name string) (*model.Category, error) {
	if err := Authorize(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	name, err := catalogName("name", name)
	if err != nil {
		return nil, err
	}

	cat, err := store.CreateCategory(ctx, c.db, name)
	if store.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	}
	return cat, err
}

// ListCategories returns all categories ordered by name.
func (c *Catalog) ListCategories(ctx context.Context, actor *model.Actor) ([]model.Category, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	return store.ListCategories(ctx, c.db)
}

// CreateLocation adds a location.
func (c *Catalog) CreateLocation(ctx context.Context, actor *model.Actor, building, room string) (*model.Location, error) {
	if err := Authorize(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	building, err := catalogName("building", building)
	if err != nil {
		return nil, err
	}
	room, err = catalogName("room", room)
	if err != nil {
		return nil, err
	}
	return store.CreateLocation(ctx, c.db, building, room)
}

// ListLocations returns all locations ordered by building, then room.
func (c *Catalog) ListLocations(ctx context.Context, actor *model.Actor) ([]model.Location, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	return store.ListLocations(ctx, c.db)
}
