package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/sredstva/internal/db"
	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/store"
)

func init() {
	passwordCost = bcrypt.MinCost
}

// fixture holds a database with one admin, one staff user, a category and
// a location.
type fixture struct {
	db        *sql.DB
	admin     *model.Actor
	staff     *model.Actor
	category  *model.Category
	location  *model.Location
	assets    *Assets
	checkouts *Checkouts
	tickets   *Tickets
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	database := db.NewTestDB(t)

	admin, err := store.CreateUser(ctx, database, "Admin", "admin@example.com", "hash", model.RoleAdmin)
	require.NoError(t, err)
	staff, err := store.CreateUser(ctx, database, "Staff", "staff@example.com", "hash", model.RoleStaff)
	require.NoError(t, err)
	cat, err := store.CreateCategory(ctx, database, "IT")
	require.NoError(t, err)
	loc, err := store.CreateLocation(ctx, database, "Bldg A", "101")
	require.NoError(t, err)

	f := &fixture{
		db:        database,
		admin:     admin.Actor(),
		staff:     staff.Actor(),
		category:  cat,
		location:  loc,
		assets:    NewAssets(database),
		checkouts: NewCheckouts(database),
		tickets:   NewTickets(database),
		clock:     time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}
	f.checkouts.now = func() time.Time { return f.clock }
	f.tickets.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) asset(t *testing.T, tag string) *model.Asset {
	t.Helper()
	a, err := f.assets.Create(context.Background(), f.admin, AssetInput{
		Tag:        tag,
		Name:       "Dell OptiPlex",
		CategoryID: f.category.ID,
		LocationID: f.location.ID,
	})
	require.NoError(t, err)
	return a
}
