package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/sredstva/internal/model"
)

// seedAsset creates a user, a category, a location and one asset using them.
func seedAsset(t *testing.T, database *sql.DB, tag string) (*model.User, *model.Asset) {
	t.Helper()
	ctx := context.Background()

	user, err := GetUserByEmail(ctx, database, "seed@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user == nil {
		user, err = CreateUser(ctx, database, "Seed User", "seed@example.com", "hash", model.RoleAdmin)
		if err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}

	cat, err := CreateCategory(ctx, database, "IT-"+tag)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	loc, err := CreateLocation(ctx, database, "Bldg A", "101")
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}

	asset, err := CreateAsset(ctx, database, AssetFields{
		Tag:        tag,
		Name:       "Dell OptiPlex",
		CategoryID: cat.ID,
		LocationID: loc.ID,
		Status:     model.AssetStatusNew,
	}, &user.ID)
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	return user, asset
}
