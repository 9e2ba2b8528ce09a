package store

import (
	"context"
	"testing"

	"github.com/erazemk/sredstva/internal/db"
	"github.com/erazemk/sredstva/internal/model"
)

func TestCreateAndGetAsset(t *testing.T) {
	database := db.NewTestDB(t)

	user, asset := seedAsset(t, database, "PC-001")

	if asset.Tag != "PC-001" {
		t.Errorf("expected tag 'PC-001', got %q", asset.Tag)
	}
	if asset.Status != model.AssetStatusNew {
		t.Errorf("expected status 'new', got %q", asset.Status)
	}
	if asset.CreatedBy == nil || *asset.CreatedBy != user.ID {
		t.Errorf("expected created_by %d, got %v", user.ID, asset.CreatedBy)
	}
	if asset.LocationLabel != "Bldg A/101" {
		t.Errorf("expected location label 'Bldg A/101', got %q", asset.LocationLabel)
	}
	if asset.CategoryName != "IT-PC-001" {
		t.Errorf("expected category name 'IT-PC-001', got %q", asset.CategoryName)
	}
	if asset.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestDuplicateAssetTag(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, asset := seedAsset(t, database, "PC-001")

	_, err := CreateAsset(ctx, database, AssetFields{
		Tag:        "PC-001",
		Name:       "Another",
		CategoryID: asset.CategoryID,
		LocationID: asset.LocationID,
		Status:     model.AssetStatusNew,
	}, nil)
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	// Tags are compared exactly.
	if _, err := CreateAsset(ctx, database, AssetFields{
		Tag:        "pc-001",
		Name:       "Lowercase",
		CategoryID: asset.CategoryID,
		LocationID: asset.LocationID,
		Status:     model.AssetStatusNew,
	}, nil); err != nil {
		t.Fatalf("expected different-case tag to be accepted: %v", err)
	}
}

func TestDeletedAssetFreesTag(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, asset := seedAsset(t, database, "PC-001")

	ok, err := DeleteAsset(ctx, database, asset.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteAsset: ok=%v err=%v", ok, err)
	}

	ok, _ = DeleteAsset(ctx, database, asset.ID)
	if ok {
		t.Error("expected second delete to affect nothing")
	}

	if got, _ := GetAssetByTag(ctx, database, "PC-001"); got != nil {
		t.Error("expected deleted asset to be invisible to tag lookup")
	}

	deleted, _ := GetAsset(ctx, database, asset.ID)
	if deleted == nil || deleted.DeletedAt == nil {
		t.Fatal("expected deleted asset to keep its row with deleted_at set")
	}

	if _, err := CreateAsset(ctx, database, AssetFields{
		Tag:        "PC-001",
		Name:       "Replacement",
		CategoryID: asset.CategoryID,
		LocationID: asset.LocationID,
		Status:     model.AssetStatusNew,
	}, nil); err != nil {
		t.Fatalf("expected tag to be reusable after delete: %v", err)
	}
}

func TestListAssetsFilter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, first := seedAsset(t, database, "PC-001")
	_, second := seedAsset(t, database, "NB_100")

	all, err := ListAssets(ctx, database, AssetFilter{})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(all))
	}
	if all[0].ID != second.ID {
		t.Errorf("expected newest asset first, got id %d", all[0].ID)
	}

	// Underscore is a literal, not a LIKE wildcard.
	matched, _ := ListAssets(ctx, database, AssetFilter{Query: "B_1"})
	if len(matched) != 1 || matched[0].ID != second.ID {
		t.Errorf("expected only NB_100 to match 'B_1', got %d results", len(matched))
	}
	matched, _ = ListAssets(ctx, database, AssetFilter{Query: "C-0"})
	if len(matched) != 1 || matched[0].ID != first.ID {
		t.Errorf("expected only PC-001 to match 'C-0', got %d results", len(matched))
	}

	byCategory, _ := ListAssets(ctx, database, AssetFilter{CategoryID: first.CategoryID})
	if len(byCategory) != 1 || byCategory[0].ID != first.ID {
		t.Errorf("expected category filter to return PC-001 only, got %d results", len(byCategory))
	}

	byLocation, _ := ListAssets(ctx, database, AssetFilter{LocationID: second.LocationID})
	if len(byLocation) != 1 || byLocation[0].ID != second.ID {
		t.Errorf("expected location filter to return NB_100 only, got %d results", len(byLocation))
	}
}

func TestUpdateAsset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, asset := seedAsset(t, database, "PC-001")

	ok, err := UpdateAsset(ctx, database, asset.ID, AssetFields{
		Tag:        "PC-002",
		Name:       "Renamed",
		CategoryID: asset.CategoryID,
		LocationID: asset.LocationID,
		Status:     model.AssetStatusRepair,
	})
	if err != nil || !ok {
		t.Fatalf("UpdateAsset: ok=%v err=%v", ok, err)
	}

	got, _ := GetAsset(ctx, database, asset.ID)
	if got.Tag != "PC-002" || got.Name != "Renamed" || got.Status != model.AssetStatusRepair {
		t.Errorf("unexpected asset after update: %+v", got)
	}

	n, _ := CountAssets(ctx, database)
	if n != 1 {
		t.Errorf("expected 1 asset, got %d", n)
	}
}
