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

// AssetInput is the editable part of an asset.
type AssetInput struct {
	Tag        string `json:"asset_tag"`
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`
	LocationID int64  `json:"location_id"`
	Status     string `json:"status"`
}

// normalize trims the input and checks field limits. An empty status
// becomes fallback.
func (in AssetInput) normalize(fallback string) (store.AssetFields, error) {
	f := store.AssetFields{
		Tag:        strings.TrimSpace(in.Tag),
		Name:       strings.TrimSpace(in.Name),
		CategoryID: in.CategoryID,
		LocationID: in.LocationID,
		Status:     strings.TrimSpace(in.Status),
	}

	if f.Tag == "" || utf8.RuneCountInString(f.Tag) > model.MaxAssetTagLength {
		return f, validationf("asset_tag must be between 1 and %d characters", model.MaxAssetTagLength)
	}
	if f.Name == "" || utf8.RuneCountInString(f.Name) > model.MaxAssetNameLength {
		return f, validationf("name must be between 1 and %d characters", model.MaxAssetNameLength)
	}
	if f.CategoryID <= 0 {
		return f, validationf("category_id is required")
	}
	if f.LocationID <= 0 {
		return f, validationf("location_id is required")
	}
	if f.Status == "" {
		f.Status = fallback
	}
	if !model.ValidAssetStatus(f.Status) {
		return f, validationf("unknown asset status %q", f.Status)
	}
	return f, nil
}

// Assets is the asset registry.
type Assets struct {
	db *sql.DB
}

// NewAssets returns an asset registry backed by db.
func NewAssets(db *sql.DB) *Assets {
	return &Assets{db: db}
}

// checkReferences verifies that the category and location exist.
func checkReferences(ctx context.Context, tx store.DBTX, f store.AssetFields) error {
	cat, err := store.GetCategory(ctx, tx, f.CategoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return invalidReference("category", f.CategoryID)
	}

	loc, err := store.GetLocation(ctx, tx, f.LocationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return invalidReference("location", f.LocationID)
	}
	return nil
}

func tagConflict(tag string) error {
	return fmt.Errorf("%w: asset tag %q already exists", ErrConflict, tag)
}

// liveAsset loads an asset and fails with ErrNotFound if it is missing or deleted.
func liveAsset(ctx context.Context, db store.DBTX, id int64) (*model.Asset, error) {
	a, err := store.GetAsset(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if a == nil || a.DeletedAt != nil {
		return nil, notFound("asset", id)
	}
	return a, nil
}

// Create registers a new asset owned by actor. Status defaults to new.
func (s *Assets) Create(ctx context.Context, actor *model.Actor, in AssetInput) (*model.Asset, error) {
	if err := Authorize(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	f, err := in.normalize(model.AssetStatusNew)
	if err != nil {
		return nil, err
	}

	var asset *model.Asset
	err = store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, f); err != nil {
			return err
		}

		existing, err := store.GetAssetByTag(ctx, tx, f.Tag)
		if err != nil {
			return err
		}
		if existing != nil {
			return tagConflict(f.Tag)
		}

		createdBy := actor.UserID
		asset, err = store.CreateAsset(ctx, tx, f, &createdBy)
		if store.IsUniqueViolation(err) {
			return tagConflict(f.Tag)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// Update replaces an asset's editable fields. An empty status keeps the
// current one.
func (s *Assets) Update(ctx context.Context, actor *model.Actor, id int64, in AssetInput) (*model.Asset, error) {
	if err := Authorize(actor, model.RoleAdmin); err != nil {
		return nil, err
	}

	var asset *model.Asset
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		current, err := liveAsset(ctx, tx, id)
		if err != nil {
			return err
		}

		f, err := in.normalize(current.Status)
		if err != nil {
			return err
		}
		if err := checkReferences(ctx, tx, f); err != nil {
			return err
		}

		if f.Tag != current.Tag {
			other, err := store.GetAssetByTag(ctx, tx, f.Tag)
			if err != nil {
				return err
			}
			if other != nil && other.ID != id {
				return tagConflict(f.Tag)
			}
		}

		if _, err := store.UpdateAsset(ctx, tx, id, f); err != nil {
			if store.IsUniqueViolation(err) {
				return tagConflict(f.Tag)
			}
			return err
		}

		asset, err = store.GetAsset(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// Delete soft-deletes an asset. Assets with a requested or approved
// checkout cannot be deleted. Checkouts and tickets are kept as history.
func (s *Assets) Delete(ctx context.Context, actor *model.Actor, id int64) error {
	if err := Authorize(actor, model.RoleAdmin); err != nil {
		return err
	}

	return store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := liveAsset(ctx, tx, id); err != nil {
			return err
		}

		active, err := store.ActiveCheckoutForAsset(ctx, tx, id)
		if err != nil {
			return err
		}
		if active != nil {
			return fmt.Errorf("%w: asset %d has %s checkout %d", ErrConflict, id, active.Status, active.ID)
		}

		ok, err := store.DeleteAsset(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("asset", id)
		}
		return nil
	})
}

// List returns assets whose tag or name contains query, newest first.
func (s *Assets) List(ctx context.Context, actor *model.Actor, query string) ([]model.Asset, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	return store.ListAssets(ctx, s.db, store.AssetFilter{Query: strings.TrimSpace(query)})
}

// Get returns a single asset.
func (s *Assets) Get(ctx context.Context, actor *model.Actor, id int64) (*model.Asset, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	return liveAsset(ctx, s.db, id)
}

// FindByTag returns the asset with exactly this tag.
func (s *Assets) FindByTag(ctx context.Context, actor *model.Actor, tag string) (*model.Asset, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	a, err := store.GetAssetByTag(ctx, s.db, tag)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: asset tag %q", ErrNotFound, tag)
	}
	return a, nil
}

// ListByCategory returns the assets in a category.
func (s *Assets) ListByCategory(ctx context.Context, actor *model.Actor, categoryID int64) ([]model.Asset, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	cat, err := store.GetCategory(ctx, s.db, categoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, notFound("category", categoryID)
	}
	return store.ListAssets(ctx, s.db, store.AssetFilter{CategoryID: categoryID})
}

// ListByLocation returns the assets kept at a location.
func (s *Assets) ListByLocation(ctx context.Context, actor *model.Actor, locationID int64) ([]model.Asset, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	loc, err := store.GetLocation(ctx, s.db, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, notFound("location", locationID)
	}
	return store.ListAssets(ctx, s.db, store.AssetFilter{LocationID: locationID})
}
