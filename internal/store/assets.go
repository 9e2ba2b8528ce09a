package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/sredstva/internal/model"
)

// AssetFields holds the editable columns of an asset.
type AssetFields struct {
	Tag        string
	Name       string
	CategoryID int64
	LocationID int64
	Status     string
}

// AssetFilter narrows ListAssets. Zero values match everything.
type AssetFilter struct {
	// Query matches a substring of the tag or the name.
	Query      string
	CategoryID int64
	LocationID int64
}

const assetSelect = `SELECT a.id, a.asset_tag, a.name, a.category_id, a.location_id, a.status,
        a.created_by, a.created_at, a.deleted_at,
        c.name AS category_name, l.building, l.room
 FROM assets a
 JOIN categories c ON c.id = a.category_id
 JOIN locations l ON l.id = a.location_id`

func scanAsset(s scanner, a *model.Asset) error {
	var building, room string
	if err := s.Scan(&a.ID, &a.Tag, &a.Name, &a.CategoryID, &a.LocationID, &a.Status,
		&a.CreatedBy, &a.CreatedAt, &a.DeletedAt,
		&a.CategoryName, &building, &room); err != nil {
		return err
	}
	a.LocationLabel = model.LocationLabel(building, room)
	return nil
}

// CreateAsset creates a new asset.
func CreateAsset(ctx context.Context, db DBTX, f AssetFields, createdBy *int64) (*model.Asset, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO assets (asset_tag, name, category_id, location_id, status, created_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.Tag, f.Name, f.CategoryID, f.LocationID, f.Status, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting asset id: %w", err)
	}

	return GetAsset(ctx, db, id)
}

// GetAsset returns an asset by ID, including soft-deleted ones.
func GetAsset(ctx context.Context, db DBTX, id int64) (*model.Asset, error) {
	a := &model.Asset{}
	err := scanAsset(db.QueryRowContext(ctx, assetSelect+` WHERE a.id = ?`, id), a)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}
	return a, nil
}

// GetAssetByTag returns the non-deleted asset with exactly this tag.
func GetAssetByTag(ctx context.Context, db DBTX, tag string) (*model.Asset, error) {
	a := &model.Asset{}
	err := scanAsset(db.QueryRowContext(ctx,
		assetSelect+` WHERE a.asset_tag = ? AND a.deleted_at IS NULL`, tag,
	), a)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset by tag: %w", err)
	}
	return a, nil
}

// ListAssets returns non-deleted assets, most recently created first.
func ListAssets(ctx context.Context, db DBTX, filter AssetFilter) ([]model.Asset, error) {
	query := assetSelect + ` WHERE a.deleted_at IS NULL`
	var args []any

	if filter.Query != "" {
		like := likePattern(filter.Query)
		query += ` AND (a.asset_tag LIKE ? ESCAPE '\' OR a.name LIKE ? ESCAPE '\')`
		args = append(args, like, like)
	}
	if filter.CategoryID > 0 {
		query += ` AND a.category_id = ?`
		args = append(args, filter.CategoryID)
	}
	if filter.LocationID > 0 {
		query += ` AND a.location_id = ?`
		args = append(args, filter.LocationID)
	}

	query += ` ORDER BY a.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		var a model.Asset
		if err := scanAsset(rows, &a); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// UpdateAsset overwrites an asset's editable columns.
func UpdateAsset(ctx context.Context, db DBTX, id int64, f AssetFields) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE assets SET asset_tag = ?, name = ?, category_id = ?, location_id = ?, status = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		f.Tag, f.Name, f.CategoryID, f.LocationID, f.Status, id,
	)
	if err != nil {
		return false, fmt.Errorf("updating asset: %w", err)
	}
	return rowsAffected(result)
}

// DeleteAsset soft-deletes an asset.
func DeleteAsset(ctx context.Context, db DBTX, id int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE assets SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("deleting asset: %w", err)
	}
	return rowsAffected(result)
}

// CountAssets returns the number of non-deleted assets.
func CountAssets(ctx context.Context, db DBTX) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assets WHERE deleted_at IS NULL`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting assets: %w", err)
	}
	return n, nil
}
