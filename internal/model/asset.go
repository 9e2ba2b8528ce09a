package model

import "time"

// Asset represents a single tracked piece of equipment.
type Asset struct {
	ID         int64      `json:"id"`
	Tag        string     `json:"asset_tag"`
	Name       string     `json:"name"`
	CategoryID int64      `json:"category_id"`
	LocationID int64      `json:"location_id"`
	Status     string     `json:"status"`
	CreatedBy  *int64     `json:"created_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	CategoryName  string `json:"category,omitempty"`
	LocationLabel string `json:"location,omitempty"`
}

// Asset statuses.
const (
	AssetStatusNew     = "new"
	AssetStatusInUse   = "in_use"
	AssetStatusRepair  = "repair"
	AssetStatusRetired = "retired"
)

// Field limits.
const (
	MaxAssetTagLength  = 50
	MaxAssetNameLength = 200
)

// ValidAssetStatus reports whether status is a known asset status.
func ValidAssetStatus(status string) bool {
	switch status {
	case AssetStatusNew, AssetStatusInUse, AssetStatusRepair, AssetStatusRetired:
		return true
	}
	return false
}
