package service

import (
	"context"
	"database/sql"

	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/store"
)

// recentCheckouts is how many checkouts the dashboard shows.
const recentCheckouts = 5

// Summary holds the dashboard counters.
type Summary struct {
	TotalAssets     int              `json:"total_assets"`
	AssetsOut       int              `json:"assets_out"`
	OpenTickets     int              `json:"open_tickets"`
	RecentCheckouts []model.Checkout `json:"recent_checkouts"`
}

// Dashboard computes overview counters.
type Dashboard struct {
	db *sql.DB
}

// NewDashboard returns a Dashboard backed by db.
func NewDashboard(db *sql.DB) *Dashboard {
	return &Dashboard{db: db}
}

// Summary returns the current counters. Assets are out while their
// checkout is approved.
func (d *Dashboard) Summary(ctx context.Context, actor *model.Actor) (*Summary, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}

	var (
		sum Summary
		err error
	)
	if sum.TotalAssets, err = store.CountAssets(ctx, d.db); err != nil {
		return nil, err
	}
	if sum.AssetsOut, err = store.CountCheckouts(ctx, d.db, model.CheckoutApproved); err != nil {
		return nil, err
	}
	if sum.OpenTickets, err = store.CountTickets(ctx, d.db, model.TicketOpen); err != nil {
		return nil, err
	}
	if sum.RecentCheckouts, err = store.ListCheckouts(ctx, d.db, recentCheckouts); err != nil {
		return nil, err
	}
	if sum.RecentCheckouts == nil {
		sum.RecentCheckouts = []model.Checkout{}
	}
	return &sum, nil
}
