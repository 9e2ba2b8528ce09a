package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/sredstva/internal/model"
)

const checkoutSelect = `SELECT co.id, co.asset_id, co.borrower_id, co.checkout_date, co.due_date, co.return_date,
        co.status, co.approved_by, co.approved_at,
        a.asset_tag, a.name AS asset_name, u.full_name AS borrower_name
 FROM checkouts co
 JOIN assets a ON a.id = co.asset_id
 JOIN users u ON u.id = co.borrower_id`

func scanCheckout(s scanner, c *model.Checkout) error {
	return s.Scan(&c.ID, &c.AssetID, &c.BorrowerID, &c.CheckoutDate, &c.DueDate, &c.ReturnDate,
		&c.Status, &c.ApprovedBy, &c.ApprovedAt,
		&c.AssetTag, &c.AssetName, &c.BorrowerName)
}

// CreateCheckout records a new checkout request.
func CreateCheckout(ctx context.Context, db DBTX, assetID, borrowerID int64, checkoutDate time.Time, dueDate *time.Time) (*model.Checkout, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO checkouts (asset_id, borrower_id, checkout_date, due_date, status)
		 VALUES (?, ?, ?, ?, ?)`,
		assetID, borrowerID, checkoutDate, dueDate, model.CheckoutRequested,
	)
	if err != nil {
		return nil, fmt.Errorf("creating checkout: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting checkout id: %w", err)
	}

	return GetCheckout(ctx, db, id)
}

// GetCheckout returns a checkout by ID.
func GetCheckout(ctx context.Context, db DBTX, id int64) (*model.Checkout, error) {
	c := &model.Checkout{}
	err := scanCheckout(db.QueryRowContext(ctx, checkoutSelect+` WHERE co.id = ?`, id), c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting checkout: %w", err)
	}
	return c, nil
}

// ListCheckouts returns checkouts in any of the given statuses, newest first.
// With no statuses, all checkouts are returned. A positive limit caps the result.
func ListCheckouts(ctx context.Context, db DBTX, limit int, statuses ...string) ([]model.Checkout, error) {
	query := checkoutSelect
	var args []any

	if len(statuses) > 0 {
		query += ` WHERE co.status IN (?` + strings.Repeat(", ?", len(statuses)-1) + `)`
		for _, s := range statuses {
			args = append(args, s)
		}
	}

	query += ` ORDER BY co.id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing checkouts: %w", err)
	}
	defer rows.Close()

	var checkouts []model.Checkout
	for rows.Next() {
		var c model.Checkout
		if err := scanCheckout(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning checkout: %w", err)
		}
		checkouts = append(checkouts, c)
	}
	return checkouts, rows.Err()
}

// ActiveCheckoutForAsset returns the unresolved checkout holding an asset, if any.
func ActiveCheckoutForAsset(ctx context.Context, db DBTX, assetID int64) (*model.Checkout, error) {
	args := []any{assetID}
	for _, s := range model.ActiveCheckoutStatuses {
		args = append(args, s)
	}

	c := &model.Checkout{}
	err := scanCheckout(db.QueryRowContext(ctx,
		checkoutSelect+` WHERE co.asset_id = ? AND co.status IN (?`+
			strings.Repeat(", ?", len(model.ActiveCheckoutStatuses)-1)+`)`,
		args...,
	), c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting active checkout: %w", err)
	}
	return c, nil
}

// ApproveCheckout moves a requested checkout to approved. It reports false
// if the checkout was not in the requested state.
func ApproveCheckout(ctx context.Context, db DBTX, id, approvedBy int64, at time.Time) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE checkouts SET status = ?, approved_by = ?, approved_at = ?
		 WHERE id = ? AND status = ?`,
		model.CheckoutApproved, approvedBy, at, id, model.CheckoutRequested,
	)
	if err != nil {
		return false, fmt.Errorf("approving checkout: %w", err)
	}
	return rowsAffected(result)
}

// RejectCheckout moves a requested checkout to rejected.
func RejectCheckout(ctx context.Context, db DBTX, id int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE checkouts SET status = ? WHERE id = ? AND status = ?`,
		model.CheckoutRejected, id, model.CheckoutRequested,
	)
	if err != nil {
		return false, fmt.Errorf("rejecting checkout: %w", err)
	}
	return rowsAffected(result)
}

// ReturnCheckout moves an approved checkout to returned.
func ReturnCheckout(ctx context.Context, db DBTX, id int64, at time.Time) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE checkouts SET status = ?, return_date = ? WHERE id = ? AND status = ?`,
		model.CheckoutReturned, at, id, model.CheckoutApproved,
	)
	if err != nil {
		return false, fmt.Errorf("returning checkout: %w", err)
	}
	return rowsAffected(result)
}

// CountCheckouts returns the number of checkouts in the given status.
func CountCheckouts(ctx context.Context, db DBTX, status string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM checkouts WHERE status = ?`, status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting checkouts: %w", err)
	}
	return n, nil
}
