package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/store"
)

// Checkouts is the checkout lifecycle:
//
//	requested -> approved -> returned
//	requested -> rejected
type Checkouts struct {
	db  *sql.DB
	now func() time.Time
}

// NewCheckouts returns a checkout lifecycle backed by db.
func NewCheckouts(db *sql.DB) *Checkouts {
	return &Checkouts{db: db, now: time.Now}
}

// Request opens a checkout of an asset for actor. An asset may have only one
// requested or approved checkout at a time.
func (s *Checkouts) Request(ctx context.Context, actor *model.Actor, assetID int64, dueDate *time.Time) (*model.Checkout, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if dueDate != nil {
		due := dueDate.UTC()
		if due.Before(now.Truncate(24 * time.Hour)) {
			return nil, validationf("due_date must not be before the checkout date")
		}
		dueDate = &due
	}

	var co *model.Checkout
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		asset, err := store.GetAsset(ctx, tx, assetID)
		if err != nil {
			return err
		}
		if asset == nil || asset.DeletedAt != nil {
			return invalidReference("asset", assetID)
		}

		active, err := store.ActiveCheckoutForAsset(ctx, tx, assetID)
		if err != nil {
			return err
		}
		if active != nil {
			return fmt.Errorf("%w: asset %s already has %s checkout %d", ErrConflict, asset.Tag, active.Status, active.ID)
		}

		co, err = store.CreateCheckout(ctx, tx, assetID, actor.UserID, now, dueDate)
		if store.IsUniqueViolation(err) {
			return fmt.Errorf("%w: asset %s is already checked out", ErrConflict, asset.Tag)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return co, nil
}

// transition moves a checkout to status to. apply performs the conditional
// update and reports whether the row still had the expected status.
func (s *Checkouts) transition(ctx context.Context, actor *model.Actor, id int64, to string,
	apply func(tx *sql.Tx, now time.Time) (bool, error)) (*model.Checkout, error) {
	if err := Authorize(actor, model.RoleAdmin); err != nil {
		return nil, err
	}

	var co *model.Checkout
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		current, err := store.GetCheckout(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("checkout", id)
		}
		if model.CheckoutTerminal(current.Status) {
			return fmt.Errorf("%w: checkout %d is already %s", ErrInvalidTransition, id, current.Status)
		}
		if !model.CheckoutCanTransition(current.Status, to) {
			return fmt.Errorf("%w: checkout %d is %s, cannot become %s", ErrInvalidTransition, id, current.Status, to)
		}

		ok, err := apply(tx, s.now().UTC())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: checkout %d changed concurrently", ErrInvalidTransition, id)
		}

		co, err = store.GetCheckout(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return co, nil
}

// Approve grants a requested checkout.
func (s *Checkouts) Approve(ctx context.Context, actor *model.Actor, id int64) (*model.Checkout, error) {
	return s.transition(ctx, actor, id, model.CheckoutApproved, func(tx *sql.Tx, now time.Time) (bool, error) {
		return store.ApproveCheckout(ctx, tx, id, actor.UserID, now)
	})
}

// Reject declines a requested checkout.
func (s *Checkouts) Reject(ctx context.Context, actor *model.Actor, id int64) (*model.Checkout, error) {
	return s.transition(ctx, actor, id, model.CheckoutRejected, func(tx *sql.Tx, _ time.Time) (bool, error) {
		return store.RejectCheckout(ctx, tx, id)
	})
}

// Return closes an approved checkout.
func (s *Checkouts) Return(ctx context.Context, actor *model.Actor, id int64) (*model.Checkout, error) {
	return s.transition(ctx, actor, id, model.CheckoutReturned, func(tx *sql.Tx, now time.Time) (bool, error) {
		return store.ReturnCheckout(ctx, tx, id, now)
	})
}

// ListActive returns requested and approved checkouts, newest first.
func (s *Checkouts) ListActive(ctx context.Context, actor *model.Actor) ([]model.Checkout, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	return store.ListCheckouts(ctx, s.db, 0, model.ActiveCheckoutStatuses...)
}

// ListHistory returns approved, rejected and returned checkouts, newest first.
func (s *Checkouts) ListHistory(ctx context.Context, actor *model.Actor) ([]model.Checkout, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	return store.ListCheckouts(ctx, s.db, 0, model.CheckoutApproved, model.CheckoutRejected, model.CheckoutReturned)
}

// Get returns a single checkout.
func (s *Checkouts) Get(ctx context.Context, actor *model.Actor, id int64) (*model.Checkout, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	co, err := store.GetCheckout(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if co == nil {
		return nil, notFound("checkout", id)
	}
	return co, nil
}
