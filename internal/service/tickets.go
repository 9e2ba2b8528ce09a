package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/store"
)

// Tickets is the maintenance ticket lifecycle. Admins may move a ticket to
// any other status; every change is logged.
type Tickets struct {
	db  *sql.DB
	now func() time.Time
}

// NewTickets returns a ticket lifecycle backed by db.
func NewTickets(db *sql.DB) *Tickets {
	return &Tickets{db: db, now: time.Now}
}

// Create opens a ticket against an asset.
func (s *Tickets) Create(ctx context.Context, actor *model.Actor, assetID int64, problem string) (*model.Ticket, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	problem = strings.TrimSpace(problem)
	if problem == "" {
		return nil, validationf("problem description is required")
	}

	var ticket *model.Ticket
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		asset, err := store.GetAsset(ctx, tx, assetID)
		if err != nil {
			return err
		}
		if asset == nil || asset.DeletedAt != nil {
			return invalidReference("asset", assetID)
		}

		ticket, err = store.CreateTicket(ctx, tx, assetID, actor.UserID, problem, s.now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// ChangeStatus moves a ticket to status and appends a log entry in the same
// transaction. Setting the current status again is refused.
func (s *Tickets) ChangeStatus(ctx context.Context, actor *model.Actor, id int64, status, note string) (*model.Ticket, error) {
	if err := Authorize(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	status = strings.TrimSpace(status)
	if !model.ValidTicketStatus(status) {
		return nil, validationf("unknown ticket status %q", status)
	}
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) > model.MaxTicketNoteLength {
		return nil, validationf("note must be at most %d characters", model.MaxTicketNoteLength)
	}

	var ticket *model.Ticket
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		current, err := store.GetTicket(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("ticket", id)
		}
		if current.Status == status {
			return fmt.Errorf("%w: ticket %d is already %s", ErrInvalidTransition, id, status)
		}

		ok, err := store.UpdateTicketStatus(ctx, tx, id, current.Status, status)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: ticket %d changed concurrently", ErrInvalidTransition, id)
		}

		changedBy := actor.UserID
		if _, err := store.AppendTicketLog(ctx, tx, model.TicketLog{
			TicketID:  id,
			ChangedBy: &changedBy,
			OldStatus: current.Status,
			NewStatus: status,
			Note:      note,
			ChangedAt: s.now().UTC(),
		}); err != nil {
			return err
		}

		ticket, err = store.GetTicket(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// List returns all tickets, newest first.
func (s *Tickets) List(ctx context.Context, actor *model.Actor) ([]model.Ticket, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	return store.ListTickets(ctx, s.db)
}

// Get returns a single ticket.
func (s *Tickets) Get(ctx context.Context, actor *model.Actor, id int64) (*model.Ticket, error) {
	if err := Authenticated(actor); err != nil {
		return nil, err
	}
	t, err := store.GetTicket(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("ticket", id)
	}
	return t, nil
}

// Logs returns a ticket's status changes, oldest first.
func (s *Tickets) Logs(ctx context.Context, actor *model.Actor, id int64) ([]model.TicketLog, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return store.ListTicketLogs(ctx, s.db, id)
}
