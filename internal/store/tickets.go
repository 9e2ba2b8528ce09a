package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/sredstva/internal/model"
)

const ticketSelect = `SELECT t.id, t.asset_id, t.requester_id, t.problem, t.status, t.created_at,
        a.name AS asset_name, u.full_name AS requester_name
 FROM tickets t
 JOIN assets a ON a.id = t.asset_id
 JOIN users u ON u.id = t.requester_id`

func scanTicket(s scanner, t *model.Ticket) error {
	return s.Scan(&t.ID, &t.AssetID, &t.RequesterID, &t.Problem, &t.Status, &t.CreatedAt,
		&t.AssetName, &t.RequesterName)
}

// CreateTicket opens a new maintenance ticket.
func CreateTicket(ctx context.Context, db DBTX, assetID, requesterID int64, problem string, at time.Time) (*model.Ticket, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO tickets (asset_id, requester_id, problem, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		assetID, requesterID, problem, model.TicketOpen, at,
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting ticket id: %w", err)
	}

	return GetTicket(ctx, db, id)
}

// GetTicket returns a ticket by ID.
func GetTicket(ctx context.Context, db DBTX, id int64) (*model.Ticket, error) {
	t := &model.Ticket{}
	err := scanTicket(db.QueryRowContext(ctx, ticketSelect+` WHERE t.id = ?`, id), t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	return t, nil
}

// ListTickets returns all tickets, newest first.
func ListTickets(ctx context.Context, db DBTX) ([]model.Ticket, error) {
	rows, err := db.QueryContext(ctx, ticketSelect+` ORDER BY t.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	defer rows.Close()

	var tickets []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, fmt.Errorf("scanning ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// UpdateTicketStatus sets a ticket's status if it still equals from.
func UpdateTicketStatus(ctx context.Context, db DBTX, id int64, from, to string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE tickets SET status = ? WHERE id = ? AND status = ?`, to, id, from,
	)
	if err != nil {
		return false, fmt.Errorf("updating ticket status: %w", err)
	}
	return rowsAffected(result)
}

// AppendTicketLog records a ticket status change.
func AppendTicketLog(ctx context.Context, db DBTX, l model.TicketLog) (int64, error) {
	var note sql.NullString
	if l.Note != "" {
		note = sql.NullString{String: l.Note, Valid: true}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO ticket_logs (ticket_id, changed_by, old_status, new_status, note, changed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		l.TicketID, l.ChangedBy, l.OldStatus, l.NewStatus, note, l.ChangedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("appending ticket log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting ticket log id: %w", err)
	}
	return id, nil
}

// ListTicketLogs returns a ticket's status changes, oldest first.
func ListTicketLogs(ctx context.Context, db DBTX, ticketID int64) ([]model.TicketLog, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT l.id, l.ticket_id, l.changed_by, l.old_status, l.new_status, l.note, l.changed_at,
		        COALESCE(u.full_name, '') AS changer_name
		 FROM ticket_logs l
		 LEFT JOIN users u ON u.id = l.changed_by
		 WHERE l.ticket_id = ?
		 ORDER BY l.id`, ticketID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing ticket logs: %w", err)
	}
	defer rows.Close()

	var logs []model.TicketLog
	for rows.Next() {
		var l model.TicketLog
		var note sql.NullString
		if err := rows.Scan(&l.ID, &l.TicketID, &l.ChangedBy, &l.OldStatus, &l.NewStatus, &note,
			&l.ChangedAt, &l.ChangerName); err != nil {
			return nil, fmt.Errorf("scanning ticket log: %w", err)
		}
		l.Note = note.String
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CountTickets returns the number of tickets in the given status.
func CountTickets(ctx context.Context, db DBTX, status string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE status = ?`, status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting tickets: %w", err)
	}
	return n, nil
}
