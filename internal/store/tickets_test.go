package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/sredstva/internal/db"
	"github.com/erazemk/sredstva/internal/model"
)

func TestTicketStatusAndLogs(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, asset := seedAsset(t, database, "PC-001")
	now := time.Now().UTC()

	ticket, err := CreateTicket(ctx, database, asset.ID, user.ID, "screen flicker", now)
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.Status != model.TicketOpen {
		t.Errorf("expected status 'open', got %q", ticket.Status)
	}
	if ticket.AssetName != "Dell OptiPlex" {
		t.Errorf("expected joined asset name, got %q", ticket.AssetName)
	}

	ok, err := UpdateTicketStatus(ctx, database, ticket.ID, model.TicketInProgress, model.TicketResolved)
	if err != nil {
		t.Fatalf("UpdateTicketStatus: %v", err)
	}
	if ok {
		t.Fatal("expected update from a stale status to affect nothing")
	}

	ok, err = UpdateTicketStatus(ctx, database, ticket.ID, model.TicketOpen, model.TicketResolved)
	if err != nil || !ok {
		t.Fatalf("UpdateTicketStatus: ok=%v err=%v", ok, err)
	}

	AppendTicketLog(ctx, database, model.TicketLog{
		TicketID:  ticket.ID,
		ChangedBy: &user.ID,
		OldStatus: model.TicketOpen,
		NewStatus: model.TicketResolved,
		Note:      "replaced cable",
		ChangedAt: now,
	})
	AppendTicketLog(ctx, database, model.TicketLog{
		TicketID:  ticket.ID,
		OldStatus: model.TicketResolved,
		NewStatus: model.TicketClosed,
		ChangedAt: now.Add(time.Minute),
	})

	logs, err := ListTicketLogs(ctx, database, ticket.ID)
	if err != nil {
		t.Fatalf("ListTicketLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if logs[0].NewStatus != model.TicketResolved || logs[0].Note != "replaced cable" {
		t.Errorf("unexpected first log: %+v", logs[0])
	}
	if logs[0].ChangerName != "Seed User" {
		t.Errorf("expected changer name 'Seed User', got %q", logs[0].ChangerName)
	}
	if logs[1].ChangedBy != nil || logs[1].ChangerName != "" {
		t.Errorf("expected anonymous second log, got %+v", logs[1])
	}

	open, _ := CountTickets(ctx, database, model.TicketOpen)
	if open != 0 {
		t.Errorf("expected 0 open tickets, got %d", open)
	}
}

func TestTicketLogsAppendOnly(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, asset := seedAsset(t, database, "PC-001")
	ticket, _ := CreateTicket(ctx, database, asset.ID, user.ID, "broken", time.Now().UTC())
	id, err := AppendTicketLog(ctx, database, model.TicketLog{
		TicketID:  ticket.ID,
		ChangedBy: &user.ID,
		OldStatus: model.TicketOpen,
		NewStatus: model.TicketClosed,
		ChangedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("AppendTicketLog: %v", err)
	}

	if _, err := database.ExecContext(ctx, `UPDATE ticket_logs SET note = 'edited' WHERE id = ?`, id); err == nil {
		t.Error("expected update of a ticket log to fail")
	}
	if _, err := database.ExecContext(ctx, `DELETE FROM ticket_logs WHERE id = ?`, id); err == nil {
		t.Error("expected delete of a ticket log to fail")
	}

	logs, _ := ListTicketLogs(ctx, database, ticket.ID)
	if len(logs) != 1 || logs[0].Note != "" {
		t.Errorf("expected the log to be unchanged, got %+v", logs)
	}
}

func TestTicketRequiresExistingAsset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := seedAsset(t, database, "PC-001")
	if _, err := CreateTicket(ctx, database, 999, user.ID, "ghost", time.Now().UTC()); err == nil {
		t.Error("expected foreign key failure for missing asset")
	}
}
