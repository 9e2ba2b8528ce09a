package model

import "time"

// Ticket is a maintenance request raised against an asset.
type Ticket struct {
	ID          int64     `json:"id"`
	AssetID     int64     `json:"asset_id"`
	RequesterID int64     `json:"requester_id"`
	Problem     string    `json:"problem"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined fields (not always populated).
	AssetName     string `json:"asset_name,omitempty"`
	RequesterName string `json:"requester_name,omitempty"`
}

// TicketLog records one ticket status change. Rows are append-only.
type TicketLog struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	ChangedBy *int64    `json:"changed_by,omitempty"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Note      string    `json:"note,omitempty"`
	ChangedAt time.Time `json:"changed_at"`

	// Joined fields (not always populated).
	ChangerName string `json:"changer_name,omitempty"`
}

// Ticket statuses.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// MaxTicketNoteLength is the longest accepted status change note.
const MaxTicketNoteLength = 255

// ValidTicketStatus reports whether status is a known ticket status.
func ValidTicketStatus(status string) bool {
	switch status {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}
