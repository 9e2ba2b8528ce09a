package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/service"
)

// TicketsHandler handles maintenance ticket endpoints.
type TicketsHandler struct {
	Tickets *service.Tickets
}

type createTicketRequest struct {
	AssetID int64  `json:"asset_id"`
	Problem string `json:"problem"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// List handles GET /api/tickets.
func (h *TicketsHandler) List(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.Tickets.List(r.Context(), GetActor(r.Context()))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if tickets == nil {
		tickets = []model.Ticket{}
	}
	jsonResponse(w, http.StatusOK, tickets)
}

// Create handles POST /api/tickets.
func (h *TicketsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTicketRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := GetActor(r.Context())
	ticket, err := h.Tickets.Create(r.Context(), actor, req.AssetID, req.Problem)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("ticket created", "user", actor.Email, "ticket_id", ticket.ID, "asset_id", ticket.AssetID)
	jsonResponse(w, http.StatusCreated, ticket)
}

// Get handles GET /api/tickets/{id}.
func (h *TicketsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	ticket, err := h.Tickets.Get(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, ticket)
}

// ChangeStatus handles POST /api/tickets/{id}/status.
func (h *TicketsHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	var req changeStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := GetActor(r.Context())
	ticket, err := h.Tickets.ChangeStatus(r.Context(), actor, id, req.Status, req.Note)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("ticket status changed", "user", actor.Email, "ticket_id", ticket.ID, "status", ticket.Status)
	jsonResponse(w, http.StatusOK, ticket)
}

// Logs handles GET /api/tickets/{id}/logs.
func (h *TicketsHandler) Logs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	logs, err := h.Tickets.Logs(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if logs == nil {
		logs = []model.TicketLog{}
	}
	jsonResponse(w, http.StatusOK, logs)
}
