package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/service"
)

// CheckoutsHandler handles checkout endpoints.
type CheckoutsHandler struct {
	Checkouts *service.Checkouts
}

type createCheckoutRequest struct {
	AssetID int64 `json:"asset_id"`
	// DueDate is a calendar date, YYYY-MM-DD.
	DueDate string `json:"due_date"`
}

func writeCheckouts(w http.ResponseWriter, checkouts []model.Checkout) {
	if checkouts == nil {
		checkouts = []model.Checkout{}
	}
	jsonResponse(w, http.StatusOK, checkouts)
}

// List handles GET /api/checkouts (requested and approved checkouts).
func (h *CheckoutsHandler) List(w http.ResponseWriter, r *http.Request) {
	checkouts, err := h.Checkouts.ListActive(r.Context(), GetActor(r.Context()))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeCheckouts(w, checkouts)
}

// History handles GET /api/checkouts/history.
func (h *CheckoutsHandler) History(w http.ResponseWriter, r *http.Request) {
	checkouts, err := h.Checkouts.ListHistory(r.Context(), GetActor(r.Context()))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeCheckouts(w, checkouts)
}

// Create handles POST /api/checkouts.
func (h *CheckoutsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.AssetID <= 0 {
		jsonError(w, http.StatusBadRequest, "asset_id is required")
		return
	}

	var due *time.Time
	if req.DueDate != "" {
		d, err := time.Parse(time.DateOnly, req.DueDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
			return
		}
		due = &d
	}

	actor := GetActor(r.Context())
	checkout, err := h.Checkouts.Request(r.Context(), actor, req.AssetID, due)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("checkout requested", "user", actor.Email, "checkout_id", checkout.ID, "asset_tag", checkout.AssetTag)
	jsonResponse(w, http.StatusCreated, checkout)
}

// Get handles GET /api/checkouts/{id}.
func (h *CheckoutsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid checkout id")
		return
	}

	checkout, err := h.Checkouts.Get(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, checkout)
}

type checkoutTransition func(ctx context.Context, actor *model.Actor, id int64) (*model.Checkout, error)

// transition returns a handler for POST /api/checkouts/{id}/<verb>.
func (h *CheckoutsHandler) transition(verb string, apply checkoutTransition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			jsonError(w, http.StatusBadRequest, "invalid checkout id")
			return
		}

		actor := GetActor(r.Context())
		checkout, err := apply(r.Context(), actor, id)
		if err != nil {
			serviceError(w, r, err)
			return
		}

		slog.Info("checkout "+verb, "user", actor.Email, "checkout_id", checkout.ID,
			"asset_tag", checkout.AssetTag, "status", checkout.Status)
		jsonResponse(w, http.StatusOK, checkout)
	}
}

// Approve handles POST /api/checkouts/{id}/approve.
func (h *CheckoutsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition("approved", h.Checkouts.Approve)(w, r)
}

// Reject handles POST /api/checkouts/{id}/reject.
func (h *CheckoutsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition("rejected", h.Checkouts.Reject)(w, r)
}

// Return handles POST /api/checkouts/{id}/return.
func (h *CheckoutsHandler) Return(w http.ResponseWriter, r *http.Request) {
	h.transition("returned", h.Checkouts.Return)(w, r)
}
