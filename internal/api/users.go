package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/service"
)

// UsersHandler handles user management endpoints (admin only).
type UsersHandler struct {
	Users *service.Users
}

type updateUserRequest struct {
	Role   string `json:"role"`
	Active *bool  `json:"active"`
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context(), GetActor(r.Context()))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.UserInput
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := GetActor(r.Context())
	user, err := h.Users.Create(r.Context(), actor, req)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("user created", "user", actor.Email, "new_user", user.Email, "role", user.Role)
	jsonResponse(w, http.StatusCreated, user)
}

// Update handles PUT /api/users/{id}.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	actor := GetActor(r.Context())
	user, err := h.Users.Update(r.Context(), actor, id, req.Role, active)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("user updated", "user", actor.Email, "target", user.Email, "role", user.Role, "active", user.Active)
	jsonResponse(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	actor := GetActor(r.Context())
	if err := h.Users.Delete(r.Context(), actor, id); err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("user deleted", "user", actor.Email, "deleted_user_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
