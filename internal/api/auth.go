package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/sredstva/internal/auth"
	"github.com/erazemk/sredstva/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Users       *service.Users
	JWTSecret   string
	Revoker     auth.Revoker
	CSRFEnabled bool
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	CSRFToken string `json:"csrf_token,omitempty"`
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// setSessionCookies stores the token in an HttpOnly cookie. The CSRF cookie
// is readable by scripts so that they can echo it in the X-CSRF-Token header.
func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, r *http.Request, token, csrfToken string) {
	expires := time.Now().Add(auth.TokenExpiry)
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	if csrfToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     csrfCookie,
			Value:    csrfToken,
			Path:     "/",
			Expires:  expires,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// clearSessionCookies clears the session cookies with consistent attributes.
func clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{tokenCookie, csrfCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: name == tokenCookie,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "email and password required")
		return
	}

	user, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if status, known := errorStatus(err, false); known && status == http.StatusUnauthorized {
			slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
			jsonError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		serviceError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Email, user.Role)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	var csrfToken string
	if h.CSRFEnabled {
		csrfToken = uuid.NewString()
	}
	h.setSessionCookies(w, r, token, csrfToken)

	slog.Info("user logged in", "user", user.Email, "role", user.Role)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, CSRFToken: csrfToken})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Users.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("user registered", "user", user.Email)
	jsonResponse(w, http.StatusCreated, user)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.Revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		slog.Error("failed to revoke token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	clearSessionCookies(w)
	slog.Info("user logged out", "user", claims.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	jsonResponse(w, http.StatusOK, map[string]any{
		"id":        actor.UserID,
		"email":     actor.Email,
		"full_name": actor.Name,
		"role":      actor.Role,
	})
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		jsonError(w, http.StatusBadRequest, "current and new password required")
		return
	}

	actor := GetActor(r.Context())
	if err := h.Users.ChangePassword(r.Context(), actor, req.CurrentPassword, req.NewPassword); err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("user changed own password", "user", actor.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}
