package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/sredstva/internal/service"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(target)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// errorStatus maps a service error kind to an HTTP status. The second value
// is false for errors that are not business errors.
func errorStatus(err error, signedIn bool) (int, bool) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		if !signedIn {
			return http.StatusUnauthorized, true
		}
		return http.StatusForbidden, true
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, true
	case errors.Is(err, service.ErrInvalidReference):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict, true
	}
	return http.StatusInternalServerError, false
}

// serviceError writes err as a JSON error. Unexpected errors are logged and
// hidden from the client.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status, known := errorStatus(err, GetActor(r.Context()) != nil)
	if !known {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", w.Header().Get(requestIDHeader), "error", err)
		jsonError(w, status, "internal error")
		return
	}
	jsonError(w, status, err.Error())
}
