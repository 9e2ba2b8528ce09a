package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/service"
)

// CatalogHandler handles category and location endpoints.
type CatalogHandler struct {
	Catalog *service.Catalog
	Assets  *service.Assets
}

type categoryRequest struct {
	Name string `json:"name"`
}

type locationRequest struct {
	Building string `json:"building"`
	Room     string `json:"room"`
}

// locationResponse adds the display label to a location.
type locationResponse struct {
	model.Location
	Label string `json:"label"`
}

// ListCategories handles GET /api/categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.ListCategories(r.Context(), GetActor(r.Context()))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// CreateCategory handles POST /api/categories.
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := GetActor(r.Context())
	category, err := h.Catalog.CreateCategory(r.Context(), actor, req.Name)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("category created", "user", actor.Email, "category", category.Name)
	jsonResponse(w, http.StatusCreated, category)
}

// ListLocations handles GET /api/locations.
func (h *CatalogHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Catalog.ListLocations(r.Context(), GetActor(r.Context()))
	if err != nil {
		serviceError(w, r, err)
		return
	}

	resp := make([]locationResponse, 0, len(locations))
	for _, l := range locations {
		resp = append(resp, locationResponse{Location: l, Label: l.Label()})
	}
	jsonResponse(w, http.StatusOK, resp)
}

// CreateLocation handles POST /api/locations.
func (h *CatalogHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := GetActor(r.Context())
	location, err := h.Catalog.CreateLocation(r.Context(), actor, req.Building, req.Room)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("location created", "user", actor.Email, "location", location.Label())
	jsonResponse(w, http.StatusCreated, locationResponse{Location: *location, Label: location.Label()})
}

// CategoryAssets handles GET /api/categories/{id}/assets.
func (h *CatalogHandler) CategoryAssets(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	assets, err := h.Assets.ListByCategory(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeAssets(w, assets)
}

// LocationAssets handles GET /api/locations/{id}/assets.
func (h *CatalogHandler) LocationAssets(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	assets, err := h.Assets.ListByLocation(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeAssets(w, assets)
}
