package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/sredstva/internal/export"
	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/service"
)

// AssetsHandler handles asset endpoints.
type AssetsHandler struct {
	Assets *service.Assets
}

func writeAssets(w http.ResponseWriter, assets []model.Asset) {
	if assets == nil {
		assets = []model.Asset{}
	}
	jsonResponse(w, http.StatusOK, assets)
}

// List handles GET /api/assets. The optional q parameter filters by a
// substring of the tag or name.
func (h *AssetsHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Assets.List(r.Context(), GetActor(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeAssets(w, assets)
}

// Create handles POST /api/assets.
func (h *AssetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.AssetInput
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := GetActor(r.Context())
	asset, err := h.Assets.Create(r.Context(), actor, req)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("asset created", "user", actor.Email, "asset_id", asset.ID, "asset_tag", asset.Tag)
	jsonResponse(w, http.StatusCreated, asset)
}

// Get handles GET /api/assets/{id}.
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	asset, err := h.Assets.Get(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, asset)
}

// GetByTag handles GET /api/assets/by-tag/{tag}.
func (h *AssetsHandler) GetByTag(w http.ResponseWriter, r *http.Request) {
	asset, err := h.Assets.FindByTag(r.Context(), GetActor(r.Context()), r.PathValue("tag"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, asset)
}

// Update handles PUT /api/assets/{id}.
func (h *AssetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	var req service.AssetInput
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := GetActor(r.Context())
	asset, err := h.Assets.Update(r.Context(), actor, id, req)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("asset updated", "user", actor.Email, "asset_id", asset.ID, "asset_tag", asset.Tag)
	jsonResponse(w, http.StatusOK, asset)
}

// Delete handles DELETE /api/assets/{id}.
func (h *AssetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	actor := GetActor(r.Context())
	if err := h.Assets.Delete(r.Context(), actor, id); err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("asset deleted", "user", actor.Email, "asset_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// attachment renders into a buffer first so that a rendering error can
// still produce a JSON error response.
func attachment(w http.ResponseWriter, r *http.Request, filename, contentType string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		serviceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ExportCSV handles GET /api/assets/export.csv.
func (h *AssetsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Assets.List(r.Context(), GetActor(r.Context()), "")
	if err != nil {
		serviceError(w, r, err)
		return
	}
	attachment(w, r, export.CSVFilename, export.CSVContentType, func(buf *bytes.Buffer) error {
		return export.WriteCSV(buf, assets)
	})
}

// ExportPDF handles GET /api/assets/export.pdf.
func (h *AssetsHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Assets.List(r.Context(), GetActor(r.Context()), "")
	if err != nil {
		serviceError(w, r, err)
		return
	}
	attachment(w, r, export.PDFFilename, export.PDFContentType, func(buf *bytes.Buffer) error {
		return export.WritePDF(buf, assets, time.Now())
	})
}
