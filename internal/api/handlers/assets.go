package handlers

import (
	"errors"
	"net/http"

	"github.com/athtracker/athtracker-backend/internal/api/response"
	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/model"
	"github.com/athtracker/athtracker-backend/internal/service"
)

// AssetHandler handles catalog listing and refresh requests
type AssetHandler struct {
	refreshService *service.RefreshService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(refreshService *service.RefreshService) *AssetHandler {
	return &AssetHandler{
		refreshService: refreshService,
	}
}

// RefreshResponse is returned by a successful refresh.
type RefreshResponse struct {
	Message   string        `json:"message"`
	RunID     string        `json:"run_id"`
	Refreshed int           `json:"refreshed"`
	Stale     int           `json:"stale"`
	Data      []model.Asset `json:"data"`
}

// Assets handles GET requests for the stored catalog.
//
// Endpoint: GET /api/assets?sort=<key>&direction=asc|desc
// Response: 200 OK with the catalog as a JSON array
// Error: 400 Bad Request for an unknown sort key, 404 if the catalog does not
// exist, 500 if it cannot be read
func (h *AssetHandler) Assets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.refreshService.Assets(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrCatalogNotFound) {
			response.RespondError(w, http.StatusNotFound, "Catalog Not Found", err)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "Internal Server Error", err)
		return
	}

	query := r.URL.Query()
	if err := service.SortAssets(assets, query.Get("sort"), query.Get("direction") == "desc"); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Bad Request", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, assets)
}

// Refresh runs a refresh pass over the stored catalog and persists it.
//
// Endpoint: GET or POST /api/assets/refresh
// Response: 200 OK with RefreshResponse
// Error: 405 for any other method, 500 if the catalog cannot be loaded or saved
func (h *AssetHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		response.RespondError(w, http.StatusMethodNotAllowed, "Method Not Allowed", apperrors.ErrMethodNotAllowed)
		return
	}

	result, err := h.refreshService.Refresh(r.Context(), true)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Internal Server Error", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, RefreshResponse{
		Message:   "Assets updated successfully",
		RunID:     result.Report.RunID.String(),
		Refreshed: result.Report.Refreshed,
		Stale:     result.Report.Stale,
		Data:      result.Report.Assets,
	})
}
