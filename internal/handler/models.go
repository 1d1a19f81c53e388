package handler

import (
	"net/http"

	"github.com/ramadanhub/backend/internal/service"
)

// ModelsHandler exposes the cached LLM model catalog.
type ModelsHandler struct {
	svc *service.CatalogService
}

// NewModelsHandler creates a new ModelsHandler.
func NewModelsHandler(svc *service.CatalogService) *ModelsHandler {
	return &ModelsHandler{svc: svc}
}

// GetModels handles GET /api/models.
func (h *ModelsHandler) GetModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.GetModels(r.Context())
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"models": models,
	})
}

// SyncModels handles POST /api/models/sync (admin only, gated in router).
func (h *ModelsHandler) SyncModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.SyncModels(r.Context())
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"models":  models,
	})
}
