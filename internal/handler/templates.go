package handler

import (
	"net/http"

	"github.com/ramadanhub/backend/internal/domain"
	"github.com/ramadanhub/backend/internal/repository"
)

// TemplatesHandler serves the content template catalog (party scenes,
// costumes, family member attributes).
type TemplatesHandler struct {
	repo *repository.TemplateRepository
}

// NewTemplatesHandler creates a new TemplatesHandler.
func NewTemplatesHandler(repo *repository.TemplateRepository) *TemplatesHandler {
	return &TemplatesHandler{repo: repo}
}

// List handles GET /api/templates?kind=<party|costume|attribute>.
func (h *TemplatesHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	switch kind {
	case domain.TemplateParty, domain.TemplateCostume, domain.TemplateAttribute:
	default:
		Error(w, domain.ErrBadRequest("unknown template kind"))
		return
	}

	templates, err := h.repo.ListByKind(r.Context(), kind)
	if err != nil {
		Error(w, err)
		return
	}
	if templates == nil {
		templates = []*domain.Template{}
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"templates": templates,
	})
}
