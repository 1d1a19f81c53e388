package handler

import (
	"net/http"

	"github.com/ramadanhub/backend/internal/contextkeys"
	"github.com/ramadanhub/backend/internal/domain"
	"github.com/ramadanhub/backend/internal/service"
)

// EntitlementHandler serves the read-only pre-flight check feature pages use
// to decide between rendering the tool or the paywall.
type EntitlementHandler struct {
	gate *service.EntitlementService
}

// NewEntitlementHandler creates a new EntitlementHandler.
func NewEntitlementHandler(gate *service.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{gate: gate}
}

// Check handles GET /api/entitlement?feature=<key>. Never debits.
func (h *EntitlementHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(contextkeys.UserID).(string)
	feature := domain.FeatureKey(r.URL.Query().Get("feature"))

	res, err := h.gate.Peek(r.Context(), userID, feature)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, res)
}
