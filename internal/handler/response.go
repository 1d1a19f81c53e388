package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ramadanhub/backend/internal/domain"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// Error writes an error JSON response, using AppError status codes when
// available and mapping gate-level sentinels to their transport statuses.
// Gate errors never leak store internals and never render as a paywall.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	case errors.Is(err, domain.ErrUnknownFeature):
		JSON(w, http.StatusForbidden, map[string]string{"error": "unknown feature"})
		return
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Printf("entitlement store unavailable: %v", err)
		JSON(w, http.StatusServiceUnavailable, map[string]string{"error": "service temporarily unavailable, try again later"})
		return
	}

	if appErr, ok := domain.AsAppError(err); ok {
		JSON(w, appErr.Code, map[string]string{"error": appErr.Message})
		return
	}
	log.Printf("unhandled error: %v", err)
	JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// DecodeJSON decodes a JSON request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrBadRequest("invalid JSON body")
	}
	return nil
}

// Success writes the feature-endpoint success envelope. The entitlement
// metadata rides along inside data so clients can update their credit UI.
func Success(w http.ResponseWriter, data map[string]any, res *domain.EntitlementResult) {
	if data == nil {
		data = map[string]any{}
	}
	data["is_pro"] = res.IsPro
	data["remaining_credits"] = res.RemainingCredits
	JSON(w, http.StatusOK, map[string]any{
		"status": "SUCCESS",
		"data":   data,
	})
}

// Paywall writes the structured denial envelope (HTTP 403).
func Paywall(w http.ResponseWriter, res *domain.EntitlementResult) {
	body := map[string]any{
		"status": "PAYWALL",
		"reason": res.Reason,
	}
	if res.UpgradeURL != "" {
		body["upgrade_url"] = res.UpgradeURL
	} else {
		body["upgrade_url"] = nil
	}
	JSON(w, http.StatusForbidden, body)
}

// ProviderError reports a generation-provider failure, distinct from a
// paywall so clients can tell "pay to continue" from "something broke".
func ProviderError(w http.ResponseWriter, err error) {
	log.Printf("provider error: %v", err)
	JSON(w, http.StatusBadGateway, map[string]any{
		"status":  "ERROR",
		"message": "generation failed, please try again",
	})
}
