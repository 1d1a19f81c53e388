package handler

import (
	"net/http"
	"time"

	"github.com/ramadanhub/backend/internal/contextkeys"
	"github.com/ramadanhub/backend/internal/domain"
	"github.com/ramadanhub/backend/internal/repository"
)

// UsageHandler reports a user's credit balance and per-feature activity.
type UsageHandler struct {
	credits     *repository.CreditRepository
	subs        *repository.SubscriptionRepository
	generations *repository.GenerationRepository
}

// NewUsageHandler creates a new UsageHandler.
func NewUsageHandler(credits *repository.CreditRepository, subs *repository.SubscriptionRepository, generations *repository.GenerationRepository) *UsageHandler {
	return &UsageHandler{credits: credits, subs: subs, generations: generations}
}

// Get handles GET /api/usage. Counts cover the last 30 days.
func (h *UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	balance, err := h.credits.Balance(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}

	sub, err := h.subs.FindByUserID(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}
	isPro := sub != nil && sub.Status == domain.SubscriptionActive && domain.GetPlan(sub.Plan).Unlimited

	usage, err := h.generations.UsageSince(r.Context(), userID, time.Now().AddDate(0, 0, -30))
	if err != nil {
		Error(w, err)
		return
	}
	if usage == nil {
		usage = []domain.FeatureUsage{}
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"is_pro":            isPro,
		"remaining_credits": balance,
		"usage":             usage,
	})
}
