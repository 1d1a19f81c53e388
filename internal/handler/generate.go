package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/ramadanhub/backend/internal/contextkeys"
	"github.com/ramadanhub/backend/internal/domain"
)

// EntitlementGate is the decision dependency of the feature endpoints.
type EntitlementGate interface {
	Require(ctx context.Context, userID string, feature domain.FeatureKey) (*domain.EntitlementResult, error)
	Refund(ctx context.Context, userID string, feature domain.FeatureKey) error
}

// Generator is the provider-facing dependency of the feature endpoints.
type Generator interface {
	TestGate(ctx context.Context, userID string) (map[string]any, error)
	FamilyPhoto(ctx context.Context, userID string, req *domain.FamilyPhotoRequest) (*domain.FamilyPhotoResult, error)
	MealPlan(ctx context.Context, userID string, req *domain.MealPlanRequest) (*domain.MealPlanResult, error)
	GiftIdeas(ctx context.Context, userID string, req *domain.GiftIdeasRequest) (*domain.GiftIdeasResult, error)
}

// GenerateHandler bridges feature requests to the entitlement gate and, on
// allow, to the generation provider. Deny never touches the provider;
// provider failure after a debit refunds the credit.
type GenerateHandler struct {
	gate EntitlementGate
	gen  Generator
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(gate EntitlementGate, gen Generator) *GenerateHandler {
	return &GenerateHandler{gate: gate, gen: gen}
}

// TestGate handles POST /api/ai/test-gate.
func (h *GenerateHandler) TestGate(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, domain.FeatureTestGate, func(ctx context.Context, userID string) (map[string]any, error) {
		return h.gen.TestGate(ctx, userID)
	})
}

// FamilyPhoto handles POST /api/generate/family-photo.
func (h *GenerateHandler) FamilyPhoto(w http.ResponseWriter, r *http.Request) {
	var req domain.FamilyPhotoRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}
	h.run(w, r, domain.FeatureFamilyPhoto, func(ctx context.Context, userID string) (map[string]any, error) {
		result, err := h.gen.FamilyPhoto(ctx, userID, &req)
		if err != nil {
			return nil, err
		}
		return map[string]any{"image": result}, nil
	})
}

// MealPlan handles POST /api/generate/meal-plan.
func (h *GenerateHandler) MealPlan(w http.ResponseWriter, r *http.Request) {
	var req domain.MealPlanRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}
	h.run(w, r, domain.FeatureMealPlan, func(ctx context.Context, userID string) (map[string]any, error) {
		result, err := h.gen.MealPlan(ctx, userID, &req)
		if err != nil {
			return nil, err
		}
		return map[string]any{"plan": result}, nil
	})
}

// GiftIdeas handles POST /api/generate/gift-ideas.
func (h *GenerateHandler) GiftIdeas(w http.ResponseWriter, r *http.Request) {
	var req domain.GiftIdeasRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}
	h.run(w, r, domain.FeatureGiftIdeas, func(ctx context.Context, userID string) (map[string]any, error) {
		result, err := h.gen.GiftIdeas(ctx, userID, &req)
		if err != nil {
			return nil, err
		}
		return map[string]any{"gifts": result}, nil
	})
}

// run executes the gate-then-provider flow shared by every feature endpoint.
func (h *GenerateHandler) run(
	w http.ResponseWriter,
	r *http.Request,
	feature domain.FeatureKey,
	invoke func(ctx context.Context, userID string) (map[string]any, error),
) {
	userID, _ := r.Context().Value(contextkeys.UserID).(string)

	res, err := h.gate.Require(r.Context(), userID, feature)
	if err != nil {
		Error(w, err)
		return
	}
	if !res.Allowed {
		Paywall(w, res)
		return
	}

	data, err := invoke(r.Context(), userID)
	if err != nil {
		// The allowance was granted but generation failed: give the credit
		// back before reporting. Refund uses a fresh context because the
		// request context may already be canceled.
		if res.Debited {
			if rerr := h.gate.Refund(context.Background(), userID, feature); rerr != nil {
				log.Printf("failed to refund credit for %s: %v", userID, rerr)
			} else {
				res.RemainingCredits++
			}
		}
		if appErr, ok := domain.AsAppError(err); ok {
			JSON(w, appErr.Code, map[string]string{"error": appErr.Message})
			return
		}
		ProviderError(w, err)
		return
	}

	Success(w, data, res)
}
