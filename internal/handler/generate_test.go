package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ramadanhub/backend/internal/contextkeys"
	"github.com/ramadanhub/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGate struct {
	result  *domain.EntitlementResult
	err     error
	refunds int
}

func (f *fakeGate) Require(_ context.Context, _ string, _ domain.FeatureKey) (*domain.EntitlementResult, error) {
	return f.result, f.err
}

func (f *fakeGate) Refund(_ context.Context, _ string, _ domain.FeatureKey) error {
	f.refunds++
	return nil
}

type fakeGenerator struct {
	calls int
	err   error
}

func (f *fakeGenerator) TestGate(_ context.Context, _ string) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"message": "ok"}, nil
}

func (f *fakeGenerator) FamilyPhoto(_ context.Context, _ string, _ *domain.FamilyPhotoRequest) (*domain.FamilyPhotoResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.FamilyPhotoResult{ImageBase64: "aGk=", MimeType: "image/png"}, nil
}

func (f *fakeGenerator) MealPlan(_ context.Context, _ string, _ *domain.MealPlanRequest) (*domain.MealPlanResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.MealPlanResult{}, nil
}

func (f *fakeGenerator) GiftIdeas(_ context.Context, _ string, _ *domain.GiftIdeasRequest) (*domain.GiftIdeasResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.GiftIdeasResult{}, nil
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(r.Context(), contextkeys.UserID, "user-1")
	return r.WithContext(ctx)
}

func TestTestGateSuccessEnvelope(t *testing.T) {
	gate := &fakeGate{result: &domain.EntitlementResult{Allowed: true, RemainingCredits: 4, Debited: true}}
	gen := &fakeGenerator{}
	h := NewGenerateHandler(gate, gen)

	rec := httptest.NewRecorder()
	h.TestGate(rec, authedRequest(http.MethodPost, "/api/ai/test-gate", ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SUCCESS", body.Status)
	assert.Equal(t, "ok", body.Data["message"])
	assert.Equal(t, false, body.Data["is_pro"])
	assert.Equal(t, float64(4), body.Data["remaining_credits"])
	assert.Equal(t, 1, gen.calls)
	assert.Zero(t, gate.refunds)
}

func TestTestGatePaywallSkipsProvider(t *testing.T) {
	gate := &fakeGate{result: &domain.EntitlementResult{
		Allowed:    false,
		Reason:     domain.ReasonNoCredits,
		UpgradeURL: "https://ramadanhub.app/upgrade?plan=pro",
	}}
	gen := &fakeGenerator{}
	h := NewGenerateHandler(gate, gen)

	rec := httptest.NewRecorder()
	h.TestGate(rec, authedRequest(http.MethodPost, "/api/ai/test-gate", ""))

	require.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PAYWALL", body["status"])
	assert.Equal(t, domain.ReasonNoCredits, body["reason"])
	assert.Equal(t, "https://ramadanhub.app/upgrade?plan=pro", body["upgrade_url"])

	assert.Zero(t, gen.calls, "denied requests must never reach the provider")
	assert.Zero(t, gate.refunds)
}

func TestTestGateProviderFailureRefunds(t *testing.T) {
	gate := &fakeGate{result: &domain.EntitlementResult{Allowed: true, RemainingCredits: 4, Debited: true}}
	gen := &fakeGenerator{err: errors.New("provider: upstream timeout")}
	h := NewGenerateHandler(gate, gen)

	rec := httptest.NewRecorder()
	h.TestGate(rec, authedRequest(http.MethodPost, "/api/ai/test-gate", ""))

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ERROR", body["status"])
	assert.NotContains(t, body["message"], "timeout", "provider details must not leak")

	assert.Equal(t, 1, gate.refunds, "debited credit must be returned on provider failure")
}

func TestTestGateProviderFailureNoRefundWithoutDebit(t *testing.T) {
	// Pro users are never debited, so a provider failure refunds nothing.
	gate := &fakeGate{result: &domain.EntitlementResult{Allowed: true, IsPro: true, RemainingCredits: 10}}
	gen := &fakeGenerator{err: errors.New("provider: boom")}
	h := NewGenerateHandler(gate, gen)

	rec := httptest.NewRecorder()
	h.TestGate(rec, authedRequest(http.MethodPost, "/api/ai/test-gate", ""))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Zero(t, gate.refunds)
}

func TestGateErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		gateErr error
		want    int
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"unknown feature", domain.ErrUnknownFeature, http.StatusForbidden},
		{"store unavailable", domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := &fakeGate{err: tt.gateErr}
			gen := &fakeGenerator{}
			h := NewGenerateHandler(gate, gen)

			rec := httptest.NewRecorder()
			h.TestGate(rec, authedRequest(http.MethodPost, "/api/ai/test-gate", ""))

			assert.Equal(t, tt.want, rec.Code)
			assert.Zero(t, gen.calls)
		})
	}
}

func TestStoreUnavailableBodyIsGeneric(t *testing.T) {
	gate := &fakeGate{err: domain.ErrStoreUnavailable}
	h := NewGenerateHandler(gate, &fakeGenerator{})

	rec := httptest.NewRecorder()
	h.TestGate(rec, authedRequest(http.MethodPost, "/api/ai/test-gate", ""))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body["error"], "store")
	assert.NotContains(t, body["error"], "sql")
}

func TestMealPlanValidationErrorRefunds(t *testing.T) {
	gate := &fakeGate{result: &domain.EntitlementResult{Allowed: true, RemainingCredits: 4, Debited: true}}
	gen := &fakeGenerator{err: domain.ErrValidation("Days is required")}
	h := NewGenerateHandler(gate, gen)

	rec := httptest.NewRecorder()
	h.MealPlan(rec, authedRequest(http.MethodPost, "/api/generate/meal-plan", `{"days":0,"householdSize":2}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 1, gate.refunds)
}

func TestFamilyPhotoBadJSONRejectedBeforeGate(t *testing.T) {
	gate := &fakeGate{result: &domain.EntitlementResult{Allowed: true, Debited: true}}
	gen := &fakeGenerator{}
	h := NewGenerateHandler(gate, gen)

	rec := httptest.NewRecorder()
	h.FamilyPhoto(rec, authedRequest(http.MethodPost, "/api/generate/family-photo", "{not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, gen.calls)
	assert.Zero(t, gate.refunds, "nothing was debited, nothing to refund")
}

func TestGiftIdeasSuccess(t *testing.T) {
	gate := &fakeGate{result: &domain.EntitlementResult{Allowed: true, RemainingCredits: 9, Debited: true}}
	gen := &fakeGenerator{}
	h := NewGenerateHandler(gate, gen)

	rec := httptest.NewRecorder()
	h.GiftIdeas(rec, authedRequest(http.MethodPost, "/api/generate/gift-ideas", `{"recipient":"my brother"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, gen.calls)
}
