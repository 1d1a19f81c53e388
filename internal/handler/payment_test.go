package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ramadanhub/backend/internal/service"
	"github.com/ramadanhub/backend/pkg/crypto"
	"github.com/ramadanhub/backend/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookHandler(t *testing.T) (*PaymentHandler, *payment.MockGateway) {
	t.Helper()
	enc, err := crypto.NewEncryptor("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	gateway := payment.NewMockGateway()
	svc := service.NewSubscriptionService(nil, gateway, enc)
	return NewPaymentHandler(svc, gateway), gateway
}

func TestWebhookRejectsUnsignedPayload(t *testing.T) {
	h, _ := newWebhookHandler(t)

	body := `{"event":"payment.updated","orderId":"ord-1","status":"pending"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", strings.NewReader(body))

	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookRejectsWrongSignature(t *testing.T) {
	h, _ := newWebhookHandler(t)

	body := `{"event":"payment.updated","orderId":"ord-1","status":"pending"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", strings.NewReader(body))
	req.Header.Set("X-Signature", payment.SignPayload([]byte(body), "attacker-secret"))

	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookAcknowledgesSignedPendingEvent(t *testing.T) {
	h, gateway := newWebhookHandler(t)

	body := `{"event":"payment.updated","orderId":"ord-1","status":"pending"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", strings.NewReader(body))
	req.Header.Set("X-Signature", payment.SignPayload([]byte(body), gateway.Secret))

	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	h, gateway := newWebhookHandler(t)

	body := `{not json`
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", strings.NewReader(body))
	req.Header.Set("X-Signature", payment.SignPayload([]byte(body), gateway.Secret))

	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
