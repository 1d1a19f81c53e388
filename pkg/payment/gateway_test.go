package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	payload := []byte(`{"event":"payment.updated","orderId":"ord-1","status":"success"}`)
	secret := "webhook-secret"

	sig := SignPayload(payload, secret)
	assert.True(t, len(sig) > len("sha256="))

	g := &HostedGateway{webhookSecret: secret}
	assert.True(t, g.VerifySignature(payload, sig))
}

func TestVerifySignatureRejects(t *testing.T) {
	payload := []byte(`{"orderId":"ord-1"}`)
	g := &HostedGateway{webhookSecret: "right-secret"}

	t.Run("wrong secret", func(t *testing.T) {
		sig := SignPayload(payload, "wrong-secret")
		assert.False(t, g.VerifySignature(payload, sig))
	})

	t.Run("tampered payload", func(t *testing.T) {
		sig := SignPayload(payload, "right-secret")
		assert.False(t, g.VerifySignature([]byte(`{"orderId":"ord-2"}`), sig))
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.False(t, g.VerifySignature(payload, "not-a-signature"))
		assert.False(t, g.VerifySignature(payload, "md5=abc"))
		assert.False(t, g.VerifySignature(payload, ""))
	})
}

func TestHostedGatewayUpgradeURL(t *testing.T) {
	g := NewHostedGateway("https://pay.example.com", "key", "secret", "https://ramadanhub.app/")

	url := g.UpgradeURL("user-1", "family")
	assert.Equal(t, "https://ramadanhub.app/upgrade?plan=family&ref=user-1", url)

	// Anonymous denials still get a destination.
	url = g.UpgradeURL("", "pro")
	assert.Equal(t, "https://ramadanhub.app/upgrade?plan=pro", url)
}

func TestHostedGatewayCreatePaymentLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout-sessions", r.URL.Path)
		assert.Equal(t, "Bearer api-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"url":"https://pay.example.com/session/abc"}`)
	}))
	defer srv.Close()

	g := NewHostedGateway(srv.URL, "api-key", "secret", "https://ramadanhub.app")

	url, err := g.CreatePaymentLink(context.Background(), "pro", "ord-1", "sealed-ref", 900)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/session/abc", url)
}

func TestHostedGatewayCreatePaymentLinkProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream down")
	}))
	defer srv.Close()

	g := NewHostedGateway(srv.URL, "api-key", "secret", "https://ramadanhub.app")

	_, err := g.CreatePaymentLink(context.Background(), "pro", "ord-1", "sealed-ref", 900)
	assert.ErrorContains(t, err, "status 502")
}

func TestMockGatewaySignsItsOwnWebhooks(t *testing.T) {
	g := NewMockGateway()
	payload := []byte(`{"orderId":"ord-9","status":"success"}`)

	sig := SignPayload(payload, g.Secret)
	assert.True(t, g.VerifySignature(payload, sig))
}
