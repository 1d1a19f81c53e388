package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Gateway defines the interface for hosted checkout providers.
type Gateway interface {
	// CreatePaymentLink creates a hosted checkout session for a plan and
	// returns the URL to redirect the user to. The reference is an opaque
	// string echoed back on the webhook notification.
	CreatePaymentLink(ctx context.Context, plan, orderID, reference string, priceCents int64) (string, error)
	// UpgradeURL builds the upgrade destination for paywall responses. Pure:
	// the entitlement gate calls it on the deny path and must not block on
	// provider I/O there.
	UpgradeURL(userID, planHint string) string
	// VerifySignature checks the webhook signature over the raw payload.
	VerifySignature(payload []byte, signature string) bool
}

// TransactionStatus constants reported on webhook notifications.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// WebhookEvent is the parsed payload of a provider notification.
type WebhookEvent struct {
	Event     string `json:"event"`
	OrderID   string `json:"orderId"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// HostedGateway talks to a hosted checkout provider over HTTP.
type HostedGateway struct {
	baseURL       string
	apiKey        string
	webhookSecret string
	siteURL       string
	httpClient    *http.Client
}

// NewHostedGateway creates a gateway for the given provider endpoint.
func NewHostedGateway(baseURL, apiKey, webhookSecret, siteURL string) *HostedGateway {
	return &HostedGateway{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		siteURL:       strings.TrimRight(siteURL, "/"),
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *HostedGateway) CreatePaymentLink(ctx context.Context, plan, orderID, reference string, priceCents int64) (string, error) {
	body, err := json.Marshal(map[string]any{
		"plan":         plan,
		"order_id":     orderID,
		"reference":    reference,
		"amount_cents": priceCents,
		"success_url":  g.siteURL + "/upgrade/success",
		"cancel_url":   g.siteURL + "/upgrade",
	})
	if err != nil {
		return "", fmt.Errorf("payment: marshal checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/checkout-sessions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment: checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("payment: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("payment: decode checkout response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("payment: provider returned no checkout URL")
	}
	return out.URL, nil
}

func (g *HostedGateway) UpgradeURL(userID, planHint string) string {
	q := url.Values{}
	q.Set("plan", planHint)
	if userID != "" {
		q.Set("ref", userID)
	}
	return g.siteURL + "/upgrade?" + q.Encode()
}

// VerifySignature checks an HMAC-SHA256 signature ("sha256=<hex>") over the
// raw webhook payload.
func (g *HostedGateway) VerifySignature(payload []byte, signature string) bool {
	return verifyHMAC(signature, payload, g.webhookSecret)
}

func verifyHMAC(signature string, payload []byte, secret string) bool {
	parts := strings.Split(signature, "=")
	if len(parts) != 2 || parts[0] != "sha256" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(parts[1]), []byte(expected))
}

// SignPayload produces the signature header value for a payload. Used by the
// mock gateway and by tests exercising the webhook endpoint.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// MockGateway is a no-network implementation for development and tests.
type MockGateway struct {
	Secret string
}

func NewMockGateway() *MockGateway {
	return &MockGateway{Secret: "mock-secret"}
}

func (g *MockGateway) CreatePaymentLink(_ context.Context, plan, orderID, reference string, priceCents int64) (string, error) {
	q := url.Values{}
	q.Set("order_id", orderID)
	q.Set("plan", plan)
	return "https://checkout.example.com/pay?" + q.Encode(), nil
}

func (g *MockGateway) UpgradeURL(userID, planHint string) string {
	q := url.Values{}
	q.Set("plan", planHint)
	if userID != "" {
		q.Set("ref", userID)
	}
	return "https://ramadanhub.app/upgrade?" + q.Encode()
}

func (g *MockGateway) VerifySignature(payload []byte, signature string) bool {
	return verifyHMAC(signature, payload, g.Secret)
}
