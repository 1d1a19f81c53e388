package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ramadanhub/backend/internal/domain"
	"github.com/ramadanhub/backend/pkg/crypto"
	"github.com/ramadanhub/backend/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEncryptor(t *testing.T) *crypto.Encryptor {
	t.Helper()
	enc, err := crypto.NewEncryptor("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	return enc
}

func TestHandlePaymentWebhookIgnoresNonSuccess(t *testing.T) {
	// Repo is nil on purpose: pending/failed events must return before any
	// store access.
	svc := NewSubscriptionService(nil, payment.NewMockGateway(), newTestEncryptor(t))

	for _, status := range []string{payment.StatusPending, payment.StatusFailed} {
		err := svc.HandlePaymentWebhook(context.Background(), &payment.WebhookEvent{
			OrderID: "ord-1",
			Status:  status,
		})
		assert.NoError(t, err, "status %q", status)
	}
}

func TestHandlePaymentWebhookRejectsBadReference(t *testing.T) {
	enc := newTestEncryptor(t)
	svc := NewSubscriptionService(nil, payment.NewMockGateway(), enc)

	t.Run("unsealed reference", func(t *testing.T) {
		err := svc.HandlePaymentWebhook(context.Background(), &payment.WebhookEvent{
			OrderID:   "ord-1",
			Reference: "plaintext-forgery",
			Status:    payment.StatusSuccess,
		})
		require.Error(t, err)
		appErr, ok := domain.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("sealed but not JSON", func(t *testing.T) {
		ref, err := enc.Encrypt([]byte("not json"))
		require.NoError(t, err)

		werr := svc.HandlePaymentWebhook(context.Background(), &payment.WebhookEvent{
			OrderID:   "ord-1",
			Reference: ref,
			Status:    payment.StatusSuccess,
		})
		assert.Error(t, werr)
	})
}

func TestCreateCheckoutRejectsFreePlan(t *testing.T) {
	svc := NewSubscriptionService(nil, payment.NewMockGateway(), newTestEncryptor(t))

	_, err := svc.CreateCheckout(context.Background(), "user-1", "free")
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
}

func TestCheckoutReferenceRoundTrip(t *testing.T) {
	enc := newTestEncryptor(t)

	refJSON, err := json.Marshal(domain.CheckoutReference{UserID: "user-1", Plan: "family"})
	require.NoError(t, err)

	sealed, err := enc.Encrypt(refJSON)
	require.NoError(t, err)

	opened, err := enc.Decrypt(sealed)
	require.NoError(t, err)

	var ref domain.CheckoutReference
	require.NoError(t, json.Unmarshal(opened, &ref))
	assert.Equal(t, "user-1", ref.UserID)
	assert.Equal(t, "family", ref.Plan)
}
