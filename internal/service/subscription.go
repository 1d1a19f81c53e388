package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ramadanhub/backend/internal/domain"
	"github.com/ramadanhub/backend/internal/repository"
	"github.com/ramadanhub/backend/pkg/crypto"
	"github.com/ramadanhub/backend/pkg/payment"
	"github.com/google/uuid"
)

type SubscriptionService struct {
	repo    *repository.SubscriptionRepository
	payment payment.Gateway
	enc     *crypto.Encryptor
}

func NewSubscriptionService(repo *repository.SubscriptionRepository, gateway payment.Gateway, enc *crypto.Encryptor) *SubscriptionService {
	return &SubscriptionService{
		repo:    repo,
		payment: gateway,
		enc:     enc,
	}
}

// GetCurrentSubscription returns the current subscription for a user.
func (s *SubscriptionService) GetCurrentSubscription(ctx context.Context, userID string) (*domain.Subscription, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// CreateCheckout creates a hosted checkout link for upgrading to a plan. The
// user and plan travel through the provider as an encrypted reference so the
// webhook can settle without trusting provider-supplied identity fields.
func (s *SubscriptionService) CreateCheckout(ctx context.Context, userID, planID string) (*domain.PaymentLinkResponse, error) {
	plan := domain.GetPlan(planID)
	if !plan.Unlimited || plan.PriceUSD == 0 {
		return nil, domain.ErrBadRequest("invalid plan or free plan")
	}

	orderID := uuid.New().String()

	refJSON, err := json.Marshal(domain.CheckoutReference{UserID: userID, Plan: plan.ID})
	if err != nil {
		return nil, domain.ErrInternal("failed to build checkout reference", err)
	}
	reference, err := s.enc.Encrypt(refJSON)
	if err != nil {
		return nil, domain.ErrInternal("failed to seal checkout reference", err)
	}

	paymentURL, err := s.payment.CreatePaymentLink(ctx, plan.ID, orderID, reference, int64(plan.PriceUSD))
	if err != nil {
		return nil, domain.ErrInternal("failed to create payment link", err)
	}

	return &domain.PaymentLinkResponse{
		PaymentURL: paymentURL,
		OrderID:    orderID,
	}, nil
}

// HandlePaymentWebhook settles a provider notification. The caller has
// already verified the signature over the raw payload.
func (s *SubscriptionService) HandlePaymentWebhook(ctx context.Context, event *payment.WebhookEvent) error {
	if event.Status != payment.StatusSuccess {
		return nil // pending/failed notifications are acknowledged, not settled
	}

	refJSON, err := s.enc.Decrypt(event.Reference)
	if err != nil {
		return domain.ErrBadRequest("invalid checkout reference")
	}
	var ref domain.CheckoutReference
	if err := json.Unmarshal(refJSON, &ref); err != nil {
		return domain.ErrBadRequest("malformed checkout reference")
	}

	now := time.Now()
	sub := &domain.Subscription{
		ID:                 uuid.New().String(),
		UserID:             ref.UserID,
		Plan:               ref.Plan,
		Status:             domain.SubscriptionActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0), // 1 month
		PaymentProviderID:  event.OrderID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// SimulateUpgrade is a dev-only helper to instantly upgrade a user (bypassing payment).
func (s *SubscriptionService) SimulateUpgrade(ctx context.Context, userID, planID string) error {
	now := time.Now()
	sub := &domain.Subscription{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Plan:               planID,
		Status:             domain.SubscriptionActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return s.repo.Create(ctx, sub)
}
