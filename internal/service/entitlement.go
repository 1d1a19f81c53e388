package service

import (
	"context"
	"fmt"

	"github.com/ramadanhub/backend/internal/domain"
)

// SubscriptionStore resolves the principal's current subscription.
type SubscriptionStore interface {
	FindByUserID(ctx context.Context, userID string) (*domain.Subscription, error)
}

// CreditStore is the metered-usage counter. DecrementIfPositive must be
// atomic at the store: two concurrent calls can never both consume the last
// credit.
type CreditStore interface {
	Balance(ctx context.Context, userID string) (int, error)
	DecrementIfPositive(ctx context.Context, userID string) (int, bool, error)
	Refund(ctx context.Context, userID string) (int, error)
}

// UpgradeLinker builds the checkout destination for paywall denials. Must be
// pure; the gate calls it inline on the deny path.
type UpgradeLinker interface {
	UpgradeURL(userID, planHint string) string
}

// EntitlementService decides whether a principal may invoke a feature,
// debiting one credit per allowed metered call. It never falls open: any
// ambiguity about store state resolves to an error the handler maps to 5xx.
type EntitlementService struct {
	subs    SubscriptionStore
	credits CreditStore
	upgrade UpgradeLinker
}

// NewEntitlementService creates a new EntitlementService.
func NewEntitlementService(subs SubscriptionStore, credits CreditStore, upgrade UpgradeLinker) *EntitlementService {
	return &EntitlementService{
		subs:    subs,
		credits: credits,
		upgrade: upgrade,
	}
}

// Require checks access and, for metered features without an unlimited plan,
// debits one credit as part of the same decision. The debit happens exactly
// once per allowed call and never on denial.
func (s *EntitlementService) Require(ctx context.Context, userID string, feature domain.FeatureKey) (*domain.EntitlementResult, error) {
	return s.check(ctx, userID, feature, true)
}

// Peek runs the same decision without consuming a credit. Used by the
// entitlement pre-flight endpoint that feature pages call before rendering.
func (s *EntitlementService) Peek(ctx context.Context, userID string, feature domain.FeatureKey) (*domain.EntitlementResult, error) {
	return s.check(ctx, userID, feature, false)
}

func (s *EntitlementService) check(ctx context.Context, userID string, feature domain.FeatureKey, debit bool) (*domain.EntitlementResult, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	policy, ok := domain.PolicyFor(feature)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFeature, feature)
	}

	sub, err := s.subs.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	// Suspension denies everyone, unlimited plans included. Upgrading won't
	// fix it, so no upgrade URL.
	if sub != nil && sub.Status == domain.SubscriptionSuspended {
		return &domain.EntitlementResult{
			Allowed: false,
			Reason:  domain.ReasonAccountSuspended,
			IsPro:   domain.GetPlan(sub.Plan).Unlimited,
		}, nil
	}

	isPro := sub != nil && sub.Status == domain.SubscriptionActive && domain.GetPlan(sub.Plan).Unlimited

	if isPro || !policy.Metered {
		// Metering skipped; the counter is still reported for display.
		balance, err := s.credits.Balance(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		return &domain.EntitlementResult{
			Allowed:          true,
			IsPro:            isPro,
			RemainingCredits: balance,
		}, nil
	}

	if !debit {
		balance, err := s.credits.Balance(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		if balance > 0 {
			return &domain.EntitlementResult{Allowed: true, RemainingCredits: balance}, nil
		}
		return s.denyNoCredits(userID, policy), nil
	}

	newBalance, debited, err := s.credits.DecrementIfPositive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if !debited {
		return s.denyNoCredits(userID, policy), nil
	}

	return &domain.EntitlementResult{
		Allowed:          true,
		RemainingCredits: newBalance,
		Debited:          true,
	}, nil
}

func (s *EntitlementService) denyNoCredits(userID string, policy domain.FeaturePolicy) *domain.EntitlementResult {
	return &domain.EntitlementResult{
		Allowed:          false,
		Reason:           domain.ReasonNoCredits,
		RemainingCredits: 0,
		UpgradeURL:       s.upgrade.UpgradeURL(userID, policy.PlanHint),
	}
}

// Refund restores one credit after a provider failure that followed a
// successful debit. No-op for non-metered features.
func (s *EntitlementService) Refund(ctx context.Context, userID string, feature domain.FeatureKey) error {
	policy, ok := domain.PolicyFor(feature)
	if !ok || !policy.Metered {
		return nil
	}
	if _, err := s.credits.Refund(ctx, userID); err != nil {
		return fmt.Errorf("refund credit: %w", err)
	}
	return nil
}
