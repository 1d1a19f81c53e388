package domain

import "time"

// Subscription statuses.
const (
	SubscriptionActive    = "active"
	SubscriptionCanceled  = "canceled"
	SubscriptionExpired   = "expired"
	SubscriptionSuspended = "suspended"
)

// Subscription represents a user's subscription to a plan.
type Subscription struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Plan               string    `json:"plan"`
	Status             string    `json:"status"` // active, canceled, expired, suspended
	CurrentPeriodStart time.Time `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time `json:"currentPeriodEnd"`
	PaymentProviderID  string    `json:"paymentProviderId"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CreateSubscriptionRequest is the input for creating a checkout.
type CreateSubscriptionRequest struct {
	Plan string `json:"plan" validate:"required,oneof=pro family"`
}

// PaymentLinkResponse returns the URL to redirect the user to for payment.
type PaymentLinkResponse struct {
	PaymentURL string `json:"paymentUrl"`
	OrderID    string `json:"orderId"`
}

// CheckoutReference is sealed into the opaque reference passed through the
// payment provider and recovered from the webhook notification.
type CheckoutReference struct {
	UserID string `json:"userId"`
	Plan   string `json:"plan"`
}
