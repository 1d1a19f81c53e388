package domain

import "time"

// Generation statuses.
const (
	GenerationSucceeded = "succeeded"
	GenerationFailed    = "failed"
)

// Generation is the audit record of one allowed, provider-invoking call.
type Generation struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Feature    FeatureKey `json:"feature"`
	Model      string     `json:"model,omitempty"`
	Status     string     `json:"status"`
	DurationMS int64      `json:"durationMs"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// FamilyPhotoRequest is the input for POST /api/generate/family-photo.
type FamilyPhotoRequest struct {
	TemplateID string   `json:"templateId" validate:"required"`
	PhotoURLs  []string `json:"photoUrls" validate:"required,min=1,max=6,dive,url"`
	Note       string   `json:"note" validate:"max=300"`
}

// FamilyPhotoResult carries the generated composite image.
type FamilyPhotoResult struct {
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
	Prompt      string `json:"prompt"`
}

// MealPlanRequest is the input for POST /api/generate/meal-plan.
type MealPlanRequest struct {
	Days          int      `json:"days" validate:"required,min=1,max=30"`
	HouseholdSize int      `json:"householdSize" validate:"required,min=1,max=20"`
	Dietary       []string `json:"dietary" validate:"max=10,dive,max=40"`
	Cuisine       string   `json:"cuisine" validate:"max=60"`
}

// MealPlanDay is one day of a generated plan.
type MealPlanDay struct {
	Day     int      `json:"day"`
	Suhoor  string   `json:"suhoor"`
	Iftar   string   `json:"iftar"`
	Notes   string   `json:"notes,omitempty"`
	Grocery []string `json:"grocery,omitempty"`
}

// MealPlanResult is the structured meal plan returned by the provider.
type MealPlanResult struct {
	Days []MealPlanDay `json:"days"`
}

// GiftIdeasRequest is the input for POST /api/generate/gift-ideas.
type GiftIdeasRequest struct {
	Recipient string   `json:"recipient" validate:"required,max=80"`
	Age       int      `json:"age" validate:"omitempty,min=1,max=120"`
	Interests []string `json:"interests" validate:"max=10,dive,max=60"`
	BudgetUSD int      `json:"budgetUsd" validate:"omitempty,min=1"`
}

// GiftIdea is a single recommendation.
type GiftIdea struct {
	Title  string `json:"title"`
	Why    string `json:"why"`
	Budget string `json:"budget,omitempty"`
}

// GiftIdeasResult is the list of recommendations.
type GiftIdeasResult struct {
	Ideas []GiftIdea `json:"ideas"`
}

// FeatureUsage is one row of the usage endpoint: generations per feature
// within the current period.
type FeatureUsage struct {
	Feature FeatureKey `json:"feature"`
	Count   int        `json:"count"`
}
