package domain

// Plan represents a subscription plan for AI generation features.
type Plan struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	MonthlyCredits int    `json:"monthlyCredits"` // Metered generations per month (0 when unlimited)
	Unlimited      bool   `json:"unlimited"`      // No metering on this plan
	PriceUSD       int    `json:"priceUsd"`       // Monthly price in USD cents (900 = $9)
	Popular        bool   `json:"popular"`        // Show "Most Popular" badge
}

// AvailablePlans returns all available plans.
func AvailablePlans() []Plan {
	return []Plan{
		{
			ID:             "free",
			Name:           "Free",
			MonthlyCredits: 10,
			Unlimited:      false,
			PriceUSD:       0,
			Popular:        false,
		},
		{
			ID:             "pro",
			Name:           "Pro",
			MonthlyCredits: 0,
			Unlimited:      true,
			PriceUSD:       900, // $9/mo
			Popular:        false,
		},
		{
			ID:             "family",
			Name:           "Family",
			MonthlyCredits: 0,
			Unlimited:      true,
			PriceUSD:       1900, // $19/mo
			Popular:        true,
		},
	}
}

// GetPlan returns the plan for a given ID, or the free plan if not found.
func GetPlan(id string) Plan {
	for _, p := range AvailablePlans() {
		if p.ID == id {
			return p
		}
	}
	return AvailablePlans()[0] // default to free
}
