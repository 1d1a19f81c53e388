package domain

// FeatureKey identifies a gated AI feature. The set is closed: keys outside
// the registry fail the entitlement check with ErrUnknownFeature.
type FeatureKey string

const (
	FeatureTestGate    FeatureKey = "test_gate_usage"
	FeatureFamilyPhoto FeatureKey = "family_photo_generation"
	FeatureMealPlan    FeatureKey = "meal_plan_generation"
	FeatureGiftIdeas   FeatureKey = "gift_recommendation"
	FeatureAssistant   FeatureKey = "assistant_chat"
)

// FeaturePolicy describes how access to a feature is decided.
type FeaturePolicy struct {
	Metered  bool   // One credit is debited per allowed call for non-pro users
	PlanHint string // Plan suggested in the upgrade URL when denied
}

// featurePolicies is the registry mapping each feature to its policy.
var featurePolicies = map[FeatureKey]FeaturePolicy{
	FeatureTestGate:    {Metered: true, PlanHint: "pro"},
	FeatureFamilyPhoto: {Metered: true, PlanHint: "family"},
	FeatureMealPlan:    {Metered: true, PlanHint: "pro"},
	FeatureGiftIdeas:   {Metered: true, PlanHint: "pro"},
	FeatureAssistant:   {Metered: true, PlanHint: "pro"},
}

// PolicyFor returns the policy for a feature key and whether the key is known.
func PolicyFor(key FeatureKey) (FeaturePolicy, bool) {
	p, ok := featurePolicies[key]
	return p, ok
}
