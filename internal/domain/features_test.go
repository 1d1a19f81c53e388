package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyForKnownFeatures(t *testing.T) {
	for _, key := range []FeatureKey{
		FeatureTestGate,
		FeatureFamilyPhoto,
		FeatureMealPlan,
		FeatureGiftIdeas,
		FeatureAssistant,
	} {
		policy, ok := PolicyFor(key)
		assert.True(t, ok, "feature %q must be registered", key)
		assert.NotEmpty(t, policy.PlanHint, "feature %q needs a plan hint for upgrade URLs", key)
	}
}

func TestPolicyForUnknownFeature(t *testing.T) {
	_, ok := PolicyFor(FeatureKey("premium_dreams"))
	assert.False(t, ok)

	_, ok = PolicyFor(FeatureKey(""))
	assert.False(t, ok)
}

func TestGetPlanUnknownDefaultsToFree(t *testing.T) {
	plan := GetPlan("enterprise")
	assert.Equal(t, "free", plan.ID)
	assert.False(t, plan.Unlimited)
}

func TestPaidPlansAreUnlimited(t *testing.T) {
	for _, id := range []string{"pro", "family"} {
		plan := GetPlan(id)
		assert.True(t, plan.Unlimited, "plan %q", id)
		assert.Greater(t, plan.PriceUSD, 0, "plan %q", id)
	}
}
