package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPricingPolicyIsValid(t *testing.T) {
	require.NoError(t, validatePricingPolicy(DefaultPricingPolicy()))
}

func TestValidatePricingPolicy(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PricingPolicy)
	}{
		{"premium below one", func(p *PricingPolicy) { p.NewConditionPremium = 0.9 }},
		{"first order discount full", func(p *PricingPolicy) { p.FirstOrderDiscount = 1 }},
		{"negative new customer discount", func(p *PricingPolicy) { p.NewCustomerDiscount = -0.1 }},
		{"negative cohort", func(p *PricingPolicy) { p.NewCustomerCohortSize = -1 }},
		{"cap above hundred", func(p *PricingPolicy) { p.PromotionStackingCap = 150 }},
		{"zero cap", func(p *PricingPolicy) { p.PromotionStackingCap = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := DefaultPricingPolicy()
			tc.mutate(&policy)
			assert.Error(t, validatePricingPolicy(policy))
		})
	}
}

func TestStaticHolderGet(t *testing.T) {
	policy := DefaultPricingPolicy()
	policy.NewCustomerCohortSize = 7

	holder := NewStaticPricingPolicyHolder(policy)
	assert.Equal(t, int64(7), holder.Get().NewCustomerCohortSize)
}
