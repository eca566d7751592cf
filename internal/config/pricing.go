package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PricingPolicy holds the tunable knobs of the rental price computation.
// Values that product owners adjust without a deploy live here, not in code.
type PricingPolicy struct {
	// Multiplier applied when the rented article's condition is "New".
	NewConditionPremium float64 `mapstructure:"newConditionPremium"`

	// Fraction taken off for a customer with zero completed orders.
	FirstOrderDiscount float64 `mapstructure:"firstOrderDiscount"`

	// Fraction taken off for customers inside the early-adopter cohort.
	NewCustomerDiscount float64 `mapstructure:"newCustomerDiscount"`

	// Size of the early-adopter cohort, counted by customer signup order.
	NewCustomerCohortSize int64 `mapstructure:"newCustomerCohortSize"`

	// Upper bound for stacked promotion percentages. Stacking above this
	// would drive the rental subtotal negative.
	PromotionStackingCap float64 `mapstructure:"promotionStackingCap"`
}

func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		NewConditionPremium:   1.10,
		FirstOrderDiscount:    0.33,
		NewCustomerDiscount:   0.50,
		NewCustomerCohortSize: 100,
		PromotionStackingCap:  100,
	}
}

type PricingPolicyHolder struct {
	current atomic.Value // holds PricingPolicy
}

func NewPricingPolicyHolder() (*PricingPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/wardrobers/config") // Volume-mounted config
	v.AddConfigPath("/etc/wardrobers")            // System config
	v.AddConfigPath(".")                          // Current directory (dev mode)

	v.SetEnvPrefix("WARDROBERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPricingPolicy()
		v.SetDefault("pricing.newConditionPremium", defaults.NewConditionPremium)
		v.SetDefault("pricing.firstOrderDiscount", defaults.FirstOrderDiscount)
		v.SetDefault("pricing.newCustomerDiscount", defaults.NewCustomerDiscount)
		v.SetDefault("pricing.newCustomerCohortSize", defaults.NewCustomerCohortSize)
		v.SetDefault("pricing.promotionStackingCap", defaults.PromotionStackingCap)
	}

	var policy PricingPolicy
	if err := v.UnmarshalKey("pricing", &policy); err != nil {
		return nil, err
	}
	if err := validatePricingPolicy(policy); err != nil {
		return nil, err
	}

	holder := &PricingPolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingPolicy
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-policy] reload failed: %v", err)
			return
		}
		if err := validatePricingPolicy(updated); err != nil {
			log.Printf("[pricing-policy] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pricing-policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPricingPolicyHolder wraps a fixed policy, used by tests.
func NewStaticPricingPolicyHolder(policy PricingPolicy) *PricingPolicyHolder {
	holder := &PricingPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func (h *PricingPolicyHolder) Get() PricingPolicy {
	return h.current.Load().(PricingPolicy)
}

func validatePricingPolicy(policy PricingPolicy) error {
	if policy.NewConditionPremium < 1 {
		return errors.New("pricing.newConditionPremium must be >= 1")
	}
	if policy.FirstOrderDiscount < 0 || policy.FirstOrderDiscount >= 1 {
		return errors.New("pricing.firstOrderDiscount must be in [0, 1)")
	}
	if policy.NewCustomerDiscount < 0 || policy.NewCustomerDiscount >= 1 {
		return errors.New("pricing.newCustomerDiscount must be in [0, 1)")
	}
	if policy.NewCustomerCohortSize < 0 {
		return errors.New("pricing.newCustomerCohortSize cannot be negative")
	}
	if policy.PromotionStackingCap <= 0 || policy.PromotionStackingCap > 100 {
		return errors.New("pricing.promotionStackingCap must be in (0, 100]")
	}
	return nil
}
