package service

import (
	"context"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	catalogdomain "github.com/wardrobers/backend-api-sub000/internal/catalog/domain"
	"github.com/wardrobers/backend-api-sub000/internal/clock"
	"github.com/wardrobers/backend-api-sub000/internal/config"
	customerdomain "github.com/wardrobers/backend-api-sub000/internal/customer/domain"
	"github.com/wardrobers/backend-api-sub000/internal/observability/metrics"
	"github.com/wardrobers/backend-api-sub000/internal/pricing/domain"
	promotiondomain "github.com/wardrobers/backend-api-sub000/internal/promotion/domain"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Policy    *config.PricingPolicyHolder
	Catalog   catalogdomain.Repository
	Customers customerdomain.Resolver
	Engine    promotiondomain.Engine
	Metrics   *metrics.Metrics `optional:"true"`
}

type service struct {
	log       *zap.Logger
	clock     clock.Clock
	policy    *config.PricingPolicyHolder
	catalog   catalogdomain.Repository
	customers customerdomain.Resolver
	engine    promotiondomain.Engine
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &service{
		log:       p.Log.Named("pricing.service"),
		clock:     p.Clock,
		policy:    p.Policy,
		catalog:   p.Catalog,
		customers: p.Customers,
		engine:    p.Engine,
		metrics:   p.Metrics,
	}
}

// Quote runs the composition in a fixed order. Each stage feeds the
// next; only promotion consumption has a side effect.
func (s *service) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.PriceBreakdown, error) {
	if req.VariantID == 0 {
		s.metrics.RecordQuoteFailure(ctx, "invalid_variant")
		return nil, domain.ErrInvalidVariant
	}
	if !req.EndDate.After(req.StartDate) {
		s.metrics.RecordQuoteFailure(ctx, "invalid_window")
		return nil, domain.ErrInvalidRentalWindow
	}
	days := rentalDays(req.StartDate, req.EndDate)
	policy := s.policy.Get()

	tier, err := s.catalog.GetTierByVariant(ctx, req.VariantID)
	if err != nil {
		s.metrics.RecordQuoteFailure(ctx, "lookup_error")
		return nil, err
	}
	if tier == nil {
		s.metrics.RecordQuoteFailure(ctx, "tier_not_found")
		return nil, catalogdomain.ErrTierNotFound
	}

	factor, err := s.resolvePeriodFactor(ctx, tier, days)
	if err != nil {
		s.metrics.RecordQuoteFailure(ctx, "factor_not_found")
		return nil, err
	}

	multiplier, err := s.resolveCategoryMultiplier(ctx, tier)
	if err != nil {
		s.metrics.RecordQuoteFailure(ctx, "lookup_error")
		return nil, err
	}

	premium := 1.0
	if req.Condition == domain.ConditionNew {
		premium = policy.NewConditionPremium
	}

	userFraction, err := s.resolveUserDiscount(ctx, req.UserID, policy)
	if err != nil {
		s.metrics.RecordQuoteFailure(ctx, "lookup_error")
		return nil, err
	}

	promos, err := s.engine.Aggregate(ctx, promotiondomain.AggregateRequest{
		VariantID: req.VariantID,
		UserID:    req.UserID,
		BasePrice: tier.RetailPrice,
		Now:       s.clock.Now(),
	})
	if err != nil {
		s.metrics.RecordQuoteFailure(ctx, "lookup_error")
		return nil, err
	}

	subtotal := tier.RetailPrice
	subtotal *= factor
	subtotal *= multiplier
	subtotal *= premium
	subtotal *= 1 - userFraction
	subtotal *= 1 - promos.DiscountPercentage/100

	thresholdDiscount := thresholdDiscountFor(tier, subtotal)
	subtotal = math.Max(0, subtotal-thresholdDiscount)

	insurance := derefOrZero(tier.InsuranceFee)
	cleaning := derefOrZero(tier.CleaningFee)
	tax := tier.TaxRate * subtotal

	s.metrics.RecordQuoteComputed(ctx, req.UserID == nil)

	return &domain.PriceBreakdown{
		VariantID:            req.VariantID,
		RentalDays:           days,
		RetailPrice:          tier.RetailPrice,
		PeriodFactor:         factor,
		CategoryMultiplier:   multiplier,
		ConditionPremium:     premium,
		UserDiscountFraction: userFraction,
		PromotionDiscount:    promos.DiscountPercentage,
		AppliedPromotions:    promos.Applied,
		ThresholdDiscount:    thresholdDiscount,
		RentalSubtotal:       subtotal,
		InsuranceFee:         insurance,
		CleaningFee:          cleaning,
		TaxAmount:            tax,
		Total:                subtotal + insurance + cleaning + tax,
	}, nil
}

// resolvePeriodFactor picks the greatest configured period that fits
// the requested length, falling back to 1.0 when every period is
// longer. Duplicate periods violate the tier invariant; the lowest
// percentage wins and the violation is logged.
func (s *service) resolvePeriodFactor(ctx context.Context, tier *catalogdomain.PricingTier, days int) (float64, error) {
	factors, err := s.catalog.ListPeriodFactors(ctx, tier.ID)
	if err != nil {
		return 0, err
	}

	var selected *catalogdomain.PriceFactor
	for i := range factors {
		f := &factors[i]
		if f.RentalPeriod > days {
			continue
		}
		switch {
		case selected == nil, f.RentalPeriod > selected.RentalPeriod:
			selected = f
		case f.RentalPeriod == selected.RentalPeriod:
			s.log.Warn("duplicate period factors on tier",
				zap.Int64("tier_id", int64(tier.ID)),
				zap.Int("rental_period", f.RentalPeriod),
				zap.String("issue", "data_quality"),
			)
			if f.Percentage < selected.Percentage {
				selected = f
			}
		}
	}
	if selected == nil {
		return 1.0, nil
	}
	if selected.Percentage <= 0 {
		s.log.Error("period factor has non-positive percentage",
			zap.Int64("tier_id", int64(tier.ID)),
			zap.Int64("factor_id", int64(selected.ID)),
		)
		return 0, catalogdomain.ErrFactorNotFound
	}
	return selected.Percentage, nil
}

func (s *service) resolveCategoryMultiplier(ctx context.Context, tier *catalogdomain.PricingTier) (float64, error) {
	if tier.CategoryID == nil {
		return 1.0, nil
	}
	multiplier, err := s.catalog.GetCategoryMultiplier(ctx, *tier.CategoryID)
	if err != nil {
		return 0, err
	}
	if multiplier == nil {
		return 1.0, nil
	}
	return multiplier.Multiplier, nil
}

func (s *service) resolveUserDiscount(ctx context.Context, userID *snowflake.ID, policy config.PricingPolicy) (float64, error) {
	if userID == nil {
		return 0, nil
	}
	eligibility, err := s.customers.Resolve(ctx, *userID)
	if err != nil {
		return 0, err
	}
	switch eligibility {
	case customerdomain.EligibilityFirstOrder:
		return policy.FirstOrderDiscount, nil
	case customerdomain.EligibilityNewCustomer:
		return policy.NewCustomerDiscount, nil
	default:
		return 0, nil
	}
}

// thresholdDiscountFor returns the fixed discount the tier grants when
// the discounted subtotal crosses its configured threshold.
func thresholdDiscountFor(tier *catalogdomain.PricingTier, subtotal float64) float64 {
	if tier.MaxPriceThreshold == nil || subtotal <= *tier.MaxPriceThreshold {
		return 0
	}
	return derefOrZero(tier.MaxPriceDiscount) + derefOrZero(tier.AdditionalDiscount)
}

// rentalDays rounds a window up to whole days.
func rentalDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

func derefOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
