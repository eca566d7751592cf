package service

import (
	"context"

	"github.com/wardrobers/backend-api-sub000/internal/config"
	obsmetrics "github.com/wardrobers/backend-api-sub000/internal/observability/metrics"
	promotiondomain "github.com/wardrobers/backend-api-sub000/internal/promotion/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type EngineParams struct {
	fx.In

	Log     *zap.Logger
	Repo    promotiondomain.Repository
	Policy  *config.PricingPolicyHolder
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Engine struct {
	log     *zap.Logger
	repo    promotiondomain.Repository
	policy  *config.PricingPolicyHolder
	metrics *obsmetrics.Metrics
}

func NewEngine(p EngineParams) promotiondomain.Engine {
	return &Engine{
		log:     p.Log.Named("promotion.engine"),
		repo:    p.Repo,
		policy:  p.Policy,
		metrics: p.Metrics,
	}
}

// Aggregate folds every eligible promotion into a single discount
// percentage. Promotions are visited in ascending id order so repeated
// computations over the same data produce the same breakdown. Each
// contributing promotion's remaining uses are spent through an atomic
// conditional decrement; losing that decrement to a concurrent checkout
// drops the promotion from the aggregate and is never an error.
func (e *Engine) Aggregate(ctx context.Context, req promotiondomain.AggregateRequest) (*promotiondomain.AggregateResult, error) {
	eligible, err := e.repo.ListEligible(ctx, req.VariantID, req.UserID, req.Now)
	if err != nil {
		return nil, err
	}

	result := &promotiondomain.AggregateResult{}
	if len(eligible) == 0 {
		return result, nil
	}

	total := 0.0
	for i := range eligible {
		promo := &eligible[i]
		if !promo.Eligible(req.Now) {
			continue
		}

		contribution := promo.Contribution(req.BasePrice)
		if contribution <= 0 {
			continue
		}

		consumed, err := e.repo.TryConsumeUse(ctx, promo.ID)
		if err != nil {
			return nil, err
		}
		if !consumed {
			result.RaceLosses++
			e.metrics.RecordPromotionRaceLoss(ctx)
			e.log.Info("promotion use lost to concurrent checkout",
				zap.String("promotion_id", promo.ID.String()),
				zap.String("code", promo.Code),
			)
			continue
		}

		e.metrics.RecordPromotionUse(ctx, string(promo.DiscountType))
		total += contribution
		result.Applied = append(result.Applied, promotiondomain.AppliedPromotion{
			ID:           promo.ID.String(),
			Code:         promo.Code,
			DiscountType: promo.DiscountType,
			Percentage:   contribution,
		})
	}

	// Uncapped stacking can push the subtotal negative; the aggregate is
	// clamped to the configured cap (100 by default).
	cap := e.policy.Get().PromotionStackingCap
	if total > cap {
		e.log.Warn("promotion stacking exceeded cap",
			zap.Float64("aggregate", total),
			zap.Float64("cap", cap),
		)
		total = cap
	}
	result.DiscountPercentage = total

	return result, nil
}
