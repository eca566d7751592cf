package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/wardrobers/backend-api-sub000/internal/config"
	"github.com/wardrobers/backend-api-sub000/internal/customer/domain"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Policy *config.PricingPolicyHolder
	Repo   domain.Repository
}

type resolver struct {
	log    *zap.Logger
	policy *config.PricingPolicyHolder
	repo   domain.Repository
}

func NewResolver(p Params) domain.Resolver {
	return &resolver{
		log:    p.Log.Named("customer.resolver"),
		policy: p.Policy,
		repo:   p.Repo,
	}
}

// Resolve applies the first matching rule: no completed orders wins
// over early-adopter cohort membership.
func (s *resolver) Resolve(ctx context.Context, userID snowflake.ID) (domain.DiscountEligibility, error) {
	if userID == 0 {
		return domain.EligibilityNone, domain.ErrInvalidUserID
	}

	customer, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.EligibilityNone, err
	}
	if customer == nil {
		s.log.Debug("unknown user id, skipping account discount", zap.Int64("user_id", int64(userID)))
		return domain.EligibilityNone, nil
	}

	completed, err := s.repo.CountCompletedOrders(ctx, userID)
	if err != nil {
		return domain.EligibilityNone, err
	}
	if completed == 0 {
		return domain.EligibilityFirstOrder, nil
	}

	rank, err := s.repo.SignupRank(ctx, userID)
	if err != nil {
		return domain.EligibilityNone, err
	}
	if rank > 0 && rank <= int64(s.policy.Get().NewCustomerCohortSize) {
		return domain.EligibilityNewCustomer, nil
	}

	return domain.EligibilityNone, nil
}
