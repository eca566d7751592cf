package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/wardrobers/backend-api-sub000/internal/catalog/domain"
	"github.com/wardrobers/backend-api-sub000/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  catalogdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  catalogdomain.Repository
}

func New(p Params) catalogdomain.Service {
	return &Service{
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateTier(ctx context.Context, req catalogdomain.CreateTierRequest) (*catalogdomain.TierResponse, error) {
	variantID, err := parseID(req.VariantID)
	if err != nil {
		return nil, catalogdomain.ErrInvalidVariant
	}

	var categoryID *snowflake.ID
	if req.CategoryID != nil && strings.TrimSpace(*req.CategoryID) != "" {
		parsed, err := parseID(*req.CategoryID)
		if err != nil {
			return nil, catalogdomain.ErrInvalidCategory
		}
		categoryID = &parsed
	}

	if err := validateOptionalFees(req.InsuranceFee, req.CleaningFee); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tier := &catalogdomain.PricingTier{
		ID:                 s.genID.Generate(),
		VariantID:          variantID,
		CategoryID:         categoryID,
		RetailPrice:        req.RetailPrice,
		TaxRate:            req.TaxRate,
		InsuranceFee:       req.InsuranceFee,
		CleaningFee:        req.CleaningFee,
		MaxPriceThreshold:  req.MaxPriceThreshold,
		MaxPriceDiscount:   req.MaxPriceDiscount,
		AdditionalDiscount: req.AdditionalDiscount,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if req.Metadata != nil {
		tier.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if err := tier.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.InsertTier(ctx, tier); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, catalogdomain.ErrTierExists
		}
		return nil, err
	}

	resp := toTierResponse(tier, nil)
	return &resp, nil
}

func (s *Service) GetTier(ctx context.Context, id string) (*catalogdomain.TierResponse, error) {
	tierID, err := parseID(id)
	if err != nil {
		return nil, catalogdomain.ErrInvalidID
	}

	tier, err := s.repo.FindTierByID(ctx, tierID)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, catalogdomain.ErrNotFound
	}

	factors, err := s.repo.ListPeriodFactors(ctx, tier.ID)
	if err != nil {
		return nil, err
	}

	resp := toTierResponse(tier, factors)
	return &resp, nil
}

func (s *Service) ListTiers(ctx context.Context, req catalogdomain.ListTiersRequest) ([]catalogdomain.TierResponse, error) {
	tiers, err := s.repo.ListTiers(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make([]catalogdomain.TierResponse, 0, len(tiers))
	for i := range tiers {
		out = append(out, toTierResponse(&tiers[i], nil))
	}
	return out, nil
}

func (s *Service) AddFactor(ctx context.Context, tierID string, req catalogdomain.AddFactorRequest) (*catalogdomain.TierResponse, error) {
	id, err := parseID(tierID)
	if err != nil {
		return nil, catalogdomain.ErrInvalidID
	}

	tier, err := s.repo.FindTierByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, catalogdomain.ErrNotFound
	}

	now := time.Now().UTC()
	factor := &catalogdomain.PriceFactor{
		ID:           s.genID.Generate(),
		TierID:       tier.ID,
		RentalPeriod: req.RentalPeriod,
		Percentage:   req.Percentage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := factor.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.InsertFactor(ctx, factor); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, catalogdomain.ErrFactorExists
		}
		return nil, err
	}

	factors, err := s.repo.ListPeriodFactors(ctx, tier.ID)
	if err != nil {
		return nil, err
	}

	resp := toTierResponse(tier, factors)
	return &resp, nil
}

func (s *Service) SetCategoryMultiplier(ctx context.Context, req catalogdomain.SetCategoryMultiplierRequest) error {
	categoryID, err := parseID(req.CategoryID)
	if err != nil {
		return catalogdomain.ErrInvalidCategory
	}

	now := time.Now().UTC()
	multiplier := &catalogdomain.CategoryMultiplier{
		ID:         s.genID.Generate(),
		CategoryID: categoryID,
		Multiplier: req.Multiplier,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := multiplier.Validate(); err != nil {
		return err
	}

	return s.repo.UpsertCategoryMultiplier(ctx, multiplier)
}

func validateOptionalFees(fees ...*float64) error {
	for _, fee := range fees {
		if fee != nil && *fee < 0 {
			return catalogdomain.ErrInvalidFee
		}
	}
	return nil
}

func toTierResponse(tier *catalogdomain.PricingTier, factors []catalogdomain.PriceFactor) catalogdomain.TierResponse {
	resp := catalogdomain.TierResponse{
		ID:                 tier.ID.String(),
		VariantID:          tier.VariantID.String(),
		RetailPrice:        tier.RetailPrice,
		TaxRate:            tier.TaxRate,
		InsuranceFee:       tier.InsuranceFee,
		CleaningFee:        tier.CleaningFee,
		MaxPriceThreshold:  tier.MaxPriceThreshold,
		MaxPriceDiscount:   tier.MaxPriceDiscount,
		AdditionalDiscount: tier.AdditionalDiscount,
		CreatedAt:          tier.CreatedAt,
		UpdatedAt:          tier.UpdatedAt,
	}
	if tier.CategoryID != nil {
		category := tier.CategoryID.String()
		resp.CategoryID = &category
	}
	for _, factor := range factors {
		resp.Factors = append(resp.Factors, catalogdomain.FactorResponse{
			ID:           factor.ID.String(),
			RentalPeriod: factor.RentalPeriod,
			Percentage:   factor.Percentage,
		})
	}
	return resp
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
