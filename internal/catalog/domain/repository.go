package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository is the catalog-facing pricing data access contract.
// Lookups return (nil, nil) when no row matches; services translate
// absence into domain errors.
type Repository interface {
	GetTierByVariant(ctx context.Context, variantID snowflake.ID) (*PricingTier, error)
	FindTierByID(ctx context.Context, id snowflake.ID) (*PricingTier, error)
	ListTiers(ctx context.Context, filter ListTiersRequest) ([]PricingTier, error)
	InsertTier(ctx context.Context, tier *PricingTier) error

	// ListPeriodFactors returns a tier's factors ordered by
	// rental_period ascending.
	ListPeriodFactors(ctx context.Context, tierID snowflake.ID) ([]PriceFactor, error)
	InsertFactor(ctx context.Context, factor *PriceFactor) error

	GetCategoryMultiplier(ctx context.Context, categoryID snowflake.ID) (*CategoryMultiplier, error)
	UpsertCategoryMultiplier(ctx context.Context, multiplier *CategoryMultiplier) error
}
