package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/wardrobers/backend-api-sub000/internal/catalog/domain"
	"github.com/wardrobers/backend-api-sub000/pkg/db/option"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) catalogdomain.Repository {
	return &repository{db: db}
}

func (r *repository) GetTierByVariant(ctx context.Context, variantID snowflake.ID) (*catalogdomain.PricingTier, error) {
	var tier catalogdomain.PricingTier
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, variant_id, category_id, retail_price, tax_rate,
		        insurance_fee, cleaning_fee, max_price_threshold,
		        max_price_discount, additional_discount,
		        created_at, updated_at
		 FROM pricing_tiers
		 WHERE variant_id = ?`,
		variantID,
	).Scan(&tier).Error
	if err != nil {
		return nil, err
	}
	if tier.ID == 0 {
		return nil, nil
	}
	return &tier, nil
}

func (r *repository) FindTierByID(ctx context.Context, id snowflake.ID) (*catalogdomain.PricingTier, error) {
	var tier catalogdomain.PricingTier
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, variant_id, category_id, retail_price, tax_rate,
		        insurance_fee, cleaning_fee, max_price_threshold,
		        max_price_discount, additional_discount,
		        created_at, updated_at
		 FROM pricing_tiers
		 WHERE id = ?`,
		id,
	).Scan(&tier).Error
	if err != nil {
		return nil, err
	}
	if tier.ID == 0 {
		return nil, nil
	}
	return &tier, nil
}

func (r *repository) ListTiers(ctx context.Context, filter catalogdomain.ListTiersRequest) ([]catalogdomain.PricingTier, error) {
	var tiers []catalogdomain.PricingTier
	stmt := r.db.WithContext(ctx).Model(&catalogdomain.PricingTier{})

	if filter.VariantID != "" {
		variantID, err := snowflake.ParseString(filter.VariantID)
		if err != nil {
			return nil, catalogdomain.ErrInvalidVariant
		}
		stmt = stmt.Where("variant_id = ?", variantID)
	}

	stmt = option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"retail_price": true,
	})).Apply(stmt)

	if err := stmt.Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

func (r *repository) InsertTier(ctx context.Context, tier *catalogdomain.PricingTier) error {
	return r.db.WithContext(ctx).Create(tier).Error
}

func (r *repository) ListPeriodFactors(ctx context.Context, tierID snowflake.ID) ([]catalogdomain.PriceFactor, error) {
	var factors []catalogdomain.PriceFactor
	err := r.db.WithContext(ctx).
		Model(&catalogdomain.PriceFactor{}).
		Where("tier_id = ?", tierID).
		Order("rental_period ASC").
		Find(&factors).Error
	if err != nil {
		return nil, err
	}
	return factors, nil
}

func (r *repository) InsertFactor(ctx context.Context, factor *catalogdomain.PriceFactor) error {
	return r.db.WithContext(ctx).Create(factor).Error
}

func (r *repository) GetCategoryMultiplier(ctx context.Context, categoryID snowflake.ID) (*catalogdomain.CategoryMultiplier, error) {
	var multiplier catalogdomain.CategoryMultiplier
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, category_id, multiplier, created_at, updated_at
		 FROM category_multipliers
		 WHERE category_id = ?`,
		categoryID,
	).Scan(&multiplier).Error
	if err != nil {
		return nil, err
	}
	if multiplier.ID == 0 {
		return nil, nil
	}
	return &multiplier, nil
}

func (r *repository) UpsertCategoryMultiplier(ctx context.Context, multiplier *catalogdomain.CategoryMultiplier) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Exec(
		`UPDATE category_multipliers
		 SET multiplier = ?, updated_at = ?
		 WHERE category_id = ?`,
		multiplier.Multiplier,
		now,
		multiplier.CategoryID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(multiplier).Error
}
