package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	catalogdomain "github.com/wardrobers/backend-api-sub000/internal/catalog/domain"
	promotiondomain "github.com/wardrobers/backend-api-sub000/internal/promotion/domain"
)

const (
	demoVariantID  = 1001
	demoCategoryID = 10
	demoPromoCode  = "WELCOME10"
)

// EnsureDemoPricing seeds one tier with period factors, a category
// multiplier and a welcome promotion so a fresh development install
// can quote immediately. Safe to run repeatedly.
func EnsureDemoPricing(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tier, err := ensureDemoTierTx(ctx, tx, node)
		if err != nil {
			return err
		}
		if err := ensureDemoFactorsTx(ctx, tx, node, tier.ID); err != nil {
			return err
		}
		if err := ensureDemoMultiplierTx(ctx, tx, node); err != nil {
			return err
		}
		return ensureDemoPromotionTx(ctx, tx, node)
	})
}

func ensureDemoTierTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (*catalogdomain.PricingTier, error) {
	var tier catalogdomain.PricingTier
	err := tx.WithContext(ctx).
		Where("variant_id = ?", demoVariantID).
		First(&tier).Error
	if err == nil {
		return &tier, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	categoryID := snowflake.ID(demoCategoryID)
	insurance, cleaning := 2.0, 2.0
	tier = catalogdomain.PricingTier{
		ID:           node.Generate(),
		VariantID:    demoVariantID,
		CategoryID:   &categoryID,
		RetailPrice:  100,
		TaxRate:      0.10,
		InsuranceFee: &insurance,
		CleaningFee:  &cleaning,
	}
	if err := tx.WithContext(ctx).Create(&tier).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

func ensureDemoFactorsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tierID snowflake.ID) error {
	factors := []catalogdomain.PriceFactor{
		{RentalPeriod: 7, Percentage: 0.8},
		{RentalPeriod: 14, Percentage: 0.7},
		{RentalPeriod: 30, Percentage: 0.5},
	}
	for _, f := range factors {
		var count int64
		err := tx.WithContext(ctx).
			Model(&catalogdomain.PriceFactor{}).
			Where("tier_id = ? AND rental_period = ?", tierID, f.RentalPeriod).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		f.ID = node.Generate()
		f.TierID = tierID
		if err := tx.WithContext(ctx).Create(&f).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureDemoMultiplierTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&catalogdomain.CategoryMultiplier{}).
		Where("category_id = ?", demoCategoryID).
		Count(&count).Error
	if err != nil || count > 0 {
		return err
	}
	return tx.WithContext(ctx).Create(&catalogdomain.CategoryMultiplier{
		ID:         node.Generate(),
		CategoryID: demoCategoryID,
		Multiplier: 1.0,
	}).Error
}

func ensureDemoPromotionTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&promotiondomain.Promotion{}).
		Where("code = ?", demoPromoCode).
		Count(&count).Error
	if err != nil || count > 0 {
		return err
	}

	variantID := snowflake.ID(demoVariantID)
	now := time.Now().UTC()
	return tx.WithContext(ctx).Create(&promotiondomain.Promotion{
		ID:            node.Generate(),
		Code:          demoPromoCode,
		DiscountType:  promotiondomain.DiscountTypePercentage,
		DiscountValue: 10,
		ValidFrom:     now,
		ValidTo:       now.AddDate(1, 0, 0),
		MaxUses:       1000,
		UsesLeft:      1000,
		Active:        true,
		VariantID:     &variantID,
	}).Error
}
