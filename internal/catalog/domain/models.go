package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PricingTier is the pricing configuration bound to a product variant.
// Owned by catalog management flows; immutable during a single quote.
type PricingTier struct {
	ID         snowflake.ID  `json:"id" gorm:"primaryKey"`
	VariantID  snowflake.ID  `json:"variant_id" gorm:"column:variant_id;not null;uniqueIndex"`
	CategoryID *snowflake.ID `json:"category_id,omitempty" gorm:"column:category_id;index"`

	RetailPrice float64 `json:"retail_price" gorm:"type:numeric;not null"`

	// TaxRate is a fraction, e.g. 0.10 for 10%.
	TaxRate float64 `json:"tax_rate" gorm:"type:numeric(6,4);not null;default:0"`

	InsuranceFee *float64 `json:"insurance_fee,omitempty" gorm:"type:numeric"`
	CleaningFee  *float64 `json:"cleaning_fee,omitempty" gorm:"type:numeric"`

	// Threshold discount: when the discounted rental subtotal exceeds
	// MaxPriceThreshold, MaxPriceDiscount and AdditionalDiscount are
	// subtracted, floored at zero. All three are optional.
	MaxPriceThreshold  *float64 `json:"max_price_threshold,omitempty" gorm:"type:numeric"`
	MaxPriceDiscount   *float64 `json:"max_price_discount,omitempty" gorm:"type:numeric"`
	AdditionalDiscount *float64 `json:"additional_discount,omitempty" gorm:"type:numeric"`

	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PricingTier) TableName() string { return "pricing_tiers" }

func (t *PricingTier) Validate() error {
	if t.VariantID == 0 {
		return ErrInvalidVariant
	}
	if t.RetailPrice < 0 {
		return ErrInvalidRetailPrice
	}
	if t.TaxRate < 0 || t.TaxRate > 1 {
		return ErrInvalidTaxRate
	}
	return nil
}

// PriceFactor is a duration-dependent percentage applied to retail price.
// Factors are unique per (tier, rental_period).
type PriceFactor struct {
	ID     snowflake.ID `json:"id" gorm:"primaryKey"`
	TierID snowflake.ID `json:"tier_id" gorm:"column:tier_id;not null;index:idx_price_factors_tier_period,unique"`

	// RentalPeriod in whole days. The factor applies to rentals of at
	// least this length.
	RentalPeriod int     `json:"rental_period" gorm:"column:rental_period;not null;index:idx_price_factors_tier_period,unique"`
	Percentage   float64 `json:"percentage" gorm:"type:numeric(6,4);not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PriceFactor) TableName() string { return "price_factors" }

func (f *PriceFactor) Validate() error {
	if f.TierID == 0 {
		return ErrInvalidTier
	}
	if f.RentalPeriod <= 0 {
		return ErrInvalidRentalPeriod
	}
	if f.Percentage <= 0 {
		return ErrInvalidPercentage
	}
	return nil
}

// CategoryMultiplier scales the base price for every tier in a category.
type CategoryMultiplier struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	CategoryID snowflake.ID `json:"category_id" gorm:"column:category_id;not null;uniqueIndex"`
	Multiplier float64      `json:"multiplier" gorm:"type:numeric(6,4);not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CategoryMultiplier) TableName() string { return "category_multipliers" }

func (m *CategoryMultiplier) Validate() error {
	if m.CategoryID == 0 {
		return ErrInvalidCategory
	}
	if m.Multiplier <= 0 {
		return ErrInvalidMultiplier
	}
	return nil
}
