package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	promotiondomain "github.com/wardrobers/backend-api-sub000/internal/promotion/domain"
)

// Condition is the physical state of the article being rented. Only
// ConditionNew changes the price.
type Condition string

const (
	ConditionNew  Condition = "New"
	ConditionUsed Condition = "Used"
)

// QuoteRequest is the input for a single price computation. UserID is
// optional; anonymous requests are priced without account discounts or
// user-scoped promotions.
type QuoteRequest struct {
	VariantID snowflake.ID
	Condition Condition
	StartDate time.Time
	EndDate   time.Time
	UserID    *snowflake.ID
}

// PriceBreakdown itemizes every intermediate of a computation. It is a
// value object: constructed once by the pipeline and never mutated.
type PriceBreakdown struct {
	VariantID  snowflake.ID `json:"variant_id"`
	RentalDays int          `json:"rental_days"`

	RetailPrice        float64 `json:"retail_price"`
	PeriodFactor       float64 `json:"period_factor"`
	CategoryMultiplier float64 `json:"category_multiplier"`
	ConditionPremium   float64 `json:"condition_premium"`

	UserDiscountFraction float64 `json:"user_discount_fraction"`
	PromotionDiscount    float64 `json:"promotion_discount_percentage"`
	AppliedPromotions    []promotiondomain.AppliedPromotion `json:"applied_promotions,omitempty"`

	ThresholdDiscount float64 `json:"threshold_discount"`

	RentalSubtotal float64 `json:"rental_subtotal"`
	InsuranceFee   float64 `json:"insurance_fee"`
	CleaningFee    float64 `json:"cleaning_fee"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`
}
