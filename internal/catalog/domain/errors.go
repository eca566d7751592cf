package domain

import "errors"

var (
	ErrInvalidVariant      = errors.New("invalid_variant")
	ErrInvalidTier         = errors.New("invalid_tier")
	ErrInvalidCategory     = errors.New("invalid_category")
	ErrInvalidRetailPrice  = errors.New("invalid_retail_price")
	ErrInvalidTaxRate      = errors.New("invalid_tax_rate")
	ErrInvalidRentalPeriod = errors.New("invalid_rental_period")
	ErrInvalidPercentage   = errors.New("invalid_percentage")
	ErrInvalidMultiplier   = errors.New("invalid_multiplier")
	ErrInvalidFee          = errors.New("invalid_fee")
	ErrInvalidID           = errors.New("invalid_id")

	// ErrTierNotFound signals a catalog integrity problem: a variant
	// was quoted without a configured pricing tier. Never defaulted.
	ErrTierNotFound = errors.New("tier_not_found")

	// ErrFactorNotFound signals corrupt period factor data on a tier.
	ErrFactorNotFound = errors.New("factor_not_found")

	ErrTierExists   = errors.New("tier_exists")
	ErrFactorExists = errors.New("factor_exists")
	ErrNotFound     = errors.New("not_found")
)
