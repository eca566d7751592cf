package domain

import (
	"context"
	"time"
)

type Service interface {
	CreateTier(ctx context.Context, req CreateTierRequest) (*TierResponse, error)
	GetTier(ctx context.Context, id string) (*TierResponse, error)
	ListTiers(ctx context.Context, req ListTiersRequest) ([]TierResponse, error)
	AddFactor(ctx context.Context, tierID string, req AddFactorRequest) (*TierResponse, error)
	SetCategoryMultiplier(ctx context.Context, req SetCategoryMultiplierRequest) error
}

type CreateTierRequest struct {
	VariantID          string         `json:"variant_id"`
	CategoryID         *string        `json:"category_id,omitempty"`
	RetailPrice        float64        `json:"retail_price"`
	TaxRate            float64        `json:"tax_rate"`
	InsuranceFee       *float64       `json:"insurance_fee,omitempty"`
	CleaningFee        *float64       `json:"cleaning_fee,omitempty"`
	MaxPriceThreshold  *float64       `json:"max_price_threshold,omitempty"`
	MaxPriceDiscount   *float64       `json:"max_price_discount,omitempty"`
	AdditionalDiscount *float64       `json:"additional_discount,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

type AddFactorRequest struct {
	RentalPeriod int     `json:"rental_period"`
	Percentage   float64 `json:"percentage"`
}

type SetCategoryMultiplierRequest struct {
	CategoryID string  `json:"category_id"`
	Multiplier float64 `json:"multiplier"`
}

type ListTiersRequest struct {
	VariantID string
	SortBy    string
	OrderBy   string
}

type FactorResponse struct {
	ID           string  `json:"id"`
	RentalPeriod int     `json:"rental_period"`
	Percentage   float64 `json:"percentage"`
}

type TierResponse struct {
	ID                 string           `json:"id"`
	VariantID          string           `json:"variant_id"`
	CategoryID         *string          `json:"category_id,omitempty"`
	RetailPrice        float64          `json:"retail_price"`
	TaxRate            float64          `json:"tax_rate"`
	InsuranceFee       *float64         `json:"insurance_fee,omitempty"`
	CleaningFee        *float64         `json:"cleaning_fee,omitempty"`
	MaxPriceThreshold  *float64         `json:"max_price_threshold,omitempty"`
	MaxPriceDiscount   *float64         `json:"max_price_discount,omitempty"`
	AdditionalDiscount *float64         `json:"additional_discount,omitempty"`
	Factors            []FactorResponse `json:"factors,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}
