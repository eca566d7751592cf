package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Engine aggregates applicable promotions into a single discount
// percentage and consumes their uses.
type Engine interface {
	Aggregate(ctx context.Context, req AggregateRequest) (*AggregateResult, error)
}

type AggregateRequest struct {
	VariantID snowflake.ID
	UserID    *snowflake.ID

	// BasePrice is the tier's retail price, used to convert fixed-amount
	// promotions into percentage points.
	BasePrice float64

	Now time.Time
}

type AppliedPromotion struct {
	ID           string       `json:"id"`
	Code         string       `json:"code"`
	DiscountType DiscountType `json:"discount_type"`
	Percentage   float64      `json:"percentage"`
}

type AggregateResult struct {
	// DiscountPercentage is the capped sum of all consumed
	// contributions, in percentage points.
	DiscountPercentage float64            `json:"discount_percentage"`
	Applied            []AppliedPromotion `json:"applied,omitempty"`

	// RaceLosses counts promotions that were eligible at fetch time but
	// lost their last use to a concurrent computation.
	RaceLosses int `json:"race_losses,omitempty"`
}

// Service is the marketing-facing promotion management surface.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Deactivate(ctx context.Context, id string) (*Response, error)
}

type CreateRequest struct {
	Code          string         `json:"code"`
	DiscountType  DiscountType   `json:"discount_type"`
	DiscountValue float64        `json:"discount_value"`
	ValidFrom     time.Time      `json:"valid_from"`
	ValidTo       time.Time      `json:"valid_to"`
	MaxUses       int64          `json:"max_uses"`
	VariantID     *string        `json:"variant_id,omitempty"`
	UserID        *string        `json:"user_id,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

type ListRequest struct {
	Code      string
	VariantID string
	Active    *bool
	SortBy    string
	OrderBy   string
}

type Response struct {
	ID            string       `json:"id"`
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	ValidFrom     time.Time    `json:"valid_from"`
	ValidTo       time.Time    `json:"valid_to"`
	MaxUses       int64        `json:"max_uses"`
	UsesLeft      int64        `json:"uses_left"`
	Active        bool         `json:"active"`
	VariantID     *string      `json:"variant_id,omitempty"`
	UserID        *string      `json:"user_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
