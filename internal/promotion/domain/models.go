package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// DiscountType selects how a promotion's value is interpreted.
type DiscountType string

const (
	// DiscountTypePercentage contributes discount_value percentage
	// points directly.
	DiscountTypePercentage DiscountType = "percentage"

	// DiscountTypeFixedAmount is converted to an equivalent percentage
	// of the tier's base retail price at aggregation time.
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

// Promotion is a time-boxed, use-limited discount rule scoped to a
// variant and/or a user. A promotion is applicable only while it is
// active, inside its validity window, and has uses left.
type Promotion struct {
	ID   snowflake.ID `json:"id" gorm:"primaryKey"`
	Code string       `json:"code" gorm:"type:text;not null;uniqueIndex"`

	DiscountType  DiscountType `json:"discount_type" gorm:"column:discount_type;type:text;not null"`
	DiscountValue float64      `json:"discount_value" gorm:"type:numeric;not null"`

	ValidFrom time.Time `json:"valid_from" gorm:"column:valid_from;not null"`
	ValidTo   time.Time `json:"valid_to" gorm:"column:valid_to;not null"`

	MaxUses  int64 `json:"max_uses" gorm:"column:max_uses;not null"`
	UsesLeft int64 `json:"uses_left" gorm:"column:uses_left;not null"`

	Active bool `json:"active" gorm:"not null"`

	// Scope: either or both may be set. A promotion carrying both scopes
	// still counts once per computation.
	VariantID *snowflake.ID `json:"variant_id,omitempty" gorm:"column:variant_id;index"`
	UserID    *snowflake.ID `json:"user_id,omitempty" gorm:"column:user_id;index"`

	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Promotion) TableName() string { return "promotions" }

func (p *Promotion) Validate() error {
	if p.Code == "" {
		return ErrInvalidCode
	}
	if p.DiscountType != DiscountTypePercentage && p.DiscountType != DiscountTypeFixedAmount {
		return ErrInvalidDiscountType
	}
	if p.DiscountValue <= 0 {
		return ErrInvalidDiscountValue
	}
	if !p.ValidTo.After(p.ValidFrom) {
		return ErrInvalidValidityWindow
	}
	if p.MaxUses <= 0 {
		return ErrInvalidMaxUses
	}
	if p.VariantID == nil && p.UserID == nil {
		return ErrInvalidScope
	}
	return nil
}

// Eligible reports whether the promotion may be applied at the given time.
func (p *Promotion) Eligible(now time.Time) bool {
	if !p.Active {
		return false
	}
	if now.Before(p.ValidFrom) || now.After(p.ValidTo) {
		return false
	}
	return p.UsesLeft > 0
}

// Contribution converts the promotion's value into percentage points of
// the given base retail price. FixedAmount promotions contribute zero
// when the base price is zero or unknown.
func (p *Promotion) Contribution(basePrice float64) float64 {
	switch p.DiscountType {
	case DiscountTypePercentage:
		return p.DiscountValue
	case DiscountTypeFixedAmount:
		if basePrice <= 0 {
			return 0
		}
		return p.DiscountValue / basePrice * 100
	default:
		return 0
	}
}
