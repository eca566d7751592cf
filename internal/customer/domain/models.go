package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Customer is the subset of the marketplace account record this
// subsystem reads. Signup order (snowflake id order) defines the
// early-adopter cohort.
type Customer struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Email     string       `json:"email" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Customer) TableName() string { return "customers" }

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// RentalOrder is read-only input for discount eligibility; order
// persistence itself belongs to the order-creation flow.
type RentalOrder struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	CustomerID snowflake.ID `json:"customer_id" gorm:"column:customer_id;not null;index"`
	Status     OrderStatus  `json:"status" gorm:"type:text;not null"`
	CreatedAt  time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RentalOrder) TableName() string { return "rental_orders" }

// DiscountEligibility is derived at computation time from order history
// and signup order; it is never persisted.
type DiscountEligibility string

const (
	EligibilityNone        DiscountEligibility = "none"
	EligibilityFirstOrder  DiscountEligibility = "first_order"
	EligibilityNewCustomer DiscountEligibility = "new_customer"
)
