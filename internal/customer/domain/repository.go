package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTrx(tx *gorm.DB) Repository

	// FindByID returns (nil, nil) when the customer does not exist.
	FindByID(ctx context.Context, id snowflake.ID) (*Customer, error)

	// CountCompletedOrders counts rental orders in the completed state
	// for one customer. Pending and canceled orders do not count.
	CountCompletedOrders(ctx context.Context, customerID snowflake.ID) (int64, error)

	// SignupRank returns the 1-based position of the customer in
	// signup order. Ranks at or below the cohort size mark the
	// early-adopter cohort.
	SignupRank(ctx context.Context, customerID snowflake.ID) (int64, error)
}
