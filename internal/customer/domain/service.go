package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Resolver decides which account-level discount, if any, a user
// qualifies for at computation time.
type Resolver interface {
	// Resolve returns EligibilityNone for an unknown user id rather
	// than an error: pricing proceeds without an account discount.
	Resolve(ctx context.Context, userID snowflake.ID) (DiscountEligibility, error)
}
