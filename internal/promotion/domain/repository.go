package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// ListEligible returns the union of variant-scoped and (when userID
	// is set) user-scoped promotions that are active, inside their
	// validity window, and have uses left, ordered by id ascending so
	// aggregation is reproducible.
	ListEligible(ctx context.Context, variantID snowflake.ID, userID *snowflake.ID, now time.Time) ([]Promotion, error)

	// TryConsumeUse atomically decrements uses_left by one, only when
	// the current value is positive. Returns false when a concurrent
	// computation consumed the last use first.
	TryConsumeUse(ctx context.Context, promotionID snowflake.ID) (bool, error)

	Insert(ctx context.Context, promotion *Promotion) error
	FindByID(ctx context.Context, id snowflake.ID) (*Promotion, error)
	List(ctx context.Context, filter ListRequest) ([]Promotion, error)
	SetActive(ctx context.Context, id snowflake.ID, active bool) error
}
