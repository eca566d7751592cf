package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/wardrobers/backend-api-sub000/internal/cache"
	catalogdomain "github.com/wardrobers/backend-api-sub000/internal/catalog/domain"
)

const multiplierTTL = 30 * time.Second

// cachedRepository fronts category multiplier reads with a short TTL
// cache. Multipliers change rarely but are read on every quote.
type cachedRepository struct {
	catalogdomain.Repository

	multipliers *cache.Cache[snowflake.ID, catalogdomain.CategoryMultiplier]
}

func NewCachedRepository(lc fx.Lifecycle, inner catalogdomain.Repository) catalogdomain.Repository {
	r := &cachedRepository{
		Repository:  inner,
		multipliers: cache.New[snowflake.ID, catalogdomain.CategoryMultiplier](multiplierTTL),
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			r.multipliers.Close()
			return nil
		},
	})
	return r
}

func (r *cachedRepository) GetCategoryMultiplier(ctx context.Context, categoryID snowflake.ID) (*catalogdomain.CategoryMultiplier, error) {
	if cached, ok := r.multipliers.Get(categoryID); ok {
		return &cached, nil
	}
	multiplier, err := r.Repository.GetCategoryMultiplier(ctx, categoryID)
	if err != nil || multiplier == nil {
		return multiplier, err
	}
	r.multipliers.Set(categoryID, *multiplier)
	return multiplier, nil
}

func (r *cachedRepository) UpsertCategoryMultiplier(ctx context.Context, multiplier *catalogdomain.CategoryMultiplier) error {
	if err := r.Repository.UpsertCategoryMultiplier(ctx, multiplier); err != nil {
		return err
	}
	r.multipliers.Delete(multiplier.CategoryID)
	return nil
}
