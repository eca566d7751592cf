package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	promotiondomain "github.com/wardrobers/backend-api-sub000/internal/promotion/domain"
)

var repoNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (promotiondomain.Repository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&promotiondomain.Promotion{}))
	return NewRepository(db), db
}

func seedPromotion(t *testing.T, db *gorm.DB, promo promotiondomain.Promotion) {
	t.Helper()
	if promo.ValidFrom.IsZero() {
		promo.ValidFrom = repoNow.Add(-time.Hour)
	}
	if promo.ValidTo.IsZero() {
		promo.ValidTo = repoNow.Add(time.Hour)
	}
	require.NoError(t, db.Create(&promo).Error)
}

func variantScoped(id int64, usesLeft int64) promotiondomain.Promotion {
	variantID := snowflake.ID(10)
	return promotiondomain.Promotion{
		ID:            snowflake.ID(id),
		Code:          "CODE" + snowflake.ID(id).String(),
		DiscountType:  promotiondomain.DiscountTypePercentage,
		DiscountValue: 10,
		MaxUses:       usesLeft,
		UsesLeft:      usesLeft,
		Active:        true,
		VariantID:     &variantID,
	}
}

func TestTryConsumeUseStopsAtZero(t *testing.T) {
	repo, db := newRepo(t)
	seedPromotion(t, db, variantScoped(1, 1))

	ok, err := repo.TryConsumeUse(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TryConsumeUse(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)

	var promo promotiondomain.Promotion
	require.NoError(t, db.First(&promo, "id = ?", 1).Error)
	assert.Zero(t, promo.UsesLeft)
}

func TestListEligibleScopes(t *testing.T) {
	repo, db := newRepo(t)
	userID := snowflake.ID(77)

	seedPromotion(t, db, variantScoped(1, 5))

	userPromo := variantScoped(2, 5)
	userPromo.VariantID = nil
	userPromo.UserID = &userID
	seedPromotion(t, db, userPromo)

	// Variant scope only for anonymous requests.
	promos, err := repo.ListEligible(context.Background(), 10, nil, repoNow)
	require.NoError(t, err)
	require.Len(t, promos, 1)
	assert.Equal(t, snowflake.ID(1), promos[0].ID)

	// Union of variant and user scope when a user is supplied.
	promos, err = repo.ListEligible(context.Background(), 10, &userID, repoNow)
	require.NoError(t, err)
	require.Len(t, promos, 2)
	assert.Equal(t, snowflake.ID(1), promos[0].ID)
	assert.Equal(t, snowflake.ID(2), promos[1].ID)
}

func TestListEligibleFiltersSpentAndInactive(t *testing.T) {
	repo, db := newRepo(t)

	spent := variantScoped(1, 5)
	spent.UsesLeft = 0
	seedPromotion(t, db, spent)

	inactive := variantScoped(2, 5)
	inactive.Active = false
	seedPromotion(t, db, inactive)

	expired := variantScoped(3, 5)
	expired.ValidFrom = repoNow.Add(-2 * time.Hour)
	expired.ValidTo = repoNow.Add(-time.Hour)
	seedPromotion(t, db, expired)

	seedPromotion(t, db, variantScoped(4, 5))

	promos, err := repo.ListEligible(context.Background(), 10, nil, repoNow)
	require.NoError(t, err)
	require.Len(t, promos, 1)
	assert.Equal(t, snowflake.ID(4), promos[0].ID)
}

func TestSetActiveUnknownID(t *testing.T) {
	repo, _ := newRepo(t)

	err := repo.SetActive(context.Background(), 999, false)
	assert.ErrorIs(t, err, promotiondomain.ErrNotFound)
}
