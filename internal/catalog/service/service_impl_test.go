package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/wardrobers/backend-api-sub000/internal/catalog/domain"
	"github.com/wardrobers/backend-api-sub000/internal/catalog/repository"
)

func newService(t *testing.T) (catalogdomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.PricingTier{},
		&catalogdomain.PriceFactor{},
		&catalogdomain.CategoryMultiplier{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.NewRepository(db),
	})
	return svc, db
}

func TestCreateTier(t *testing.T) {
	svc, _ := newService(t)

	resp, err := svc.CreateTier(context.Background(), catalogdomain.CreateTierRequest{
		VariantID:   "1001",
		RetailPrice: 100,
		TaxRate:     0.10,
	})
	require.NoError(t, err)
	assert.Equal(t, "1001", resp.VariantID)
	assert.NotEmpty(t, resp.ID)

	_, err = svc.CreateTier(context.Background(), catalogdomain.CreateTierRequest{
		VariantID:   "1001",
		RetailPrice: 120,
	})
	assert.ErrorIs(t, err, catalogdomain.ErrTierExists)
}

func TestCreateTierValidation(t *testing.T) {
	svc, _ := newService(t)

	cases := []struct {
		name string
		req  catalogdomain.CreateTierRequest
		want error
	}{
		{
			name: "bad variant id",
			req:  catalogdomain.CreateTierRequest{VariantID: "abc", RetailPrice: 100},
			want: catalogdomain.ErrInvalidVariant,
		},
		{
			name: "negative retail price",
			req:  catalogdomain.CreateTierRequest{VariantID: "1001", RetailPrice: -1},
			want: catalogdomain.ErrInvalidRetailPrice,
		},
		{
			name: "tax rate above one",
			req:  catalogdomain.CreateTierRequest{VariantID: "1001", RetailPrice: 100, TaxRate: 1.5},
			want: catalogdomain.ErrInvalidTaxRate,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTier(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAddFactorAndGetTier(t *testing.T) {
	svc, _ := newService(t)

	tier, err := svc.CreateTier(context.Background(), catalogdomain.CreateTierRequest{
		VariantID:   "1001",
		RetailPrice: 100,
	})
	require.NoError(t, err)

	resp, err := svc.AddFactor(context.Background(), tier.ID, catalogdomain.AddFactorRequest{
		RentalPeriod: 7,
		Percentage:   0.8,
	})
	require.NoError(t, err)
	require.Len(t, resp.Factors, 1)
	assert.Equal(t, 7, resp.Factors[0].RentalPeriod)

	_, err = svc.AddFactor(context.Background(), tier.ID, catalogdomain.AddFactorRequest{
		RentalPeriod: 7,
		Percentage:   0.9,
	})
	assert.ErrorIs(t, err, catalogdomain.ErrFactorExists)

	got, err := svc.GetTier(context.Background(), tier.ID)
	require.NoError(t, err)
	assert.Len(t, got.Factors, 1)
}

func TestAddFactorUnknownTier(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.AddFactor(context.Background(), "12345", catalogdomain.AddFactorRequest{
		RentalPeriod: 7,
		Percentage:   0.8,
	})
	assert.ErrorIs(t, err, catalogdomain.ErrNotFound)
}

func TestSetCategoryMultiplierUpsert(t *testing.T) {
	svc, db := newService(t)

	err := svc.SetCategoryMultiplier(context.Background(), catalogdomain.SetCategoryMultiplierRequest{
		CategoryID: "3",
		Multiplier: 1.2,
	})
	require.NoError(t, err)

	err = svc.SetCategoryMultiplier(context.Background(), catalogdomain.SetCategoryMultiplierRequest{
		CategoryID: "3",
		Multiplier: 1.5,
	})
	require.NoError(t, err)

	var rows []catalogdomain.CategoryMultiplier
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.InDelta(t, 1.5, rows[0].Multiplier, 1e-9)
}

func TestListTiersFilterByVariant(t *testing.T) {
	svc, _ := newService(t)

	for _, variant := range []string{"1001", "1002"} {
		_, err := svc.CreateTier(context.Background(), catalogdomain.CreateTierRequest{
			VariantID:   variant,
			RetailPrice: 100,
		})
		require.NoError(t, err)
	}

	tiers, err := svc.ListTiers(context.Background(), catalogdomain.ListTiersRequest{VariantID: "1002"})
	require.NoError(t, err)
	require.Len(t, tiers, 1)
	assert.Equal(t, "1002", tiers[0].VariantID)
}
