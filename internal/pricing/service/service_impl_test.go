package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/wardrobers/backend-api-sub000/internal/catalog/domain"
	catalogrepository "github.com/wardrobers/backend-api-sub000/internal/catalog/repository"
	"github.com/wardrobers/backend-api-sub000/internal/clock"
	"github.com/wardrobers/backend-api-sub000/internal/config"
	customerdomain "github.com/wardrobers/backend-api-sub000/internal/customer/domain"
	customerrepository "github.com/wardrobers/backend-api-sub000/internal/customer/repository"
	customerservice "github.com/wardrobers/backend-api-sub000/internal/customer/service"
	"github.com/wardrobers/backend-api-sub000/internal/pricing/domain"
	promotiondomain "github.com/wardrobers/backend-api-sub000/internal/promotion/domain"
	promotionrepository "github.com/wardrobers/backend-api-sub000/internal/promotion/repository"
	promotionservice "github.com/wardrobers/backend-api-sub000/internal/promotion/service"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	clock   *clock.FakeClock
	service domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.PricingTier{},
		&catalogdomain.PriceFactor{},
		&catalogdomain.CategoryMultiplier{},
		&promotiondomain.Promotion{},
		&customerdomain.Customer{},
		&customerdomain.RentalOrder{},
	))

	log := zap.NewNop()
	fc := clock.NewFakeClock(testNow)
	policy := config.NewStaticPricingPolicyHolder(config.DefaultPricingPolicy())

	engine := promotionservice.NewEngine(promotionservice.EngineParams{
		Log:    log,
		Repo:   promotionrepository.NewRepository(db),
		Policy: policy,
	})
	resolver := customerservice.NewResolver(customerservice.Params{
		Log:    log,
		Policy: policy,
		Repo:   customerrepository.NewRepository(customerrepository.Params{DB: db}),
	})

	svc := New(Params{
		Log:       log,
		Clock:     fc,
		Policy:    policy,
		Catalog:   catalogrepository.NewRepository(db),
		Customers: resolver,
		Engine:    engine,
	})

	return &fixture{db: db, clock: fc, service: svc}
}

func (f *fixture) seedTier(t *testing.T, tier catalogdomain.PricingTier) catalogdomain.PricingTier {
	t.Helper()
	require.NoError(t, f.db.Create(&tier).Error)
	return tier
}

func (f *fixture) seedPromotion(t *testing.T, promo promotiondomain.Promotion) {
	t.Helper()
	if promo.ValidFrom.IsZero() {
		promo.ValidFrom = testNow.Add(-time.Hour)
	}
	if promo.ValidTo.IsZero() {
		promo.ValidTo = testNow.Add(time.Hour)
	}
	require.NoError(t, f.db.Create(&promo).Error)
}

func quoteRequest(variantID snowflake.ID, days int) domain.QuoteRequest {
	return domain.QuoteRequest{
		VariantID: variantID,
		Condition: domain.ConditionUsed,
		StartDate: testNow,
		EndDate:   testNow.AddDate(0, 0, days),
	}
}

func ptr[T any](v T) *T { return &v }

func TestQuote_AnonymousWithFees(t *testing.T) {
	f := newFixture(t)
	f.seedTier(t, catalogdomain.PricingTier{
		ID: 1, VariantID: 10, RetailPrice: 100, TaxRate: 0.10,
		InsuranceFee: ptr(2.0), CleaningFee: ptr(2.0),
	})

	breakdown, err := f.service.Quote(context.Background(), quoteRequest(10, 3))
	require.NoError(t, err)

	assert.Equal(t, 3, breakdown.RentalDays)
	assert.Equal(t, 100.0, breakdown.RentalSubtotal)
	assert.Equal(t, 1.0, breakdown.PeriodFactor)
	assert.InDelta(t, 10.0, breakdown.TaxAmount, 1e-9)
	assert.InDelta(t, 114.0, breakdown.Total, 1e-9)
}

func TestQuote_FirstOrderDiscount(t *testing.T) {
	f := newFixture(t)
	f.seedTier(t, catalogdomain.PricingTier{
		ID: 1, VariantID: 10, RetailPrice: 100, TaxRate: 0.10,
		InsuranceFee: ptr(2.0), CleaningFee: ptr(2.0),
	})
	require.NoError(t, f.db.Create(&customerdomain.Customer{ID: 500, Email: "first@example.com"}).Error)

	req := quoteRequest(10, 3)
	req.UserID = ptr(snowflake.ID(500))

	breakdown, err := f.service.Quote(context.Background(), req)
	require.NoError(t, err)

	assert.InDelta(t, 0.33, breakdown.UserDiscountFraction, 1e-9)
	assert.InDelta(t, 67.0, breakdown.RentalSubtotal, 1e-9)
	assert.InDelta(t, 6.7, breakdown.TaxAmount, 1e-9)
	assert.InDelta(t, 77.7, breakdown.Total, 1e-9)
}

func TestQuote_NewCustomerCohortDiscount(t *testing.T) {
	f := newFixture(t)
	f.seedTier(t, catalogdomain.PricingTier{ID: 1, VariantID: 10, RetailPrice: 100})
	require.NoError(t, f.db.Create(&customerdomain.Customer{ID: 7, Email: "early@example.com"}).Error)
	require.NoError(t, f.db.Create(&customerdomain.RentalOrder{
		ID: 1, CustomerID: 7, Status: customerdomain.OrderStatusCompleted,
	}).Error)

	req := quoteRequest(10, 3)
	req.UserID = ptr(snowflake.ID(7))

	breakdown, err := f.service.Quote(context.Background(), req)
	require.NoError(t, err)

	assert.InDelta(t, 0.50, breakdown.UserDiscountFraction, 1e-9)
	assert.InDelta(t, 50.0, breakdown.RentalSubtotal, 1e-9)
}

func TestQuote_UnknownUserGetsNoDiscount(t *testing.T) {
	f := newFixture(t)
	f.seedTier(t, catalogdomain.PricingTier{ID: 1, VariantID: 10, RetailPrice: 100})

	req := quoteRequest(10, 3)
	req.UserID = ptr(snowflake.ID(9999))

	breakdown, err := f.service.Quote(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, breakdown.UserDiscountFraction)
	assert.Equal(t, 100.0, breakdown.RentalSubtotal)
}

func TestQuote_PromotionConsumesUse(t *testing.T) {
	f := newFixture(t)
	f.seedTier(t, catalogdomain.PricingTier{ID: 1, VariantID: 10, RetailPrice: 100})
	f.seedPromotion(t, promotiondomain.Promotion{
		ID: 1, Code: "SUMMER20", DiscountType: promotiondomain.DiscountTypePercentage,
		DiscountValue: 20, MaxUses: 1, UsesLeft: 1, Active: true,
		VariantID: ptr(snowflake.ID(10)),
	})

	first, err := f.service.Quote(context.Background(), quoteRequest(10, 3))
	require.NoError(t, err)
	assert.InDelta(t, 20.0, first.PromotionDiscount, 1e-9)
	assert.InDelta(t, 80.0, first.RentalSubtotal, 1e-9)
	require.Len(t, first.AppliedPromotions, 1)
	assert.Equal(t, "SUMMER20", first.AppliedPromotions[0].Code)

	// The single use is spent; the next computation prices without it.
	second, err := f.service.Quote(context.Background(), quoteRequest(10, 3))
	require.NoError(t, err)
	assert.Zero(t, second.PromotionDiscount)
	assert.Equal(t, 100.0, second.RentalSubtotal)
}

func TestQuote_StackedPromotionsCappedAtFull(t *testing.T) {
	f := newFixture(t)
	f.seedTier(t, catalogdomain.PricingTier{
		ID: 1, VariantID: 10, RetailPrice: 100, TaxRate: 0.10,
		InsuranceFee: ptr(2.0), CleaningFee: ptr(2.0),
	})
	f.seedPromotion(t, promotiondomain.Promotion{
		ID: 1, Code: "BIG60", DiscountType: promotiondomain.DiscountTypePercentage,
		DiscountValue: 60, MaxUses: 10, UsesLeft: 10, Active: true,
		VariantID: ptr(snowflake.ID(10)),
	})
	f.seedPromotion(t, promotiondomain.Promotion{
		ID: 2, Code: "BIG55", DiscountType: promotiondomain.DiscountTypePercentage,
		DiscountValue: 55, MaxUses: 10, UsesLeft: 10, Active: true,
		VariantID: ptr(snowflake.ID(10)),
	})

	breakdown, err := f.service.Quote(context.Background(), quoteRequest(10, 3))
	require.NoError(t, err)

	assert.Equal(t, 100.0, breakdown.PromotionDiscount)
	assert.Zero(t, breakdown.RentalSubtotal)
	assert.Zero(t, breakdown.TaxAmount)
	assert.InDelta(t, 4.0, breakdown.Total, 1e-9)
}

func TestQuote_FixedAmountPromotion(t *testing.T) {
	f := newFixture(t)
	f.seedTier(t, catalogdomain.PricingTier{ID: 1, VariantID: 10, RetailPrice: 200})
	f.seedPromotion(t, promotiondomain.Promotion{
		ID: 1, Code: "TAKE50", DiscountType: promotiondomain.DiscountTypeFixedAmount,
		DiscountValue: 50, MaxUses: 5, UsesLeft: 5, Active: true,
		VariantID: ptr(snowflake.ID(10)),
	})

	breakdown, err := f.service.Quote(context.Background(), quoteRequest(10, 3))
	require.NoError(t, err)

	// 50 off a 200 retail price is 25 percentage points.
	assert.InDelta(t, 25.0, breakdown.PromotionDiscount, 1e-9)
	assert.InDelta(t, 150.0, breakdown.RentalSubtotal, 1e-9)
}

func TestQuote_PeriodFactorSelection(t *testing.T) {
	f := newFixture(t)
	tier := f.seedTier(t, catalogdomain.PricingTier{ID: 1, VariantID: 10, RetailPrice: 100})
	require.NoError(t, f.db.Create(&catalogdomain.PriceFactor{
		ID: 1, TierID: tier.ID, RentalPeriod: 7, Percentage: 0.8,
	}).Error)

	week, err := f.service.Quote(context.Background(), quoteRequest(10, 7))
	require.NoError(t, err)
	assert.InDelta(t, 0.8, week.PeriodFactor, 1e-9)
	assert.InDelta(t, 80.0, week.RentalSubtotal, 1e-9)

	short, err := f.service.Quote(context.Background(), quoteRequest(10, 3))
	require.NoError(t, err)
	assert.Equal(t, 1.0, short.PeriodFactor)
	assert.Equal(t, 100.0, short.RentalSubtotal)
}

func TestQuote_DuplicatePeriodPicksConservativeFactor(t *testing.T) {
	f := newFixture(t)
	tier := f.seedTier(t, catalogdomain.PricingTier{ID: 1, VariantID: 10, RetailPrice: 100})
	// Duplicate periods violate the tier invariant; the lowest
	// percentage must win.
	require.NoError(t, f.db.Exec(
		`INSERT INTO price_factors (id, tier_id, rental_period, percentage) VALUES (1, ?, 7, 0.9), (2, ?, 7, 0.7)`,
		tier.ID, tier.ID,
	).Error)

	breakdown, err := f.service.Quote(context.Background(), quoteRequest(10, 7))
	require.NoError(t, err)
	assert.InDelta(t, 0.7, breakdown.PeriodFactor, 1e-9)
}

func TestQuote_CategoryMultiplierAndConditionPremium(t *testing.T) {
	f := newFixture(t)
	f.seedTier(t, catalogdomain.PricingTier{
		ID: 1, VariantID: 10, CategoryID: ptr(snowflake.ID(3)), RetailPrice: 100,
	})
	require.NoError(t, f.db.Create(&catalogdomain.CategoryMultiplier{
		ID: 1, CategoryID: 3, Multiplier: 1.2,
	}).Error)

	req := quoteRequest(10, 3)
	req.Condition = domain.ConditionNew

	breakdown, err := f.service.Quote(context.Background(), req)
	require.NoError(t, err)

	assert.InDelta(t, 1.2, breakdown.CategoryMultiplier, 1e-9)
	assert.InDelta(t, 1.10, breakdown.ConditionPremium, 1e-9)
	assert.InDelta(t, 132.0, breakdown.RentalSubtotal, 1e-9)
}

func TestQuote_ThresholdDiscount(t *testing.T) {
	f := newFixture(t)
	f.seedTier(t, catalogdomain.PricingTier{
		ID: 1, VariantID: 10, RetailPrice: 500,
		MaxPriceThreshold: ptr(400.0), MaxPriceDiscount: ptr(30.0), AdditionalDiscount: ptr(10.0),
	})

	breakdown, err := f.service.Quote(context.Background(), quoteRequest(10, 3))
	require.NoError(t, err)

	assert.InDelta(t, 40.0, breakdown.ThresholdDiscount, 1e-9)
	assert.InDelta(t, 460.0, breakdown.RentalSubtotal, 1e-9)
}

func TestQuote_InvalidWindow(t *testing.T) {
	f := newFixture(t)

	req := domain.QuoteRequest{
		VariantID: 10,
		StartDate: testNow,
		EndDate:   testNow,
	}
	_, err := f.service.Quote(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidRentalWindow)
}

func TestQuote_UnknownVariant(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Quote(context.Background(), quoteRequest(10, 3))
	assert.ErrorIs(t, err, catalogdomain.ErrTierNotFound)
}

func TestQuote_CorruptFactorFails(t *testing.T) {
	f := newFixture(t)
	tier := f.seedTier(t, catalogdomain.PricingTier{ID: 1, VariantID: 10, RetailPrice: 100})
	require.NoError(t, f.db.Exec(
		`INSERT INTO price_factors (id, tier_id, rental_period, percentage) VALUES (1, ?, 3, 0)`,
		tier.ID,
	).Error)

	_, err := f.service.Quote(context.Background(), quoteRequest(10, 5))
	assert.ErrorIs(t, err, catalogdomain.ErrFactorNotFound)
}

func TestQuote_TotalMonotonicInRetailPrice(t *testing.T) {
	f := newFixture(t)
	f.seedTier(t, catalogdomain.PricingTier{ID: 1, VariantID: 10, RetailPrice: 100, TaxRate: 0.10})
	f.seedTier(t, catalogdomain.PricingTier{ID: 2, VariantID: 11, RetailPrice: 250, TaxRate: 0.10})

	cheap, err := f.service.Quote(context.Background(), quoteRequest(10, 3))
	require.NoError(t, err)
	dear, err := f.service.Quote(context.Background(), quoteRequest(11, 3))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, cheap.Total, 0.0)
	assert.Greater(t, dear.Total, cheap.Total)
}

func TestQuote_IdempotentWithoutPromotions(t *testing.T) {
	f := newFixture(t)
	f.seedTier(t, catalogdomain.PricingTier{
		ID: 1, VariantID: 10, RetailPrice: 100, TaxRate: 0.10, InsuranceFee: ptr(2.0),
	})

	first, err := f.service.Quote(context.Background(), quoteRequest(10, 4))
	require.NoError(t, err)
	second, err := f.service.Quote(context.Background(), quoteRequest(10, 4))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQuote_PartialDayRoundsUp(t *testing.T) {
	f := newFixture(t)
	tier := f.seedTier(t, catalogdomain.PricingTier{ID: 1, VariantID: 10, RetailPrice: 100})
	require.NoError(t, f.db.Create(&catalogdomain.PriceFactor{
		ID: 1, TierID: tier.ID, RentalPeriod: 3, Percentage: 0.9,
	}).Error)

	req := domain.QuoteRequest{
		VariantID: 10,
		StartDate: testNow,
		EndDate:   testNow.Add(49 * time.Hour),
	}
	breakdown, err := f.service.Quote(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, breakdown.RentalDays)
	assert.InDelta(t, 0.9, breakdown.PeriodFactor, 1e-9)
}
