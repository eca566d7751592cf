package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wardrobers/backend-api-sub000/internal/config"
	"github.com/wardrobers/backend-api-sub000/internal/customer/domain"
	"github.com/wardrobers/backend-api-sub000/internal/customer/repository"
)

func newResolver(t *testing.T) (domain.Resolver, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Customer{}, &domain.RentalOrder{}))

	policy := config.DefaultPricingPolicy()
	policy.NewCustomerCohortSize = 3

	resolver := NewResolver(Params{
		Log:    zap.NewNop(),
		Policy: config.NewStaticPricingPolicyHolder(policy),
		Repo:   repository.NewRepository(repository.Params{DB: db}),
	})
	return resolver, db
}

func seedCustomers(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, db.Create(&domain.Customer{
			ID:    snowflake.ID(i),
			Email: fmt.Sprintf("customer%d@example.com", i),
		}).Error)
	}
}

func TestResolveFirstOrder(t *testing.T) {
	resolver, db := newResolver(t)
	seedCustomers(t, db, 1)

	eligibility, err := resolver.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.EligibilityFirstOrder, eligibility)
}

func TestResolveNewCustomerCohort(t *testing.T) {
	resolver, db := newResolver(t)
	seedCustomers(t, db, 5)
	require.NoError(t, db.Create(&domain.RentalOrder{
		ID: 1, CustomerID: 2, Status: domain.OrderStatusCompleted,
	}).Error)

	eligibility, err := resolver.Resolve(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.EligibilityNewCustomer, eligibility)
}

func TestResolveNoDiscountOutsideCohort(t *testing.T) {
	resolver, db := newResolver(t)
	seedCustomers(t, db, 5)
	require.NoError(t, db.Create(&domain.RentalOrder{
		ID: 1, CustomerID: 5, Status: domain.OrderStatusCompleted,
	}).Error)

	eligibility, err := resolver.Resolve(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.EligibilityNone, eligibility)
}

func TestResolvePendingOrdersDoNotCount(t *testing.T) {
	resolver, db := newResolver(t)
	seedCustomers(t, db, 1)
	require.NoError(t, db.Create(&domain.RentalOrder{
		ID: 1, CustomerID: 1, Status: domain.OrderStatusPending,
	}).Error)

	eligibility, err := resolver.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.EligibilityFirstOrder, eligibility)
}

func TestResolveUnknownCustomer(t *testing.T) {
	resolver, _ := newResolver(t)

	eligibility, err := resolver.Resolve(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, domain.EligibilityNone, eligibility)
}

func TestResolveZeroID(t *testing.T) {
	resolver, _ := newResolver(t)

	_, err := resolver.Resolve(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidUserID)
}
