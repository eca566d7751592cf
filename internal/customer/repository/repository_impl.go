package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/wardrobers/backend-api-sub000/internal/customer/domain"
	"github.com/wardrobers/backend-api-sub000/pkg/repository"
)

type Params struct {
	fx.In

	DB *gorm.DB
}

type repo struct {
	db        *gorm.DB
	customers repository.Repository[domain.Customer]
	orders    repository.Repository[domain.RentalOrder]
}

func NewRepository(p Params) domain.Repository {
	return &repo{
		db:        p.DB,
		customers: repository.ProvideStore[domain.Customer](p.DB),
		orders:    repository.ProvideStore[domain.RentalOrder](p.DB),
	}
}

func (r *repo) WithTrx(tx *gorm.DB) domain.Repository {
	if tx == nil {
		return r
	}
	return &repo{
		db:        tx,
		customers: r.customers.WithTrx(tx),
		orders:    r.orders.WithTrx(tx),
	}
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Customer, error) {
	return r.customers.FindOne(ctx, &domain.Customer{ID: id})
}

func (r *repo) CountCompletedOrders(ctx context.Context, customerID snowflake.ID) (int64, error) {
	return r.orders.Count(ctx, &domain.RentalOrder{
		CustomerID: customerID,
		Status:     domain.OrderStatusCompleted,
	})
}

// SignupRank leans on snowflake ids being time ordered, so the rank is
// a count of ids at or below the customer's own.
func (r *repo) SignupRank(ctx context.Context, customerID snowflake.ID) (int64, error) {
	var rank int64
	err := r.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("id <= ?", customerID).
		Count(&rank).Error
	return rank, err
}
