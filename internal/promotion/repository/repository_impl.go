package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	promotiondomain "github.com/wardrobers/backend-api-sub000/internal/promotion/domain"
	"github.com/wardrobers/backend-api-sub000/pkg/db/option"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) promotiondomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListEligible(ctx context.Context, variantID snowflake.ID, userID *snowflake.ID, now time.Time) ([]promotiondomain.Promotion, error) {
	stmt := r.db.WithContext(ctx).
		Model(&promotiondomain.Promotion{}).
		Where("active = ?", true).
		Where("valid_from <= ? AND valid_to >= ?", now, now).
		Where("uses_left > 0")

	if userID != nil {
		stmt = stmt.Where("variant_id = ? OR user_id = ?", variantID, *userID)
	} else {
		stmt = stmt.Where("variant_id = ?", variantID)
	}

	var promotions []promotiondomain.Promotion
	if err := stmt.Order("id ASC").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// TryConsumeUse is the only mutation the pricing path performs. The
// conditional update must run against the store, never as an in-process
// read-modify-write, so the last use of a promotion is spent exactly once
// under concurrent checkouts.
func (r *repository) TryConsumeUse(ctx context.Context, promotionID snowflake.ID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE promotions
		 SET uses_left = uses_left - 1, updated_at = ?
		 WHERE id = ? AND uses_left > 0`,
		time.Now().UTC(),
		promotionID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) Insert(ctx context.Context, promotion *promotiondomain.Promotion) error {
	return r.db.WithContext(ctx).Create(promotion).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*promotiondomain.Promotion, error) {
	var promotion promotiondomain.Promotion
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, code, discount_type, discount_value, valid_from, valid_to,
		        max_uses, uses_left, active, variant_id, user_id,
		        created_at, updated_at
		 FROM promotions
		 WHERE id = ?`,
		id,
	).Scan(&promotion).Error
	if err != nil {
		return nil, err
	}
	if promotion.ID == 0 {
		return nil, nil
	}
	return &promotion, nil
}

func (r *repository) List(ctx context.Context, filter promotiondomain.ListRequest) ([]promotiondomain.Promotion, error) {
	stmt := r.db.WithContext(ctx).Model(&promotiondomain.Promotion{})

	if filter.Code != "" {
		stmt = stmt.Where("code = ?", filter.Code)
	}
	if filter.VariantID != "" {
		variantID, err := snowflake.ParseString(filter.VariantID)
		if err != nil {
			return nil, promotiondomain.ErrInvalidID
		}
		stmt = stmt.Where("variant_id = ?", variantID)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}

	stmt = option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at": true,
		"updated_at": true,
		"valid_to":   true,
		"code":       true,
	})).Apply(stmt)

	var promotions []promotiondomain.Promotion
	if err := stmt.Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

func (r *repository) SetActive(ctx context.Context, id snowflake.ID, active bool) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE promotions
		 SET active = ?, updated_at = ?
		 WHERE id = ?`,
		active,
		time.Now().UTC(),
		id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return promotiondomain.ErrNotFound
	}
	return nil
}
