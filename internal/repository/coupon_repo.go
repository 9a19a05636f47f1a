package repository

import (
	"context"
	"errors"

	"backoffice/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CouponRepo interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	// IncrementUses bumps current_uses by one. Called only from the payment
	// confirmation path, never at checkout time.
	IncrementUses(ctx context.Context, id uuid.UUID) error
	Create(ctx context.Context, c *models.Coupon) error
}

type couponRepo struct{ db *gorm.DB }

func NewCouponRepo(db *gorm.DB) CouponRepo { return &couponRepo{db: db} }

func (r *couponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := r.db.WithContext(ctx).First(&c, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *couponRepo) IncrementUses(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", id).
		Update("current_uses", gorm.Expr("current_uses + 1")).Error
}

func (r *couponRepo) Create(ctx context.Context, c *models.Coupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}
