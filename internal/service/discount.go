package service

import (
	"context"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/repository"

	"go.uber.org/zap"
)

type DiscountEngine struct {
	coupons  repository.CouponRepo
	cache    CouponCache // may be nil
	cacheTTL time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewDiscountEngine(coupons repository.CouponRepo, cache CouponCache, cacheTTL time.Duration, log *zap.Logger) *DiscountEngine {
	return &DiscountEngine{
		coupons:  coupons,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      time.Now,
		log:      log,
	}
}

// Apply validates the coupon code against the subtotal and returns the
// discount in minor units plus the matched coupon. An empty code is a zero
// discount, not an error. Usage counting happens at payment confirmation,
// never here.
func (e *DiscountEngine) Apply(ctx context.Context, code string, subtotalCents int64) (int64, *models.Coupon, error) {
	if code == "" {
		return 0, nil, nil
	}

	coupon, err := e.lookup(ctx, code)
	if err != nil {
		return 0, nil, err
	}
	if coupon == nil || coupon.Status != models.CouponStatusActive {
		return 0, nil, ErrCouponInvalid
	}

	now := e.now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return 0, nil, ErrCouponNotYetValid
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return 0, nil, ErrCouponExpired
	}
	if coupon.MinOrderCents != nil && subtotalCents < *coupon.MinOrderCents {
		return 0, nil, ErrMinimumOrderNotMet
	}
	if coupon.MaxUses != nil && coupon.CurrentUses >= *coupon.MaxUses {
		return 0, nil, ErrCouponExhausted
	}

	return discountAmount(coupon, subtotalCents), coupon, nil
}

func (e *DiscountEngine) lookup(ctx context.Context, code string) (*models.Coupon, error) {
	if e.cache != nil {
		cached, err := e.cache.GetCoupon(ctx, code)
		if err != nil {
			// Cache trouble must not fail a checkout.
			e.log.Warn("coupon cache read failed", zap.String("code", code), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	coupon, err := e.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon != nil && e.cache != nil {
		if err := e.cache.SetCoupon(ctx, coupon, e.cacheTTL); err != nil {
			e.log.Warn("coupon cache write failed", zap.String("code", code), zap.Error(err))
		}
	}
	return coupon, nil
}

// discountAmount never goes negative and never exceeds the subtotal.
func discountAmount(c *models.Coupon, subtotalCents int64) int64 {
	switch c.Type {
	case models.CouponTypePercentage:
		if c.Value <= 0 {
			return 0
		}
		d := subtotalCents * c.Value / 100
		if d > subtotalCents {
			return subtotalCents
		}
		return d
	case models.CouponTypeFixed:
		if c.Value <= 0 {
			return 0
		}
		if c.Value > subtotalCents {
			return subtotalCents
		}
		return c.Value
	}
	return 0
}
