package service

import (
	"context"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/payments"
)

// PaymentProvider is the narrow contract the checkout flow needs from the
// external payment service. Satisfied by payments.Client.
type PaymentProvider interface {
	CreateProduct(ctx context.Context, name, description string) (string, error)
	CreatePrice(ctx context.Context, productRef string, amountCents int64, currency string) (string, error)
	CreateCheckoutSession(ctx context.Context, req payments.SessionRequest) (*payments.SessionResponse, error)
}

// CouponCache is an optional read-through cache in front of the coupon table.
// A nil implementation is fine; lookups then always hit the database.
type CouponCache interface {
	GetCoupon(ctx context.Context, code string) (*models.Coupon, error)
	SetCoupon(ctx context.Context, c *models.Coupon, ttl time.Duration) error
	InvalidateCoupon(ctx context.Context, code string) error
}
