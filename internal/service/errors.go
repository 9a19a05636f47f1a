package service

import "errors"

var (
	ErrVariantNotFound = errors.New("variant not found")
	ErrOrderNotFound   = errors.New("order not found")

	ErrNoItems         = errors.New("cart is empty")
	ErrTooManyItems    = errors.New("too many cart items")
	ErrQuantityInvalid = errors.New("quantity must be between 1 and 99")

	ErrCouponInvalid      = errors.New("coupon invalid")
	ErrCouponNotYetValid  = errors.New("coupon not yet valid")
	ErrCouponExpired      = errors.New("coupon expired")
	ErrCouponExhausted    = errors.New("coupon usage limit reached")
	ErrMinimumOrderNotMet = errors.New("order subtotal below coupon minimum")

	ErrPriceProvisioningFailed = errors.New("price provisioning failed")
	ErrSessionCreateFailed     = errors.New("checkout session creation failed")

	ErrMovementReasonInvalid = errors.New("invalid movement reason")
	ErrNegativeStock         = errors.New("movement would make on-hand negative")

	ErrBadReportDate = errors.New("report date must be YYYY-MM-DD")
)
