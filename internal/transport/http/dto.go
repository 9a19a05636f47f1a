package http

import (
	"errors"
	"net/http"

	"backoffice/internal/service"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CheckoutRequest struct {
	Items      []CheckoutItem `json:"items" binding:"required"`
	Email      string         `json:"email"`
	CouponCode string         `json:"coupon_code"`
}

type CheckoutItem struct {
	VariantID string `json:"variant_id" binding:"required"`
	Quantity  uint32 `json:"quantity" binding:"required"`
}

type CheckoutResponse struct {
	URL     string `json:"url"`
	OrderID string `json:"order_id"`
}

type MovementRequest struct {
	VariantID string `json:"variant_id" binding:"required"`
	Delta     int64  `json:"delta" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type ThresholdRequest struct {
	Threshold int64 `json:"threshold"`
}

// statusFor maps service sentinels onto HTTP statuses; the error text doubles
// as the machine-readable code surfaced to the storefront.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrNoItems),
		errors.Is(err, service.ErrTooManyItems),
		errors.Is(err, service.ErrQuantityInvalid),
		errors.Is(err, service.ErrMovementReasonInvalid),
		errors.Is(err, service.ErrNegativeStock),
		errors.Is(err, service.ErrBadReportDate):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, service.ErrCouponInvalid),
		errors.Is(err, service.ErrCouponNotYetValid),
		errors.Is(err, service.ErrCouponExpired),
		errors.Is(err, service.ErrCouponExhausted),
		errors.Is(err, service.ErrMinimumOrderNotMet):
		return http.StatusUnprocessableEntity, "coupon_rejected"
	case errors.Is(err, service.ErrPriceProvisioningFailed),
		errors.Is(err, service.ErrSessionCreateFailed):
		return http.StatusBadGateway, "provider_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
