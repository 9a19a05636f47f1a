package service

import (
	"context"

	"backoffice/internal/models"
	"backoffice/internal/repository"

	"github.com/google/uuid"
)

const (
	maxCartLines    = 20
	minLineQuantity = 1
	maxLineQuantity = 99
)

type CartItem struct {
	VariantID uuid.UUID
	Quantity  uint32
}

type CheckoutInput struct {
	Items      []CartItem
	Email      string
	CouponCode string
}

type CheckoutResult struct {
	OrderID uuid.UUID
	URL     string
}

type ListFilter struct {
	CustomerID *uuid.UUID
	Status     *models.OrderStatus
	Limit      int
	Offset     int
}

type CheckoutService interface {
	CreateCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, f ListFilter) ([]models.Order, int64, error)
}

func toRepoFilter(f ListFilter) repository.OrderListFilter {
	return repository.OrderListFilter{
		CustomerID: f.CustomerID,
		Status:     f.Status,
		Limit:      f.Limit,
		Offset:     f.Offset,
	}
}
