package repository

import "gorm.io/gorm"

type Repository struct {
	DB         *gorm.DB
	Variants   VariantRepo
	Prices     PriceRepo
	Customers  CustomerRepo
	Orders     OrderRepo
	OrderItems OrderItemRepo
	Coupons    CouponRepo
	Inventory  InventoryRepo
	Payments   PaymentRepo
	Refunds    RefundRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Variants:   NewVariantRepo(db),
		Prices:     NewPriceRepo(db),
		Customers:  NewCustomerRepo(db),
		Orders:     NewOrderRepo(db),
		OrderItems: NewOrderItemRepo(db),
		Coupons:    NewCouponRepo(db),
		Inventory:  NewInventoryRepo(db),
		Payments:   NewPaymentRepo(db),
		Refunds:    NewRefundRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }
