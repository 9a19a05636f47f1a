package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID       uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string       `gorm:"type:text;not null"`
	Email    *string      `gorm:"type:text;index"`
	Metadata CustomerMeta `gorm:"type:jsonb;not null;default:'{}'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Customer) TableName() string { return "customers" }

type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "pending"
	OrderStatusPaid              OrderStatus = "paid"
	OrderStatusRefunded          OrderStatus = "refunded"
	OrderStatusPartiallyRefunded OrderStatus = "partially_refunded"
	// Assigned by the pending sweep, never by the checkout flow.
	OrderStatusExpired OrderStatus = "expired"
)

type Order struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID *uuid.UUID  `gorm:"type:uuid;index"`
	Status     OrderStatus `gorm:"type:text;not null;default:'pending';index"`

	// TotalNetCents is the item sum only; discount and shipping are tracked
	// separately and never folded in.
	TotalNetCents      int64     `gorm:"not null;default:0"`
	DiscountCents      int64     `gorm:"not null;default:0"`
	ShippingFeeCents   int64     `gorm:"not null;default:0"`
	CurrencyCode       string    `gorm:"type:char(3);not null"`
	CouponCode         *string   `gorm:"type:text"`
	ProviderSessionRef *string   `gorm:"type:text"`
	Metadata           OrderMeta `gorm:"type:jsonb;not null;default:'{}'"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_order_items_order_variant"`
	VariantID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_order_items_order_variant"`
	Quantity       uint32    `gorm:"type:int;not null"`
	UnitPriceCents int64     `gorm:"not null"`
	LineTotalCents int64     `gorm:"not null"`
	CurrencyCode   string    `gorm:"type:char(3);not null"`
	Metadata       ItemMeta  `gorm:"type:jsonb;not null;default:'{}'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }
