package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text"`
	Active      bool      `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Product) TableName() string { return "products" }

type ProductVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU       string    `gorm:"type:text;not null;uniqueIndex"`
	Title     string    `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (ProductVariant) TableName() string { return "product_variants" }

// PriceRecord rows are append-only from the catalog's point of view: a price
// change creates a new row, the amount on an existing row never changes once
// an order references it. The only in-place mutation is the lazily provisioned
// ExternalPriceRef.
type PriceRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID        uuid.UUID `gorm:"type:uuid;not null;index:ix_price_records_variant_created,priority:1"`
	ProductID        uuid.UUID `gorm:"type:uuid;not null;index"`
	AmountCents      int64     `gorm:"not null"`
	CurrencyCode     string    `gorm:"type:char(3);not null"`
	ExternalPriceRef *string   `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index:ix_price_records_variant_created,priority:2,sort:desc"`
}

func (PriceRecord) TableName() string { return "price_records" }
