package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment and Refund rows mirror provider-confirmed money movement. The
// confirmation consumer writes them; the reconciliation reporter reads them.
// ProviderRef uniqueness is what makes duplicate webhook delivery a no-op.
type Payment struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProviderRef  string    `gorm:"type:text;not null;uniqueIndex"`
	AmountCents  int64     `gorm:"not null"`
	FeeCents     int64     `gorm:"not null;default:0"`
	CurrencyCode string    `gorm:"type:char(3);not null"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
}

func (Payment) TableName() string { return "payments" }

type Refund struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProviderRef  string    `gorm:"type:text;not null;uniqueIndex"`
	AmountCents  int64     `gorm:"not null"`
	CurrencyCode string    `gorm:"type:char(3);not null"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
}

func (Refund) TableName() string { return "refunds" }
