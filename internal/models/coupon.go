package models

import (
	"time"

	"github.com/google/uuid"
)

type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

type CouponStatus string

const (
	CouponStatusActive   CouponStatus = "active"
	CouponStatusInactive CouponStatus = "inactive"
)

type Coupon struct {
	ID   uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code string     `gorm:"type:text;not null;uniqueIndex"`
	Type CouponType `gorm:"type:text;not null"`

	// Value is a percent for percentage coupons and minor units for fixed ones.
	Value         int64  `gorm:"not null"`
	CurrencyCode  string `gorm:"type:char(3);not null"`
	MinOrderCents *int64
	MaxUses       *int32
	CurrentUses   int32        `gorm:"not null;default:0"`
	Status        CouponStatus `gorm:"type:text;not null;default:'active';index"`
	StartsAt      *time.Time
	ExpiresAt     *time.Time

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Coupon) TableName() string { return "coupons" }
