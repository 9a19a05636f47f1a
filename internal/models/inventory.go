package models

import (
	"time"

	"github.com/google/uuid"
)

type MovementReason string

const (
	MovementRestock    MovementReason = "restock"
	MovementAdjustment MovementReason = "adjustment"
	MovementDamaged    MovementReason = "damaged"
	MovementReturn     MovementReason = "return"
	MovementSale       MovementReason = "sale"
	MovementOther      MovementReason = "other"
)

func (r MovementReason) Valid() bool {
	switch r {
	case MovementRestock, MovementAdjustment, MovementDamaged, MovementReturn, MovementSale, MovementOther:
		return true
	}
	return false
}

// InventoryMovement rows are append-only. On-hand stock is always the sum of
// deltas for a variant; no stored counter is authoritative.
type InventoryMovement struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID uuid.UUID      `gorm:"type:uuid;not null;index:ix_inventory_movements_variant_created,priority:1"`
	Delta     int64          `gorm:"not null"`
	Reason    MovementReason `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null;default:now();index:ix_inventory_movements_variant_created,priority:2"`
}

func (InventoryMovement) TableName() string { return "inventory_movements" }

type InventoryThreshold struct {
	VariantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Threshold int64     `gorm:"not null"`

	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (InventoryThreshold) TableName() string { return "inventory_thresholds" }

type StockState string

const (
	StockOut StockState = "out"
	StockLow StockState = "low"
	StockOK  StockState = "ok"
)
