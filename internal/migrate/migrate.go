package migrate

import (
	"context"

	"backoffice/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto for gen_random_uuid
	CreateChecks           bool // CHECK constraints for integrity
	CreateIndexes          bool // indexes and UNIQUE
	CreateUpdatedAtTrigger bool // updated_at trigger on orders
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateUpdatedAtTrigger: true,
	}
}

func MigrateBackofficeDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("starting back office database migration")

	if opt.CreateExtensions {
		if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("failed to enable pgcrypto extension", zap.Error(err))
			return err
		}
	}

	log.Info("creating tables")
	if err := db.WithContext(ctx).AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.PriceRecord{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.InventoryMovement{},
		&models.InventoryThreshold{},
		&models.Payment{},
		&models.Refund{},
	); err != nil {
		log.Error("failed to create tables", zap.Error(err))
		return err
	}

	if opt.CreateUpdatedAtTrigger {
		if err := db.WithContext(ctx).Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated
BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("failed to create updated_at trigger", zap.Error(err))
			return err
		}
	}

	if opt.CreateChecks {
		log.Info("creating CHECK constraints")

		if err := db.WithContext(ctx).Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('pending','paid','refunded','partially_refunded','expired'));
`).Error; err != nil {
			log.Error("failed to create CHECK for order status", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_amounts_non_negative;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_amounts_non_negative
  CHECK (total_net_cents >= 0 AND discount_cents >= 0 AND shipping_fee_cents >= 0);
`).Error; err != nil {
			log.Error("failed to create CHECK for order amounts", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_quantity_range;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_quantity_range
  CHECK (quantity BETWEEN 1 AND 99);
`).Error; err != nil {
			log.Error("failed to create CHECK for order item quantity", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_prices_non_negative;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_prices_non_negative
  CHECK (unit_price_cents >= 0 AND line_total_cents >= 0);
`).Error; err != nil {
			log.Error("failed to create CHECK for order item prices", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
ALTER TABLE coupons
  DROP CONSTRAINT IF EXISTS chk_coupons_type_allowed;
ALTER TABLE coupons
  ADD CONSTRAINT chk_coupons_type_allowed
  CHECK (type IN ('percentage','fixed'));
`).Error; err != nil {
			log.Error("failed to create CHECK for coupon type", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
ALTER TABLE inventory_movements
  DROP CONSTRAINT IF EXISTS chk_inventory_movements_reason_allowed;
ALTER TABLE inventory_movements
  ADD CONSTRAINT chk_inventory_movements_reason_allowed
  CHECK (reason IN ('restock','adjustment','damaged','return','sale','other'));
`).Error; err != nil {
			log.Error("failed to create CHECK for movement reason", zap.Error(err))
			return err
		}
	}

	if opt.CreateIndexes {
		log.Info("creating indexes")

		if err := db.WithContext(ctx).Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_order_items_order_variant
ON order_items (order_id, variant_id);
`).Error; err != nil {
			log.Error("failed to create unique index on order_items", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_status_created
ON orders (status, created_at DESC);
`).Error; err != nil {
			log.Error("failed to create index ix_orders_status_created", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
CREATE INDEX IF NOT EXISTS ix_price_records_variant_created
ON price_records (variant_id, created_at DESC);
`).Error; err != nil {
			log.Error("failed to create index ix_price_records_variant_created", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
CREATE INDEX IF NOT EXISTS ix_inventory_movements_variant_created
ON inventory_movements (variant_id, created_at);
`).Error; err != nil {
			log.Error("failed to create index ix_inventory_movements_variant_created", zap.Error(err))
			return err
		}
	}

	log.Info("back office database migration completed")
	return nil
}
