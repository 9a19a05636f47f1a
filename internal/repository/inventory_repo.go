package repository

import (
	"context"
	"errors"

	"backoffice/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepo interface {
	AppendMovement(ctx context.Context, m *models.InventoryMovement) error
	// SumDeltas recomputes on-hand from the full movement log. The log is the
	// source of truth; there is no cached counter.
	SumDeltas(ctx context.Context, variantID uuid.UUID) (int64, error)
	ListMovements(ctx context.Context, variantID uuid.UUID, limit int) ([]models.InventoryMovement, error)
	GetThreshold(ctx context.Context, variantID uuid.UUID) (*models.InventoryThreshold, error)
	UpsertThreshold(ctx context.Context, variantID uuid.UUID, threshold int64) error
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepo(db *gorm.DB) InventoryRepo { return &inventoryRepo{db: db} }

func (r *inventoryRepo) AppendMovement(ctx context.Context, m *models.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *inventoryRepo) SumDeltas(ctx context.Context, variantID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.InventoryMovement{}).
		Select("COALESCE(SUM(delta),0)").
		Where("variant_id = ?", variantID).
		Scan(&sum).Error
	return sum, err
}

func (r *inventoryRepo) ListMovements(ctx context.Context, variantID uuid.UUID, limit int) ([]models.InventoryMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.InventoryMovement
	err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *inventoryRepo) GetThreshold(ctx context.Context, variantID uuid.UUID) (*models.InventoryThreshold, error) {
	var t models.InventoryThreshold
	err := r.db.WithContext(ctx).First(&t, "variant_id = ?", variantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *inventoryRepo) UpsertThreshold(ctx context.Context, variantID uuid.UUID, threshold int64) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "variant_id"}},
		DoUpdates: clause.Assignments(map[string]any{"threshold": threshold, "updated_at": gorm.Expr("now()")}),
	}).Create(&models.InventoryThreshold{VariantID: variantID, Threshold: threshold}).Error
}
