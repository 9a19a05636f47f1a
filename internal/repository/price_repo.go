package repository

import (
	"context"
	"errors"

	"backoffice/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.PriceRecord, error)
	LatestByVariant(ctx context.Context, variantID uuid.UUID) (*models.PriceRecord, error)
	// SetExternalRefIfEmpty is the conditional write that guards the
	// provisioning race: only the first writer for a price row wins, later
	// writers get false and must re-read.
	SetExternalRefIfEmpty(ctx context.Context, id uuid.UUID, ref string) (bool, error)
	Create(ctx context.Context, p *models.PriceRecord) error
}

type priceRepo struct{ db *gorm.DB }

func NewPriceRepo(db *gorm.DB) PriceRepo { return &priceRepo{db: db} }

func (r *priceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PriceRecord, error) {
	var p models.PriceRecord
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *priceRepo) LatestByVariant(ctx context.Context, variantID uuid.UUID) (*models.PriceRecord, error) {
	var p models.PriceRecord
	err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("created_at DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *priceRepo) SetExternalRefIfEmpty(ctx context.Context, id uuid.UUID, ref string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.PriceRecord{}).
		Where("id = ? AND external_price_ref IS NULL", id).
		Update("external_price_ref", ref)
	return tx.RowsAffected > 0, tx.Error
}

func (r *priceRepo) Create(ctx context.Context, p *models.PriceRecord) error {
	return r.db.WithContext(ctx).Create(p).Error
}
