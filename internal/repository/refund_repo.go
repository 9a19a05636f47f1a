package repository

import (
	"context"
	"time"

	"backoffice/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RefundRepo interface {
	RecordIfAbsent(ctx context.Context, rf *models.Refund) (bool, error)
	SumByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	AggregateRange(ctx context.Context, from, to time.Time) (MoneyAggregate, error)
}

type refundRepo struct{ db *gorm.DB }

func NewRefundRepo(db *gorm.DB) RefundRepo { return &refundRepo{db: db} }

func (r *refundRepo) RecordIfAbsent(ctx context.Context, rf *models.Refund) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_ref"}},
		DoNothing: true,
	}).Create(rf)
	return tx.RowsAffected > 0, tx.Error
}

func (r *refundRepo) SumByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.Refund{}).
		Select("COALESCE(SUM(amount_cents),0)").
		Where("order_id = ?", orderID).
		Scan(&sum).Error
	return sum, err
}

func (r *refundRepo) AggregateRange(ctx context.Context, from, to time.Time) (MoneyAggregate, error) {
	var agg MoneyAggregate
	err := r.db.WithContext(ctx).Model(&models.Refund{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount_cents),0) AS total_amount_cents, 0 AS total_fee_cents").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&agg).Error
	return agg, err
}
