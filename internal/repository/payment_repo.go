package repository

import (
	"context"
	"time"

	"backoffice/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MoneyAggregate struct {
	Count            int64
	TotalAmountCents int64
	TotalFeeCents    int64
}

type PaymentRepo interface {
	// RecordIfAbsent inserts the payment unless its provider ref was already
	// seen. Returns false on duplicate delivery.
	RecordIfAbsent(ctx context.Context, p *models.Payment) (bool, error)
	SumByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	AggregateRange(ctx context.Context, from, to time.Time) (MoneyAggregate, error)

	WithTx(ctx context.Context, fn func(txPayments PaymentRepo, txRefunds RefundRepo, txOrders OrderRepo, txCoupons CouponRepo) error) error
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) PaymentRepo { return &paymentRepo{db: db} }

func (r *paymentRepo) RecordIfAbsent(ctx context.Context, p *models.Payment) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_ref"}},
		DoNothing: true,
	}).Create(p)
	return tx.RowsAffected > 0, tx.Error
}

func (r *paymentRepo) SumByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount_cents),0)").
		Where("order_id = ?", orderID).
		Scan(&sum).Error
	return sum, err
}

func (r *paymentRepo) AggregateRange(ctx context.Context, from, to time.Time) (MoneyAggregate, error) {
	var agg MoneyAggregate
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount_cents),0) AS total_amount_cents, COALESCE(SUM(fee_cents),0) AS total_fee_cents").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&agg).Error
	return agg, err
}

func (r *paymentRepo) WithTx(ctx context.Context, fn func(txPayments PaymentRepo, txRefunds RefundRepo, txOrders OrderRepo, txCoupons CouponRepo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&paymentRepo{db: tx}, &refundRepo{db: tx}, &orderRepo{db: tx}, &couponRepo{db: tx})
	})
}
