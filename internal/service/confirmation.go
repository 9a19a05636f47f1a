package service

import (
	"context"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentConfirmedEvent struct {
	OrderID      uuid.UUID `json:"order_id"`
	ProviderRef  string    `json:"provider_ref"`
	AmountCents  int64     `json:"amount_cents"`
	FeeCents     int64     `json:"fee_cents"`
	CurrencyCode string    `json:"currency"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type RefundEvent struct {
	OrderID      uuid.UUID `json:"order_id"`
	ProviderRef  string    `json:"provider_ref"`
	AmountCents  int64     `json:"amount_cents"`
	CurrencyCode string    `json:"currency"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ConfirmationService applies provider-confirmed payments and refunds to
// locally recorded orders. Both paths are idempotent with respect to
// duplicate delivery: the provider reference is unique, and a replayed event
// is a no-op.
type ConfirmationService struct {
	payments repository.PaymentRepo
	cache    CouponCache // may be nil
	now      func() time.Time
	log      *zap.Logger
}

func NewConfirmationService(payments repository.PaymentRepo, cache CouponCache, log *zap.Logger) *ConfirmationService {
	return &ConfirmationService{
		payments: payments,
		cache:    cache,
		now:      time.Now,
		log:      log,
	}
}

func (s *ConfirmationService) ApplyPayment(ctx context.Context, ev PaymentConfirmedEvent) error {
	var usedCoupon string

	err := s.payments.WithTx(ctx, func(txPayments repository.PaymentRepo, _ repository.RefundRepo, txOrders repository.OrderRepo, txCoupons repository.CouponRepo) error {
		createdAt := ev.OccurredAt
		if createdAt.IsZero() {
			createdAt = s.now()
		}
		inserted, err := txPayments.RecordIfAbsent(ctx, &models.Payment{
			OrderID:      ev.OrderID,
			ProviderRef:  ev.ProviderRef,
			AmountCents:  ev.AmountCents,
			FeeCents:     ev.FeeCents,
			CurrencyCode: ev.CurrencyCode,
			CreatedAt:    createdAt,
		})
		if err != nil {
			return err
		}
		if !inserted {
			s.log.Info("duplicate payment confirmation ignored",
				zap.String("provider_ref", ev.ProviderRef))
			return nil
		}

		ord, err := txOrders.GetByID(ctx, ev.OrderID)
		if err != nil {
			return err
		}
		if ord == nil {
			return ErrOrderNotFound
		}

		// Only the first confirmation moves the order to paid and burns the
		// coupon use; later payments for an already-paid order are recorded
		// for reconciliation but change nothing else.
		if ord.Status != models.OrderStatusPending && ord.Status != models.OrderStatusExpired {
			return nil
		}
		if err := txOrders.UpdateStatus(ctx, ord.ID, models.OrderStatusPaid); err != nil {
			return err
		}

		if ord.CouponCode != nil && *ord.CouponCode != "" {
			coupon, err := txCoupons.GetByCode(ctx, *ord.CouponCode)
			if err != nil {
				return err
			}
			if coupon != nil {
				if err := txCoupons.IncrementUses(ctx, coupon.ID); err != nil {
					return err
				}
				usedCoupon = coupon.Code
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if usedCoupon != "" && s.cache != nil {
		if err := s.cache.InvalidateCoupon(ctx, usedCoupon); err != nil {
			s.log.Warn("coupon cache invalidation failed", zap.String("code", usedCoupon), zap.Error(err))
		}
	}

	s.log.Info("payment confirmation applied",
		zap.String("order_id", ev.OrderID.String()),
		zap.String("provider_ref", ev.ProviderRef),
		zap.Int64("amount_cents", ev.AmountCents))
	return nil
}

func (s *ConfirmationService) ApplyRefund(ctx context.Context, ev RefundEvent) error {
	err := s.payments.WithTx(ctx, func(txPayments repository.PaymentRepo, txRefunds repository.RefundRepo, txOrders repository.OrderRepo, _ repository.CouponRepo) error {
		createdAt := ev.OccurredAt
		if createdAt.IsZero() {
			createdAt = s.now()
		}
		inserted, err := txRefunds.RecordIfAbsent(ctx, &models.Refund{
			OrderID:      ev.OrderID,
			ProviderRef:  ev.ProviderRef,
			AmountCents:  ev.AmountCents,
			CurrencyCode: ev.CurrencyCode,
			CreatedAt:    createdAt,
		})
		if err != nil {
			return err
		}
		if !inserted {
			s.log.Info("duplicate refund ignored", zap.String("provider_ref", ev.ProviderRef))
			return nil
		}

		ord, err := txOrders.GetByID(ctx, ev.OrderID)
		if err != nil {
			return err
		}
		if ord == nil {
			return ErrOrderNotFound
		}

		refunded, err := txRefunds.SumByOrder(ctx, ord.ID)
		if err != nil {
			return err
		}
		paid, err := txPayments.SumByOrder(ctx, ord.ID)
		if err != nil {
			return err
		}

		status := models.OrderStatusPartiallyRefunded
		if refunded >= paid {
			status = models.OrderStatusRefunded
		}
		return txOrders.UpdateStatus(ctx, ord.ID, status)
	})
	if err != nil {
		return err
	}

	s.log.Info("refund applied",
		zap.String("order_id", ev.OrderID.String()),
		zap.String("provider_ref", ev.ProviderRef),
		zap.Int64("amount_cents", ev.AmountCents))
	return nil
}
