package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"backoffice/internal/service"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	eventPaymentConfirmed = "payment.confirmed"
	eventPaymentRefunded  = "payment.refunded"
)

type confirmationEnvelope struct {
	Type         string    `json:"type"`
	OrderID      string    `json:"order_id"`
	ProviderRef  string    `json:"provider_ref"`
	AmountCents  int64     `json:"amount_cents"`
	FeeCents     int64     `json:"fee_cents"`
	CurrencyCode string    `json:"currency"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type PaymentConsumer struct {
	reader        *kafka.Reader
	confirmations *service.ConfirmationService
	log           *zap.Logger
}

func NewPaymentConsumer(brokers []string, groupID, topic string, confirmations *service.ConfirmationService, log *zap.Logger) *PaymentConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          10e3,
		MaxBytes:          10e6,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return &PaymentConsumer{reader: r, confirmations: confirmations, log: log}
}

func (c *PaymentConsumer) Run(ctx context.Context) error {
	c.log.Info("payment confirmation consumer started")
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.Error("read message", zap.Error(err))
			continue
		}

		var env confirmationEnvelope
		if err := json.Unmarshal(m.Value, &env); err != nil {
			c.log.Error("unmarshal confirmation event", zap.ByteString("value", m.Value), zap.Error(err))
			continue
		}

		if err := c.apply(ctx, env); err != nil {
			// The apply path is idempotent, so a redelivery after this
			// failure is safe.
			c.log.Error("apply confirmation failed",
				zap.String("type", env.Type),
				zap.String("provider_ref", env.ProviderRef),
				zap.Error(err))
			continue
		}
	}
}

func (c *PaymentConsumer) apply(ctx context.Context, env confirmationEnvelope) error {
	orderID, err := uuid.Parse(env.OrderID)
	if err != nil {
		return err
	}
	switch env.Type {
	case eventPaymentConfirmed:
		return c.confirmations.ApplyPayment(ctx, service.PaymentConfirmedEvent{
			OrderID:      orderID,
			ProviderRef:  env.ProviderRef,
			AmountCents:  env.AmountCents,
			FeeCents:     env.FeeCents,
			CurrencyCode: env.CurrencyCode,
			OccurredAt:   env.OccurredAt,
		})
	case eventPaymentRefunded:
		return c.confirmations.ApplyRefund(ctx, service.RefundEvent{
			OrderID:      orderID,
			ProviderRef:  env.ProviderRef,
			AmountCents:  env.AmountCents,
			CurrencyCode: env.CurrencyCode,
			OccurredAt:   env.OccurredAt,
		})
	default:
		c.log.Warn("unknown confirmation event type", zap.String("type", env.Type))
		return nil
	}
}

func (c *PaymentConsumer) Close() error { return c.reader.Close() }
