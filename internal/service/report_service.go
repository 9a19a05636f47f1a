package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/repository"
)

type AnomalyLevel string

const (
	AnomalyOK       AnomalyLevel = "ok"
	AnomalyWarning  AnomalyLevel = "warning"
	AnomalyCritical AnomalyLevel = "critical"
)

// Band edges are inclusive on the low side of the next band: |diff| of
// exactly 1000 is still ok, exactly 10000 is still warning.
const (
	anomalyWarnAboveCents     = 1000
	anomalyCriticalAboveCents = 10000
)

type ReportOrders struct {
	Count         int64 `json:"count"`
	TotalNetCents int64 `json:"total_net_cents"`
	TotalFeeCents int64 `json:"total_fee_cents"`
}

type ReportPayments struct {
	Count            int64 `json:"count"`
	TotalAmountCents int64 `json:"total_amount_cents"`
	TotalFeeCents    int64 `json:"total_fee_cents"`
}

type ReportRefunds struct {
	Count            int64 `json:"count"`
	TotalAmountCents int64 `json:"total_amount_cents"`
}

type ReportAnomaly struct {
	Level     AnomalyLevel `json:"level"`
	DiffCents int64        `json:"diff_cents"`
	Message   string       `json:"message"`
}

type DailyReport struct {
	Date      string         `json:"date"`
	Orders    ReportOrders   `json:"orders"`
	Payments  ReportPayments `json:"payments"`
	Refunds   ReportRefunds  `json:"refunds"`
	Anomalies ReportAnomaly  `json:"anomalies"`
}

type ReportService interface {
	Daily(ctx context.Context, date string) (*DailyReport, error)
}

type reportService struct {
	orders   repository.OrderRepo
	payments repository.PaymentRepo
	refunds  repository.RefundRepo
}

func NewReportService(orders repository.OrderRepo, payments repository.PaymentRepo, refunds repository.RefundRepo) ReportService {
	return &reportService{orders: orders, payments: payments, refunds: refunds}
}

func (s *reportService) Daily(ctx context.Context, date string) (*DailyReport, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return nil, ErrBadReportDate
	}
	from, to := day, day.AddDate(0, 0, 1)

	orders, err := s.orders.AggregateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.AggregateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	refunds, err := s.refunds.AggregateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	diff := payments.TotalAmountCents - orders.TotalNetCents

	return &DailyReport{
		Date: date,
		Orders: ReportOrders{
			Count:         orders.Count,
			TotalNetCents: orders.TotalNetCents,
			TotalFeeCents: orders.TotalFeeCents,
		},
		Payments: ReportPayments{
			Count:            payments.Count,
			TotalAmountCents: payments.TotalAmountCents,
			TotalFeeCents:    payments.TotalFeeCents,
		},
		Refunds: ReportRefunds{
			Count:            refunds.Count,
			TotalAmountCents: refunds.TotalAmountCents,
		},
		Anomalies: Classify(diff),
	}, nil
}

// Classify assigns the severity band for a signed orders-vs-payments diff.
// Pure and deterministic; never an error path.
func Classify(diffCents int64) ReportAnomaly {
	abs := diffCents
	if abs < 0 {
		abs = -abs
	}

	level := AnomalyOK
	switch {
	case abs > anomalyCriticalAboveCents:
		level = AnomalyCritical
	case abs > anomalyWarnAboveCents:
		level = AnomalyWarning
	}

	return ReportAnomaly{
		Level:     level,
		DiffCents: diffCents,
		Message:   fmt.Sprintf("%s diff: %d", strings.ToUpper(string(level)), diffCents),
	}
}
