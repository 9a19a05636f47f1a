// Package sweeper expires orphaned pending orders. A checkout that persisted
// its order but never produced a payment session, or whose buyer walked away,
// leaves a pending row behind; the sweep moves rows older than the TTL to
// expired on a fixed interval.
package sweeper

import (
	"context"
	"time"

	"backoffice/internal/repository"

	"go.uber.org/zap"
)

type Sweeper struct {
	orders   repository.OrderRepo
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger
	stopCh   chan struct{}
}

func New(orders repository.OrderRepo, ttl, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		orders:   orders,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		log:      log,
		stopCh:   make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.log.Info("starting pending order sweeper",
		zap.Duration("ttl", s.ttl), zap.Duration("interval", s.interval))
	go s.run(ctx)
}

func (s *Sweeper) Stop() {
	s.log.Info("stopping pending order sweeper")
	close(s.stopCh)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := s.SweepOnce(ctx); err != nil {
		s.log.Error("initial pending sweep failed", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.log.Error("pending sweep failed", zap.Error(err))
			}
		case <-s.stopCh:
			s.log.Info("pending sweep stopped")
			return
		case <-ctx.Done():
			s.log.Info("pending sweep cancelled")
			return
		}
	}
}

func (s *Sweeper) SweepOnce(ctx context.Context) error {
	cutoff := s.now().Add(-s.ttl)
	expired, err := s.orders.ExpirePendingBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if expired > 0 {
		s.log.Info("expired pending orders", zap.Int64("count", expired), zap.Time("cutoff", cutoff))
	}
	return nil
}
