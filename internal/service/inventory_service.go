package service

import (
	"context"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StockStatus struct {
	VariantID uuid.UUID
	OnHand    int64
	Threshold *int64
	State     models.StockState
}

type InventoryService interface {
	RecordMovement(ctx context.Context, variantID uuid.UUID, delta int64, reason models.MovementReason) (*models.InventoryMovement, error)
	OnHand(ctx context.Context, variantID uuid.UUID) (int64, error)
	Status(ctx context.Context, variantID uuid.UUID) (*StockStatus, error)
	SetThreshold(ctx context.Context, variantID uuid.UUID, threshold int64) error
	ListMovements(ctx context.Context, variantID uuid.UUID, limit int) ([]models.InventoryMovement, error)
}

type inventoryService struct {
	variants  repository.VariantRepo
	inventory repository.InventoryRepo

	// rejectNegative gates the oversell guard; historical behavior is to
	// allow on-hand below zero and reconcile by hand.
	rejectNegative bool

	now func() time.Time
	log *zap.Logger
}

func NewInventoryService(variants repository.VariantRepo, inventory repository.InventoryRepo, rejectNegative bool, log *zap.Logger) InventoryService {
	return &inventoryService{
		variants:       variants,
		inventory:      inventory,
		rejectNegative: rejectNegative,
		now:            time.Now,
		log:            log,
	}
}

func (s *inventoryService) RecordMovement(ctx context.Context, variantID uuid.UUID, delta int64, reason models.MovementReason) (*models.InventoryMovement, error) {
	if !reason.Valid() {
		return nil, ErrMovementReasonInvalid
	}

	exists, err := s.variants.Exists(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrVariantNotFound
	}

	if s.rejectNegative && delta < 0 {
		onHand, err := s.inventory.SumDeltas(ctx, variantID)
		if err != nil {
			return nil, err
		}
		if onHand+delta < 0 {
			return nil, ErrNegativeStock
		}
	}

	m := &models.InventoryMovement{
		VariantID: variantID,
		Delta:     delta,
		Reason:    reason,
		CreatedAt: s.now(),
	}
	if err := s.inventory.AppendMovement(ctx, m); err != nil {
		return nil, err
	}

	s.log.Info("inventory movement recorded",
		zap.String("variant_id", variantID.String()),
		zap.Int64("delta", delta),
		zap.String("reason", string(reason)))
	return m, nil
}

func (s *inventoryService) OnHand(ctx context.Context, variantID uuid.UUID) (int64, error) {
	exists, err := s.variants.Exists(ctx, variantID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrVariantNotFound
	}
	return s.inventory.SumDeltas(ctx, variantID)
}

func (s *inventoryService) Status(ctx context.Context, variantID uuid.UUID) (*StockStatus, error) {
	onHand, err := s.OnHand(ctx, variantID)
	if err != nil {
		return nil, err
	}

	st := &StockStatus{VariantID: variantID, OnHand: onHand, State: models.StockOK}

	threshold, err := s.inventory.GetThreshold(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if threshold != nil {
		st.Threshold = &threshold.Threshold
	}

	switch {
	case onHand <= 0:
		st.State = models.StockOut
	case threshold != nil && onHand < threshold.Threshold:
		st.State = models.StockLow
	}
	return st, nil
}

func (s *inventoryService) SetThreshold(ctx context.Context, variantID uuid.UUID, threshold int64) error {
	exists, err := s.variants.Exists(ctx, variantID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrVariantNotFound
	}
	return s.inventory.UpsertThreshold(ctx, variantID, threshold)
}

func (s *inventoryService) ListMovements(ctx context.Context, variantID uuid.UUID, limit int) ([]models.InventoryMovement, error) {
	exists, err := s.variants.Exists(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrVariantNotFound
	}
	return s.inventory.ListMovements(ctx, variantID, limit)
}
