package service_test

import (
	"context"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/payments"
	"backoffice/internal/repository"

	"github.com/google/uuid"
)

type MockVariantRepo struct {
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	GetWithProductFunc func(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	ExistsFunc         func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockVariantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockVariantRepo) GetWithProduct(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	if m.GetWithProductFunc != nil {
		return m.GetWithProductFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockVariantRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return true, nil
}

type MockPriceRepo struct {
	GetByIDFunc               func(ctx context.Context, id uuid.UUID) (*models.PriceRecord, error)
	LatestByVariantFunc       func(ctx context.Context, variantID uuid.UUID) (*models.PriceRecord, error)
	SetExternalRefIfEmptyFunc func(ctx context.Context, id uuid.UUID, ref string) (bool, error)
	CreateFunc                func(ctx context.Context, p *models.PriceRecord) error
}

func (m *MockPriceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PriceRecord, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockPriceRepo) LatestByVariant(ctx context.Context, variantID uuid.UUID) (*models.PriceRecord, error) {
	if m.LatestByVariantFunc != nil {
		return m.LatestByVariantFunc(ctx, variantID)
	}
	return nil, nil
}

func (m *MockPriceRepo) SetExternalRefIfEmpty(ctx context.Context, id uuid.UUID, ref string) (bool, error) {
	if m.SetExternalRefIfEmptyFunc != nil {
		return m.SetExternalRefIfEmptyFunc(ctx, id, ref)
	}
	return true, nil
}

func (m *MockPriceRepo) Create(ctx context.Context, p *models.PriceRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

type MockCustomerRepo struct {
	CreateFunc     func(ctx context.Context, c *models.Customer) error
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.Customer, error)
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCustomerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

type MockOrderItemRepo struct {
	BulkCreateFunc   func(ctx context.Context, items []models.OrderItem) error
	GetByOrderIDFunc func(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	SumByOrderFunc   func(ctx context.Context, orderID uuid.UUID) (int64, error)
}

func (m *MockOrderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if m.BulkCreateFunc != nil {
		return m.BulkCreateFunc(ctx, items)
	}
	return nil
}

func (m *MockOrderItemRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *MockOrderItemRepo) SumByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	if m.SumByOrderFunc != nil {
		return m.SumByOrderFunc(ctx, orderID)
	}
	return 0, nil
}

type MockOrderRepo struct {
	Items *MockOrderItemRepo

	CreateFunc                func(ctx context.Context, o *models.Order) error
	GetByIDFunc               func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	SetProviderSessionRefFunc func(ctx context.Context, id uuid.UUID, ref string) error
	UpdateStatusFunc          func(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	ListFunc                  func(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error)
	ExistsFunc                func(ctx context.Context, id uuid.UUID) (bool, error)
	ExpirePendingBeforeFunc   func(ctx context.Context, cutoff time.Time) (int64, error)
	AggregateRangeFunc        func(ctx context.Context, from, to time.Time) (repository.OrderAggregate, error)
	WithTxFunc                func(ctx context.Context, fn func(txOrders repository.OrderRepo, txItems repository.OrderItemRepo) error) error
}

func (m *MockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepo) SetProviderSessionRef(ctx context.Context, id uuid.UUID, ref string) error {
	if m.SetProviderSessionRefFunc != nil {
		return m.SetProviderSessionRefFunc(ctx, id, ref)
	}
	return nil
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockOrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockOrderRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

func (m *MockOrderRepo) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.ExpirePendingBeforeFunc != nil {
		return m.ExpirePendingBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *MockOrderRepo) AggregateRange(ctx context.Context, from, to time.Time) (repository.OrderAggregate, error) {
	if m.AggregateRangeFunc != nil {
		return m.AggregateRangeFunc(ctx, from, to)
	}
	return repository.OrderAggregate{}, nil
}

func (m *MockOrderRepo) WithTx(ctx context.Context, fn func(txOrders repository.OrderRepo, txItems repository.OrderItemRepo) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, fn)
	}
	items := m.Items
	if items == nil {
		items = &MockOrderItemRepo{}
	}
	return fn(m, items)
}

type MockCouponRepo struct {
	GetByCodeFunc     func(ctx context.Context, code string) (*models.Coupon, error)
	IncrementUsesFunc func(ctx context.Context, id uuid.UUID) error
	CreateFunc        func(ctx context.Context, c *models.Coupon) error
}

func (m *MockCouponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *MockCouponRepo) IncrementUses(ctx context.Context, id uuid.UUID) error {
	if m.IncrementUsesFunc != nil {
		return m.IncrementUsesFunc(ctx, id)
	}
	return nil
}

func (m *MockCouponRepo) Create(ctx context.Context, c *models.Coupon) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

type MockInventoryRepo struct {
	AppendMovementFunc  func(ctx context.Context, mv *models.InventoryMovement) error
	SumDeltasFunc       func(ctx context.Context, variantID uuid.UUID) (int64, error)
	ListMovementsFunc   func(ctx context.Context, variantID uuid.UUID, limit int) ([]models.InventoryMovement, error)
	GetThresholdFunc    func(ctx context.Context, variantID uuid.UUID) (*models.InventoryThreshold, error)
	UpsertThresholdFunc func(ctx context.Context, variantID uuid.UUID, threshold int64) error
}

func (m *MockInventoryRepo) AppendMovement(ctx context.Context, mv *models.InventoryMovement) error {
	if m.AppendMovementFunc != nil {
		return m.AppendMovementFunc(ctx, mv)
	}
	return nil
}

func (m *MockInventoryRepo) SumDeltas(ctx context.Context, variantID uuid.UUID) (int64, error) {
	if m.SumDeltasFunc != nil {
		return m.SumDeltasFunc(ctx, variantID)
	}
	return 0, nil
}

func (m *MockInventoryRepo) ListMovements(ctx context.Context, variantID uuid.UUID, limit int) ([]models.InventoryMovement, error) {
	if m.ListMovementsFunc != nil {
		return m.ListMovementsFunc(ctx, variantID, limit)
	}
	return nil, nil
}

func (m *MockInventoryRepo) GetThreshold(ctx context.Context, variantID uuid.UUID) (*models.InventoryThreshold, error) {
	if m.GetThresholdFunc != nil {
		return m.GetThresholdFunc(ctx, variantID)
	}
	return nil, nil
}

func (m *MockInventoryRepo) UpsertThreshold(ctx context.Context, variantID uuid.UUID, threshold int64) error {
	if m.UpsertThresholdFunc != nil {
		return m.UpsertThresholdFunc(ctx, variantID, threshold)
	}
	return nil
}

type MockPaymentRepo struct {
	Refunds *MockRefundRepo
	Orders  *MockOrderRepo
	Coupons *MockCouponRepo

	RecordIfAbsentFunc func(ctx context.Context, p *models.Payment) (bool, error)
	SumByOrderFunc     func(ctx context.Context, orderID uuid.UUID) (int64, error)
	AggregateRangeFunc func(ctx context.Context, from, to time.Time) (repository.MoneyAggregate, error)
	WithTxFunc         func(ctx context.Context, fn func(txPayments repository.PaymentRepo, txRefunds repository.RefundRepo, txOrders repository.OrderRepo, txCoupons repository.CouponRepo) error) error
}

func (m *MockPaymentRepo) RecordIfAbsent(ctx context.Context, p *models.Payment) (bool, error) {
	if m.RecordIfAbsentFunc != nil {
		return m.RecordIfAbsentFunc(ctx, p)
	}
	return true, nil
}

func (m *MockPaymentRepo) SumByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	if m.SumByOrderFunc != nil {
		return m.SumByOrderFunc(ctx, orderID)
	}
	return 0, nil
}

func (m *MockPaymentRepo) AggregateRange(ctx context.Context, from, to time.Time) (repository.MoneyAggregate, error) {
	if m.AggregateRangeFunc != nil {
		return m.AggregateRangeFunc(ctx, from, to)
	}
	return repository.MoneyAggregate{}, nil
}

func (m *MockPaymentRepo) WithTx(ctx context.Context, fn func(txPayments repository.PaymentRepo, txRefunds repository.RefundRepo, txOrders repository.OrderRepo, txCoupons repository.CouponRepo) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, fn)
	}
	refunds := m.Refunds
	if refunds == nil {
		refunds = &MockRefundRepo{}
	}
	orders := m.Orders
	if orders == nil {
		orders = &MockOrderRepo{}
	}
	coupons := m.Coupons
	if coupons == nil {
		coupons = &MockCouponRepo{}
	}
	return fn(m, refunds, orders, coupons)
}

type MockRefundRepo struct {
	RecordIfAbsentFunc func(ctx context.Context, rf *models.Refund) (bool, error)
	SumByOrderFunc     func(ctx context.Context, orderID uuid.UUID) (int64, error)
	AggregateRangeFunc func(ctx context.Context, from, to time.Time) (repository.MoneyAggregate, error)
}

func (m *MockRefundRepo) RecordIfAbsent(ctx context.Context, rf *models.Refund) (bool, error) {
	if m.RecordIfAbsentFunc != nil {
		return m.RecordIfAbsentFunc(ctx, rf)
	}
	return true, nil
}

func (m *MockRefundRepo) SumByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	if m.SumByOrderFunc != nil {
		return m.SumByOrderFunc(ctx, orderID)
	}
	return 0, nil
}

func (m *MockRefundRepo) AggregateRange(ctx context.Context, from, to time.Time) (repository.MoneyAggregate, error) {
	if m.AggregateRangeFunc != nil {
		return m.AggregateRangeFunc(ctx, from, to)
	}
	return repository.MoneyAggregate{}, nil
}

type MockProvider struct {
	CreateProductFunc         func(ctx context.Context, name, description string) (string, error)
	CreatePriceFunc           func(ctx context.Context, productRef string, amountCents int64, currency string) (string, error)
	CreateCheckoutSessionFunc func(ctx context.Context, req payments.SessionRequest) (*payments.SessionResponse, error)
}

func (m *MockProvider) CreateProduct(ctx context.Context, name, description string) (string, error) {
	if m.CreateProductFunc != nil {
		return m.CreateProductFunc(ctx, name, description)
	}
	return "prod_test", nil
}

func (m *MockProvider) CreatePrice(ctx context.Context, productRef string, amountCents int64, currency string) (string, error) {
	if m.CreatePriceFunc != nil {
		return m.CreatePriceFunc(ctx, productRef, amountCents, currency)
	}
	return "price_test", nil
}

func (m *MockProvider) CreateCheckoutSession(ctx context.Context, req payments.SessionRequest) (*payments.SessionResponse, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, req)
	}
	return &payments.SessionResponse{ID: "cs_test", URL: "https://pay.example/cs_test"}, nil
}

type MockCouponCache struct {
	GetCouponFunc        func(ctx context.Context, code string) (*models.Coupon, error)
	SetCouponFunc        func(ctx context.Context, c *models.Coupon, ttl time.Duration) error
	InvalidateCouponFunc func(ctx context.Context, code string) error
}

func (m *MockCouponCache) GetCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	if m.GetCouponFunc != nil {
		return m.GetCouponFunc(ctx, code)
	}
	return nil, nil
}

func (m *MockCouponCache) SetCoupon(ctx context.Context, c *models.Coupon, ttl time.Duration) error {
	if m.SetCouponFunc != nil {
		return m.SetCouponFunc(ctx, c, ttl)
	}
	return nil
}

func (m *MockCouponCache) InvalidateCoupon(ctx context.Context, code string) error {
	if m.InvalidateCouponFunc != nil {
		return m.InvalidateCouponFunc(ctx, code)
	}
	return nil
}
