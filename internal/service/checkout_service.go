package service

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/payments"
	"backoffice/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const guestCustomerName = "Guest"

type CheckoutConfig struct {
	CurrencyCode      string
	Shipping          ShippingRule
	StorefrontBaseURL string
	AllowedCountries  []string
	CollectPhone      bool
}

type checkoutService struct {
	orders    repository.OrderRepo
	customers repository.CustomerRepo
	resolver  *PriceResolver
	discounts *DiscountEngine
	provider  PaymentProvider
	cfg       CheckoutConfig
	now       func() time.Time
	log       *zap.Logger
}

func NewCheckoutService(
	orders repository.OrderRepo,
	customers repository.CustomerRepo,
	resolver *PriceResolver,
	discounts *DiscountEngine,
	provider PaymentProvider,
	cfg CheckoutConfig,
	log *zap.Logger,
) CheckoutService {
	return &checkoutService{
		orders:    orders,
		customers: customers,
		resolver:  resolver,
		discounts: discounts,
		provider:  provider,
		cfg:       cfg,
		now:       time.Now,
		log:       log,
	}
}

func (s *checkoutService) CreateCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	lines, err := normalizeCart(in.Items)
	if err != nil {
		return nil, err
	}

	variantIDs := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		variantIDs = append(variantIDs, l.VariantID)
	}

	prices, err := s.resolver.Resolve(ctx, variantIDs)
	if err != nil {
		return nil, err
	}

	var subtotal int64
	for _, l := range lines {
		subtotal += prices[l.VariantID].UnitPriceCents * int64(l.Quantity)
	}

	discount, coupon, err := s.discounts.Apply(ctx, in.CouponCode, subtotal)
	if err != nil {
		return nil, err
	}

	shippingFee := s.cfg.Shipping.Fee(subtotal)

	customer, err := s.resolveCustomer(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		Status:           models.OrderStatusPending,
		TotalNetCents:    subtotal,
		DiscountCents:    discount,
		ShippingFeeCents: shippingFee,
		CurrencyCode:     s.cfg.CurrencyCode,
		Metadata: models.OrderMeta{
			DiscountCents: discount,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if customer != nil {
		order.CustomerID = &customer.ID
	}
	if coupon != nil {
		order.CouponCode = &coupon.Code
		order.Metadata.CouponCode = coupon.Code
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		p := prices[l.VariantID]
		items = append(items, models.OrderItem{
			VariantID:      l.VariantID,
			Quantity:       l.Quantity,
			UnitPriceCents: p.UnitPriceCents,
			LineTotalCents: p.UnitPriceCents * int64(l.Quantity),
			CurrencyCode:   p.CurrencyCode,
			Metadata:       models.ItemMeta{Title: p.Title, SKU: p.SKU},
			CreatedAt:      now,
		})
	}

	// Order and items land together or not at all; a failure here leaves no
	// trace for the caller to observe.
	err = s.orders.WithTx(ctx, func(txOrders repository.OrderRepo, txItems repository.OrderItemRepo) error {
		if err := txOrders.Create(ctx, order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return txItems.BulkCreate(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	session, err := s.createSession(ctx, order, lines, prices, in.Email)
	if err != nil {
		// The order stays pending and is swept later; no in-request
		// compensation.
		s.log.Error("checkout session creation failed, order left pending",
			zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSessionCreateFailed, err)
	}

	if err := s.orders.SetProviderSessionRef(ctx, order.ID, session.ID); err != nil {
		s.log.Error("failed to persist session reference",
			zap.String("order_id", order.ID.String()), zap.String("session", session.ID), zap.Error(err))
		return nil, err
	}

	s.log.Info("checkout created",
		zap.String("order_id", order.ID.String()),
		zap.Int64("total_net_cents", subtotal),
		zap.Int64("discount_cents", discount),
		zap.Int64("shipping_fee_cents", shippingFee))

	return &CheckoutResult{OrderID: order.ID, URL: session.URL}, nil
}

func (s *checkoutService) createSession(ctx context.Context, order *models.Order, lines []CartItem, prices map[uuid.UUID]ResolvedPrice, email string) (*payments.SessionResponse, error) {
	lineItems := make([]payments.SessionLineItem, 0, len(lines)+1)
	for _, l := range lines {
		lineItems = append(lineItems, payments.SessionLineItem{
			PriceRef: prices[l.VariantID].ExternalPriceRef,
			Quantity: l.Quantity,
		})
	}
	if order.ShippingFeeCents > 0 {
		// Shipping varies per order, so it is priced inline rather than via a
		// pre-registered price.
		lineItems = append(lineItems, payments.SessionLineItem{
			Name:       "Shipping",
			Quantity:   1,
			UnitAmount: order.ShippingFeeCents,
			Currency:   order.CurrencyCode,
		})
	}

	orderID := order.ID.String()
	req := payments.SessionRequest{
		LineItems:     lineItems,
		CustomerEmail: email,
		SuccessURL:    s.cfg.StorefrontBaseURL + "/checkout/success?order=" + orderID,
		CancelURL:     s.cfg.StorefrontBaseURL + "/checkout/cancel?order=" + orderID,
		// The order id rides under two key names so provider webhooks keep
		// working whichever convention their payload uses.
		Metadata: map[string]string{
			"order_id": orderID,
			"orderId":  orderID,
		},
		AllowedCountries: s.cfg.AllowedCountries,
		CollectPhone:     s.cfg.CollectPhone,
	}

	return s.provider.CreateCheckoutSession(ctx, req)
}

func (s *checkoutService) resolveCustomer(ctx context.Context, email string) (*models.Customer, error) {
	if email == "" {
		return nil, nil
	}
	existing, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := s.now()
	c := &models.Customer{
		Name:      guestCustomerName,
		Email:     &email,
		Metadata:  models.CustomerMeta{Source: "checkout"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *checkoutService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	ord, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *checkoutService) ListOrders(ctx context.Context, f ListFilter) ([]models.Order, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	ordersPtr, total, err := s.orders.List(ctx, toRepoFilter(f))
	if err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, len(ordersPtr))
	for i, o := range ordersPtr {
		orders[i] = *o
	}
	return orders, total, nil
}

// normalizeCart merges duplicate variant lines and enforces cart bounds.
func normalizeCart(items []CartItem) ([]CartItem, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	merged := make([]CartItem, 0, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		if it.Quantity < minLineQuantity || it.Quantity > maxLineQuantity {
			return nil, ErrQuantityInvalid
		}
		if i, ok := index[it.VariantID]; ok {
			merged[i].Quantity += it.Quantity
			if merged[i].Quantity > maxLineQuantity {
				return nil, ErrQuantityInvalid
			}
			continue
		}
		index[it.VariantID] = len(merged)
		merged = append(merged, it)
	}

	if len(merged) > maxCartLines {
		return nil, ErrTooManyItems
	}
	return merged, nil
}
