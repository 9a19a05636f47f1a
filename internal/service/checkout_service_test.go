package service_test

import (
	"context"
	"errors"
	"testing"

	"backoffice/internal/models"
	"backoffice/internal/payments"
	"backoffice/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type checkoutFixture struct {
	orders    *MockOrderRepo
	items     *MockOrderItemRepo
	customers *MockCustomerRepo
	variants  *MockVariantRepo
	prices    *MockPriceRepo
	coupons   *MockCouponRepo
	provider  *MockProvider

	unitPrices map[uuid.UUID]int64
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		items:      &MockOrderItemRepo{},
		customers:  &MockCustomerRepo{},
		coupons:    &MockCouponRepo{},
		provider:   &MockProvider{},
		unitPrices: map[uuid.UUID]int64{},
	}
	f.orders = &MockOrderRepo{Items: f.items}

	f.variants = &MockVariantRepo{
		GetWithProductFunc: func(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
			if _, ok := f.unitPrices[id]; !ok {
				return nil, nil
			}
			return &models.ProductVariant{ID: id, SKU: "SKU-" + id.String()[:8], Title: "Variant"}, nil
		},
	}
	f.prices = &MockPriceRepo{
		LatestByVariantFunc: func(ctx context.Context, vid uuid.UUID) (*models.PriceRecord, error) {
			amount, ok := f.unitPrices[vid]
			if !ok {
				return nil, nil
			}
			ref := "price_" + vid.String()[:8]
			return &models.PriceRecord{ID: uuid.New(), VariantID: vid, AmountCents: amount, CurrencyCode: "USD", ExternalPriceRef: &ref}, nil
		},
	}
	return f
}

func (f *checkoutFixture) addVariant(priceCents int64) uuid.UUID {
	id := uuid.New()
	f.unitPrices[id] = priceCents
	return id
}

func (f *checkoutFixture) build(cfg service.CheckoutConfig) service.CheckoutService {
	if cfg.CurrencyCode == "" {
		cfg.CurrencyCode = "USD"
	}
	if cfg.StorefrontBaseURL == "" {
		cfg.StorefrontBaseURL = "https://shop.example"
	}
	resolver := service.NewPriceResolver(f.variants, f.prices, f.provider, zap.NewNop())
	discounts := service.NewDiscountEngine(f.coupons, nil, 0, zap.NewNop())
	return service.NewCheckoutService(f.orders, f.customers, resolver, discounts, f.provider, cfg, zap.NewNop())
}

func TestCreateCheckout_TotalsExcludeDiscountAndShipping(t *testing.T) {
	f := newCheckoutFixture()
	v1 := f.addVariant(1500)
	v2 := f.addVariant(700)

	fixed := &models.Coupon{Code: "SAVE500", Type: models.CouponTypeFixed, Value: 500, CurrencyCode: "USD", Status: models.CouponStatusActive}
	f.coupons.GetByCodeFunc = func(ctx context.Context, code string) (*models.Coupon, error) {
		if code == fixed.Code {
			return fixed, nil
		}
		return nil, nil
	}

	var created *models.Order
	var createdItems []models.OrderItem
	f.orders.CreateFunc = func(ctx context.Context, o *models.Order) error {
		o.ID = uuid.New()
		created = o
		return nil
	}
	f.items.BulkCreateFunc = func(ctx context.Context, items []models.OrderItem) error {
		createdItems = items
		return nil
	}

	svc := f.build(service.CheckoutConfig{
		Shipping: service.ShippingRule{FlatFeeCents: 250, FreeAboveCents: 10000},
	})

	res, err := svc.CreateCheckout(context.Background(), service.CheckoutInput{
		Items: []service.CartItem{
			{VariantID: v1, Quantity: 2},
			{VariantID: v2, Quantity: 1},
		},
		CouponCode: "SAVE500",
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if res.OrderID == uuid.Nil || res.URL == "" {
		t.Fatalf("incomplete result: %+v", res)
	}

	// 2*1500 + 700, with discount and shipping tracked apart.
	if created.TotalNetCents != 3700 {
		t.Fatalf("TotalNetCents = %d, want 3700", created.TotalNetCents)
	}
	if created.DiscountCents != 500 || created.ShippingFeeCents != 250 {
		t.Fatalf("discount/shipping = %d/%d, want 500/250", created.DiscountCents, created.ShippingFeeCents)
	}
	if created.Status != models.OrderStatusPending {
		t.Fatalf("Status = %s", created.Status)
	}
	if created.CouponCode == nil || *created.CouponCode != "SAVE500" {
		t.Fatalf("CouponCode = %v", created.CouponCode)
	}
	if created.Metadata.DiscountCents != 500 || created.Metadata.CouponCode != "SAVE500" {
		t.Fatalf("order metadata mismatch: %+v", created.Metadata)
	}

	if len(createdItems) != 2 {
		t.Fatalf("items = %d, want 2", len(createdItems))
	}
	var lineSum int64
	for _, it := range createdItems {
		if it.OrderID != created.ID {
			t.Fatalf("item not bound to order: %+v", it)
		}
		if it.LineTotalCents != it.UnitPriceCents*int64(it.Quantity) {
			t.Fatalf("line total mismatch: %+v", it)
		}
		lineSum += it.LineTotalCents
	}
	if lineSum != created.TotalNetCents {
		t.Fatalf("sum of lines %d != order net %d", lineSum, created.TotalNetCents)
	}
}

func TestCreateCheckout_CartValidation(t *testing.T) {
	f := newCheckoutFixture()
	v := f.addVariant(1000)
	svc := f.build(service.CheckoutConfig{})

	_, err := svc.CreateCheckout(context.Background(), service.CheckoutInput{})
	if !errors.Is(err, service.ErrNoItems) {
		t.Fatalf("empty cart: expected ErrNoItems, got %v", err)
	}

	_, err = svc.CreateCheckout(context.Background(), service.CheckoutInput{
		Items: []service.CartItem{{VariantID: v, Quantity: 0}},
	})
	if !errors.Is(err, service.ErrQuantityInvalid) {
		t.Fatalf("zero quantity: expected ErrQuantityInvalid, got %v", err)
	}

	_, err = svc.CreateCheckout(context.Background(), service.CheckoutInput{
		Items: []service.CartItem{{VariantID: v, Quantity: 100}},
	})
	if !errors.Is(err, service.ErrQuantityInvalid) {
		t.Fatalf("quantity 100: expected ErrQuantityInvalid, got %v", err)
	}

	many := make([]service.CartItem, 21)
	for i := range many {
		many[i] = service.CartItem{VariantID: f.addVariant(100), Quantity: 1}
	}
	_, err = svc.CreateCheckout(context.Background(), service.CheckoutInput{Items: many})
	if !errors.Is(err, service.ErrTooManyItems) {
		t.Fatalf("21 lines: expected ErrTooManyItems, got %v", err)
	}
}

func TestCreateCheckout_MergesDuplicateVariantLines(t *testing.T) {
	f := newCheckoutFixture()
	v := f.addVariant(1000)

	var createdItems []models.OrderItem
	f.items.BulkCreateFunc = func(ctx context.Context, items []models.OrderItem) error {
		createdItems = items
		return nil
	}

	svc := f.build(service.CheckoutConfig{})
	_, err := svc.CreateCheckout(context.Background(), service.CheckoutInput{
		Items: []service.CartItem{
			{VariantID: v, Quantity: 2},
			{VariantID: v, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if len(createdItems) != 1 {
		t.Fatalf("items = %d, want merged single line", len(createdItems))
	}
	if createdItems[0].Quantity != 5 || createdItems[0].LineTotalCents != 5000 {
		t.Fatalf("merged line mismatch: %+v", createdItems[0])
	}
}

func TestCreateCheckout_LazyCustomerCreation(t *testing.T) {
	f := newCheckoutFixture()
	v := f.addVariant(1000)

	var createdCustomer *models.Customer
	f.customers.CreateFunc = func(ctx context.Context, c *models.Customer) error {
		c.ID = uuid.New()
		createdCustomer = c
		return nil
	}

	var createdOrder *models.Order
	f.orders.CreateFunc = func(ctx context.Context, o *models.Order) error {
		o.ID = uuid.New()
		createdOrder = o
		return nil
	}

	svc := f.build(service.CheckoutConfig{})
	_, err := svc.CreateCheckout(context.Background(), service.CheckoutInput{
		Items: []service.CartItem{{VariantID: v, Quantity: 1}},
		Email: "new@example.com",
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if createdCustomer == nil {
		t.Fatal("expected a customer to be created for an unknown email")
	}
	if createdCustomer.Name != "Guest" || createdCustomer.Email == nil || *createdCustomer.Email != "new@example.com" {
		t.Fatalf("customer mismatch: %+v", createdCustomer)
	}
	if createdOrder.CustomerID == nil || *createdOrder.CustomerID != createdCustomer.ID {
		t.Fatalf("order not linked to created customer")
	}
}

func TestCreateCheckout_ExistingCustomerReused(t *testing.T) {
	f := newCheckoutFixture()
	v := f.addVariant(1000)

	existing := &models.Customer{ID: uuid.New(), Name: "Ada"}
	f.customers.GetByEmailFunc = func(ctx context.Context, email string) (*models.Customer, error) {
		return existing, nil
	}
	createCalls := 0
	f.customers.CreateFunc = func(ctx context.Context, c *models.Customer) error {
		createCalls++
		return nil
	}

	var createdOrder *models.Order
	f.orders.CreateFunc = func(ctx context.Context, o *models.Order) error {
		o.ID = uuid.New()
		createdOrder = o
		return nil
	}

	svc := f.build(service.CheckoutConfig{})
	_, err := svc.CreateCheckout(context.Background(), service.CheckoutInput{
		Items: []service.CartItem{{VariantID: v, Quantity: 1}},
		Email: "ada@example.com",
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if createCalls != 0 {
		t.Fatalf("customer created despite existing match")
	}
	if createdOrder.CustomerID == nil || *createdOrder.CustomerID != existing.ID {
		t.Fatalf("order not linked to existing customer")
	}
}

func TestCreateCheckout_AnonymousWhenNoEmail(t *testing.T) {
	f := newCheckoutFixture()
	v := f.addVariant(1000)

	lookupCalls := 0
	f.customers.GetByEmailFunc = func(ctx context.Context, email string) (*models.Customer, error) {
		lookupCalls++
		return nil, nil
	}

	var createdOrder *models.Order
	f.orders.CreateFunc = func(ctx context.Context, o *models.Order) error {
		o.ID = uuid.New()
		createdOrder = o
		return nil
	}

	svc := f.build(service.CheckoutConfig{})
	_, err := svc.CreateCheckout(context.Background(), service.CheckoutInput{
		Items: []service.CartItem{{VariantID: v, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if lookupCalls != 0 {
		t.Fatalf("customer lookup performed without an email")
	}
	if createdOrder.CustomerID != nil {
		t.Fatalf("anonymous order got a customer id")
	}
}

func TestCreateCheckout_SessionFailureLeavesPendingOrder(t *testing.T) {
	f := newCheckoutFixture()
	v := f.addVariant(1000)

	orderCreated := false
	f.orders.CreateFunc = func(ctx context.Context, o *models.Order) error {
		o.ID = uuid.New()
		orderCreated = true
		return nil
	}
	refCalls := 0
	f.orders.SetProviderSessionRefFunc = func(ctx context.Context, id uuid.UUID, ref string) error {
		refCalls++
		return nil
	}
	f.provider.CreateCheckoutSessionFunc = func(ctx context.Context, req payments.SessionRequest) (*payments.SessionResponse, error) {
		return nil, &payments.ProviderError{Status: 502, Message: "gateway down"}
	}

	svc := f.build(service.CheckoutConfig{})
	_, err := svc.CreateCheckout(context.Background(), service.CheckoutInput{
		Items: []service.CartItem{{VariantID: v, Quantity: 1}},
	})
	if !errors.Is(err, service.ErrSessionCreateFailed) {
		t.Fatalf("expected ErrSessionCreateFailed, got %v", err)
	}
	if !orderCreated {
		t.Fatal("order should have been persisted before the session attempt")
	}
	if refCalls != 0 {
		t.Fatalf("session ref persisted despite failure")
	}
}

func TestCreateCheckout_SessionRequestShape(t *testing.T) {
	f := newCheckoutFixture()
	v := f.addVariant(1000)

	var orderID uuid.UUID
	f.orders.CreateFunc = func(ctx context.Context, o *models.Order) error {
		o.ID = uuid.New()
		orderID = o.ID
		return nil
	}

	var gotReq payments.SessionRequest
	f.provider.CreateCheckoutSessionFunc = func(ctx context.Context, req payments.SessionRequest) (*payments.SessionResponse, error) {
		gotReq = req
		return &payments.SessionResponse{ID: "cs_1", URL: "https://pay.example/cs_1"}, nil
	}

	var savedRef string
	f.orders.SetProviderSessionRefFunc = func(ctx context.Context, id uuid.UUID, ref string) error {
		savedRef = ref
		return nil
	}

	svc := f.build(service.CheckoutConfig{
		Shipping:         service.ShippingRule{FlatFeeCents: 300, FreeAboveCents: 100000},
		AllowedCountries: []string{"US", "CA"},
	})
	_, err := svc.CreateCheckout(context.Background(), service.CheckoutInput{
		Items: []service.CartItem{{VariantID: v, Quantity: 2}},
		Email: "buyer@example.com",
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}

	// Item line plus the synthetic shipping line.
	if len(gotReq.LineItems) != 2 {
		t.Fatalf("line items = %d, want 2", len(gotReq.LineItems))
	}
	shipping := gotReq.LineItems[1]
	if shipping.Name != "Shipping" || shipping.UnitAmount != 300 || shipping.Quantity != 1 {
		t.Fatalf("shipping line mismatch: %+v", shipping)
	}

	id := orderID.String()
	if gotReq.Metadata["order_id"] != id || gotReq.Metadata["orderId"] != id {
		t.Fatalf("order id missing from session metadata: %+v", gotReq.Metadata)
	}
	if gotReq.SuccessURL != "https://shop.example/checkout/success?order="+id {
		t.Fatalf("SuccessURL = %q", gotReq.SuccessURL)
	}
	if gotReq.CustomerEmail != "buyer@example.com" {
		t.Fatalf("CustomerEmail = %q", gotReq.CustomerEmail)
	}
	if len(gotReq.AllowedCountries) != 2 {
		t.Fatalf("AllowedCountries = %v", gotReq.AllowedCountries)
	}
	if savedRef != "cs_1" {
		t.Fatalf("session ref = %q, want cs_1", savedRef)
	}
}

func TestCreateCheckout_CouponRejectionWritesNothing(t *testing.T) {
	f := newCheckoutFixture()
	v := f.addVariant(1000)

	f.coupons.GetByCodeFunc = func(ctx context.Context, code string) (*models.Coupon, error) {
		return nil, nil
	}
	orderCreates, customerCreates := 0, 0
	f.orders.CreateFunc = func(ctx context.Context, o *models.Order) error {
		orderCreates++
		return nil
	}
	f.customers.CreateFunc = func(ctx context.Context, c *models.Customer) error {
		customerCreates++
		return nil
	}

	svc := f.build(service.CheckoutConfig{})
	_, err := svc.CreateCheckout(context.Background(), service.CheckoutInput{
		Items:      []service.CartItem{{VariantID: v, Quantity: 1}},
		Email:      "new@example.com",
		CouponCode: "BOGUS",
	})
	if !errors.Is(err, service.ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid, got %v", err)
	}
	if orderCreates != 0 || customerCreates != 0 {
		t.Fatalf("writes on rejected coupon: orders=%d customers=%d", orderCreates, customerCreates)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newCheckoutFixture()
	svc := f.build(service.CheckoutConfig{})
	_, err := svc.GetOrder(context.Background(), uuid.New())
	if !errors.Is(err, service.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
