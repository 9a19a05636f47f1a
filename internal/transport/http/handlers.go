package http

import (
	"net/http"
	"strconv"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	checkout      service.CheckoutService
	inventory     service.InventoryService
	reports       service.ReportService
	confirmations *service.ConfirmationService
	log           *zap.Logger
}

func NewHandler(
	checkout service.CheckoutService,
	inventory service.InventoryService,
	reports service.ReportService,
	confirmations *service.ConfirmationService,
	log *zap.Logger,
) *Handler {
	return &Handler{
		checkout:      checkout,
		inventory:     inventory,
		reports:       reports,
		confirmations: confirmations,
		log:           log,
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		h.log.Warn("request rejected", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Code: code, Message: err.Error()})
}

func (h *Handler) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "invalid request body"})
		return
	}

	items := make([]service.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		vid, err := uuid.Parse(it.VariantID)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "invalid variant id"})
			return
		}
		items = append(items, service.CartItem{VariantID: vid, Quantity: it.Quantity})
	}

	res, err := h.checkout.CreateCheckout(c.Request.Context(), service.CheckoutInput{
		Items:      items,
		Email:      req.Email,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckoutResponse{URL: res.URL, OrderID: res.OrderID.String()})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "invalid order id"})
		return
	}
	ord, err := h.checkout.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

func (h *Handler) ListOrders(c *gin.Context) {
	f := service.ListFilter{
		Limit:  atoiDefault(c.Query("limit"), 20),
		Offset: atoiDefault(c.Query("offset"), 0),
	}
	if st := c.Query("status"); st != "" {
		status := models.OrderStatus(st)
		f.Status = &status
	}

	orders, total, err := h.checkout.ListOrders(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
}

func (h *Handler) RecordMovement(c *gin.Context) {
	var req MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "invalid request body"})
		return
	}
	vid, err := uuid.Parse(req.VariantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "invalid variant id"})
		return
	}

	m, err := h.inventory.RecordMovement(c.Request.Context(), vid, req.Delta, models.MovementReason(req.Reason))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) StockStatus(c *gin.Context) {
	vid, err := uuid.Parse(c.Param("variant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "invalid variant id"})
		return
	}
	st, err := h.inventory.Status(c.Request.Context(), vid)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) SetThreshold(c *gin.Context) {
	vid, err := uuid.Parse(c.Param("variant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "invalid variant id"})
		return
	}
	var req ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "invalid request body"})
		return
	}
	if err := h.inventory.SetThreshold(c.Request.Context(), vid, req.Threshold); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DailyReport(c *gin.Context) {
	report, err := h.reports.Daily(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type webhookPayload struct {
	Type         string    `json:"type"`
	OrderID      string    `json:"order_id"`
	ProviderRef  string    `json:"provider_ref"`
	AmountCents  int64     `json:"amount_cents"`
	FeeCents     int64     `json:"fee_cents"`
	CurrencyCode string    `json:"currency"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// PaymentWebhook feeds the same idempotent apply path as the kafka consumer,
// for deployments where the provider posts confirmations directly.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	var p webhookPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "invalid request body"})
		return
	}
	orderID, err := uuid.Parse(p.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "invalid order id"})
		return
	}

	switch p.Type {
	case "payment.confirmed":
		err = h.confirmations.ApplyPayment(c.Request.Context(), service.PaymentConfirmedEvent{
			OrderID:      orderID,
			ProviderRef:  p.ProviderRef,
			AmountCents:  p.AmountCents,
			FeeCents:     p.FeeCents,
			CurrencyCode: p.CurrencyCode,
			OccurredAt:   p.OccurredAt,
		})
	case "payment.refunded":
		err = h.confirmations.ApplyRefund(c.Request.Context(), service.RefundEvent{
			OrderID:      orderID,
			ProviderRef:  p.ProviderRef,
			AmountCents:  p.AmountCents,
			CurrencyCode: p.CurrencyCode,
			OccurredAt:   p.OccurredAt,
		})
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "unknown event type"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
