package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Router(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/checkout", h.CreateCheckout)

		v1.GET("/orders", h.ListOrders)
		v1.GET("/orders/:id", h.GetOrder)

		v1.POST("/inventory/movements", h.RecordMovement)
		v1.GET("/inventory/:variant_id", h.StockStatus)
		v1.PUT("/inventory/:variant_id/threshold", h.SetThreshold)

		v1.GET("/reports/daily", h.DailyReport)

		v1.POST("/webhooks/payments", h.PaymentWebhook)
	}

	return r
}
