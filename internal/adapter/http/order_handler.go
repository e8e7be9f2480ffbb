package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VirajMandavkar/luminaire-storefront/internal/adapter/http/middleware"
	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
	"github.com/VirajMandavkar/luminaire-storefront/internal/usecase"
)

type OrderHandler struct {
	orders usecase.OrderBackend
}

func NewOrderHandler(orders usecase.OrderBackend) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	orders, err := h.orders.ListOrders(c.Request.Context(), sess.Token)
	if err != nil {
		logging.From(c).Error("list orders", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	id := c.Param("id")
	order, err := h.orders.GetOrder(c.Request.Context(), sess.Token, id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Order not found",
				"orders":  "/v1/orders",
			})
			return
		}
		logging.From(c).Error("get order", "err", err, "id", id)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}
	c.JSON(http.StatusOK, order)
}
