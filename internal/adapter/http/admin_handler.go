package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/VirajMandavkar/luminaire-storefront/internal/adapter/backend"
	"github.com/VirajMandavkar/luminaire-storefront/internal/adapter/http/middleware"
	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
)

// AdminBackend is the back-office slice of the backend client.
type AdminBackend interface {
	CreateProduct(ctx context.Context, token string, draft domain.ProductDraft) (*domain.Product, error)
	UpdateProduct(ctx context.Context, token, id string, draft domain.ProductDraft) (*domain.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
	UpdateOrderStatus(ctx context.Context, token, orderID, status string) error
	Dashboard(ctx context.Context, token string) (*backend.DashboardStats, error)
	ListUsers(ctx context.Context, token string) ([]domain.User, error)
}

type AdminHandler struct {
	admin    AdminBackend
	validate *validatorv10.Validate
}

func NewAdminHandler(admin AdminBackend) *AdminHandler {
	return &AdminHandler{admin: admin, validate: validatorv10.New()}
}

func (h *AdminHandler) bindDraft(c *gin.Context) (domain.ProductDraft, bool) {
	var draft domain.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return draft, false
	}
	if err := h.validate.Struct(draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "detail": err.Error()})
		return draft, false
	}
	return draft, true
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	draft, ok := h.bindDraft(c)
	if !ok {
		return
	}
	p, err := h.admin.CreateProduct(c.Request.Context(), middleware.SessionFrom(c).Token, draft)
	if err != nil {
		logging.From(c).Error("create product", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	draft, ok := h.bindDraft(c)
	if !ok {
		return
	}
	p, err := h.admin.UpdateProduct(c.Request.Context(), middleware.SessionFrom(c).Token, c.Param("id"), draft)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		logging.From(c).Error("update product", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	err := h.admin.DeleteProduct(c.Request.Context(), middleware.SessionFrom(c).Token, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		logging.From(c).Error("delete product", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

type statusUpdateReq struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req statusUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_status"})
		return
	}
	err := h.admin.UpdateOrderStatus(c.Request.Context(), middleware.SessionFrom(c).Token, c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		logging.From(c).Error("update order status", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.admin.Dashboard(c.Request.Context(), middleware.SessionFrom(c).Token)
	if err != nil {
		logging.From(c).Error("dashboard", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context(), middleware.SessionFrom(c).Token)
	if err != nil {
		logging.From(c).Error("list users", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}
	c.JSON(http.StatusOK, users)
}
