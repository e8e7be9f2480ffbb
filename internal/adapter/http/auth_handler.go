package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VirajMandavkar/luminaire-storefront/internal/adapter/backend"
	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
)

// AuthBackend is the slice of the backend client the auth passthrough needs.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*backend.TokenResponse, error)
	Register(ctx context.Context, name, email, password string) (*backend.TokenResponse, error)
}

type AuthHandler struct {
	auth AuthBackend
}

func NewAuthHandler(auth AuthBackend) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	tr, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		logging.From(c).Error("login", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}
	c.JSON(http.StatusOK, tr)
}

type registerReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	tr, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		logging.From(c).Error("register", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}
	c.JSON(http.StatusCreated, tr)
}
