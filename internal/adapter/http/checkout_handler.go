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

type CheckoutHandler struct {
	reg *usecase.Registry
}

func NewCheckoutHandler(reg *usecase.Registry) *CheckoutHandler {
	return &CheckoutHandler{reg: reg}
}

type checkoutView struct {
	CheckoutID       string                 `json:"checkoutId"`
	Step             int                    `json:"step"`
	StepName         string                 `json:"stepName"`
	Shipping         domain.ShippingAddress `json:"shippingAddress"`
	Items            []usecase.PricedLine   `json:"items"`
	Subtotal         float64                `json:"subtotal"`
	ShippingFee      float64                `json:"shipping"`
	Total            float64                `json:"total"`
	RemainingSeconds int                    `json:"remainingSeconds"`
	Processing       bool                   `json:"processing"`
	OrderID          string                 `json:"orderId,omitempty"`
}

func viewOfFlow(f *usecase.CheckoutFlow) checkoutView {
	sub, fee, total := f.Totals()
	return checkoutView{
		CheckoutID:       f.ID(),
		Step:             int(f.Step()),
		StepName:         f.Step().String(),
		Shipping:         f.Shipping(),
		Items:            f.Priced(),
		Subtotal:         sub,
		ShippingFee:      fee,
		Total:            total,
		RemainingSeconds: int(f.Remaining().Seconds()),
		Processing:       f.Processing(),
		OrderID:          f.OrderID(),
	}
}

func (h *CheckoutHandler) flow(c *gin.Context) *usecase.CheckoutFlow {
	st := h.reg.Attach(c.Request.Context(), middleware.SessionFrom(c))
	return st.Checkout()
}

// Begin starts a fresh checkout over the session's cart.
func (h *CheckoutHandler) Begin(c *gin.Context) {
	st := h.reg.Attach(c.Request.Context(), middleware.SessionFrom(c))
	flow, err := h.reg.BeginCheckout(c.Request.Context(), st)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyCart) {
			c.JSON(http.StatusConflict, gin.H{"error": "empty_cart"})
			return
		}
		logging.From(c).Error("begin checkout", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}
	c.JSON(http.StatusCreated, viewOfFlow(flow))
}

func (h *CheckoutHandler) Get(c *gin.Context) {
	flow := h.flow(c)
	if flow == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no_active_checkout"})
		return
	}
	c.JSON(http.StatusOK, viewOfFlow(flow))
}

// SubmitShipping validates the address form and moves to review.
func (h *CheckoutHandler) SubmitShipping(c *gin.Context) {
	flow := h.flow(c)
	if flow == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no_active_checkout"})
		return
	}

	var addr domain.ShippingAddress
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if err := flow.SubmitShipping(addr); err != nil {
		if errors.Is(err, usecase.ErrBadTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "wrong_step"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, viewOfFlow(flow))
}

// EditAddress returns from review to the shipping form.
func (h *CheckoutHandler) EditAddress(c *gin.Context) {
	h.transition(c, func(f *usecase.CheckoutFlow) error { return f.EditAddress() })
}

// ContinueToPayment advances review -> payment and opens the payment window.
func (h *CheckoutHandler) ContinueToPayment(c *gin.Context) {
	h.transition(c, func(f *usecase.CheckoutFlow) error { return f.ContinueToPayment() })
}

// RestartPaymentWindow reopens an expired payment window.
func (h *CheckoutHandler) RestartPaymentWindow(c *gin.Context) {
	h.transition(c, func(f *usecase.CheckoutFlow) error { return f.RestartPaymentWindow() })
}

func (h *CheckoutHandler) transition(c *gin.Context, step func(*usecase.CheckoutFlow) error) {
	flow := h.flow(c)
	if flow == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no_active_checkout"})
		return
	}
	if err := step(flow); err != nil {
		switch {
		case errors.Is(err, usecase.ErrBadTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "wrong_step"})
		case errors.Is(err, usecase.ErrPaymentInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "payment_processing"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		}
		return
	}
	c.JSON(http.StatusOK, viewOfFlow(flow))
}

type paymentReq struct {
	UPIID string `json:"upiId" binding:"required"`
}

// SubmitPayment runs the simulated charge. A decline is retryable; the form
// stays open.
func (h *CheckoutHandler) SubmitPayment(c *gin.Context) {
	flow := h.flow(c)
	if flow == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no_active_checkout"})
		return
	}

	var req paymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	orderID, err := flow.SubmitPayment(c.Request.Context(), req.UPIID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidUPI):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_upi", "message": "Invalid UPI ID format"})
		case errors.Is(err, usecase.ErrPaymentDeclined):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment_declined", "message": "Payment failed. Please try again."})
		case errors.Is(err, usecase.ErrPaymentWindowExpired):
			c.JSON(http.StatusConflict, gin.H{"error": "payment_window_expired"})
		case errors.Is(err, usecase.ErrPaymentInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "payment_processing"})
		case errors.Is(err, usecase.ErrBadTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "wrong_step"})
		default:
			logging.From(c).Error("submit payment", "err", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "order_failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"orderId": orderID, "status": "completed"})
}
