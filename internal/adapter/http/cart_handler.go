package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VirajMandavkar/luminaire-storefront/internal/adapter/http/middleware"
	"github.com/VirajMandavkar/luminaire-storefront/internal/usecase"
)

type CartHandler struct {
	reg *usecase.Registry
}

func NewCartHandler(reg *usecase.Registry) *CartHandler {
	return &CartHandler{reg: reg}
}

type cartLineView struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Sync      string `json:"sync"`
}

type cartView struct {
	Items     []cartLineView `json:"items"`
	Count     int            `json:"count"`
	SyncError string         `json:"syncError,omitempty"`
}

func viewOf(m *usecase.CartManager, syncErr error) cartView {
	lines := m.Lines()
	items := make([]cartLineView, 0, len(lines))
	for _, l := range lines {
		items = append(items, cartLineView{ProductID: l.ProductID, Quantity: l.Quantity, Sync: string(l.Sync)})
	}
	v := cartView{Items: items, Count: m.Count()}
	if syncErr != nil {
		v.SyncError = "cart saved locally but not yet persisted; it will be retried"
	}
	return v
}

func (h *CartHandler) state(c *gin.Context) *usecase.SessionState {
	return h.reg.Attach(c.Request.Context(), middleware.SessionFrom(c))
}

func (h *CartHandler) GetCart(c *gin.Context) {
	st := h.state(c)
	c.JSON(http.StatusOK, viewOf(st.Cart, nil))
}

type addItemReq struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddItem is optimistic: the response always reflects the applied mutation,
// even when the write-through failed (SyncError is set in that case).
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_quantity"})
		return
	}

	st := h.state(c)
	err := st.Cart.AddToCart(c.Request.Context(), req.ProductID, req.Quantity)
	c.JSON(http.StatusOK, viewOf(st.Cart, err))
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

// UpdateItem replaces a line's quantity; zero or less removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	st := h.state(c)
	err := st.Cart.UpdateQuantity(c.Request.Context(), c.Param("productId"), req.Quantity)
	c.JSON(http.StatusOK, viewOf(st.Cart, err))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	st := h.state(c)
	err := st.Cart.RemoveFromCart(c.Request.Context(), c.Param("productId"))
	c.JSON(http.StatusOK, viewOf(st.Cart, err))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	st := h.state(c)
	err := st.Cart.ClearCart(c.Request.Context())
	c.JSON(http.StatusOK, viewOf(st.Cart, err))
}
