package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VirajMandavkar/luminaire-storefront/internal/adapter/http/middleware"
	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
	Auth     *AuthHandler
	Admin    *AdminHandler
}

func NewRouter(h Handlers, resolver *middleware.SessionResolver) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1", resolver.Resolve())
	{
		// Guest sessions are issued here and carried via X-Guest-Id.
		v1.POST("/session/guest", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"guestId": uuid.NewString()})
		})

		v1.POST("/auth/login", h.Auth.Login)
		v1.POST("/auth/register", h.Auth.Register)

		v1.GET("/products", h.Catalog.ListProducts)
		v1.GET("/products/:id", h.Catalog.GetProduct)

		cart := v1.Group("/cart", middleware.RequireSession())
		{
			cart.GET("", h.Cart.GetCart)
			cart.DELETE("", h.Cart.ClearCart)
			cart.POST("/items", h.Cart.AddItem)
			cart.PATCH("/items/:productId", h.Cart.UpdateItem)
			cart.DELETE("/items/:productId", h.Cart.RemoveItem)
		}

		checkout := v1.Group("/checkout", middleware.RequireUser())
		{
			checkout.POST("", h.Checkout.Begin)
			checkout.GET("", h.Checkout.Get)
			checkout.POST("/shipping", h.Checkout.SubmitShipping)
			checkout.POST("/edit-address", h.Checkout.EditAddress)
			checkout.POST("/review", h.Checkout.ContinueToPayment)
			checkout.POST("/payment", h.Checkout.SubmitPayment)
			checkout.POST("/payment/restart", h.Checkout.RestartPaymentWindow)
		}

		orders := v1.Group("/orders", middleware.RequireUser())
		{
			orders.GET("", h.Orders.ListOrders)
			orders.GET("/:id", h.Orders.GetOrder)
		}

		admin := v1.Group("/admin", middleware.RequireAdmin())
		{
			admin.POST("/products", h.Admin.CreateProduct)
			admin.PUT("/products/:id", h.Admin.UpdateProduct)
			admin.DELETE("/products/:id", h.Admin.DeleteProduct)
			admin.PATCH("/orders/:id/status", h.Admin.UpdateOrderStatus)
			admin.GET("/dashboard", h.Admin.Dashboard)
			admin.GET("/users", h.Admin.ListUsers)
		}
	}

	return r
}
