package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VirajMandavkar/luminaire-storefront/internal/catalog"
	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
	"github.com/VirajMandavkar/luminaire-storefront/internal/usecase"
)

type CatalogHandler struct {
	products usecase.ProductGateway
}

func NewCatalogHandler(products usecase.ProductGateway) *CatalogHandler {
	return &CatalogHandler{products: products}
}

// ListProducts fetches the catalog page from the backend and applies the
// listing pipeline (category, search, price range, sort) in memory, the way
// the shop page did.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_limit"})
			return
		}
		limit = n
	}

	var featured *bool
	if raw := c.Query("featured"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_featured"})
			return
		}
		featured = &b
	}

	q := catalog.Query{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     catalog.Sort(c.Query("sort")),
	}
	var err error
	if q.MinPrice, err = priceParam(c, "minPrice"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_min_price"})
		return
	}
	if q.MaxPrice, err = priceParam(c, "maxPrice"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_max_price"})
		return
	}

	products, err := h.products.ListProducts(c.Request.Context(), usecase.ListProductsQuery{
		Limit:    limit,
		Featured: featured,
	})
	if err != nil {
		logging.From(c).Error("list products", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}

	c.JSON(http.StatusOK, catalog.Apply(products, q))
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	p, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Product not found",
				"shop":    "/v1/products",
			})
			return
		}
		logging.From(c).Error("get product", "err", err, "id", id)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func priceParam(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
