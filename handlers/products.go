package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/cache"
	"github.com/sleepycare/backend/internal/catalog"
	"github.com/sleepycare/backend/pkg/metrics"
)

// ProductsHandler serves the public catalog read endpoints.
type ProductsHandler struct {
	products catalog.ProductRepository
	cache    *cache.Cache
}

func NewProductsHandler(products catalog.ProductRepository, c *cache.Cache) *ProductsHandler {
	return &ProductsHandler{products: products, cache: c}
}

// Register routes under /products
func (h *ProductsHandler) Register(rg *gin.RouterGroup) {
	p := rg.Group("/products")
	p.GET("", h.List)
	p.GET("/category/:categoryId", h.ListByCategory)
	p.GET("/:productId", h.Get)
}

func (h *ProductsHandler) List(c *gin.Context) {
	if b, ok := h.cache.Get(c.Request.Context(), cache.KeyProducts); ok {
		metrics.CacheHits.WithLabelValues("hit").Inc()
		c.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}
	metrics.CacheHits.WithLabelValues("miss").Inc()

	products, err := h.products.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	body := toProductReads(products)
	if b, err := json.Marshal(body); err == nil {
		h.cache.Set(c.Request.Context(), cache.KeyProducts, b)
	}
	c.JSON(http.StatusOK, body)
}

func (h *ProductsHandler) ListByCategory(c *gin.Context) {
	catID, err := primitive.ObjectIDFromHex(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid category ID"})
		return
	}
	products, err := h.products.ListByCategory(c.Request.Context(), catID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductReads(products))
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid product ID"})
		return
	}
	p, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		writeNotFound(c, "Product not found")
		return
	}
	c.JSON(http.StatusOK, toProductRead(p))
}
