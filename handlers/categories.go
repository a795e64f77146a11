package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sleepycare/backend/internal/cache"
	"github.com/sleepycare/backend/internal/catalog"
	"github.com/sleepycare/backend/pkg/metrics"
)

// CategoriesHandler serves the public category listing.
type CategoriesHandler struct {
	categories catalog.CategoryRepository
	cache      *cache.Cache
}

func NewCategoriesHandler(categories catalog.CategoryRepository, c *cache.Cache) *CategoriesHandler {
	return &CategoriesHandler{categories: categories, cache: c}
}

// Register routes under /categories
func (h *CategoriesHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/categories", h.List)
}

func (h *CategoriesHandler) List(c *gin.Context) {
	if b, ok := h.cache.Get(c.Request.Context(), cache.KeyCategories); ok {
		metrics.CacheHits.WithLabelValues("hit").Inc()
		c.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}
	metrics.CacheHits.WithLabelValues("miss").Inc()

	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	body := toCategoryReads(categories)
	if b, err := json.Marshal(body); err == nil {
		h.cache.Set(c.Request.Context(), cache.KeyCategories, b)
	}
	c.JSON(http.StatusOK, body)
}
