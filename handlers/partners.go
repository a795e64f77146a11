package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/cache"
	"github.com/sleepycare/backend/internal/partners"
	"github.com/sleepycare/backend/pkg/metrics"
)

// PartnersHandler serves the public partner endpoints.
type PartnersHandler struct {
	partners partners.Repository
	cache    *cache.Cache
}

func NewPartnersHandler(repo partners.Repository, c *cache.Cache) *PartnersHandler {
	return &PartnersHandler{partners: repo, cache: c}
}

// Register routes under /partners
func (h *PartnersHandler) Register(rg *gin.RouterGroup) {
	p := rg.Group("/partners")
	p.GET("", h.List)
	p.GET("/:partnerId", h.Get)
}

func (h *PartnersHandler) List(c *gin.Context) {
	if b, ok := h.cache.Get(c.Request.Context(), cache.KeyPartners); ok {
		metrics.CacheHits.WithLabelValues("hit").Inc()
		c.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}
	metrics.CacheHits.WithLabelValues("miss").Inc()

	out, err := h.partners.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	body := toPartnerReads(out)
	if b, err := json.Marshal(body); err == nil {
		h.cache.Set(c.Request.Context(), cache.KeyPartners, b)
	}
	c.JSON(http.StatusOK, body)
}

func (h *PartnersHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("partnerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid partner ID"})
		return
	}
	p, err := h.partners.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		writeNotFound(c, "Partner not found")
		return
	}
	c.JSON(http.StatusOK, toPartnerRead(p))
}
