package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/cache"
	"github.com/sleepycare/backend/internal/models"
	"github.com/sleepycare/backend/internal/partners"
	"github.com/sleepycare/backend/pkg/middleware"
)

// AdminPartnersHandler manages partner entries shown on the public site.
type AdminPartnersHandler struct {
	partners     partners.Repository
	cache        *cache.Cache
	authenticate gin.HandlerFunc
}

func NewAdminPartnersHandler(repo partners.Repository, ch *cache.Cache, authenticate gin.HandlerFunc) *AdminPartnersHandler {
	return &AdminPartnersHandler{partners: repo, cache: ch, authenticate: authenticate}
}

func (h *AdminPartnersHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/admin/partners", h.authenticate, middleware.RequireAdmin())
	g.POST("", h.Create)
	g.GET("", h.List)
	g.PUT("/:partnerId", h.Update)
	g.DELETE("/:partnerId", h.Delete)
}

type partnerRequest struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon"`
}

func (h *AdminPartnersHandler) Create(c *gin.Context) {
	var req partnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, "Missing required field: name")
		return
	}
	p, err := h.partners.Create(c.Request.Context(), &models.Partner{Name: req.Name, Icon: req.Icon})
	if err != nil {
		writeError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), cache.KeyPartners)
	c.JSON(http.StatusCreated, toPartnerRead(p))
}

func (h *AdminPartnersHandler) List(c *gin.Context) {
	out, err := h.partners.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPartnerReads(out))
}

func (h *AdminPartnersHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("partnerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid partner ID"})
		return
	}
	var req struct {
		Name *string `json:"name"`
		Icon *string `json:"icon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, "Invalid request body")
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
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Icon != nil {
		p.Icon = *req.Icon
	}
	if err := h.partners.Update(c.Request.Context(), p); err != nil {
		writeError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), cache.KeyPartners)
	c.JSON(http.StatusOK, toPartnerRead(p))
}

func (h *AdminPartnersHandler) Delete(c *gin.Context) {
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
	if err := h.partners.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), cache.KeyPartners)
	c.Status(http.StatusNoContent)
}
