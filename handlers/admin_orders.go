package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/orders"
	"github.com/sleepycare/backend/pkg/middleware"
)

// AdminOrdersHandler exposes the full order book to administrators.
type AdminOrdersHandler struct {
	orders       orders.Repository
	authenticate gin.HandlerFunc
}

func NewAdminOrdersHandler(repo orders.Repository, authenticate gin.HandlerFunc) *AdminOrdersHandler {
	return &AdminOrdersHandler{orders: repo, authenticate: authenticate}
}

func (h *AdminOrdersHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/admin/orders", h.authenticate, middleware.RequireAdmin())
	g.GET("", h.List)
	g.PUT("/:orderId", h.UpdateStatus)
}

func (h *AdminOrdersHandler) List(c *gin.Context) {
	out, err := h.orders.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderReads(out))
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AdminOrdersHandler) UpdateStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid order ID"})
		return
	}
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, "Missing required field: status")
		return
	}
	o, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if o == nil {
		writeNotFound(c, "Order not found")
		return
	}
	if err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		writeError(c, err)
		return
	}
	o.Status = req.Status
	c.JSON(http.StatusOK, toOrderRead(o))
}
