package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sleepycare/backend/internal/orders"
	"github.com/sleepycare/backend/pkg/middleware"
)

// OrderCreateRequest is the POST /orders body.
type OrderCreateRequest struct {
	Items []orders.ItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrdersHandler serves the authenticated user's orders.
type OrdersHandler struct {
	svc          *orders.Service
	orders       orders.Repository
	authenticate gin.HandlerFunc
}

func NewOrdersHandler(svc *orders.Service, repo orders.Repository, authenticate gin.HandlerFunc) *OrdersHandler {
	return &OrdersHandler{svc: svc, orders: repo, authenticate: authenticate}
}

// Register routes under /orders; all require the user role.
func (h *OrdersHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/orders", h.authenticate, middleware.RequireUser())
	g.POST("", h.Create)
	g.GET("", h.List)
}

func (h *OrdersHandler) Create(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	var req OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err.Error())
		return
	}
	order, err := h.svc.CreateOrder(c.Request.Context(), u.ID, req.Items)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderRead(order))
}

func (h *OrdersHandler) List(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	out, err := h.orders.ListByUser(c.Request.Context(), u.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderReads(out))
}
