package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/orders"
	"github.com/sleepycare/backend/internal/users"
	"github.com/sleepycare/backend/pkg/middleware"
)

// AdminUsersHandler lets administrators inspect accounts. Password hashes
// never leave the model layer; responses go through UserRead.
type AdminUsersHandler struct {
	users        users.Repository
	orders       orders.Repository
	authenticate gin.HandlerFunc
}

func NewAdminUsersHandler(usersRepo users.Repository, ordersRepo orders.Repository, authenticate gin.HandlerFunc) *AdminUsersHandler {
	return &AdminUsersHandler{users: usersRepo, orders: ordersRepo, authenticate: authenticate}
}

func (h *AdminUsersHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/admin/users", h.authenticate, middleware.RequireAdmin())
	g.GET("", h.List)
	g.GET("/:userId", h.Get)
	g.GET("/:userId/orders-count", h.OrdersCount)
}

func (h *AdminUsersHandler) List(c *gin.Context) {
	out, err := h.users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	reads := make([]UserRead, 0, len(out))
	for i := range out {
		reads = append(reads, toUserRead(&out[i]))
	}
	c.JSON(http.StatusOK, reads)
}

func (h *AdminUsersHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid user ID"})
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil {
		writeNotFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, toUserRead(u))
}

func (h *AdminUsersHandler) OrdersCount(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid user ID"})
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil {
		writeNotFound(c, "User not found")
		return
	}
	count, err := h.orders.CountByUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id.Hex(), "orders_count": count})
}
