package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/models"
	"github.com/sleepycare/backend/internal/orders"
	"github.com/sleepycare/backend/pkg/middleware"
)

// TransactionCreateRequest is the POST /transactions body. Payments are
// recorded as-is; no gateway is involved.
type TransactionCreateRequest struct {
	OrderID       string  `json:"order_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	Status        string  `json:"status" binding:"required"`
}

// TransactionsHandler serves the authenticated user's payment records.
type TransactionsHandler struct {
	transactions orders.TransactionRepository
	orders       orders.Repository
	authenticate gin.HandlerFunc
}

func NewTransactionsHandler(tx orders.TransactionRepository, repo orders.Repository, authenticate gin.HandlerFunc) *TransactionsHandler {
	return &TransactionsHandler{transactions: tx, orders: repo, authenticate: authenticate}
}

// Register routes under /transactions; all require the user role.
func (h *TransactionsHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/transactions", h.authenticate, middleware.RequireUser())
	g.POST("", h.Create)
	g.GET("", h.List)
}

func (h *TransactionsHandler) Create(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	var req TransactionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err.Error())
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid order ID"})
		return
	}
	order, err := h.orders.GetByID(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	if order == nil || order.UserID != u.ID {
		writeNotFound(c, "Order not found")
		return
	}
	t := &models.Transaction{
		OrderID:       order.ID,
		UserID:        u.ID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
	}
	created, err := h.transactions.Create(c.Request.Context(), t)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransactionRead(created))
}

func (h *TransactionsHandler) List(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	out, err := h.transactions.ListByUser(c.Request.Context(), u.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	txs := make([]TransactionRead, 0, len(out))
	for i := range out {
		txs = append(txs, toTransactionRead(&out[i]))
	}
	c.JSON(http.StatusOK, txs)
}
