package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/carts"
	"github.com/sleepycare/backend/internal/catalog"
	"github.com/sleepycare/backend/internal/models"
	"github.com/sleepycare/backend/pkg/middleware"
)

// CartItemCreateRequest is the POST /cart body.
type CartItemCreateRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CartItemUpdateRequest is the PUT /cart/:id body.
type CartItemUpdateRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartHandler serves the authenticated user's shopping cart.
type CartHandler struct {
	carts        carts.Repository
	products     catalog.ProductRepository
	authenticate gin.HandlerFunc
}

func NewCartHandler(repo carts.Repository, products catalog.ProductRepository, authenticate gin.HandlerFunc) *CartHandler {
	return &CartHandler{carts: repo, products: products, authenticate: authenticate}
}

// Register routes under /cart; all require the user role.
func (h *CartHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/cart", h.authenticate, middleware.RequireUser())
	g.GET("", h.List)
	g.POST("", h.Add)
	g.PUT("/:cartItemId", h.Update)
	g.DELETE("/:cartItemId", h.Delete)
}

func (h *CartHandler) List(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	items, err := h.carts.ListByUser(c.Request.Context(), u.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]CartItemRead, 0, len(items))
	for i := range items {
		out = append(out, toCartItemRead(&items[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CartHandler) Add(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	var req CartItemCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err.Error())
		return
	}
	pid, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid product ID"})
		return
	}
	p, err := h.products.GetByID(c.Request.Context(), pid)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		writeNotFound(c, "Product not found")
		return
	}
	item, err := h.carts.AddItem(c.Request.Context(), u.ID, pid, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCartItemRead(item))
}

func (h *CartHandler) Update(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	var req CartItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err.Error())
		return
	}
	item, ok := h.ownedItem(c, u.ID)
	if !ok {
		return
	}
	if err := h.carts.UpdateQuantity(c.Request.Context(), item.ID, req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	item.Quantity = req.Quantity
	c.JSON(http.StatusOK, toCartItemRead(item))
}

func (h *CartHandler) Delete(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	item, ok := h.ownedItem(c, u.ID)
	if !ok {
		return
	}
	if err := h.carts.Delete(c.Request.Context(), item.ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ownedItem resolves :cartItemId and enforces that it belongs to the
// caller. A foreign item reads as not found, never as forbidden.
func (h *CartHandler) ownedItem(c *gin.Context, userID primitive.ObjectID) (*models.CartItem, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("cartItemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid cart item ID"})
		return nil, false
	}
	item, err := h.carts.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if item == nil || item.UserID != userID {
		writeNotFound(c, "Cart item not found")
		return nil, false
	}
	return item, true
}
