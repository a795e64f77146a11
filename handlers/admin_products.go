package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/cache"
	"github.com/sleepycare/backend/internal/catalog"
	"github.com/sleepycare/backend/internal/models"
	"github.com/sleepycare/backend/internal/storage"
	"github.com/sleepycare/backend/pkg/middleware"
)

// AdminProductsHandler manages the catalog. Products accept an image as a
// multipart file, a base64 field, or a direct URL from a presigned upload.
type AdminProductsHandler struct {
	products     catalog.ProductRepository
	categories   catalog.CategoryRepository
	images       *storage.ImageStore
	cache        *cache.Cache
	authenticate gin.HandlerFunc
}

func NewAdminProductsHandler(products catalog.ProductRepository, categories catalog.CategoryRepository, images *storage.ImageStore, ch *cache.Cache, authenticate gin.HandlerFunc) *AdminProductsHandler {
	return &AdminProductsHandler{products: products, categories: categories, images: images, cache: ch, authenticate: authenticate}
}

// Register routes under /admin/products; all require the admin role.
func (h *AdminProductsHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/admin/products", h.authenticate, middleware.RequireAdmin())
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/category/:categoryId", h.ListByCategory)
	g.PUT("/:productId", h.Update)
	g.DELETE("/:productId", h.Delete)
}

// resolveImage picks the image source for a create/update: uploaded file
// first, then inline base64, then a direct URL. Returns ok=false after
// writing the error response itself.
func (h *AdminProductsHandler) resolveImage(c *gin.Context, fallbackName string) (url string, provided, ok bool) {
	if data, filename, contentType, found := readUploadedFile(c, "image"); found {
		u, err := h.images.Upload(c.Request.Context(), data, filename, contentType)
		if err != nil {
			writeError(c, err)
			return "", false, false
		}
		return u, true, true
	}
	if b64 := c.PostForm("image_base64"); b64 != "" {
		data, contentType, err := decodeBase64Image(b64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid base64 image"})
			return "", false, false
		}
		u, err := h.images.Upload(c.Request.Context(), data, fallbackName+".jpg", contentType)
		if err != nil {
			writeError(c, err)
			return "", false, false
		}
		return u, true, true
	}
	if direct := c.PostForm("image_url"); direct != "" {
		return direct, true, true
	}
	return "", false, true
}

func (h *AdminProductsHandler) Create(c *gin.Context) {
	name := c.PostForm("name")
	price := c.PostForm("price")
	stock := c.PostForm("stock")
	if name == "" || price == "" || stock == "" {
		writeValidation(c, "Missing required fields: name, price, and stock are required")
		return
	}
	priceVal, err := strconv.ParseFloat(price, 64)
	if err != nil {
		writeValidation(c, "Invalid price")
		return
	}
	stockVal, err := strconv.Atoi(stock)
	if err != nil {
		writeValidation(c, "Invalid stock")
		return
	}

	var categoryID *primitive.ObjectID
	if raw := c.PostForm("category_id"); raw != "" {
		cid, err := primitive.ObjectIDFromHex(raw)
		if err == nil {
			cat, err := h.categories.GetByID(c.Request.Context(), cid)
			if err != nil {
				writeError(c, err)
				return
			}
			if cat == nil {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid category"})
				return
			}
			categoryID = &cid
		}
	}

	imageURL, _, ok := h.resolveImage(c, "product_"+name)
	if !ok {
		return
	}

	p := &models.Product{
		Name:        name,
		Description: c.PostForm("description"),
		Price:       priceVal,
		Stock:       stockVal,
		ImageURL:    imageURL,
		CategoryID:  categoryID,
	}
	created, err := h.products.Create(c.Request.Context(), p)
	if err != nil {
		if catalog.IsDuplicate(err) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Product with this name already exists"})
			return
		}
		writeError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), cache.KeyProducts)
	c.JSON(http.StatusCreated, toProductRead(created))
}

func (h *AdminProductsHandler) List(c *gin.Context) {
	out, err := h.products.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductReads(out))
}

func (h *AdminProductsHandler) ListByCategory(c *gin.Context) {
	catID, err := primitive.ObjectIDFromHex(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid category ID"})
		return
	}
	out, err := h.products.ListByCategory(c.Request.Context(), catID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductReads(out))
}

func (h *AdminProductsHandler) Update(c *gin.Context) {
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

	if name := c.PostForm("name"); name != "" {
		p.Name = name
	}
	if desc, set := c.GetPostForm("description"); set {
		p.Description = desc
	}
	if price := c.PostForm("price"); price != "" {
		v, err := strconv.ParseFloat(price, 64)
		if err != nil {
			writeValidation(c, "Invalid price")
			return
		}
		p.Price = v
	}
	if stock := c.PostForm("stock"); stock != "" {
		v, err := strconv.Atoi(stock)
		if err != nil {
			writeValidation(c, "Invalid stock")
			return
		}
		p.Stock = v
	}
	if raw := c.PostForm("category_id"); raw != "" {
		cid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid category ID"})
			return
		}
		p.CategoryID = &cid
	}

	newURL, provided, ok := h.resolveImage(c, "product_"+p.Name)
	if !ok {
		return
	}
	if provided {
		if p.ImageURL != "" && p.ImageURL != newURL {
			h.images.Delete(c.Request.Context(), p.ImageURL)
		}
		p.ImageURL = newURL
	}

	if err := h.products.Update(c.Request.Context(), p); err != nil {
		if catalog.IsDuplicate(err) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Product with this name already exists"})
			return
		}
		writeError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), cache.KeyProducts)
	c.JSON(http.StatusOK, toProductRead(p))
}

func (h *AdminProductsHandler) Delete(c *gin.Context) {
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
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), cache.KeyProducts)
	c.Status(http.StatusNoContent)
}
