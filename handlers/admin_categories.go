package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/cache"
	"github.com/sleepycare/backend/internal/catalog"
	"github.com/sleepycare/backend/internal/models"
	"github.com/sleepycare/backend/internal/storage"
	"github.com/sleepycare/backend/pkg/middleware"
)

// AdminCategoriesHandler manages product categories. Icons follow the same
// file/base64/url resolution as product images.
type AdminCategoriesHandler struct {
	categories   catalog.CategoryRepository
	images       *storage.ImageStore
	cache        *cache.Cache
	authenticate gin.HandlerFunc
}

func NewAdminCategoriesHandler(categories catalog.CategoryRepository, images *storage.ImageStore, ch *cache.Cache, authenticate gin.HandlerFunc) *AdminCategoriesHandler {
	return &AdminCategoriesHandler{categories: categories, images: images, cache: ch, authenticate: authenticate}
}

func (h *AdminCategoriesHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/admin/categories", h.authenticate, middleware.RequireAdmin())
	g.POST("", h.Create)
	g.GET("", h.List)
	g.PUT("/:categoryId", h.Update)
	g.DELETE("/:categoryId", h.Delete)
}

func (h *AdminCategoriesHandler) resolveIcon(c *gin.Context, fallbackName string) (url string, provided, ok bool) {
	if data, filename, contentType, found := readUploadedFile(c, "icon"); found {
		u, err := h.images.Upload(c.Request.Context(), data, filename, contentType)
		if err != nil {
			writeError(c, err)
			return "", false, false
		}
		return u, true, true
	}
	if b64 := c.PostForm("icon_base64"); b64 != "" {
		data, contentType, err := decodeBase64Image(b64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid base64 image"})
			return "", false, false
		}
		u, err := h.images.Upload(c.Request.Context(), data, fallbackName+".png", contentType)
		if err != nil {
			writeError(c, err)
			return "", false, false
		}
		return u, true, true
	}
	if direct := c.PostForm("icon_url"); direct != "" {
		return direct, true, true
	}
	return "", false, true
}

func (h *AdminCategoriesHandler) Create(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		writeValidation(c, "Missing required field: name")
		return
	}
	existing, err := h.categories.GetByName(c.Request.Context(), name)
	if err != nil {
		writeError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Category already exists"})
		return
	}

	icon, _, ok := h.resolveIcon(c, "category_"+name)
	if !ok {
		return
	}

	cat := &models.Category{Name: name, Description: c.PostForm("description"), Icon: icon}
	created, err := h.categories.Create(c.Request.Context(), cat)
	if err != nil {
		if catalog.IsDuplicate(err) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Category already exists"})
			return
		}
		writeError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), cache.KeyCategories)
	c.JSON(http.StatusCreated, toCategoryRead(created))
}

func (h *AdminCategoriesHandler) List(c *gin.Context) {
	out, err := h.categories.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryReads(out))
}

func (h *AdminCategoriesHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid category ID"})
		return
	}
	cat, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if cat == nil {
		writeNotFound(c, "Category not found")
		return
	}

	if name := c.PostForm("name"); name != "" {
		cat.Name = name
	}
	if desc, set := c.GetPostForm("description"); set {
		cat.Description = desc
	}

	newIcon, provided, ok := h.resolveIcon(c, "category_"+cat.Name)
	if !ok {
		return
	}
	if provided {
		if cat.Icon != "" && cat.Icon != newIcon {
			h.images.Delete(c.Request.Context(), cat.Icon)
		}
		cat.Icon = newIcon
	}

	if err := h.categories.Update(c.Request.Context(), cat); err != nil {
		if catalog.IsDuplicate(err) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Category already exists"})
			return
		}
		writeError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), cache.KeyCategories)
	c.JSON(http.StatusOK, toCategoryRead(cat))
}

func (h *AdminCategoriesHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid category ID"})
		return
	}
	cat, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if cat == nil {
		writeNotFound(c, "Category not found")
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	h.images.Delete(c.Request.Context(), cat.Icon)
	h.cache.Invalidate(c.Request.Context(), cache.KeyCategories)
	c.Status(http.StatusNoContent)
}
