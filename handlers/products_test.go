package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/cache"
	"github.com/sleepycare/backend/internal/models"
)

func newProductsTestRouter(t *testing.T, c *cache.Cache) (*gin.Engine, *fakeProductGetter) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	products := &fakeProductGetter{products: map[primitive.ObjectID]*models.Product{}}
	r := gin.New()
	NewProductsHandler(products, c).Register(r.Group("/"))
	return r, products
}

func TestProducts_GetByID(t *testing.T) {
	r, products := newProductsTestRouter(t, cache.New(nil, time.Minute))
	p := &models.Product{ID: primitive.NewObjectID(), Name: "Pillow", Price: 25, Stock: 3}
	products.products[p.ID] = p

	req := httptest.NewRequest("GET", "/products/"+p.ID.Hex(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pillow", decodeBody(t, w)["name"])

	req = httptest.NewRequest("GET", "/products/"+primitive.NewObjectID().Hex(), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decodeBody(t, w)["detail"])

	req = httptest.NewRequest("GET", "/products/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// The list endpoint caches its serialized response; a second request is
// answered from Redis without touching the repository.
func TestProducts_ListUsesCache(t *testing.T) {
	m, err := mr.Run()
	assert.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	c := cache.New(client, time.Minute)

	r, products := newProductsTestRouter(t, c)
	p := &models.Product{ID: primitive.NewObjectID(), Name: "Pillow", Price: 25, Stock: 3}
	products.products[p.ID] = p

	req := httptest.NewRequest("GET", "/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	firstBody := w.Body.String()
	assert.True(t, m.Exists(cache.KeyProducts))

	// mutate the backing store; the cached payload should still win
	p.Name = "Renamed"
	req = httptest.NewRequest("GET", "/products", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, firstBody, w.Body.String())

	// after invalidation the fresh state is served
	c.Invalidate(req.Context(), cache.KeyProducts)
	req = httptest.NewRequest("GET", "/products", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "Renamed")
}
