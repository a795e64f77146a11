package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/models"
	"github.com/sleepycare/backend/internal/tokens"
	"github.com/sleepycare/backend/pkg/middleware"
)

// fake cart repo with the same upsert semantics as the Mongo one
type fakeCartRepo struct {
	items map[primitive.ObjectID]*models.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: map[primitive.ObjectID]*models.CartItem{}}
}

func (f *fakeCartRepo) AddItem(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*models.CartItem, error) {
	for _, it := range f.items {
		if it.UserID == userID && it.ProductID == productID {
			it.Quantity += qty
			return it, nil
		}
	}
	it := &models.CartItem{ID: primitive.NewObjectID(), UserID: userID, ProductID: productID, Quantity: qty}
	f.items[it.ID] = it
	return it, nil
}
func (f *fakeCartRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.CartItem, error) {
	return f.items[id], nil
}
func (f *fakeCartRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, *it)
		}
	}
	return out, nil
}
func (f *fakeCartRepo) UpdateQuantity(ctx context.Context, id primitive.ObjectID, qty int) error {
	if it, ok := f.items[id]; ok {
		it.Quantity = qty
	}
	return nil
}
func (f *fakeCartRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(f.items, id)
	return nil
}

// fake product repo serving a fixed set of products
type fakeProductGetter struct {
	products map[primitive.ObjectID]*models.Product
}

func (f *fakeProductGetter) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	return p, nil
}
func (f *fakeProductGetter) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return f.products[id], nil
}
func (f *fakeProductGetter) List(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}
func (f *fakeProductGetter) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Product, error) {
	return nil, nil
}
func (f *fakeProductGetter) Update(ctx context.Context, p *models.Product) error { return nil }
func (f *fakeProductGetter) Delete(ctx context.Context, id primitive.ObjectID) error {
	return nil
}
func (f *fakeProductGetter) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error) {
	return true, nil
}
func (f *fakeProductGetter) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	return nil
}

func newCartTestRouter(t *testing.T) (*gin.Engine, *fakeCartRepo, *fakeProductGetter, string, primitive.ObjectID) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	usersRepo := newFakeUserRepo()
	owner := seedUser(t, usersRepo, "owner@example.com", models.RoleUser)
	cartRepo := newFakeCartRepo()
	products := &fakeProductGetter{products: map[primitive.ObjectID]*models.Product{}}
	codec := tokens.NewCodec("cart-test-secret-32-bytes-xxxxxxx", time.Minute, time.Hour)
	authenticate := middleware.Authenticate(codec, usersRepo)

	tok, err := codec.IssueAccess(owner.ID.Hex(), owner.Role)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	r := gin.New()
	NewCartHandler(cartRepo, products, authenticate).Register(r.Group("/"))
	return r, cartRepo, products, tok, owner.ID
}

func doCart(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCart_AddAndMerge(t *testing.T) {
	r, _, products, tok, _ := newCartTestRouter(t)
	p := &models.Product{ID: primitive.NewObjectID(), Name: "Pillow", Stock: 5}
	products.products[p.ID] = p

	w := doCart(r, "POST", "/cart", tok, `{"product_id":"`+p.ID.Hex()+`","quantity":2}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	first := decodeBody(t, w)
	assert.Equal(t, float64(2), first["quantity"])

	// adding the same product merges into the existing line
	w = doCart(r, "POST", "/cart", tok, `{"product_id":"`+p.ID.Hex()+`","quantity":3}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	merged := decodeBody(t, w)
	assert.Equal(t, first["id"], merged["id"])
	assert.Equal(t, float64(5), merged["quantity"])
}

func TestCart_AddUnknownProduct(t *testing.T) {
	r, _, _, tok, _ := newCartTestRouter(t)
	w := doCart(r, "POST", "/cart", tok, `{"product_id":"`+primitive.NewObjectID().Hex()+`","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decodeBody(t, w)["detail"])
}

// A foreign cart item reads as not found, never as forbidden.
func TestCart_ForeignItemIsNotFound(t *testing.T) {
	r, cartRepo, _, tok, _ := newCartTestRouter(t)
	other, err := cartRepo.AddItem(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 1)
	assert.NoError(t, err)

	w := doCart(r, "PUT", "/cart/"+other.ID.Hex(), tok, `{"quantity":9}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cart item not found", decodeBody(t, w)["detail"])

	w = doCart(r, "DELETE", "/cart/"+other.ID.Hex(), tok, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCart_UpdateAndDeleteOwn(t *testing.T) {
	r, cartRepo, products, tok, ownerID := newCartTestRouter(t)
	p := &models.Product{ID: primitive.NewObjectID(), Name: "Blanket", Stock: 5}
	products.products[p.ID] = p
	item, err := cartRepo.AddItem(context.Background(), ownerID, p.ID, 1)
	assert.NoError(t, err)

	w := doCart(r, "PUT", "/cart/"+item.ID.Hex(), tok, `{"quantity":4}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decodeBody(t, w)["quantity"])

	w = doCart(r, "DELETE", "/cart/"+item.ID.Hex(), tok, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doCart(r, "GET", "/cart", tok, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}
