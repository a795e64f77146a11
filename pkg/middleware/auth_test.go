package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/models"
	"github.com/sleepycare/backend/internal/tokens"
)

// fake user repo backed by a map keyed on ObjectID
type fakeUserRepo struct {
	byID map[primitive.ObjectID]*models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	return u, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return f.byID[id], nil
}
func (f *fakeUserRepo) List(ctx context.Context) ([]models.User, error) { return nil, nil }
func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	return nil
}

func newTestRouter(codec *tokens.Codec, repo *fakeUserRepo, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{Authenticate(codec, repo)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID.Hex()})
	})
	r.GET("/protected", chain...)
	return r
}

func do(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_MissingAndMalformedHeader(t *testing.T) {
	codec := tokens.NewCodec("mw-test-secret-32-bytes-xxxxxxxx", time.Minute, time.Hour)
	r := newTestRouter(codec, &fakeUserRepo{byID: map[primitive.ObjectID]*models.User{}})

	if w := do(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401 got %d", w.Code)
	}
	if w := do(r, "Basic abc"); w.Code != http.StatusUnauthorized {
		t.Fatalf("non-bearer header: expected 401 got %d", w.Code)
	}
	if w := do(r, "Bearer "); w.Code != http.StatusUnauthorized {
		t.Fatalf("empty bearer: expected 401 got %d", w.Code)
	}
	if w := do(r, "Bearer not-a-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401 got %d", w.Code)
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	codec := tokens.NewCodec("mw-test-secret-32-bytes-xxxxxxxx", time.Minute, time.Hour)
	u := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	repo := &fakeUserRepo{byID: map[primitive.ObjectID]*models.User{u.ID: u}}
	r := newTestRouter(codec, repo)

	tok, err := codec.IssueAccess(u.ID.Hex(), u.Role)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	w := do(r, "Bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
}

// A refresh token is not valid on API routes.
func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	codec := tokens.NewCodec("mw-test-secret-32-bytes-xxxxxxxx", time.Minute, time.Hour)
	u := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	repo := &fakeUserRepo{byID: map[primitive.ObjectID]*models.User{u.ID: u}}
	r := newTestRouter(codec, repo)

	tok, err := codec.IssueRefresh(u.ID.Hex(), u.Role)
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	if w := do(r, "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

// A token for a deleted account must stop working immediately.
func TestAuthenticate_DeletedUser(t *testing.T) {
	codec := tokens.NewCodec("mw-test-secret-32-bytes-xxxxxxxx", time.Minute, time.Hour)
	repo := &fakeUserRepo{byID: map[primitive.ObjectID]*models.User{}}
	r := newTestRouter(codec, repo)

	tok, err := codec.IssueAccess(primitive.NewObjectID().Hex(), models.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if w := do(r, "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

// The gate reads the role from the stored record, not from token claims, so
// a demoted admin is locked out without waiting for expiry.
func TestRequireRole_LiveRoleWins(t *testing.T) {
	codec := tokens.NewCodec("mw-test-secret-32-bytes-xxxxxxxx", time.Minute, time.Hour)
	u := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	repo := &fakeUserRepo{byID: map[primitive.ObjectID]*models.User{u.ID: u}}
	r := newTestRouter(codec, repo, RequireAdmin())

	// token still claims admin
	tok, err := codec.IssueAccess(u.ID.Hex(), models.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if w := do(r, "Bearer "+tok); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}
}

func TestRequireRole_Matches(t *testing.T) {
	codec := tokens.NewCodec("mw-test-secret-32-bytes-xxxxxxxx", time.Minute, time.Hour)
	admin := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	repo := &fakeUserRepo{byID: map[primitive.ObjectID]*models.User{admin.ID: admin}}
	r := newTestRouter(codec, repo, RequireAdmin())

	tok, err := codec.IssueAccess(admin.ID.Hex(), admin.Role)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if w := do(r, "Bearer "+tok); w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
}

func TestRequireRole_UnknownRoleForbidden(t *testing.T) {
	codec := tokens.NewCodec("mw-test-secret-32-bytes-xxxxxxxx", time.Minute, time.Hour)
	u := &models.User{ID: primitive.NewObjectID(), Role: models.Role("superuser")}
	repo := &fakeUserRepo{byID: map[primitive.ObjectID]*models.User{u.ID: u}}
	r := newTestRouter(codec, repo, RequireUser())

	tok, err := codec.IssueAccess(u.ID.Hex(), u.Role)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if w := do(r, "Bearer "+tok); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}
}
