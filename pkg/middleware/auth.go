package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/apperr"
	"github.com/sleepycare/backend/internal/models"
	"github.com/sleepycare/backend/internal/tokens"
	"github.com/sleepycare/backend/internal/users"
	"github.com/sleepycare/backend/pkg/metrics"
)

// ContextUserKey is where the authenticated user is attached for handlers.
const ContextUserKey = "user"

// CurrentUser returns the authenticated user attached by Authenticate.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

func rejectUnauthenticated(c *gin.Context, kind string) {
	metrics.AuthFailures.WithLabelValues(kind).Inc()
	c.AbortWithStatusJSON(apperr.ErrUnauthenticated.Status, gin.H{"detail": apperr.ErrUnauthenticated.Detail})
}

// Authenticate verifies the bearer access token and resolves the live user
// record. The token proves identity; existence and role always come from
// the store, so a deleted user or a demoted admin is rejected immediately
// rather than when the token expires.
func Authenticate(codec *tokens.Codec, repo users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			rejectUnauthenticated(c, "missing_token")
			return
		}
		claims, err := codec.Verify(raw, tokens.ClassAccess)
		if err != nil {
			rejectUnauthenticated(c, "invalid_token")
			return
		}
		id, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			rejectUnauthenticated(c, "invalid_token")
			return
		}
		u, err := repo.GetByID(c.Request.Context(), id)
		if err != nil || u == nil {
			rejectUnauthenticated(c, "unknown_user")
			return
		}
		c.Set(ContextUserKey, u)
		c.Next()
	}
}

// RequireRole gates a route on the live user's role. Runs after
// Authenticate.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			rejectUnauthenticated(c, "no_user")
			return
		}
		if u.Role == role {
			c.Next()
			return
		}
		kind := "role_mismatch"
		if !u.Role.Valid() {
			// unknown role stored; treat as forbidden
			kind = "role_unknown"
		}
		metrics.AuthFailures.WithLabelValues(kind).Inc()
		c.AbortWithStatusJSON(apperr.ErrForbidden.Status, gin.H{"detail": apperr.ErrForbidden.Detail})
	}
}

// RequireUser gates a route to the user role.
func RequireUser() gin.HandlerFunc { return RequireRole(models.RoleUser) }

// RequireAdmin gates a route to the admin role.
func RequireAdmin() gin.HandlerFunc { return RequireRole(models.RoleAdmin) }
