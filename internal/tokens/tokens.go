package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sleepycare/backend/internal/models"
)

// Token classes. Access tokens authorize API calls; refresh tokens may
// only be exchanged for a new pair at /auth/refresh.
const (
	ClassAccess  = "access"
	ClassRefresh = "refresh"
)

// ErrInvalidToken is returned for every verification failure: bad
// signature, malformed structure, expired, or wrong class. Callers must
// not learn which.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed token payload.
type Claims struct {
	Role models.Role `json:"role"`
	Type string      `json:"type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens with a process-wide HS256 secret.
// Rotating the secret invalidates everything previously issued.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssueAccess signs a short-lived access token for the subject.
func (c *Codec) IssueAccess(subject string, role models.Role) (string, error) {
	return c.issue(subject, role, ClassAccess, c.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the subject.
func (c *Codec) IssueRefresh(subject string, role models.Role) (string, error) {
	return c.issue(subject, role, ClassRefresh, c.refreshTTL)
}

func (c *Codec) issue(subject string, role models.Role, class string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		Type: class,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString(c.secret)
}

// Verify checks signature and expiry, and that the token's class matches
// expectedClass when given. All failures collapse into ErrInvalidToken.
func (c *Codec) Verify(raw string, expectedClass string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if expectedClass != "" && claims.Type != expectedClass {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
