package tokens

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/sleepycare/backend/internal/models"
)

const testSecret = "test-secret-32-bytes-should-be-long-enough"

func newTestCodec() *Codec {
	return NewCodec(testSecret, 2*time.Minute, time.Hour)
}

func TestIssueAccess_ValidAndClaims(t *testing.T) {
	c := newTestCodec()
	tokenStr, err := c.IssueAccess("user-123", models.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	claims, err := c.Verify(tokenStr, ClassAccess)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("unexpected sub claim: got=%v want=user-123", claims.Subject)
	}
	if claims.Role != models.RoleAdmin {
		t.Fatalf("unexpected role claim: got=%v", claims.Role)
	}
	if claims.Type != ClassAccess {
		t.Fatalf("unexpected type claim: got=%v", claims.Type)
	}
}

func TestVerify_Expired(t *testing.T) {
	c := NewCodec(testSecret, -time.Minute, time.Hour)
	tokenStr, err := c.IssueAccess("u2", models.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if _, err := c.Verify(tokenStr, ClassAccess); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongSecretFails(t *testing.T) {
	c := newTestCodec()
	tokenStr, err := c.IssueAccess("u3", models.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	other := NewCodec("different-secret-xxxxxxxxxxxxxxxx", 2*time.Minute, time.Hour)
	if _, err := other.Verify(tokenStr, ClassAccess); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken with wrong secret, got %v", err)
	}
}

// A refresh token must never pass as an access token, and vice versa.
func TestVerify_ClassMismatch(t *testing.T) {
	c := newTestCodec()
	refresh, err := c.IssueRefresh("u4", models.RoleUser)
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	if _, err := c.Verify(refresh, ClassAccess); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for refresh-as-access, got %v", err)
	}
	access, err := c.IssueAccess("u4", models.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if _, err := c.Verify(access, ClassRefresh); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for access-as-refresh, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	c := newTestCodec()
	if _, err := c.Verify("not.a.jwt", ClassAccess); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

// Rejected when alg=none (unsigned token)
func TestVerify_AlgNoneRejected(t *testing.T) {
	c := newTestCodec()
	payload := `{"sub":"u-none","type":"access","exp":9999999999}`
	headerEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payloadEnc := base64.RawURLEncoding.EncodeToString([]byte(payload))
	tok := headerEnc + "." + payloadEnc + "."
	if _, err := c.Verify(tok, ClassAccess); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for alg=none token, got %v", err)
	}
}

// Tampering with payload must fail signature verification
func TestVerify_TamperedPayload(t *testing.T) {
	c := newTestCodec()
	tokenStr, err := c.IssueAccess("user-t", models.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payloadBytes, _ := base64.RawURLEncoding.DecodeString(parts[1])
	payloadStr := strings.Replace(string(payloadBytes), `"role":"user"`, `"role":"admin"`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(payloadStr))
	tampered := strings.Join(parts, ".")
	if _, err := c.Verify(tampered, ClassAccess); err != ErrInvalidToken {
		t.Fatalf("expected signature verification to fail for tampered token, got %v", err)
	}
}
