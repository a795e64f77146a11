package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt digest, got %q", hash)
	}
	if !VerifyPassword("s3cret-pass", hash) {
		t.Fatalf("expected password to verify against its own hash")
	}
	if VerifyPassword("wrong-pass", hash) {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	h1, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected two hashes of the same input to differ")
	}
}

func TestVerifyPassword_MalformedDigest(t *testing.T) {
	if VerifyPassword("anything", "not-a-bcrypt-digest") {
		t.Fatalf("expected malformed digest to fail verification")
	}
	if VerifyPassword("anything", "") {
		t.Fatalf("expected empty digest to fail verification")
	}
}
