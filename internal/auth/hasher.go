package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt work factor. Raising it slows brute force at the cost of login
// latency.
const hashCost = 10

// HashPassword produces a salted one-way digest. The salt is random per
// call, so hashing the same password twice yields different digests.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether password matches digest. A malformed
// digest verifies as false, never panics or errors out.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
