package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the user's permission group. Keeping it a dedicated type forces
// an explicit switch at every gate instead of loose string comparison.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Provider tags where an account's credentials live. Only local accounts
// carry a password hash.
const (
	ProviderLocal = "local"
)

// User is an identity record. Email is stored lower-cased and is the
// unique login key. PasswordHash is empty for federated accounts.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"password_hash,omitempty" json:"-"`
	Role           Role               `bson:"role" json:"role"`
	Provider       string             `bson:"provider" json:"provider"`
	ProviderUserID string             `bson:"provider_user_id,omitempty" json:"-"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// PasswordResetToken is a single-use, time-limited recovery capability.
// Tokens are never deleted; used ones are kept as an audit trail.
type PasswordResetToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Token     string             `bson:"token" json:"-"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
	Used      bool               `bson:"used" json:"used"`
}
