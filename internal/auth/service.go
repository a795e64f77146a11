package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/apperr"
	"github.com/sleepycare/backend/internal/models"
	"github.com/sleepycare/backend/internal/notify"
	"github.com/sleepycare/backend/internal/resets"
	"github.com/sleepycare/backend/internal/tokens"
	"github.com/sleepycare/backend/internal/users"
	"github.com/sleepycare/backend/pkg/logger"
)

const resetTokenTTL = time.Hour

// Service orchestrates registration, login, token issuance and the
// password-reset flow.
type Service struct {
	users  users.Repository
	resets resets.Repository
	codec  *tokens.Codec
	mailer notify.Mailer
}

func NewService(u users.Repository, r resets.Repository, c *tokens.Codec, m notify.Mailer) *Service {
	return &Service{users: u, resets: r, codec: c, mailer: m}
}

// TokenPair is the login/registration response body.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Register creates a local account with role user. The email check-then-
// insert may race; the unique index is authoritative and an insert-time
// duplicate is remapped to the same failure as the pre-check.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrDuplicateEmail
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         name,
		Email:        users.FoldEmail(email),
		PasswordHash: hash,
		Role:         models.RoleUser,
		Provider:     models.ProviderLocal,
	}
	created, err := s.users.Create(ctx, u)
	if err != nil {
		if users.IsDuplicate(err) {
			return nil, apperr.ErrDuplicateEmail
		}
		return nil, err
	}
	return created, nil
}

// Authenticate resolves email+password to a user. Unknown email, a
// federated account without a password hash, and a wrong password are all
// reported identically.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || u.PasswordHash == "" {
		return nil, apperr.ErrInvalidCredentials
	}
	if !VerifyPassword(password, u.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokenPair signs an access+refresh pair for the user.
func (s *Service) IssueTokenPair(u *models.User) (*TokenPair, error) {
	access, err := s.codec.IssueAccess(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.IssueRefresh(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Refresh exchanges a valid refresh token for the live user record.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.User, error) {
	claims, err := s.codec.Verify(refreshToken, tokens.ClassRefresh)
	if err != nil {
		return nil, apperr.ErrUnauthenticated
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, apperr.ErrUnauthenticated
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return u, nil
}

// CreatePasswordReset issues a single-use recovery token for the account,
// if one exists. Unknown emails return silently so the endpoint's
// response shape cannot be used to enumerate accounts. Notification
// failure is logged and swallowed; the token stays valid either way.
func (s *Service) CreatePasswordReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	t := &models.PasswordResetToken{
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
		Used:      false,
	}
	if err := s.resets.Create(ctx, t); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, u.Email, u.Name, token); err != nil {
		logger.Errorf("failed to send password reset email to %s: %v", u.Email, err)
	}
	return nil
}

// ResetPassword consumes a recovery token and replaces the owner's
// password hash. An already-used token and an expired one surface the
// same failure. The used flag is flipped with a compare-and-swap after
// the hash write, so of two concurrent confirmations exactly one
// succeeds.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	t, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if t == nil {
		return apperr.ErrInvalidResetToken
	}
	if t.Used || time.Now().UTC().After(t.ExpiresAt) {
		return apperr.ErrExpiredResetToken
	}

	u, err := s.users.GetByID(ctx, t.UserID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.BadRequest("User not found")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return err
	}
	won, err := s.resets.MarkUsed(ctx, token)
	if err != nil {
		return err
	}
	if !won {
		return apperr.ErrExpiredResetToken
	}
	return nil
}

// generateResetToken returns 32 bytes of entropy, URL-safe encoded.
func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
