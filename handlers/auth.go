package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sleepycare/backend/internal/auth"
	"github.com/sleepycare/backend/pkg/middleware"
)

// RegisterRequest is the /auth/register body.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// ForgotPasswordRequest is the /auth/forgot-password body.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest is the /auth/reset-password body.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// RefreshRequest is the /auth/refresh body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	svc          *auth.Service
	authenticate gin.HandlerFunc
}

func NewAuthHandler(svc *auth.Service, authenticate gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{svc: svc, authenticate: authenticate}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/register", h.RegisterUser)
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/forgot-password", h.ForgotPassword)
	a.POST("/reset-password", h.ResetPassword)
	a.GET("/me", h.authenticate, h.Me)
	a.POST("/google", h.oauthDisabled("Google"))
	a.POST("/apple", h.oauthDisabled("Apple"))
}

// RegisterUser creates an account and returns a token pair right away.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err.Error())
		return
	}
	u, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	pair, err := h.svc.IssueTokenPair(u)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Login authenticates form credentials. The username field carries the
// email.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		writeValidation(c, "Missing username or password")
		return
	}
	u, err := h.svc.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		writeError(c, err)
		return
	}
	pair, err := h.svc.IssueTokenPair(u)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh exchanges a refresh token for a fresh pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err.Error())
		return
	}
	u, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	pair, err := h.svc.IssueTokenPair(u)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// ForgotPassword always answers 204 so the response shape cannot reveal
// whether the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err.Error())
		return
	}
	if err := h.svc.CreatePasswordReset(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResetPassword consumes a recovery token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err.Error())
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}
	c.JSON(http.StatusOK, toUserRead(u))
}

func (h *AuthHandler) oauthDisabled(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": provider + " login disabled for now"})
	}
}
