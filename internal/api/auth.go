package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pantry-chef/backend/internal/logger"
	"github.com/pageza/pantry-chef/backend/internal/service"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// TokenChecker reports whether an Authorization header carries a valid token
type TokenChecker interface {
	IsValid(header string) bool
}

// AuthHandler handles account registration, sign-in and session checks.
// Tokens are issued by the identity provider; this service only verifies them.
type AuthHandler struct {
	identity       service.IdentityProvider
	checker        TokenChecker
	allowedDomains []string
}

// NewAuthHandler creates a new AuthHandler. identity may be nil when the
// provider is not configured; allowedDomains empty allows every domain.
func NewAuthHandler(identity service.IdentityProvider, checker TokenChecker, allowedDomains []string) *AuthHandler {
	return &AuthHandler{identity: identity, checker: checker, allowedDomains: allowedDomains}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/status", h.Status)
		auth.POST("/logout", h.Logout)
	}
}

func (h *AuthHandler) domainAllowed(email string) bool {
	if len(h.allowedDomains) == 0 {
		return true
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	for _, allowed := range h.allowedDomains {
		if domain == allowed {
			return true
		}
	}
	return false
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Passwords do not match."})
		return
	}

	email := strings.ToLower(req.Email)
	if !h.domainAllowed(email) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email domain is not allowed. Please use a trusted provider."})
		return
	}
	if h.identity == nil {
		_ = c.Error(types.Unavailable(service.ErrIdentityUnavailable))
		return
	}

	ctx := c.Request.Context()
	err := h.identity.CreateUser(ctx, email, req.Password)
	if err == nil {
		err = h.identity.InviteUser(ctx, email)
	}
	if err != nil {
		logger.Warn("account creation failed", zap.String("email", email), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unable to create account: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created. Please check your inbox to confirm email."})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	if h.identity == nil {
		_ = c.Error(types.Unavailable(service.ErrIdentityUnavailable))
		return
	}

	session, err := h.identity.SignInWithPassword(c.Request.Context(), strings.ToLower(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			_ = c.Error(types.NewAPIError(http.StatusUnauthorized, types.ErrCodeInvalidCredentials, "Invalid email or password.", err))
			return
		}
		_ = c.Error(types.NewAPIError(http.StatusBadGateway, types.ErrCodeServiceUnavailable, "Identity provider request failed.", err))
		return
	}
	c.JSON(http.StatusOK, session)
}

// Status never fails: any problem with the header reads as signed out.
func (h *AuthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"isLoggedIn": h.checker.IsValid(c.GetHeader("Authorization"))})
}

// Logout is stateless; the client discards its session.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
