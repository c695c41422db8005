package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantry-chef/backend/internal/auth"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// Context keys set by AuthMiddleware
const (
	ContextIdentity = "identity"
	ContextUserID   = "user_id"
)

// TokenVerifier is an interface for verifying Authorization headers
type TokenVerifier interface {
	Verify(header string) (*auth.Identity, error)
	LoginURL() string
}

// AuthMiddleware establishes the caller's identity from a bearer token.
// Requests without a credential pass through anonymously; a credential that
// fails verification ends the request with 401.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := verifier.Verify(c.GetHeader("Authorization"))
		if err != nil {
			var authErr *auth.Error
			if !errors.As(err, &authErr) {
				authErr = &auth.Error{Kind: auth.InvalidToken, Code: auth.CodeInvalidToken, Detail: err.Error()}
			}
			loginURL := authErr.LoginURL
			if loginURL == "" {
				loginURL = verifier.LoginURL()
			}
			abortUnauthorized(c, authErr.Code, authErr.Detail, loginURL)
			return
		}

		if identity != nil {
			c.Set(ContextIdentity, identity)
			c.Set(ContextUserID, identity.Subject)
		}
		c.Next()
	}
}

// RequireIdentity rejects anonymous requests. It must run after AuthMiddleware.
func RequireIdentity(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			abortUnauthorized(c, types.ErrCodeAuthRequired, "Authentication credentials were not provided.", loginURL)
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity set by AuthMiddleware
func IdentityFrom(c *gin.Context) (*auth.Identity, bool) {
	value, exists := c.Get(ContextIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*auth.Identity)
	return identity, ok && identity != nil
}

// UserID returns the caller's subject, or "" for anonymous requests
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func abortUnauthorized(c *gin.Context, code, detail, loginURL string) {
	c.Header("WWW-Authenticate", auth.Challenge)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":      code,
		"detail":    detail,
		"login_url": loginURL,
	})
}
