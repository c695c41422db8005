package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Scheme is the only Authorization scheme this verifier handles.
	Scheme = "Bearer"
	// Challenge is the WWW-Authenticate value sent with 401 responses.
	Challenge = `Bearer realm="supabase"`
	// DefaultLoginURL is used when no login URL is configured.
	DefaultLoginURL = "/login"
)

// Secrets holds the shared secrets a token may be signed with, in order of
// precedence.
type Secrets struct {
	JWTSecret      string
	ServiceRoleKey string
	AnonKey        string
}

// Resolve returns the first non-empty secret.
func (s Secrets) Resolve() string {
	for _, v := range []string{s.JWTSecret, s.ServiceRoleKey, s.AnonKey} {
		if v != "" {
			return v
		}
	}
	return ""
}

// Identity is the caller established from a verified token. It lives for a
// single request.
type Identity struct {
	Subject string `json:"id"`
	Email   string `json:"email,omitempty"`
}

// Verifier checks bearer tokens issued by the external identity provider.
// It holds no per-call state and is safe for concurrent use.
type Verifier struct {
	secrets  Secrets
	loginURL string
}

// NewVerifier creates a Verifier. An empty loginURL falls back to DefaultLoginURL.
func NewVerifier(secrets Secrets, loginURL string) *Verifier {
	if loginURL == "" {
		loginURL = DefaultLoginURL
	}
	return &Verifier{secrets: secrets, loginURL: loginURL}
}

// LoginURL is the redirect hint attached to every failure.
func (v *Verifier) LoginURL() string {
	return v.loginURL
}

// Verify checks an Authorization header value. It returns (nil, nil) when no
// credential applies to this verifier: the header is empty or names a scheme
// other than Bearer.
func (v *Verifier) Verify(header string) (*Identity, error) {
	if header == "" {
		return nil, nil
	}

	parts := strings.Fields(header)
	if len(parts) != 2 {
		return nil, v.fail(MalformedHeader, CodeInvalidHeader, "Invalid Authorization header.")
	}
	if !strings.EqualFold(parts[0], Scheme) {
		return nil, nil
	}

	secret := v.secrets.Resolve()
	if secret == "" {
		return nil, v.fail(ServerMisconfigured, CodeServerConfiguration, "Supabase JWT secret is not configured.")
	}

	token, err := jwt.Parse(parts[1], func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, v.fail(InvalidToken, CodeInvalidToken, fmt.Sprintf("Invalid Supabase token: %v", err))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, v.fail(InvalidToken, CodeInvalidToken, "Invalid Supabase token: unexpected claims type")
	}

	subject := stringClaim(claims, "sub")
	if subject == "" {
		subject = stringClaim(claims, "user_id")
	}
	if subject == "" {
		return nil, v.fail(InvalidToken, CodeInvalidToken, "Supabase token missing subject.")
	}

	return &Identity{Subject: subject, Email: stringClaim(claims, "email")}, nil
}

// IsValid reports whether header carries a verifiable bearer token. Every
// failure, including an absent header, collapses to false.
func (v *Verifier) IsValid(header string) bool {
	identity, err := v.Verify(header)
	return err == nil && identity != nil
}

func (v *Verifier) fail(kind ErrorKind, code, detail string) *Error {
	return &Error{Kind: kind, Code: code, Detail: detail, LoginURL: v.loginURL}
}

// Verify checks header against secrets using the default login URL.
func Verify(header string, secrets Secrets) (*Identity, error) {
	return NewVerifier(secrets, "").Verify(header)
}

func stringClaim(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
