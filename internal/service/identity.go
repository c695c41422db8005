package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pageza/pantry-chef/backend/internal/types"
)

var (
	// ErrIdentityUnavailable is returned when the identity provider is not configured
	ErrIdentityUnavailable = errors.New("supabase credentials are not configured")
	// ErrInvalidCredentials is returned when a password sign-in is rejected
	ErrInvalidCredentials = errors.New("invalid login credentials")
)

// IdentityProvider is the external account service
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password string) error
	InviteUser(ctx context.Context, email string) error
	SignInWithPassword(ctx context.Context, email, password string) (*types.Session, error)
}

// IdentityConfig configures IdentityClient
type IdentityConfig struct {
	URL            string
	ServiceRoleKey string
	AnonKey        string
	Timeout        time.Duration
}

// IdentityClient talks to a Supabase GoTrue auth server
type IdentityClient struct {
	http       *resty.Client
	serviceKey string
	publicKey  string
}

var _ IdentityProvider = (*IdentityClient)(nil)

// NewIdentityClient creates a client. It needs the project URL and at least
// one API key.
func NewIdentityClient(cfg IdentityConfig) (*IdentityClient, error) {
	if cfg.URL == "" || (cfg.ServiceRoleKey == "" && cfg.AnonKey == "") {
		return nil, ErrIdentityUnavailable
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	publicKey := cfg.AnonKey
	if publicKey == "" {
		publicKey = cfg.ServiceRoleKey
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/") + "/auth/v1").
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &IdentityClient{http: client, serviceKey: cfg.ServiceRoleKey, publicKey: publicKey}, nil
}

func (c *IdentityClient) admin(ctx context.Context) (*resty.Request, error) {
	if c.serviceKey == "" {
		return nil, fmt.Errorf("admin call: %w", ErrIdentityUnavailable)
	}
	return c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.serviceKey).
		SetAuthToken(c.serviceKey), nil
}

// CreateUser creates an account that still needs email confirmation.
func (c *IdentityClient) CreateUser(ctx context.Context, email, password string) error {
	req, err := c.admin(ctx)
	if err != nil {
		return err
	}
	resp, err := req.
		SetBody(map[string]any{"email": email, "password": password, "email_confirm": false}).
		Post("/admin/users")
	return checkResponse("create user", resp, err)
}

// InviteUser sends the confirmation email for email.
func (c *IdentityClient) InviteUser(ctx context.Context, email string) error {
	req, err := c.admin(ctx)
	if err != nil {
		return err
	}
	resp, err := req.SetBody(map[string]any{"email": email}).Post("/invite")
	return checkResponse("invite user", resp, err)
}

// SignInWithPassword exchanges credentials for a session.
func (c *IdentityClient) SignInWithPassword(ctx context.Context, email, password string) (*types.Session, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.publicKey).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]any{"email": email, "password": password}).
		Post("/token")
	if err != nil {
		return nil, &CallError{Op: "sign in", Err: err}
	}
	if resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if err := checkResponse("sign in", resp, nil); err != nil {
		return nil, err
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &CallError{Op: "sign in", Err: fmt.Errorf("decode session: %w", err)}
	}
	session, err := adaptSession(body)
	if err != nil {
		return nil, &CallError{Op: "sign in", Err: err}
	}
	return session, nil
}

func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return &CallError{Op: op, Err: err}
	}
	if !resp.IsError() {
		return nil
	}
	return &CallError{Op: op, StatusCode: resp.StatusCode(), Err: errors.New(providerMessage(resp.Body()))}
}

func providerMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"msg", "message", "error_description", "error"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return "empty response"
}

// adaptSession reads both response shapes the provider produces: a wrapper
// {"session": {...}, "user": {...}} and the flat token response.
func adaptSession(body map[string]any) (*types.Session, error) {
	tokens := body
	if nested, ok := body["session"].(map[string]any); ok {
		tokens = nested
	}

	user, _ := body["user"].(map[string]any)
	if user == nil {
		user, _ = tokens["user"].(map[string]any)
	}

	session := &types.Session{
		AccessToken:  stringOr(tokens["access_token"], ""),
		RefreshToken: stringOr(tokens["refresh_token"], ""),
		TokenType:    stringOr(tokens["token_type"], "bearer"),
		ExpiresIn:    intOr(tokens["expires_in"], 0),
	}
	if user != nil {
		session.UserID = stringOr(user["id"], "")
		session.Email = stringOr(user["email"], "")
	}
	if session.AccessToken == "" {
		return nil, errors.New("response carries no access token")
	}
	return session, nil
}
