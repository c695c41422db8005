package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantry-chef/backend/internal/auth"
	"github.com/pageza/pantry-chef/backend/internal/middleware"
	"github.com/pageza/pantry-chef/backend/internal/mocks"
	"github.com/pageza/pantry-chef/backend/internal/repository"
	"github.com/pageza/pantry-chef/backend/internal/service"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubVerifier accepts "Bearer ok" as user u1
type stubVerifier struct{}

func (stubVerifier) Verify(header string) (*auth.Identity, error) {
	switch header {
	case "":
		return nil, nil
	case "Bearer ok":
		return &auth.Identity{Subject: "u1"}, nil
	default:
		return nil, auth.ErrInvalidToken
	}
}

func (stubVerifier) LoginURL() string { return "/login" }

func (stubVerifier) IsValid(header string) bool { return header == "Bearer ok" }

type registrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

func setupRouter(handlers ...registrar) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	group := router.Group("/api")
	for _, h := range handlers {
		h.RegisterRoutes(group)
	}
	return router
}

func perform(t *testing.T, router *gin.Engine, method, path string, body any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer ok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestStoreStateStatus(t *testing.T) {
	assert.Equal(t, StoreUnconfigured, StoreState{}.Status())
	assert.Equal(t, StoreMisconfigured, StoreState{Configured: true}.Status())
	assert.Equal(t, StoreConnected, StoreState{Repo: &mocks.MockRepository{}, Configured: true}.Status())

	_, err := StoreState{}.Require()
	var apiErr *types.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
}

func TestHealthReportsPingError(t *testing.T) {
	repo := &mocks.MockRepository{}
	repo.On("Ping", mock.Anything).Return(errors.New("connection refused"))
	router := setupRouter(NewHealthHandler(StoreState{Repo: repo, Configured: true}))

	status, body := perform(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "error: connection refused", body["supabase"])
}

func TestRegister(t *testing.T) {
	valid := map[string]any{"email": "Cook@Example.com", "password": "longenough", "confirm_password": "longenough"}

	t.Run("passwords differ", func(t *testing.T) {
		router := setupRouter(NewAuthHandler(&mocks.MockIdentityProvider{}, stubVerifier{}, nil))
		status, body := perform(t, router, http.MethodPost, "/api/auth/register",
			map[string]any{"email": "cook@example.com", "password": "longenough", "confirm_password": "different1"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Passwords do not match.", body["detail"])
	})

	t.Run("short password", func(t *testing.T) {
		router := setupRouter(NewAuthHandler(&mocks.MockIdentityProvider{}, stubVerifier{}, nil))
		status, body := perform(t, router, http.MethodPost, "/api/auth/register",
			map[string]any{"email": "cook@example.com", "password": "short", "confirm_password": "short"})
		assert.Equal(t, http.StatusBadRequest, status)
		fields := body["errors"].(map[string]any)
		assert.Equal(t, "Ensure this field has at least 8 characters.", fields["password"])
	})

	t.Run("domain not allowed", func(t *testing.T) {
		router := setupRouter(NewAuthHandler(&mocks.MockIdentityProvider{}, stubVerifier{}, []string{"gmail.com"}))
		status, body := perform(t, router, http.MethodPost, "/api/auth/register", valid)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Email domain is not allowed. Please use a trusted provider.", body["detail"])
	})

	t.Run("no identity provider", func(t *testing.T) {
		router := setupRouter(NewAuthHandler(nil, stubVerifier{}, nil))
		status, _ := perform(t, router, http.MethodPost, "/api/auth/register", valid)
		assert.Equal(t, http.StatusServiceUnavailable, status)
	})

	t.Run("provider failure", func(t *testing.T) {
		identity := &mocks.MockIdentityProvider{}
		identity.On("CreateUser", mock.Anything, "cook@example.com", "longenough").Return(errors.New("user already registered"))
		router := setupRouter(NewAuthHandler(identity, stubVerifier{}, nil))

		status, body := perform(t, router, http.MethodPost, "/api/auth/register", valid)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Unable to create account: user already registered", body["detail"])
		identity.AssertNotCalled(t, "InviteUser", mock.Anything, mock.Anything)
	})

	t.Run("created and invited", func(t *testing.T) {
		identity := &mocks.MockIdentityProvider{}
		identity.On("CreateUser", mock.Anything, "cook@example.com", "longenough").Return(nil)
		identity.On("InviteUser", mock.Anything, "cook@example.com").Return(nil)
		router := setupRouter(NewAuthHandler(identity, stubVerifier{}, []string{"example.com"}))

		status, body := perform(t, router, http.MethodPost, "/api/auth/register", valid)
		assert.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "Account created. Please check your inbox to confirm email.", body["message"])
		identity.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	creds := map[string]any{"email": "cook@example.com", "password": "secret"}

	t.Run("session", func(t *testing.T) {
		identity := &mocks.MockIdentityProvider{}
		identity.On("SignInWithPassword", mock.Anything, "cook@example.com", "secret").
			Return(&types.Session{AccessToken: "at", TokenType: "bearer", ExpiresIn: 3600, UserID: "u1"}, nil)
		router := setupRouter(NewAuthHandler(identity, stubVerifier{}, nil))

		status, body := perform(t, router, http.MethodPost, "/api/auth/login", creds)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "at", body["access_token"])
		assert.Equal(t, "u1", body["user_id"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		identity := &mocks.MockIdentityProvider{}
		identity.On("SignInWithPassword", mock.Anything, "cook@example.com", "secret").Return(nil, service.ErrInvalidCredentials)
		router := setupRouter(NewAuthHandler(identity, stubVerifier{}, nil))

		status, body := perform(t, router, http.MethodPost, "/api/auth/login", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, types.ErrCodeInvalidCredentials, body["code"])
	})

	t.Run("provider down", func(t *testing.T) {
		identity := &mocks.MockIdentityProvider{}
		identity.On("SignInWithPassword", mock.Anything, "cook@example.com", "secret").Return(nil, errors.New("timeout"))
		router := setupRouter(NewAuthHandler(identity, stubVerifier{}, nil))

		status, _ := perform(t, router, http.MethodPost, "/api/auth/login", creds)
		assert.Equal(t, http.StatusBadGateway, status)
	})
}

func TestLogout(t *testing.T) {
	router := setupRouter(NewAuthHandler(nil, stubVerifier{}, nil))
	status, body := perform(t, router, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestToggleFavorite(t *testing.T) {
	recipeID := uuid.New()

	t.Run("invalid action", func(t *testing.T) {
		router := setupRouter(NewRecipeHandler(StoreState{Repo: &mocks.MockRepository{}}, stubVerifier{}))
		status, body := perform(t, router, http.MethodPost, "/api/favorites", map[string]any{"recipe_id": recipeID, "action": "star"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, `"star" is not a valid choice.`, body["errors"].(map[string]any)["action"])
	})

	t.Run("unknown recipe", func(t *testing.T) {
		repo := &mocks.MockRepository{}
		repo.On("SetFavorite", mock.Anything, "u1", recipeID, true).Return(repository.ErrRecipeNotFound)
		router := setupRouter(NewRecipeHandler(StoreState{Repo: repo}, stubVerifier{}))

		status, body := perform(t, router, http.MethodPost, "/api/favorites", map[string]any{"recipe_id": recipeID, "action": "add"})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "not_found", body["code"])
	})

	t.Run("removed", func(t *testing.T) {
		repo := &mocks.MockRepository{}
		repo.On("SetFavorite", mock.Anything, "u1", recipeID, false).Return(nil)
		router := setupRouter(NewRecipeHandler(StoreState{Repo: repo}, stubVerifier{}))

		status, body := perform(t, router, http.MethodPost, "/api/favorites", map[string]any{"recipe_id": recipeID, "action": "remove"})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "removed", body["status"])
	})
}

func TestListRecipesRejectsUnknownScope(t *testing.T) {
	router := setupRouter(NewRecipeHandler(StoreState{Repo: &mocks.MockRepository{}}, stubVerifier{}))
	status, body := perform(t, router, http.MethodGet, "/api/recipes?scope=everyone", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "scope")
}

func TestAvatarUploadWithoutStorage(t *testing.T) {
	repo := &mocks.MockRepository{}
	router := setupRouter(NewProfileHandler(service.NewProfileService(repo, nil), StoreState{Repo: repo}, stubVerifier{}))

	status, _ := perform(t, router, http.MethodPost, "/api/profile/avatar", map[string]any{"content_type": "image/png"})
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, body := perform(t, router, http.MethodPost, "/api/profile/avatar", map[string]any{"content_type": "image/gif"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "content_type")
}
