package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantry-chef/backend/config"
	"github.com/pageza/pantry-chef/backend/internal/api"
	"github.com/pageza/pantry-chef/backend/internal/auth"
	"github.com/pageza/pantry-chef/backend/internal/repository"
	"github.com/pageza/pantry-chef/backend/internal/service"
	"github.com/pageza/pantry-chef/backend/internal/testhelpers"
)

const testSecret = "test-jwt-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                 config.Test,
		ServerHost:          "127.0.0.1",
		ServerPort:          "0",
		CORSAllowedOrigins:  []string{"http://localhost:5173"},
		AllowedEmailDomains: []string{"example.com"},
	}
}

func newTestServer(store api.StoreState) *Server {
	return New(testConfig(), Dependencies{
		Store:     store,
		Generator: service.NewRecipeGenerator(nil),
		Verifier:  auth.NewVerifier(auth.Secrets{JWTSecret: testSecret}, "https://app.example.com/login"),
	})
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject, "email": subject + "@example.com"})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func do(t *testing.T, srv *Server, method, path, authHeader string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestCreateSuggestionWithoutModel(t *testing.T) {
	srv := newTestServer(api.StoreState{})

	w := do(t, srv, http.MethodPost, "/api/suggestions", "", map[string]any{
		"ingredients":      []string{"tofu", "broccoli"},
		"diet_preferences": []string{"vegan"},
		"servings":         2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, api.StoreUnconfigured, body["supabase"])
	assert.Nil(t, body["saved_recipe_id"])
	assert.Nil(t, body["history_entry_id"])

	recipe := body["recipe"].(map[string]any)
	assert.Equal(t, float64(2), recipe["servings"])
	assert.Equal(t, "Creative tofu, broccoli Bowl", recipe["title"])
	assert.Equal(t, service.ReasonLLMUnavailable, recipe["source"])
}

func TestCreateSuggestionRejectsEmptyIngredients(t *testing.T) {
	srv := newTestServer(api.StoreState{})

	w := do(t, srv, http.MethodPost, "/api/suggestions", "", map[string]any{"ingredients": []string{}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, "invalid_request", body["code"])
	assert.Contains(t, body["errors"], "ingredients")
}

func TestCreateSuggestionRejectsBadToken(t *testing.T) {
	srv := newTestServer(api.StoreState{})

	w := do(t, srv, http.MethodPost, "/api/suggestions", "Bearer not-a-jwt", map[string]any{"ingredients": []string{"rice"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	assert.Equal(t, auth.CodeInvalidToken, decode(t, w)["code"])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(api.StoreState{Configured: true})

	w := do(t, srv, http.MethodGet, "/api/health", "Bearer garbage", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, api.StoreMisconfigured, body["supabase"])
}

func TestTrailingSlashRedirects(t *testing.T) {
	srv := newTestServer(api.StoreState{})

	w := do(t, srv, http.MethodGet, "/api/health/", "", nil)
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/api/health", w.Header().Get("Location"))
}

func TestProtectedRoutesRequireIdentity(t *testing.T) {
	srv := newTestServer(api.StoreState{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/recipes"},
		{http.MethodPost, "/api/favorites"},
		{http.MethodGet, "/api/history"},
		{http.MethodGet, "/api/recommendations"},
		{http.MethodGet, "/api/profile"},
		{http.MethodPut, "/api/profile"},
		{http.MethodPost, "/api/profile/avatar"},
	}
	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := do(t, srv, route.method, route.path, "", nil)
			require.Equal(t, http.StatusUnauthorized, w.Code)

			body := decode(t, w)
			assert.Equal(t, "auth_required", body["code"])
			assert.Equal(t, "https://app.example.com/login", body["login_url"])
		})
	}
}

func TestProtectedRoutesWithoutStore(t *testing.T) {
	srv := newTestServer(api.StoreState{})

	w := do(t, srv, http.MethodGet, "/api/recipes", bearer(t, "cook-1"), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthStatus(t *testing.T) {
	srv := newTestServer(api.StoreState{})

	w := do(t, srv, http.MethodGet, "/api/auth/status", "Bearer garbage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["isLoggedIn"])

	w = do(t, srv, http.MethodGet, "/api/auth/status", bearer(t, "cook-1"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["isLoggedIn"])
}

func TestSignedInFlowOnSQLite(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	srv := newTestServer(api.StoreState{Repo: repository.NewGormRepository(db), Configured: true})
	token := bearer(t, "cook-1")

	w := do(t, srv, http.MethodPost, "/api/suggestions", token, map[string]any{
		"ingredients": []string{"Tofu", "broccoli", "salt"},
		"servings":    3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, api.StoreConnected, body["supabase"])
	recipeID, ok := body["saved_recipe_id"].(string)
	require.True(t, ok, "saved_recipe_id should be set")
	assert.NotNil(t, body["history_entry_id"])

	w = do(t, srv, http.MethodGet, "/api/recipes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["recipes"], 1)

	w = do(t, srv, http.MethodGet, "/api/recipes?limit=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodGet, "/api/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["history"], 1)

	w = do(t, srv, http.MethodGet, "/api/recommendations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w)["suggestions"], "tofu")

	w = do(t, srv, http.MethodPost, "/api/favorites", token, map[string]any{"recipe_id": recipeID, "action": "add"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "added", decode(t, w)["status"])

	w = do(t, srv, http.MethodGet, "/api/recipes?scope=favorites", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["recipes"], 1)

	// another user's history stays private
	w = do(t, srv, http.MethodGet, "/api/history", bearer(t, "cook-2"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["history"])
}
