package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receitaapp/receita-server/internal/config"
)

func TestCreateUser_NormalizesEmail(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/user/", map[string]any{
		"email": "Cook@EXAMPLE.com", "password": "testpass123", "name": "Cook",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	body := decode[UserResponse](t, resp)
	assert.Equal(t, "cook@example.com", body.Email)
	assert.Equal(t, "Cook", body.Name)
	assert.NotContains(t, resp.Body.String(), "password")
}

func TestCreateUser_Rejections(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "cook@example.com")

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"empty email", map[string]any{"email": "", "password": "testpass123"}, "email"},
		{"missing password", map[string]any{"email": "new@example.com"}, "password"},
		{"short password", map[string]any{"email": "new@example.com", "password": "pw"}, "password"},
		{"duplicate email", map[string]any{"email": "cook@example.com", "password": "testpass123"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/user/", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
			assert.Contains(t, decode[errorBody](t, resp).Details, tt.field)
		})
	}
}

func TestCreateToken(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "cook@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		resp := ts.api.Post("/api/user/token/", map[string]any{"email": "cook@example.com", "password": "testpass123"})
		require.Equal(t, http.StatusOK, resp.Code)
		assert.NotEmpty(t, decode[TokenResponse](t, resp).Token)
	})

	t.Run("bad password", func(t *testing.T) {
		resp := ts.api.Post("/api/user/token/", map[string]any{"email": "cook@example.com", "password": "wrong"})
		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.NotContains(t, resp.Body.String(), "token\":")
	})

	t.Run("unknown user", func(t *testing.T) {
		resp := ts.api.Post("/api/user/token/", map[string]any{"email": "ghost@example.com", "password": "testpass123"})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("blank password", func(t *testing.T) {
		resp := ts.api.Post("/api/user/token/", map[string]any{"email": "cook@example.com", "password": ""})
		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "This field is required.", decode[errorBody](t, resp).Details["password"])
	})
}

func TestCreateToken_RateLimited(t *testing.T) {
	ts := setupTestServer(t, func(c *config.Config) { c.Auth.TokenRateLimit = 2 })

	creds := map[string]any{"email": "ghost@example.com", "password": "testpass123"}
	assert.Equal(t, http.StatusBadRequest, ts.api.Post("/api/user/token/", creds).Code)
	assert.Equal(t, http.StatusBadRequest, ts.api.Post("/api/user/token/", creds).Code)

	resp := ts.api.Post("/api/user/token/", creds)
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decode[errorBody](t, resp).Code)
}

func TestMe_RequiresAuthentication(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/user/me/")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Authentication credentials were not provided.", decode[errorBody](t, resp).Message)

	resp = ts.api.Get("/api/user/me/", "Authorization: Bearer v4.local.garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestMe_AcceptsTokenScheme(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")
	token := authz[len("Authorization: Bearer "):]

	resp := ts.api.Get("/api/user/me/", "Authorization: Token "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "cook@example.com", decode[UserResponse](t, resp).Email)
}

func TestMe_PatchAndPut(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")

	resp := ts.api.Patch("/api/user/me/", authz, map[string]any{"name": "Chef", "password": "newpass123"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, UserResponse{Email: "cook@example.com", Name: "Chef"}, decode[UserResponse](t, resp))

	// The new password works, the old one does not.
	ts.login(t, "cook@example.com", "newpass123")
	resp = ts.api.Post("/api/user/token/", map[string]any{"email": "cook@example.com", "password": "testpass123"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Put("/api/user/me/", authz, map[string]any{"name": "Only name"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	details := decode[errorBody](t, resp).Details
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")

	resp = ts.api.Put("/api/user/me/", authz, map[string]any{"email": "chef@example.com", "password": "newpass123"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, UserResponse{Email: "chef@example.com", Name: ""}, decode[UserResponse](t, resp))
}

func TestMe_Delete(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")

	resp := ts.api.Delete("/api/user/me/", authz)
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Empty(t, resp.Body.String())

	resp = ts.api.Get("/api/user/me/", authz)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
