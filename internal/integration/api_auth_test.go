package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

const testJWTSecret = "integration-secret"

func TestAuth_ProtectsAPIRoutes(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	env := newTestEnv(t, []string{"m1"}, map[string]modelReply{
		"m1": {status: http.StatusOK, text: "# Tacos"},
	}, testJWTSecret)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"expired", createTestToken(testJWTSecret, "snapchef", "user-1", -time.Hour), http.StatusUnauthorized},
		{"wrong secret", createTestToken("nope", "snapchef", "user-1", time.Hour), http.StatusUnauthorized},
		{"wrong issuer", createTestToken(testJWTSecret, "other", "user-1", time.Hour), http.StatusUnauthorized},
		{"valid", createTestToken(testJWTSecret, "snapchef", "user-1", time.Hour), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := recipeRequest(t, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			rr := env.do(req)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}

	assert.Equal(t, []string{"m1"}, env.gemini.Calls(), "only the authorized request reaches the model")
}

func TestAuth_HealthIsPublic(t *testing.T) {
	env := newTestEnv(t, []string{"m1"}, nil, testJWTSecret)

	rr := env.do(newRequest(http.MethodGet, "/health"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(newRequest(http.MethodGet, "/api/options"))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeJSON(t, rr)["type"])
}
