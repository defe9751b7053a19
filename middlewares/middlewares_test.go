package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireAuth(testSecret), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, CurrentUserEmail(ctx))
	})
	r.GET("/admin", RequireAuth(testSecret), RequireAdmin(), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newRouter()
	exp := time.Now().Add(time.Hour).Unix()

	w := get(r, "/me", signed(t, testSecret, jwt.MapClaims{"email": "amina@example.com", "role": "user", "exp": exp}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "amina@example.com", w.Body.String())

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", signed(t, "other", jwt.MapClaims{"email": "amina@example.com", "exp": exp})},
		{"expired", signed(t, testSecret, jwt.MapClaims{"email": "amina@example.com", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"no email", signed(t, testSecret, jwt.MapClaims{"role": "user", "exp": exp})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, get(r, "/me", tt.token).Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter()
	exp := time.Now().Add(time.Hour).Unix()

	user := signed(t, testSecret, jwt.MapClaims{"email": "amina@example.com", "role": "user", "exp": exp})
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", user).Code)

	admin := signed(t, testSecret, jwt.MapClaims{"email": "admin@kitchen.com", "role": RoleAdmin, "exp": exp})
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", admin).Code)
}
