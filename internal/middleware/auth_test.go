package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papochat/papo/pkg/auth"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func protectedRouter(jwtMgr *auth.JWTManager) *gin.Engine {
	r := gin.New()
	r.GET("/rest", AuthMiddleware(jwtMgr, nil), func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"name": claims.Name})
	})
	r.GET("/ws", WSAuthMiddleware(jwtMgr, nil), func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"name": claims.Name})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	jwtMgr := auth.NewJWTManager("secret", time.Hour)
	r := protectedRouter(jwtMgr)

	token, err := jwtMgr.Generate(1, "Ana", "ana@x.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/rest", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/rest", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/rest", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWSAuthMiddleware_QueryToken(t *testing.T) {
	jwtMgr := auth.NewJWTManager("secret", time.Hour)
	r := protectedRouter(jwtMgr)

	token, err := jwtMgr.Generate(1, "Ana", "ana@x.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Header fallback for non-browser clients.
	req = httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/ws", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWSAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtMgr := auth.NewJWTManager("secret", -time.Minute)
	r := protectedRouter(jwtMgr)

	token, err := jwtMgr.Generate(1, "Ana", "ana@x.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
