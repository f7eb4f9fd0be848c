package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestParseBearer(t *testing.T) {
	token, ok := ParseBearer("Bearer abc.def")
	require.True(t, ok)
	require.Equal(t, "abc.def", token)

	token, ok = ParseBearer("bearer   xyz ")
	require.True(t, ok)
	require.Equal(t, "xyz", token)

	_, ok = ParseBearer("Basic Zm9v")
	require.False(t, ok)
	_, ok = ParseBearer("Bearer ")
	require.False(t, ok)
}

func TestTokenContext(t *testing.T) {
	ctx := WithToken(context.Background(), " t1 ")
	require.Equal(t, "t1", TokenFrom(ctx))
	require.Empty(t, TokenFrom(WithToken(context.Background(), "")))
}

func TestBearerForwarding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BearerForwarding())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, TokenFrom(c.Request.Context()))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer operator-token")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "operator-token", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token nope")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRequireBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BearerForwarding(), RequireBearer("/api/admin"))
	var reached int
	handler := func(c *gin.Context) {
		reached++
		c.Status(http.StatusNoContent)
	}
	router.GET("/api/admin/orders", handler)
	router.GET("/healthz", handler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	require.Zero(t, reached)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer operator-token")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, 2, reached)
}
