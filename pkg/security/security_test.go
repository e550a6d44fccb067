package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func serve(r *gin.Engine, method, path, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://lms.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/x", "https://lms.example")
	require.Equal(t, "https://lms.example", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = serve(r, http.MethodGet, "/x", "https://evil.example")
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodOptions, "/x", "https://lms.example")
	require.Equal(t, http.StatusNoContent, w.Code)

	wild := gin.New()
	wild.Use(CORS([]string{"*"}))
	wild.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = serve(wild, http.MethodGet, "/x", "https://cdn.example")
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRateLimiterPerSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/sessions/:id/call", RateLimiter(2, time.Hour), func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/sessions/a/call", "").Code)
	require.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/sessions/a/call", "").Code)
	require.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/sessions/a/call", "").Code)
	require.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/sessions/b/call", "").Code)
}

func TestSecureHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Secure())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/x", "")
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
