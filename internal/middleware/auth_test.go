package middleware

import (
	"net/http"
	"net/http/httptest"
	"scorm_rte/internal/config"
	"scorm_rte/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/sessions/:id/call", SessionAuthMiddleware(cfg), func(c *gin.Context) {
		claims := util.GetSessionFromContext(c)
		c.String(http.StatusOK, claims.AttemptID)
	})
	return r
}

func TestSessionAuthMiddleware(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "secret"
	r := newAuthRouter(cfg)

	token, _, err := util.GenerateSessionToken("s1", "a1", "secret", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing token", "/sessions/s1/call", "", http.StatusUnauthorized},
		{"bad token", "/sessions/s1/call", "Bearer nope", http.StatusUnauthorized},
		{"other session", "/sessions/s2/call", "Bearer " + token, http.StatusForbidden},
		{"header token", "/sessions/s1/call", "Bearer " + token, http.StatusOK},
		{"query token", "/sessions/s1/call?token=" + token, "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				require.Equal(t, "a1", w.Body.String())
			}
		})
	}
}
