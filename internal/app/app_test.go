package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"scorm_rte/internal/config"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Log.File = filepath.Join(dir, "app.log")
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(dir, "rte.db")
	cfg.JWT.Secret = "secret"
	cfg.JWT.ExpireTime = time.Hour
	cfg.LMS.RequestTimeout = time.Second
	cfg.Session.IdleTTL = time.Hour
	cfg.RateLimit.MaxRequests = 100
	cfg.RateLimit.WindowMinutes = 1

	a, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })
	return a
}

func TestAppRoutes(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, _ := json.Marshal(gin.H{"attempt_id": "a1", "version": "1.2"})
	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/rte/sessions", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			SessionID string `json:"session_id"`
			Token     string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	call, _ := json.Marshal(gin.H{"method": "LMSInitialize", "args": []string{""}})
	path := "/api/rte/sessions/" + created.Data.SessionID + "/call"

	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(call)))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(call))
	req.Header.Set("Authorization", "Bearer "+created.Data.Token)
	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"result":true`)

	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "rte_calls_total")
}

func TestApplyConfigRunsCallbacks(t *testing.T) {
	a := newTestApp(t)

	var got *config.Config
	a.RegisterConfigCallback(func(cfg *config.Config) { got = cfg })

	next := *a.Config
	next.LMS.CommCheck = true
	a.ApplyConfig(&next)

	require.Same(t, &next, got)
	require.True(t, a.Config.LMS.CommCheck)
	require.True(t, a.services.rte.Cfg.LMS.CommCheck)
}
