package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/2beens/vibefit/internal/config"
	"github.com/2beens/vibefit/internal/session"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerConfig = `
[development]
log_level = "error"
session_store = "memory"
coach_rate_limit_per_min = 0
time_zone = "Asia/Taipei"

[[development.menu]]
exercise = "深蹲"
weights = [60.0, 80.0]

[[development.menu]]
exercise = "跑步"
`

func newTestServer(t *testing.T, mutate func(cfg *config.Config)) *Server {
	t.Helper()
	cfg, err := config.Parse("development", testServerConfig)
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	server, err := NewServer(context.Background(), NewServerParams{
		Config:      cfg,
		Secrets:     &config.Secrets{GeminiAPIKey: "test-key"},
		VersionInfo: "test-version",
	})
	require.NoError(t, err)
	return server
}

func TestNewServer_LocalOnly(t *testing.T) {
	server := newTestServer(t, nil)
	defer server.GracefulShutdown()

	assert.Nil(t, server.dbPool)
	assert.Nil(t, server.redisClient)
	assert.Nil(t, server.sqliteStore)
	assert.False(t, server.service.LogbookAvailable())
	assert.Equal(t, []string{"深蹲", "跑步"}, server.service.Menu().Exercises())
	assert.Len(t, server.service.RestOptions(), 7)

	router := server.routerSetup()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test-version", health.Version)
	assert.False(t, health.LogbookAvailable)
	assert.NotEmpty(t, health.LogbookWarning)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "VibeFit Coach")
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, session.CookieName, rec.Result().Cookies()[0].Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewServer_SQLiteSessions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions", "vibefit.db")
	server := newTestServer(t, func(cfg *config.Config) {
		cfg.SessionStore = config.SessionStoreSQLite
		cfg.SQLitePath = dbPath
	})
	require.NotNil(t, server.sqliteStore)

	router := server.routerSetup()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	state, err := server.sessions.GetOrCreateWithID(context.Background(), cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, cookies[0].Value, state.ID)

	server.GracefulShutdown()
}

func TestNewServer_MissingGeminiKey(t *testing.T) {
	cfg, err := config.Parse("development", testServerConfig)
	require.NoError(t, err)

	server, err := NewServer(context.Background(), NewServerParams{
		Config:  cfg,
		Secrets: &config.Secrets{},
	})
	require.Error(t, err)
	assert.Nil(t, server)
	assert.True(t, config.IsConfigurationError(err))
}

func TestServer_connStateMetrics(t *testing.T) {
	server := newTestServer(t, nil)
	defer server.GracefulShutdown()

	server.connStateMetrics(nil, http.StateNew)
	server.connStateMetrics(nil, http.StateNew)
	server.connStateMetrics(nil, http.StateActive)
	assert.Equal(t, float64(2), testutil.ToFloat64(server.metricsManager.GaugeRequests))

	server.connStateMetrics(nil, http.StateClosed)
	assert.Equal(t, float64(1), testutil.ToFloat64(server.metricsManager.GaugeRequests))
}
