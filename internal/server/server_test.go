package server

import (
	"database/sql"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"scent-store/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDatabase struct {
	closed bool
}

func (f *fakeDatabase) Health() map[string]string { return map[string]string{"status": "up"} }
func (f *fakeDatabase) DB() *sql.DB               { return nil }
func (f *fakeDatabase) Close() error {
	f.closed = true
	return nil
}

func testConfig(redisAddr string) *config.Config {
	host, port, _ := net.SplitHostPort(redisAddr)
	return &config.Config{
		Server:  config.ServerConfig{Port: "0", Env: "development"},
		Redis:   config.RedisConfig{Host: host, Port: port},
		Session: config.SessionConfig{Secret: "test-secret", KeyPrefix: "test", TTL: time.Hour},
		Admin:   config.AdminConfig{DefaultKey: "Khazina123"},
		Checkout: config.CheckoutConfig{
			RateLimit:  1,
			RateWindow: time.Minute,
		},
	}
}

func TestNewServer_HealthReportsRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	db := &fakeDatabase{}
	srv := NewServer(testConfig(mr.Addr()), zap.NewNop(), db)
	defer srv.Close()

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var health struct {
		Status   string            `json:"status"`
		Sessions map[string]string `json:"sessions"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "redis", health.Sessions["backend"])
}

func TestNewServer_FallsBackToMemorySessions(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	srv := NewServer(testConfig(addr), zap.NewNop(), &fakeDatabase{})
	defer srv.Close()
	assert.Nil(t, srv.redis)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Contains(t, w.Body.String(), `"backend":"memory"`)

	// Sessions still work without Redis
	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/categories", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestNewServer_ExposesMetrics(t *testing.T) {
	mr := miniredis.RunT(t)
	srv := NewServer(testConfig(mr.Addr()), zap.NewNop(), &fakeDatabase{})
	defer srv.Close()

	srv.Handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/bundles", nil))

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "store_live_sessions 1"), w.Body.String())
}

func TestNewServer_AdminRoutesAreGuarded(t *testing.T) {
	mr := miniredis.RunT(t)
	srv := NewServer(testConfig(mr.Addr()), zap.NewNop(), &fakeDatabase{})
	defer srv.Close()

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/admin/orders", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestServer_CloseReleasesResources(t *testing.T) {
	mr := miniredis.RunT(t)
	db := &fakeDatabase{}
	srv := NewServer(testConfig(mr.Addr()), zap.NewNop(), db)

	require.NoError(t, srv.Close())
	assert.True(t, db.closed)
}
