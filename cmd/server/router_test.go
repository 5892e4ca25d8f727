package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/progress-api/internal/config"
	"github.com/yukikurage/progress-api/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	database.SetDB(db)
	require.NoError(t, database.Migrate())

	cfg := &config.Config{
		GinMode:       gin.TestMode,
		SessionSecret: "test-session-secret",
		JWTSecret:     "test-jwt-secret",
		JWTTTLHours:   1,
		CORSOrigins:   []string{"http://localhost:3000"},
	}

	store, err := newSessionStore(cfg)
	require.NoError(t, err)

	return newRouter(cfg, db, store)
}

func TestRouter_Health(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouter_PublicAndProtectedRoutes(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		method string
		path   string
		code   int
	}{
		{http.MethodGet, "/api/projects/community/", http.StatusOK},
		{http.MethodGet, "/api/projects/", http.StatusUnauthorized},
		{http.MethodGet, "/api/tasks/1/", http.StatusUnauthorized},
		{http.MethodGet, "/api/focus-sessions/reports/", http.StatusUnauthorized},
		{http.MethodGet, "/api/notifications/unread_count", http.StatusUnauthorized},
		{http.MethodPost, "/api/communities/1/add_member", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestRouter_RegisterThenLogin(t *testing.T) {
	r := setupRouter(t)

	body := `{"username":"router-user","password":"supersecret"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/register/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/login/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"access_token"`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/projects/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
