package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/authkeeper/internal/auth"
	"github.com/mrlokans/authkeeper/internal/config"
	"github.com/mrlokans/authkeeper/internal/database"
	"github.com/mrlokans/authkeeper/internal/database/accounts"
)

func setupRouter(t *testing.T, csrfSecret []byte) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "router.db"), database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Auth{
		SessionTTL:    24 * time.Hour,
		RememberMeTTL: config.RememberMeTTL,
		BcryptCost:    bcrypt.MinCost,
		CookieName:    config.DefaultCookieName,
	}
	store := accounts.NewRepository(db.DB)
	manager := auth.NewManager(store, auth.NewBcryptHasher(cfg.BcryptCost),
		auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef")), cfg)

	return NewRouter(RouterConfig{
		Manager:        manager,
		Pinger:         store,
		CSRFSecret:     csrfSecret,
		CSRFCookieName: config.DefaultCSRFCookieName,
		Version:        "test",
	})
}

func postJSON(router *gin.Engine, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRouter_SessionLifecycle(t *testing.T) {
	router := setupRouter(t, nil)
	creds := map[string]any{"username": "alice01", "password": "Secr3t!x"}

	w := postJSON(router, "/api/auth/register", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w = postJSON(router, "/api/auth/login", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	session := cookieNamed(w, config.DefaultCookieName)
	require.NotNil(t, session)

	w = get(router, "/api/auth/check-auth", session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isAuthenticated":true,"user":{"id":"`+userID(t, w)+`","username":"alice01"}}`, w.Body.String())

	w = postJSON(router, "/api/auth/logout", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := cookieNamed(w, config.DefaultCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	w = get(router, "/api/auth/check-auth")
	assert.JSONEq(t, `{"isAuthenticated":false}`, w.Body.String())
}

func userID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.User.ID
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router := setupRouter(t, nil)

	w := get(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	postJSON(router, "/api/auth/login", map[string]any{"username": "nobody", "password": "pw"})

	w = get(router, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "auth_logins_total"))
}

func TestRouter_CSRFProtection(t *testing.T) {
	router := setupRouter(t, []byte("fedcba9876543210fedcba9876543210"))
	creds := map[string]any{"username": "alice01", "password": "Secr3t!x"}

	w := postJSON(router, "/api/auth/register", creds)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(router, "/api/auth/csrf")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	csrfCookie := cookieNamed(w, config.DefaultCSRFCookieName)
	require.NotNil(t, csrfCookie)

	payload, _ := json.Marshal(creds)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.CSRFTokenHeader, body["csrfToken"])
	req.AddCookie(csrfCookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
