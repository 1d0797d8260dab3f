package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/internal/config"
	"github.com/khanhtoandng/me-sub001/internal/models"
	"github.com/khanhtoandng/me-sub001/internal/tokens"
	"github.com/khanhtoandng/me-sub001/internal/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "server-test-secret-xxxxxxxxxxxxxxxxxx"

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       testSecret,
			TokenTTL:        time.Hour,
			CookieName:      "auth-token",
			CookieMaxAge:    24 * time.Hour,
			ProtectedPrefix: "/dashboard",
			LoginPath:       "/login",
		},
		Locale: config.LocaleConfig{Supported: []string{"en", "vi"}, Default: "en", CookieName: "NEXT_LOCALE"},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

type fixture struct {
	router *gin.Engine
	tokens *tokens.Manager
}

func newFixture(t *testing.T, checks map[string]Check) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	tm := tokens.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	us := users.NewService(users.NewMemoryUserRepository(), bcrypt.MinCost)
	_, err := us.EnsureUser(context.Background(), "admin", "admin@example.com", "s3cret", models.RoleAdmin)
	require.NoError(t, err)

	r := New(Deps{
		Config:  cfg,
		Tokens:  tm,
		Users:   us,
		Content: NewMemoryContent(),
		Checks:  checks,
		Metrics: promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
	})
	return fixture{router: r, tokens: tm}
}

func (f fixture) token(t *testing.T, role models.Role) string {
	t.Helper()
	tok, err := f.tokens.Issue(&models.User{ID: "u-" + string(role), Username: string(role), Role: role})
	require.NoError(t, err)
	return tok
}

func (f fixture) do(method, path, body string, header http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestDashboardGate(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/dashboard/projects", "", nil)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login?from=%2Fdashboard%2Fprojects", w.Header().Get("Location"))

	tampered := f.token(t, models.RoleAdmin) + "x"
	w = f.do(http.MethodGet, "/dashboard", "", nil, &http.Cookie{Name: "auth-token", Value: tampered})
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	valid := f.token(t, models.RoleViewer)
	w = f.do(http.MethodGet, "/dashboard", "", nil, &http.Cookie{Name: "auth-token", Value: valid})
	assert.NotEqual(t, http.StatusTemporaryRedirect, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
}

func TestLoginCookieOpensDashboard(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"s3cret"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth-token" {
			session = c
		}
	}
	require.NotNil(t, session)

	w = f.do(http.MethodGet, "/dashboard", "", nil, session)
	assert.NotEqual(t, http.StatusTemporaryRedirect, w.Code)
}

func TestLocaleRedirect(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/projects?page=2", "", http.Header{"Accept-Language": {"vi-VN,vi;q=0.9"}})
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/vi/projects?page=2", w.Header().Get("Location"))

	w = f.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/en", w.Header().Get("Location"))

	// API and login paths are never rewritten
	w = f.do(http.MethodGet, "/api/projects", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(http.MethodGet, "/login", "", nil)
	assert.NotEqual(t, http.StatusTemporaryRedirect, w.Code)
}

func TestContentWritesRequireEditor(t *testing.T) {
	f := newFixture(t, nil)
	body := `{"title":"Site","description":"Portfolio","projectType":"Website"}`

	w := f.do(http.MethodPost, "/api/projects", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	viewer := http.Header{"Authorization": {"Bearer " + f.token(t, models.RoleViewer)}}
	w = f.do(http.MethodPost, "/api/projects", body, viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	editor := &http.Cookie{Name: "auth-token", Value: f.token(t, models.RoleEditor)}
	w = f.do(http.MethodPost, "/api/projects", body, nil, editor)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Site"`)

	w = f.do(http.MethodPost, "/api/ai/enhance", `{"text":"hi","type":"general","action":"enhance"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = f.do(http.MethodPost, "/api/upload", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	f := newFixture(t, map[string]Check{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("down") },
	})

	w := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", w.Body.String())

	w = f.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":false`)
	assert.Contains(t, w.Body.String(), `"mongo":true`)

	w = f.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/social-links")

	w = f.do(http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"not found"}`, w.Body.String())
}

func TestReadyWithoutChecks(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)
}
