package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func localeRouter() *gin.Engine {
	g := gin.New()
	g.Use(LocaleRedirect(LocaleOptions{
		Supported:  []string{"en", "vi"},
		Default:    "en",
		CookieName: "NEXT_LOCALE",
		Skip:       DefaultLocaleSkips,
	}))
	g.NoRoute(func(c *gin.Context) {
		c.String(http.StatusOK, "page:%s", c.GetString(LocaleKey))
	})
	return g
}

func localeRequest(g *gin.Engine, method, target, acceptLanguage, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "NEXT_LOCALE", Value: cookie})
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestLocaleRedirect(t *testing.T) {
	g := localeRouter()
	cases := []struct {
		name, target, accept, cookie string
		wantLocation                 string
	}{
		{"root default", "/", "", "", "/en"},
		{"best accept-language match", "/projects", "vi-VN,vi;q=0.9,en;q=0.8", "", "/vi/projects"},
		{"quality ordering", "/projects", "fr;q=1.0,en;q=0.5,vi;q=0.4", "", "/en/projects"},
		{"unsupported falls back", "/about", "ja", "", "/en/about"},
		{"cookie wins", "/about", "en", "vi", "/vi/about"},
		{"unknown cookie ignored", "/about", "vi", "de", "/vi/about"},
		{"query kept", "/projects?status=Published&page=2", "", "", "/en/projects?status=Published&page=2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := localeRequest(g, http.MethodGet, tc.target, tc.accept, tc.cookie)
			require.Equal(t, http.StatusTemporaryRedirect, w.Code)
			require.Equal(t, tc.wantLocation, w.Header().Get("Location"))
		})
	}
}

func TestLocaleRedirect_PassThrough(t *testing.T) {
	g := localeRouter()
	for _, p := range []string{"/en", "/vi/projects", "/api/projects", "/dashboard/x", "/login", "/health", "/favicon.ico", "/static/app.js"} {
		w := localeRequest(g, http.MethodGet, p, "vi", "")
		require.Equal(t, http.StatusOK, w.Code, p)
	}
	w := localeRequest(g, http.MethodGet, "/vi/projects", "", "")
	require.Equal(t, "page:vi", w.Body.String())

	// non-page methods are never redirected
	w = localeRequest(g, http.MethodPost, "/contact", "vi", "")
	require.Equal(t, http.StatusOK, w.Code)
}
