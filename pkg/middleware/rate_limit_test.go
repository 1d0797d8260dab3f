package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/internal/tokens"
	"github.com/khanhtoandng/me-sub001/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	return serveReq(r, httptest.NewRequest(method, path, nil))
}

func serveReq(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))

	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2)) // generous rate
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, serve(r, "GET", "/ok").Code)
	require.Equal(t, http.StatusOK, serve(r, "GET", "/ok").Code)

	after := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	require.Equal(t, 2.0, after-before)
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	// very low rate to force rejections
	r.Use(RateLimitMiddleware(2, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, serve(r, "GET", "/limited").Code)

	w := serve(r, "GET", "/limited")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "1", w.Header().Get("Retry-After"))
	require.JSONEq(t, `{"success":false,"error":"Rate limit exceeded"}`, w.Body.String())

	// 2 rps replenishes one token in 0.5s
	time.Sleep(600 * time.Millisecond)
	require.Equal(t, http.StatusOK, serve(r, "GET", "/limited").Code)
}

func TestRateLimitMiddleware_InstancesAreIndependent(t *testing.T) {
	r := gin.New()
	r.GET("/a", RateLimitMiddleware(0.1, 1), func(c *gin.Context) { c.Status(200) })
	r.GET("/b", RateLimitMiddleware(0.1, 1), func(c *gin.Context) { c.Status(200) })

	require.Equal(t, http.StatusOK, serve(r, "GET", "/a").Code)
	require.Equal(t, http.StatusOK, serve(r, "GET", "/b").Code)
	require.Equal(t, http.StatusTooManyRequests, serve(r, "GET", "/a").Code)
}

func TestRateLimitMiddleware_UsesSubjectWhenPresent(t *testing.T) {
	sub := "user-123"
	r := gin.New()
	r.Use(func(c *gin.Context) {
		claims := &tokens.Claims{}
		claims.Subject = sub
		c.Set(ClaimsKey, claims)
		c.Next()
	})
	r.Use(RateLimitMiddleware(0.1, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, serve(r, "GET", "/u").Code)
	require.Equal(t, http.StatusTooManyRequests, serve(r, "GET", "/u").Code)

	// another subject behind the same IP has its own bucket
	sub = "user-456"
	require.Equal(t, http.StatusOK, serve(r, "GET", "/u").Code)
}
