package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/pkg/logger"
	"github.com/khanhtoandng/me-sub001/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf, false)
	defer logger.SetOutput(os.Stdout, true)
	logger.Init("info")

	g := gin.New()
	g.Use(RequestLogger())
	g.GET("/api/items/:id", func(c *gin.Context) { c.String(http.StatusNotFound, "nope") })

	counter := metrics.HTTPRequests.WithLabelValues("GET", "/api/items/:id", "404")
	before := testutil.ToFloat64(counter)

	w := serve(g, http.MethodGet, "/api/items/42?token=secret")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, 1.0, testutil.ToFloat64(counter)-before)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "/api/items/42", entry["path"])
	require.EqualValues(t, 404, entry["status"])
	require.False(t, strings.Contains(buf.String(), "secret"))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	g := gin.New()
	g.Use(CORS([]string{"https://admin.example.com"}))
	g.GET("/api/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodOptions, "/api/x", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	w := serveReq(g, req)
	require.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req, _ = http.NewRequest(http.MethodGet, "/api/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serveReq(g, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
