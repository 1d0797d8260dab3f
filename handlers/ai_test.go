package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/internal/ai"
	"github.com/khanhtoandng/me-sub001/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	out string
	err error
}

func (f fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.out, f.err
}

func aiRouter(gen ai.Generator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAIHandler(ai.NewEnhancer(gen)).Register(r.Group("/api"))
	return r
}

func TestAIEnhance_ResponseShapes(t *testing.T) {
	r := aiRouter(fakeGenerator{out: "Shiny new text"})
	w := postJSON(r, "/api/ai/enhance", `{"text":"old text","type":"hero","action":"enhance"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"data":{"text":"Shiny new text"}}`, w.Body.String())

	r = aiRouter(fakeGenerator{out: "1. one\n2. two"})
	w = postJSON(r, "/api/ai/enhance", `{"text":"old text","action":"suggestions"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"suggestions":["one","two"]}}`, w.Body.String())

	w = postJSON(r, "/api/ai/enhance", `{"text":"old text","action":"variations","count":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"variations":["one"]}}`, w.Body.String())
}

func TestAIEnhance_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		body   string
		status int
		msg    string
	}{
		{"bad input", nil, `{"text":""}`, http.StatusBadRequest, "text is required"},
		{"rate limit passthrough", fmt.Errorf("%w: quota", ai.ErrRateLimited), `{"text":"x"}`, http.StatusTooManyRequests, "quota"},
		{"missing key", ai.ErrNotConfigured, `{"text":"x"}`, http.StatusInternalServerError, "not configured"},
		{"provider message", &ai.ProviderError{StatusCode: 503, Message: "model overloaded"}, `{"text":"x"}`, http.StatusInternalServerError, "model overloaded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := aiRouter(fakeGenerator{err: tc.err})
			w := postJSON(r, "/api/ai/enhance", tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.msg)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestAIEnhance_MetricLabels(t *testing.T) {
	r := aiRouter(fakeGenerator{out: "better"})
	okEnhance := metrics.AIRequests.WithLabelValues("enhance", "ok")
	invalid := metrics.AIRequests.WithLabelValues("invalid", "invalid")
	before, beforeInvalid := testutil.ToFloat64(okEnhance), testutil.ToFloat64(invalid)

	// no action given: counted under the defaulted action
	w := postJSON(r, "/api/ai/enhance", `{"text":"old text"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(okEnhance))

	w = postJSON(r, "/api/ai/enhance", `{"text":"old text","action":"made-up-action"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, beforeInvalid+1, testutil.ToFloat64(invalid))
	assert.Zero(t, testutil.ToFloat64(metrics.AIRequests.WithLabelValues("made-up-action", "invalid")))
}
