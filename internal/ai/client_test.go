package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khanhtoandng/me-sub001/internal/config"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.AIConfig{APIKey: "test-key", Model: "gemini-test", BaseURL: srv.URL})
}

func TestGenerate_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		body, _ := io.ReadAll(r.Body)
		require.Equal(t, "hello", gjson.GetBytes(body, "contents.0.parts.0.text").String())
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{"content": map[string]interface{}{"parts": []interface{}{map[string]string{"text": "  improved text \n"}}}},
			},
		})
	})
	out, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, "improved text", out)
}

func TestGenerate_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"code":429,"message":"Resource has been exhausted"}}`, func(t *testing.T, err error) {
			require.ErrorIs(t, err, ErrRateLimited)
		}},
		{"bad key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key."}}`, func(t *testing.T, err error) {
			require.ErrorIs(t, err, ErrNotConfigured)
		}},
		{"forbidden", http.StatusForbidden, `{}`, func(t *testing.T, err error) {
			require.ErrorIs(t, err, ErrNotConfigured)
		}},
		{"server error", http.StatusServiceUnavailable, `{"error":{"message":"model overloaded"}}`, func(t *testing.T, err error) {
			var perr *ProviderError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, http.StatusServiceUnavailable, perr.StatusCode)
			require.Equal(t, "model overloaded", perr.Message)
		}},
		{"blocked prompt", http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`, func(t *testing.T, err error) {
			var perr *ProviderError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, "SAFETY", perr.Message)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := c.Generate(context.Background(), "x")
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestGenerate_NotConfigured(t *testing.T) {
	c := NewClient(config.AIConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Generate(context.Background(), "x")
	require.True(t, errors.Is(err, ErrNotConfigured))
}
