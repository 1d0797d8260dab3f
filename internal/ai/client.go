// Package ai wraps a generative text API (Gemini generateContent) to rewrite
// portfolio copy.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/khanhtoandng/me-sub001/internal/config"
	"github.com/tidwall/gjson"
)

var (
	// ErrNotConfigured means no API key is set or the provider rejected it.
	ErrNotConfigured = errors.New("AI service is not configured")
	// ErrRateLimited is returned when the provider answers 429.
	ErrRateLimited = errors.New("AI provider rate limit exceeded")
)

// ProviderError carries a failure reported by the provider.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("AI provider error (%d): %s", e.StatusCode, e.Message)
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client calls POST {base}/v1beta/models/{model}:generateContent.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.AIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

type part struct {
	Text string `json:"text"`
}

type contentPart struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []contentPart `json:"contents"`
	GenerationConfig struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	body := generateRequest{Contents: []contentPart{{Parts: []part{{Text: prompt}}}}}
	body.GenerationConfig.Temperature = 0.7
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("ai response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(raw, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return "", fmt.Errorf("%w: %s", ErrRateLimited, msg)
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden,
			strings.Contains(strings.ToLower(msg), "api key"):
			return "", fmt.Errorf("%w: %s", ErrNotConfigured, msg)
		}
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: msg}
	}

	text := gjson.GetBytes(raw, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		reason := gjson.GetBytes(raw, "promptFeedback.blockReason").String()
		if reason == "" {
			reason = "empty response"
		}
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: reason}
	}
	return strings.TrimSpace(text.String()), nil
}
