package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/khanhtoandng/me-sub001/internal/config"
)

func TestNewMinIOStorage_NotConfigured(t *testing.T) {
	_, err := NewMinIOStorage(context.Background(), config.StorageConfig{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestURL_PublicBase(t *testing.T) {
	s := &MinIOStorage{bucket: "portfolio", publicBase: "https://cdn.example.com"}
	u, err := s.URL(context.Background(), "images/2024/a.png")
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if u != "https://cdn.example.com/portfolio/images/2024/a.png" {
		t.Fatalf("unexpected url %s", u)
	}
	if strings.Contains(u, "X-Amz") {
		t.Fatalf("public url must not be presigned")
	}
}
