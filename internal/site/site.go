// Package site serves the static export of the public pages and dashboard.
package site

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/pkg/response"
)

// Site resolves page paths against a directory of exported HTML and assets.
type Site struct {
	dir string
}

// New returns a Site rooted at dir. An empty dir disables page serving.
func New(dir string) *Site {
	return &Site{dir: dir}
}

// Handler is meant for gin's NoRoute. Unknown API paths and missing pages get
// a 404 envelope.
func (s *Site) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if s.dir == "" || strings.HasPrefix(p, "/api/") || p == "/api" {
			response.Fail(c, http.StatusNotFound, "not found")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			response.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if file, ok := s.Resolve(p); ok {
			c.File(file)
			return
		}
		if notFound, ok := s.lookup("/404.html"); ok {
			if b, err := os.ReadFile(notFound); err == nil {
				c.Data(http.StatusNotFound, "text/html; charset=utf-8", b)
				return
			}
		}
		response.Fail(c, http.StatusNotFound, "not found")
	}
}

// Resolve maps a URL path to a file: /p, /p.html, then /p/index.html.
func (s *Site) Resolve(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	candidates := []string{clean, clean + ".html", path.Join(clean, "index.html")}
	if clean == "/" {
		candidates = []string{"/index.html"}
	}
	for _, cand := range candidates {
		if f, ok := s.lookup(cand); ok {
			return f, true
		}
	}
	return "", false
}

func (s *Site) lookup(clean string) (string, bool) {
	full := filepath.Join(s.dir, filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}
