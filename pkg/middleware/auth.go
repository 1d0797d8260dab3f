package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/internal/models"
	"github.com/khanhtoandng/me-sub001/internal/tokens"
	"github.com/khanhtoandng/me-sub001/pkg/response"
)

// ClaimsKey is the gin context key holding *tokens.Claims for authenticated requests.
const ClaimsKey = "claims"

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(raw string) (*tokens.Claims, error)
}

// ClaimsFrom returns the verified claims stored by the auth middleware.
func ClaimsFrom(c *gin.Context) (*tokens.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*tokens.Claims)
	return claims, ok && claims != nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}

// RequestToken prefers the auth cookie and falls back to a Bearer header.
func RequestToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	return BearerToken(c)
}

// UnderPrefix reports whether path equals prefix or lies below it.
func UnderPrefix(path, prefix string) bool {
	prefix = strings.TrimRight(prefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// DashboardGate redirects page requests under prefix to loginPath unless the
// auth cookie carries a valid token. Other paths pass through untouched.
func DashboardGate(ver Verifier, cookieName, prefix, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !UnderPrefix(path, prefix) {
			c.Next()
			return
		}
		raw, _ := c.Cookie(cookieName)
		claims, err := ver.Verify(raw)
		if err != nil {
			target := loginPath + "?from=" + url.QueryEscape(path)
			c.Redirect(http.StatusTemporaryRedirect, target)
			c.Abort()
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// APIAuth rejects API requests without a valid token with 401.
func APIAuth(ver Verifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := RequestToken(c, cookieName)
		if raw == "" {
			response.AbortFail(c, http.StatusUnauthorized, "authentication required")
			return
		}
		claims, err := ver.Verify(raw)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after APIAuth. Requests whose role is not listed get 403.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			response.AbortFail(c, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		response.AbortFail(c, http.StatusForbidden, "insufficient permissions")
	}
}
