package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/internal/config"
	"github.com/khanhtoandng/me-sub001/internal/models"
	"github.com/khanhtoandng/me-sub001/internal/tokens"
	"github.com/khanhtoandng/me-sub001/internal/users"
	"github.com/khanhtoandng/me-sub001/pkg/logger"
	"github.com/khanhtoandng/me-sub001/pkg/metrics"
	"github.com/khanhtoandng/me-sub001/pkg/middleware"
	"github.com/khanhtoandng/me-sub001/pkg/response"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned inside the success envelope.
type LoginResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"` // seconds
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg    config.AuthConfig
	users  *users.Service
	tokens *tokens.Manager
}

func NewAuthHandler(cfg config.AuthConfig, u *users.Service, tm *tokens.Manager) *AuthHandler {
	return &AuthHandler{cfg: cfg, users: u, tokens: tm}
}

// Register routes under /auth. loginLimit guards the login route.
func (h *AuthHandler) Register(rg *gin.RouterGroup, loginLimit ...gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/login", with(loginLimit, h.Login)...)
	a.POST("/logout", h.Logout)
	a.GET("/me", middleware.APIAuth(h.tokens, h.cfg.CookieName), h.Me)
}

// Login verifies a username/password pair, issues a session token and sets
// the auth cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "username and password are required")
		return
	}
	u, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			metrics.Logins.WithLabelValues("invalid").Inc()
			logger.Warnf("login failed for %q from %s", req.Username, c.ClientIP())
			response.Fail(c, http.StatusUnauthorized, err.Error())
			return
		}
		metrics.Logins.WithLabelValues("error").Inc()
		response.FromError(c, err)
		return
	}
	token, err := h.tokens.Issue(u)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		response.FromError(c, err)
		return
	}
	metrics.Logins.WithLabelValues("success").Inc()
	logger.Infof("login: %s (%s)", u.Username, u.Role)

	h.setCookie(c, token, int(h.cfg.CookieMaxAge/time.Second))
	response.OK(c, http.StatusOK, LoginResponse{User: u, Token: token, ExpiresIn: int64(h.tokens.TTL() / time.Second)})
}

// Logout clears the auth cookie. Tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	response.OK(c, http.StatusOK, gin.H{"loggedOut": true})
}

// Me returns the claims of the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	response.OK(c, http.StatusOK, gin.H{
		"id":        claims.Subject,
		"username":  claims.Username,
		"email":     claims.Email,
		"role":      claims.Role,
		"expiresAt": claims.ExpiresAt.Time,
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, value, maxAge, "/", h.cfg.CookieDomain, h.cfg.CookieSecure, h.cfg.CookieHTTPOnly)
}
