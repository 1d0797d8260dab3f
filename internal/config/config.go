package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	AI        AIConfig
	Storage   StorageConfig
	Locale    LocaleConfig
	CORS      CORSConfig
	Site      SiteConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	LogLevel     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// IsProduction reports whether the server runs with production settings.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig configures session tokens, the auth cookie and the dashboard gate.
type AuthConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	CookieName      string
	CookieMaxAge    time.Duration
	CookieDomain    string
	CookieSecure    bool
	CookieHTTPOnly  bool
	ProtectedPrefix string
	LoginPath       string
	BcryptCost      int

	// optional bootstrap account, created or updated at startup
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
	// stricter limits applied to login and AI routes
	LoginRPS   float64
	LoginBurst int
	AIRPS      float64
	AIBurst    int
}

type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	UseSSL         bool
	Bucket         string
	PublicBaseURL  string
	MaxUploadBytes int64
}

type LocaleConfig struct {
	Supported  []string
	Default    string
	CookieName string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type SiteConfig struct {
	StaticDir string
}

// ErrMissingJWTSecret is returned when no signing key is configured.
var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required")

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGODB_DATABASE", "portfolio")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_TOKEN_TTL", 1440)
	v.SetDefault("AUTH_COOKIE_NAME", "auth-token")
	v.SetDefault("AUTH_COOKIE_MAX_AGE_DAYS", 7)
	v.SetDefault("AUTH_COOKIE_HTTP_ONLY", false)
	v.SetDefault("AUTH_PROTECTED_PREFIX", "/dashboard")
	v.SetDefault("AUTH_LOGIN_PATH", "/login")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("RATE_LIMIT_LOGIN_RPS", 0.2)
	v.SetDefault("RATE_LIMIT_LOGIN_BURST", 5)
	v.SetDefault("RATE_LIMIT_AI_RPS", 0.5)
	v.SetDefault("RATE_LIMIT_AI_BURST", 3)
	v.SetDefault("AI_MODEL", "gemini-2.0-flash")
	v.SetDefault("AI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("AI_TIMEOUT", 30)
	v.SetDefault("MINIO_BUCKET", "portfolio")
	v.SetDefault("UPLOAD_MAX_BYTES", 5<<20)
	v.SetDefault("DEFAULT_LOCALE", "en")
	v.SetDefault("LOCALE_COOKIE", "NEXT_LOCALE")

	locales := parseList(v.GetString("LOCALES"), []string{"en", "vi"})
	defaultLocale := v.GetString("DEFAULT_LOCALE")
	if !contains(locales, defaultLocale) {
		defaultLocale = locales[0]
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			LogLevel:     v.GetString("LOG_LEVEL"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret:       v.GetString("JWT_SECRET"),
			TokenTTL:        time.Duration(v.GetInt("JWT_TOKEN_TTL")) * time.Minute,
			CookieName:      v.GetString("AUTH_COOKIE_NAME"),
			CookieMaxAge:    time.Duration(v.GetInt("AUTH_COOKIE_MAX_AGE_DAYS")) * 24 * time.Hour,
			CookieDomain:    v.GetString("AUTH_COOKIE_DOMAIN"),
			CookieSecure:    v.GetBool("AUTH_COOKIE_SECURE"),
			CookieHTTPOnly:  v.GetBool("AUTH_COOKIE_HTTP_ONLY"),
			ProtectedPrefix: v.GetString("AUTH_PROTECTED_PREFIX"),
			LoginPath:       v.GetString("AUTH_LOGIN_PATH"),
			BcryptCost:      v.GetInt("BCRYPT_COST"),
			AdminUsername:   v.GetString("ADMIN_USERNAME"),
			AdminEmail:      v.GetString("ADMIN_EMAIL"),
			AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
			LoginRPS:      v.GetFloat64("RATE_LIMIT_LOGIN_RPS"),
			LoginBurst:    v.GetInt("RATE_LIMIT_LOGIN_BURST"),
			AIRPS:         v.GetFloat64("RATE_LIMIT_AI_RPS"),
			AIBurst:       v.GetInt("RATE_LIMIT_AI_BURST"),
		},
		AI: AIConfig{
			APIKey:  v.GetString("AI_API_KEY"),
			Model:   v.GetString("AI_MODEL"),
			BaseURL: strings.TrimRight(v.GetString("AI_BASE_URL"), "/"),
			Timeout: time.Duration(v.GetInt("AI_TIMEOUT")) * time.Second,
		},
		Storage: StorageConfig{
			Endpoint:       v.GetString("MINIO_ENDPOINT"),
			AccessKey:      v.GetString("MINIO_ACCESS_KEY"),
			SecretKey:      v.GetString("MINIO_SECRET_KEY"),
			UseSSL:         v.GetBool("MINIO_USE_SSL"),
			Bucket:         v.GetString("MINIO_BUCKET"),
			PublicBaseURL:  strings.TrimRight(v.GetString("MINIO_PUBLIC_URL"), "/"),
			MaxUploadBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Locale: LocaleConfig{
			Supported:  locales,
			Default:    defaultLocale,
			CookieName: v.GetString("LOCALE_COOKIE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS"), []string{"http://localhost:3000"}),
		},
		Site: SiteConfig{
			StaticDir: v.GetString("SITE_STATIC_DIR"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.MongoDB.URI == "" && cfg.Server.IsProduction() {
		return nil, errors.New("config: MONGODB_URI is required in production")
	}

	return cfg, nil
}

// parseList splits a comma separated value, dropping blanks.
func parseList(raw string, fallback []string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	values := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
