package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App   AppConfig
	Redis RedisConfig
	JWT   JWTConfig
	Auth  AuthConfig
	Site  SiteConfig
	SMTP  SMTPConfig
	CORS  CORSConfig
}

type AppConfig struct {
	Name          string
	Environment   string // development, staging, production
	Port          string
	Version       string
	LogLevel      string
	AutoMigrate   bool
	DrainMaxRetry int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	SessionTTL time.Duration
}

// AuthConfig cấu hình one-time link và session cookie
type AuthConfig struct {
	LinkTTL      time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// SiteConfig chứa public URL và các đường dẫn redirect của frontend
type SiteConfig struct {
	URL           string
	LoginPath     string
	SetupPath     string
	DashboardPath string
	ConfessPath   string
}

type SMTPConfig struct {
	Host string
	Port string
	From string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:          getEnv("APP_NAME", "Confession API"),
			Environment:   getEnv("APP_ENV", "development"),
			Port:          getEnv("APP_PORT", "8080"),
			Version:       getEnv("APP_VERSION", "1.0.0"),
			LogLevel:      getEnv("LOG_LEVEL", "info"),
			AutoMigrate:   getEnvBool("DB_AUTO_MIGRATE", true),
			DrainMaxRetry: getEnvInt("DRAIN_MAX_RETRY", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", defaultJWTSecret),
			SessionTTL: getEnvDuration("JWT_SESSION_TTL", 7*24*time.Hour),
		},
		Auth: AuthConfig{
			LinkTTL:      getEnvDuration("AUTH_LINK_TTL", time.Hour),
			CookieName:   getEnv("AUTH_COOKIE_NAME", "confession_session"),
			CookieDomain: getEnv("AUTH_COOKIE_DOMAIN", ""),
			CookieSecure: getEnvBool("AUTH_COOKIE_SECURE", false),
		},
		Site: SiteConfig{
			URL:           strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
			LoginPath:     getEnv("SITE_LOGIN_PATH", "/login"),
			SetupPath:     getEnv("SITE_SETUP_PATH", "/auth/setup"),
			DashboardPath: getEnv("SITE_DASHBOARD_PATH", "/dashboard"),
			ConfessPath:   getEnv("SITE_CONFESS_PATH", "/confess"),
		},
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", "localhost"),
			Port: getEnv("SMTP_PORT", "1025"),
			From: getEnv("SMTP_FROM", "noreply@confession.dev"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.JWT.SessionTTL <= 0 {
		return fmt.Errorf("JWT_SESSION_TTL must be positive")
	}
	if c.Auth.LinkTTL <= 0 {
		return fmt.Errorf("AUTH_LINK_TTL must be positive")
	}
	if !strings.HasPrefix(c.Site.URL, "http://") && !strings.HasPrefix(c.Site.URL, "https://") {
		return fmt.Errorf("SITE_URL must be an absolute http(s) URL, got %q", c.Site.URL)
	}

	// Production environment phải có JWT secret và secure cookie
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if !c.Auth.CookieSecure {
			return fmt.Errorf("AUTH_COOKIE_SECURE must be true in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList đọc danh sách phân cách bởi dấu phẩy
func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
