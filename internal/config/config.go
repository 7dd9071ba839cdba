package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string
	Port           string
	DatabaseDriver string
	DatabasePath   string
	DatabaseDSN    string
	SessionSecret  string
	JWTSecret      string
	TokenTTL       time.Duration
	GinMode        string
	UploadDir      string
	UploadURLPath  string
	LogLevel       string
	AdminEmail     string
	AdminPassword  string
}

const (
	defaultTokenTTL = 24 * time.Hour
	// DevSecret 仅用于本地开发，部署时必须通过 SESSION_SECRET / JWT_SECRET 覆盖
	DevSecret = "unveil-dev-secret"
)

// Load 先尝试加载 .env 文件，再从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 已存在的环境变量不会被 .env 覆盖。
func Load() AppConfig {
	_ = godotenv.Load()

	port := envOr("PORT", "8080")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	driver := strings.ToLower(envOr("DATABASE_DRIVER", "sqlite"))
	if driver != "sqlite" && driver != "postgres" {
		driver = "sqlite"
	}

	sessionSecret := envOr("SESSION_SECRET", DevSecret)

	return AppConfig{
		ListenAddr:     listenAddr,
		Port:           port,
		DatabaseDriver: driver,
		DatabasePath:   envOr("DATABASE_PATH", "unveil.db"),
		DatabaseDSN:    strings.TrimSpace(os.Getenv("DATABASE_DSN")),
		SessionSecret:  sessionSecret,
		JWTSecret:      envOr("JWT_SECRET", sessionSecret),
		TokenTTL:       parseDuration(os.Getenv("TOKEN_TTL"), defaultTokenTTL),
		GinMode:        envOr("GIN_MODE", "release"),
		UploadDir:      envOr("UPLOAD_DIR", "web/static/uploads"),
		UploadURLPath:  envOr("UPLOAD_URL_PATH", "/static/uploads"),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		AdminEmail:     strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:  strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
	}
}

// DefaultSecrets 返回仍在使用开发默认值的密钥变量名。
func (c AppConfig) DefaultSecrets() []string {
	var names []string
	if c.SessionSecret == DevSecret {
		names = append(names, "SESSION_SECRET")
	}
	if c.JWTSecret == DevSecret {
		names = append(names, "JWT_SECRET")
	}
	return names
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
