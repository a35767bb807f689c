package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Recognizer RecognizerConfig
	Telegram   TelegramConfig
	OneC       OneCConfig
	DB         DBConfig
	S3         S3Config
	CORS       CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
	PublicURL    string        `mapstructure:"public_url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ModelTarget is one entry of the failover list.
type ModelTarget struct {
	Provider string
	Model    string
}

// String renders the target the way it is written in configuration.
func (t ModelTarget) String() string {
	if t.Provider == ProviderOpenRouter {
		return t.Model
	}
	return t.Provider + ":" + t.Model
}

// Supported model providers.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// RecognizerConfig holds vision model and recognition pipeline settings.
type RecognizerConfig struct {
	Models            []ModelTarget
	OpenRouterAPIKey  string  `mapstructure:"openrouter_api_key"`
	OpenRouterBaseURL string  `mapstructure:"openrouter_base_url"`
	Referer           string  `mapstructure:"referer"`
	Title             string  `mapstructure:"title"`
	GeminiAPIKey      string  `mapstructure:"gemini_api_key"`
	Temperature       float32 `mapstructure:"temperature"`
	TimeoutSecs       int     `mapstructure:"timeout_secs"`
	MaxAttempts       int     `mapstructure:"max_attempts"`
	BackoffSecs       int     `mapstructure:"backoff_secs"`
	MaxImageDimension int     `mapstructure:"max_image_dimension"`
	JPEGQuality       int     `mapstructure:"jpeg_quality"`
	PageConcurrency   int     `mapstructure:"page_concurrency"`
}

// Timeout returns the per-call model timeout.
func (r *RecognizerConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

// Backoff returns the base delay between rate-limited attempts.
func (r *RecognizerConfig) Backoff() time.Duration {
	return time.Duration(r.BackoffSecs) * time.Second
}

// TelegramConfig holds bot settings.
type TelegramConfig struct {
	BotToken      string `mapstructure:"bot_token"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	Mode          string `mapstructure:"mode"`
}

// Telegram bot modes.
const (
	TelegramModeWebhook = "webhook"
	TelegramModePolling = "polling"
	TelegramModeOff     = "off"
)

// OneCConfig holds settings of the 1C HTTP service.
type OneCConfig struct {
	URL         string `mapstructure:"url"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings of the upload archive bucket.
type S3Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const defaultModels = "google/gemini-2.0-flash-001,google/gemini-flash-1.5,openai/gpt-4o-mini"

// Load reads configuration from environment variables with the SCAN1C_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCAN1C")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.public_url", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Recognizer defaults
	v.SetDefault("recognizer.models", defaultModels)
	v.SetDefault("recognizer.openrouter_api_key", "")
	v.SetDefault("recognizer.openrouter_base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("recognizer.referer", "https://scan1c.local")
	v.SetDefault("recognizer.title", "Scan1C Invoice Bot")
	v.SetDefault("recognizer.gemini_api_key", "")
	v.SetDefault("recognizer.temperature", 0.1)
	v.SetDefault("recognizer.timeout_secs", 60)
	v.SetDefault("recognizer.max_attempts", 3)
	v.SetDefault("recognizer.backoff_secs", 2)
	v.SetDefault("recognizer.max_image_dimension", 1024)
	v.SetDefault("recognizer.jpeg_quality", 85)
	v.SetDefault("recognizer.page_concurrency", 2)

	// Telegram defaults
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.webhook_secret", "my-secret-token")
	v.SetDefault("telegram.mode", TelegramModeWebhook)

	// 1C defaults
	v.SetDefault("onec.url", "")
	v.SetDefault("onec.user", "")
	v.SetDefault("onec.password", "")
	v.SetDefault("onec.timeout_secs", 30)

	// DB defaults
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "scan1c")
	v.SetDefault("db.password", "scan1c_secret")
	v.SetDefault("db.name", "scan1c")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "scan1c-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "SCAN1C_SERVER_PORT",
		"server.read_timeout":            "SCAN1C_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "SCAN1C_SERVER_WRITE_TIMEOUT",
		"server.environment":             "SCAN1C_SERVER_ENVIRONMENT",
		"server.max_upload_mb":           "SCAN1C_SERVER_MAX_UPLOAD_MB",
		"server.public_url":              "SCAN1C_SERVER_PUBLIC_URL",
		"log.level":                      "SCAN1C_LOG_LEVEL",
		"log.format":                     "SCAN1C_LOG_FORMAT",
		"recognizer.models":              "SCAN1C_RECOGNIZER_MODELS",
		"recognizer.openrouter_api_key":  "OPENROUTER_API_KEY",
		"recognizer.openrouter_base_url": "SCAN1C_RECOGNIZER_OPENROUTER_BASE_URL",
		"recognizer.referer":             "SCAN1C_RECOGNIZER_REFERER",
		"recognizer.title":               "SCAN1C_RECOGNIZER_TITLE",
		"recognizer.gemini_api_key":      "GOOGLE_API_KEY",
		"recognizer.temperature":         "SCAN1C_RECOGNIZER_TEMPERATURE",
		"recognizer.timeout_secs":        "SCAN1C_RECOGNIZER_TIMEOUT_SECS",
		"recognizer.max_attempts":        "SCAN1C_RECOGNIZER_MAX_ATTEMPTS",
		"recognizer.backoff_secs":        "SCAN1C_RECOGNIZER_BACKOFF_SECS",
		"recognizer.max_image_dimension": "SCAN1C_RECOGNIZER_MAX_IMAGE_DIMENSION",
		"recognizer.jpeg_quality":        "SCAN1C_RECOGNIZER_JPEG_QUALITY",
		"recognizer.page_concurrency":    "SCAN1C_RECOGNIZER_PAGE_CONCURRENCY",
		"telegram.bot_token":             "BOT_TOKEN",
		"telegram.webhook_secret":        "WEBHOOK_SECRET",
		"telegram.mode":                  "SCAN1C_TELEGRAM_MODE",
		"onec.url":                       "ONEC_URL",
		"onec.user":                      "ONEC_AUTH_USER",
		"onec.password":                  "ONEC_AUTH_PASS",
		"onec.timeout_secs":              "SCAN1C_ONEC_TIMEOUT_SECS",
		"db.enabled":                     "SCAN1C_DB_ENABLED",
		"db.host":                        "SCAN1C_DB_HOST",
		"db.port":                        "SCAN1C_DB_PORT",
		"db.user":                        "SCAN1C_DB_USER",
		"db.password":                    "SCAN1C_DB_PASSWORD",
		"db.name":                        "SCAN1C_DB_NAME",
		"db.sslmode":                     "SCAN1C_DB_SSLMODE",
		"db.max_open":                    "SCAN1C_DB_MAX_OPEN",
		"db.max_idle":                    "SCAN1C_DB_MAX_IDLE",
		"s3.enabled":                     "SCAN1C_S3_ENABLED",
		"s3.region":                      "SCAN1C_S3_REGION",
		"s3.bucket":                      "SCAN1C_S3_BUCKET",
		"s3.endpoint":                    "SCAN1C_S3_ENDPOINT",
		"s3.access_key":                  "SCAN1C_S3_ACCESS_KEY",
		"s3.secret_key":                  "SCAN1C_S3_SECRET_KEY",
		"s3.presign_expiry":              "SCAN1C_S3_PRESIGN_EXPIRY",
		"cors.allowed_origins":           "SCAN1C_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Render/Vercel set a PORT env var. Use it if SCAN1C_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SCAN1C_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
		PublicURL:    resolvePublicURL(v.GetString("server.public_url")),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	models, err := ParseModelTargets(v.GetString("recognizer.models"))
	if err != nil {
		return nil, err
	}
	cfg.Recognizer = RecognizerConfig{
		Models:            models,
		OpenRouterAPIKey:  v.GetString("recognizer.openrouter_api_key"),
		OpenRouterBaseURL: strings.TrimRight(v.GetString("recognizer.openrouter_base_url"), "/"),
		Referer:           v.GetString("recognizer.referer"),
		Title:             v.GetString("recognizer.title"),
		GeminiAPIKey:      v.GetString("recognizer.gemini_api_key"),
		Temperature:       float32(v.GetFloat64("recognizer.temperature")),
		TimeoutSecs:       v.GetInt("recognizer.timeout_secs"),
		MaxAttempts:       v.GetInt("recognizer.max_attempts"),
		BackoffSecs:       v.GetInt("recognizer.backoff_secs"),
		MaxImageDimension: v.GetInt("recognizer.max_image_dimension"),
		JPEGQuality:       v.GetInt("recognizer.jpeg_quality"),
		PageConcurrency:   v.GetInt("recognizer.page_concurrency"),
	}

	cfg.Telegram = TelegramConfig{
		BotToken:      v.GetString("telegram.bot_token"),
		WebhookSecret: v.GetString("telegram.webhook_secret"),
		Mode:          strings.ToLower(v.GetString("telegram.mode")),
	}
	cfg.OneC = OneCConfig{
		URL:         v.GetString("onec.url"),
		User:        v.GetString("onec.user"),
		Password:    v.GetString("onec.password"),
		TimeoutSecs: v.GetInt("onec.timeout_secs"),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Enabled:       v.GetBool("s3.enabled"),
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	if cfg.Server.PublicURL != "" {
		corsOrigins = append(corsOrigins, cfg.Server.PublicURL)
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}

// ParseModelTargets parses the comma-separated failover list. Entries prefixed
// with "gemini:" use the native Gemini API; everything else is an OpenRouter model id.
func ParseModelTargets(raw string) ([]ModelTarget, error) {
	var targets []ModelTarget
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		target := ModelTarget{Provider: ProviderOpenRouter, Model: entry}
		if provider, model, ok := strings.Cut(entry, ":"); ok && provider == ProviderGemini {
			target = ModelTarget{Provider: ProviderGemini, Model: strings.TrimSpace(model)}
		}
		if target.Model == "" {
			return nil, fmt.Errorf("invalid model entry %q", entry)
		}
		targets = append(targets, target)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("recognizer.models must list at least one model")
	}
	return targets, nil
}

// resolvePublicURL falls back to hosting-platform variables and ensures a scheme.
func resolvePublicURL(explicit string) string {
	u := explicit
	if u == "" {
		u = os.Getenv("VERCEL_URL")
	}
	if u == "" {
		u = os.Getenv("RENDER_EXTERNAL_URL")
	}
	if u != "" && !strings.HasPrefix(u, "http") {
		u = "https://" + u
	}
	return strings.TrimRight(u, "/")
}
