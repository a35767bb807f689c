package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scan1c/internal/config"
)

// clearPlatformEnv neutralizes hosting variables that Load falls back to.
func clearPlatformEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "SCAN1C_SERVER_PORT", "VERCEL_URL", "RENDER_EXTERNAL_URL", "SCAN1C_SERVER_PUBLIC_URL", "SCAN1C_RECOGNIZER_MODELS"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearPlatformEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, int64(10), cfg.Server.MaxUploadMB)
	assert.Equal(t, 180*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.InDelta(t, 0.1, cfg.Recognizer.Temperature, 1e-6)
	assert.Equal(t, 3, cfg.Recognizer.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Recognizer.Backoff())
	assert.Equal(t, 60*time.Second, cfg.Recognizer.Timeout())
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Recognizer.OpenRouterBaseURL)
	assert.Len(t, cfg.Recognizer.Models, 3)
	assert.Equal(t, "my-secret-token", cfg.Telegram.WebhookSecret)
	assert.Equal(t, config.TelegramModeWebhook, cfg.Telegram.Mode)
	assert.False(t, cfg.DB.Enabled)
	assert.False(t, cfg.S3.Enabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_OriginalEnvironmentNames(t *testing.T) {
	clearPlatformEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("WEBHOOK_SECRET", "hook")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("ONEC_URL", "https://1c.example.com/hs/invoice")
	t.Setenv("ONEC_AUTH_USER", "admin")
	t.Setenv("ONEC_AUTH_PASS", "pass")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "hook", cfg.Telegram.WebhookSecret)
	assert.Equal(t, "or-key", cfg.Recognizer.OpenRouterAPIKey)
	assert.Equal(t, "g-key", cfg.Recognizer.GeminiAPIKey)
	assert.Equal(t, "https://1c.example.com/hs/invoice", cfg.OneC.URL)
	assert.Equal(t, "admin", cfg.OneC.User)
	assert.Equal(t, "pass", cfg.OneC.Password)
}

func TestLoad_PlatformPortAndPublicURL(t *testing.T) {
	clearPlatformEnv(t)
	t.Setenv("PORT", "10000")
	t.Setenv("VERCEL_URL", "scan1c.vercel.app")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":10000", cfg.Server.Port)
	assert.Equal(t, "https://scan1c.vercel.app", cfg.Server.PublicURL)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "https://scan1c.vercel.app")
}

func TestLoad_ExplicitPortWins(t *testing.T) {
	clearPlatformEnv(t)
	t.Setenv("PORT", "10000")
	t.Setenv("SCAN1C_SERVER_PORT", ":9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_RenderURLKeepsScheme(t *testing.T) {
	clearPlatformEnv(t)
	t.Setenv("RENDER_EXTERNAL_URL", "https://scan1c.onrender.com/")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://scan1c.onrender.com", cfg.Server.PublicURL)
}

func TestParseModelTargets(t *testing.T) {
	targets, err := config.ParseModelTargets(" google/gemini-2.0-flash-001, gemini:gemini-1.5-flash ,meta-llama/llama-3.2-11b-vision-instruct:free,")
	require.NoError(t, err)

	assert.Equal(t, []config.ModelTarget{
		{Provider: config.ProviderOpenRouter, Model: "google/gemini-2.0-flash-001"},
		{Provider: config.ProviderGemini, Model: "gemini-1.5-flash"},
		{Provider: config.ProviderOpenRouter, Model: "meta-llama/llama-3.2-11b-vision-instruct:free"},
	}, targets)
	assert.Equal(t, "gemini:gemini-1.5-flash", targets[1].String())
	assert.Equal(t, "google/gemini-2.0-flash-001", targets[0].String())
}

func TestParseModelTargets_Invalid(t *testing.T) {
	_, err := config.ParseModelTargets(" , ")
	assert.Error(t, err)

	_, err = config.ParseModelTargets("gemini:")
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "scan1c", SSLMode: "disable"}
	assert.Contains(t, db.DSN(), "db:5432")
	assert.Contains(t, db.DSN(), "scan1c")
}
