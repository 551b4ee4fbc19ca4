package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.App.Port)
	}
	if cfg.Chat.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected chat model %q", cfg.Chat.Model)
	}
	if cfg.Chat.MaxTokens != 500 || cfg.Chat.Temperature != 0.7 {
		t.Fatalf("unexpected chat params %d/%v", cfg.Chat.MaxTokens, cfg.Chat.Temperature)
	}
	if cfg.Chat.HistoryLimit != 10 {
		t.Fatalf("expected history limit 10, got %d", cfg.Chat.HistoryLimit)
	}
	if cfg.State.Backend != StateBackendFile {
		t.Fatalf("expected file backend, got %q", cfg.State.Backend)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without url or address")
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvChatAPIKey, "gsk_test")
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvChatTimeout, "5s")
	t.Setenv(EnvStateBackend, "SQL")
	t.Setenv(EnvCORSOrigins, "http://a.test,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Chat.APIKey != "gsk_test" {
		t.Fatalf("expected api key from GROQ_API_KEY, got %q", cfg.Chat.APIKey)
	}
	if cfg.App.Port != "9090" {
		t.Fatalf("unexpected port %q", cfg.App.Port)
	}
	if cfg.Chat.Timeout != 5*time.Second {
		t.Fatalf("unexpected chat timeout %v", cfg.Chat.Timeout)
	}
	if cfg.State.Backend != StateBackendSQL {
		t.Fatalf("expected normalized sql backend, got %q", cfg.State.Backend)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("unexpected cors origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStateBackend, "s3")

	if _, err := Load(); err == nil {
		t.Fatal("expected invalid backend to return an error")
	}
}

func TestLoad_RedisBackendRequiresRedis(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStateBackend, StateBackendRedis)

	if _, err := Load(); err == nil {
		t.Fatal("expected redis backend without redis config to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	if _, err := Load(); err != nil {
		t.Fatalf("expected redis backend to load, got %v", err)
	}
}

func TestLoad_TemperatureZeroIsKept(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvChatTemperature, "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Chat.Temperature != 0 {
		t.Fatalf("expected temperature 0 to be kept, got %v", cfg.Chat.Temperature)
	}

	t.Setenv(EnvChatTemperature, "2.5")
	if _, err := Load(); err == nil {
		t.Fatal("expected out-of-range temperature to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "dev")
	for _, key := range []string{EnvPort, EnvStateBackend, EnvRedisURL, EnvRedisAddr, EnvChatAPIKey, EnvChatTimeout, EnvChatTemperature, EnvCORSOrigins, EnvDBDriver} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
