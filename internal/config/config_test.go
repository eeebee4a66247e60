package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "PORT", "LLM_PROVIDER", "GEMINI_API_KEY", "API_KEY",
		"GEMINI_MODEL", "GROQ_API_KEY", "GROQ_MODEL", "GENERATION_TIMEOUT",
		"RATE_LIMIT_RPM", "SESSION_SECRET", "SESSION_TTL", "SESSION_MAX", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Server.Port != "8080" {
			t.Errorf("Expected port '8080', got '%s'", cfg.Server.Port)
		}
		if cfg.LLM.GenerationTimeout != 10*time.Second {
			t.Errorf("Expected generation timeout 10s, got %s", cfg.LLM.GenerationTimeout)
		}
		if cfg.LLM.GeminiModel != "gemini-3-flash-preview" {
			t.Errorf("Unexpected gemini model '%s'", cfg.LLM.GeminiModel)
		}
		if cfg.LLM.ActiveProvider() != ProviderNone {
			t.Errorf("Expected no active provider without keys, got '%s'", cfg.LLM.ActiveProvider())
		}
		if cfg.Session.Secret == "" {
			t.Error("Expected a generated session secret")
		}
		if cfg.Session.Max != 10000 {
			t.Errorf("Expected session max 10000, got %d", cfg.Session.Max)
		}
	})

	t.Run("MissingAPIKeyIsNotAnError", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_PROVIDER", ProviderGemini)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LLM.ActiveProvider() != ProviderNone {
			t.Errorf("Expected provider 'none', got '%s'", cfg.LLM.ActiveProvider())
		}
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "9090")
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("GENERATION_TIMEOUT", "3s")
		t.Setenv("RATE_LIMIT_RPM", "0")
		t.Setenv("SESSION_SECRET", "s3cret")
		t.Setenv("SESSION_MAX", "5")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Server.Port != "9090" {
			t.Errorf("Expected port '9090', got '%s'", cfg.Server.Port)
		}
		if cfg.LLM.ActiveProvider() != ProviderGemini {
			t.Errorf("Expected provider 'gemini', got '%s'", cfg.LLM.ActiveProvider())
		}
		if cfg.LLM.GenerationTimeout != 3*time.Second {
			t.Errorf("Expected 3s timeout, got %s", cfg.LLM.GenerationTimeout)
		}
		if cfg.LLM.RateLimitRPM != 0 {
			t.Errorf("Expected rate limit 0, got %d", cfg.LLM.RateLimitRPM)
		}
		if cfg.Session.Secret != "s3cret" {
			t.Errorf("Expected secret 's3cret', got '%s'", cfg.Session.Secret)
		}
		if cfg.Session.Max != 5 {
			t.Errorf("Expected session max 5, got %d", cfg.Session.Max)
		}
		level, _ := cfg.Logging.SlogLevel()
		if level != slog.LevelDebug {
			t.Errorf("Expected debug level, got %s", level)
		}
	})

	t.Run("LegacyAPIKey", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_KEY", "legacy_key")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LLM.GeminiAPIKey != "legacy_key" {
			t.Errorf("Expected GeminiAPIKey 'legacy_key', got '%s'", cfg.LLM.GeminiAPIKey)
		}
	})

	t.Run("GroqWhenOnlyGroqKey", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GROQ_API_KEY", "groq_key")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LLM.ActiveProvider() != ProviderGroq {
			t.Errorf("Expected provider 'groq', got '%s'", cfg.LLM.ActiveProvider())
		}
	})

	t.Run("ConfigFile", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := "server:\n  port: \"7070\"\nllm:\n  groq_api_key: ${TEST_GROQ_KEY:fromfile}\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("CONFIG_PATH", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Server.Port != "7070" {
			t.Errorf("Expected port '7070', got '%s'", cfg.Server.Port)
		}
		if cfg.LLM.GroqAPIKey != "fromfile" {
			t.Errorf("Expected groq key 'fromfile', got '%s'", cfg.LLM.GroqAPIKey)
		}
		if cfg.LLM.GenerationTimeout != 10*time.Second {
			t.Errorf("Expected defaults to survive the merge, got %s", cfg.LLM.GenerationTimeout)
		}
	})

	t.Run("InvalidValues", func(t *testing.T) {
		cases := map[string][2]string{
			"BadTimeout":         {"GENERATION_TIMEOUT", "soon"},
			"BadRPM":             {"RATE_LIMIT_RPM", "many"},
			"BadProvider":        {"LLM_PROVIDER", "openai"},
			"BadLevel":           {"LOG_LEVEL", "loud"},
			"BadSessionMax":      {"SESSION_MAX", "lots"},
			"NegativeSessionMax": {"SESSION_MAX", "-1"},
		}
		for name, kv := range cases {
			t.Run(name, func(t *testing.T) {
				clearEnv(t)
				t.Setenv(kv[0], kv[1])
				if _, err := Load(); err == nil {
					t.Fatalf("Expected an error for %s=%s, got nil", kv[0], kv[1])
				}
			})
		}
	})
}
