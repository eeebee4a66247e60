package config

import (
	"bytes"
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	uberconfig "go.uber.org/config"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Supported values of LLMConfig.Provider.
const (
	ProviderAuto   = "auto"
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
	ProviderNone   = "none"
)

// Config holds the configuration for the application.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	LLM     LLMConfig     `yaml:"llm"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LLMConfig configures message generation. Missing API keys are a valid
// setup: every card then shows its static message.
type LLMConfig struct {
	Provider          string        `yaml:"provider"`
	GeminiAPIKey      string        `yaml:"gemini_api_key"`
	GeminiModel       string        `yaml:"gemini_model"`
	GroqAPIKey        string        `yaml:"groq_api_key"`
	GroqModel         string        `yaml:"groq_model"`
	GroqBaseURL       string        `yaml:"groq_base_url"`
	GenerationTimeout time.Duration `yaml:"generation_timeout"`
	RateLimitRPM      int           `yaml:"rate_limit_rpm"`
}

type SessionConfig struct {
	Secret        string        `yaml:"secret"`
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	Max           int           `yaml:"max"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load builds the configuration from the embedded defaults, an optional YAML
// file named by CONFIG_PATH and environment variable overrides.
func Load() (*Config, error) {
	opts := []uberconfig.YAMLOption{uberconfig.Source(bytes.NewReader(defaultsYAML))}
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		opts = append(opts, uberconfig.File(path))
	}
	opts = append(opts, uberconfig.Expand(os.LookupEnv))

	provider, err := uberconfig.NewYAML(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create config provider: %w", err)
	}

	var cfg Config
	if err := provider.Get(uberconfig.Root).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("failed to populate config: %w", err)
	}

	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Session.Secret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		cfg.Session.Secret = secret
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables if present.
func (c *Config) overrideFromEnv() error {
	if val := os.Getenv("PORT"); val != "" {
		c.Server.Port = val
	}
	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLM.Provider = val
	}
	if val := os.Getenv("GEMINI_API_KEY"); val != "" {
		c.LLM.GeminiAPIKey = val
	} else if val := os.Getenv("API_KEY"); val != "" && c.LLM.GeminiAPIKey == "" {
		c.LLM.GeminiAPIKey = val
	}
	if val := os.Getenv("GEMINI_MODEL"); val != "" {
		c.LLM.GeminiModel = val
	}
	if val := os.Getenv("GROQ_API_KEY"); val != "" {
		c.LLM.GroqAPIKey = val
	}
	if val := os.Getenv("GROQ_MODEL"); val != "" {
		c.LLM.GroqModel = val
	}
	if val := os.Getenv("GENERATION_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid GENERATION_TIMEOUT %q: %w", val, err)
		}
		c.LLM.GenerationTimeout = d
	}
	if val := os.Getenv("RATE_LIMIT_RPM"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPM %q: %w", val, err)
		}
		c.LLM.RateLimitRPM = n
	}
	if val := os.Getenv("SESSION_SECRET"); val != "" {
		c.Session.Secret = val
	}
	if val := os.Getenv("SESSION_TTL"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL %q: %w", val, err)
		}
		c.Session.TTL = d
	}
	if val := os.Getenv("SESSION_MAX"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid SESSION_MAX %q: %w", val, err)
		}
		c.Session.Max = n
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Logging.Level = val
	}
	return nil
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case ProviderAuto, ProviderGemini, ProviderGroq, ProviderNone:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port not set")
	}
	if c.LLM.GenerationTimeout <= 0 {
		return fmt.Errorf("generation timeout must be positive, got %s", c.LLM.GenerationTimeout)
	}
	if c.LLM.RateLimitRPM < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", c.LLM.RateLimitRPM)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Session.Max < 0 {
		return fmt.Errorf("session max must not be negative, got %d", c.Session.Max)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ActiveProvider resolves which backend generates messages. It returns
// ProviderNone when the selected backend has no credential.
func (c *LLMConfig) ActiveProvider() string {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey != "" {
			return ProviderGemini
		}
	case ProviderGroq:
		if c.GroqAPIKey != "" {
			return ProviderGroq
		}
	case ProviderAuto:
		if c.GeminiAPIKey != "" {
			return ProviderGemini
		}
		if c.GroqAPIKey != "" {
			return ProviderGroq
		}
	}
	return ProviderNone
}

// SlogLevel parses the configured level name.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return level, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
