// Package config loads examdesk settings from an optional .env file and
// EXAMDESK_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/llm"
	"github.com/examdesk/examdesk/internal/store"
)

const envPrefix = "EXAMDESK_"

// Config holds all application configuration.
type Config struct {
	APIURL    string        `validate:"required,url"`
	Timeout   time.Duration `validate:"gt=0"`
	DBPath    string        `validate:"required"`
	LogLevel  string        `validate:"oneof=trace debug info warn error"`
	LogFormat string        `validate:"oneof=json pretty"`
	// LogFile is where interactive runs log; CLI subcommands log to stderr.
	LogFile string `validate:"required"`

	LLM llm.Config
}

// Load reads configuration with defaults. A missing .env file is fine.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir, err := store.DataDir()
	if err != nil {
		return nil, err
	}
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:    getEnv("API_URL", api.DefaultBaseURL),
		Timeout:   getEnvDuration("TIMEOUT", api.DefaultTimeout),
		DBPath:    getEnv("DB", dbPath),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogFile:   getEnv("LOG_FILE", filepath.Join(dataDir, "examdesk.log")),
		LLM:       loadLLM(),
	}
	return cfg, nil
}

func loadLLM() llm.Config {
	c := llm.DefaultConfig()
	c.Provider = getEnv("LLM_PROVIDER", c.Provider)
	c.Timeout = getEnvDuration("LLM_TIMEOUT", c.Timeout)
	c.Retry.MaxAttempts = getEnvInt("LLM_MAX_ATTEMPTS", c.Retry.MaxAttempts)

	provider := func(name string, pc *llm.ProviderConfig) {
		pc.APIKey = getEnv(name+"_API_KEY", pc.APIKey)
		pc.Model = getEnv(name+"_MODEL", pc.Model)
		pc.BaseURL = getEnv(name+"_BASE_URL", pc.BaseURL)
	}
	provider("ANTHROPIC", &c.Anthropic)
	provider("OPENAI", &c.OpenAI)
	provider("GEMINI", &c.Gemini)
	provider("OPENROUTER", &c.OpenRouter)
	return c
}

// Validate checks every field, including the coach provider settings when
// a provider is selected.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.StructExcept(c, "LLM"); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.LLM.Enabled() {
		if err := c.LLM.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := getEnv(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("20s") or plain seconds ("20").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
