package llm

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Provider names accepted in Config.Provider.
const (
	ProviderNone       = "none"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the coach provider.
type Config struct {
	Provider string `validate:"oneof=none anthropic openai gemini openrouter mock"`

	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	Gemini     ProviderConfig
	OpenRouter ProviderConfig

	Retry RetryConfig

	// Timeout bounds one request including retries.
	Timeout time.Duration `validate:"gt=0"`

	// MockReply is what the mock provider answers with once its script is empty.
	MockReply json.RawMessage `validate:"-"`
}

// ProviderConfig is the per-provider part of Config. BaseURL is optional.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string `validate:"omitempty,url"`
}

type RetryConfig struct {
	MaxAttempts int           `validate:"gte=1,lte=10"`
	InitialWait time.Duration `validate:"gte=0"`
	MaxWait     time.Duration `validate:"gte=0"`
	Multiplier  float64       `validate:"gte=1"`
}

// DefaultConfig has no provider; the coach stays off until one is chosen.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderNone,
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// Enabled reports whether a provider other than "none" is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// selected returns the settings of the chosen provider.
func (c Config) selected() (ProviderConfig, bool) {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic, true
	case ProviderOpenAI:
		return c.OpenAI, true
	case ProviderGemini:
		return c.Gemini, true
	case ProviderOpenRouter:
		return c.OpenRouter, true
	}
	return ProviderConfig{}, false
}

// Validate checks field ranges and that the chosen provider has a key.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("llm config: %w", err)
	}
	if pc, ok := c.selected(); ok && pc.APIKey == "" {
		return fmt.Errorf("llm config: an API key is required for the %s provider", c.Provider)
	}
	return nil
}
