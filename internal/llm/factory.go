package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// New builds the provider named by cfg, wrapped as
// caller -> retry -> recording -> backend. It returns ErrDisabled when
// cfg selects no provider.
func New(ctx context.Context, cfg Config, log RequestLog, logger zerolog.Logger) (Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropic(cfg.Anthropic.APIKey, cfg.Anthropic.Model, anthropicOptions(cfg.Anthropic)...)
	case ProviderOpenAI:
		base, err = NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	case ProviderOpenRouter:
		base, err = NewOpenRouter(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model, cfg.OpenRouter.BaseURL)
	case ProviderGemini:
		base, err = NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	case ProviderMock:
		s := NewScripted()
		s.Fallback = cfg.MockReply
		base = s
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	recorded := WithRecording(base, cfg.Provider, log, logger)
	return WithRetry(recorded, cfg.Retry), nil
}
