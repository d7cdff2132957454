package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/examdesk/examdesk/internal/store"
)

// RequestLog is where Recording writes one row per provider call.
type RequestLog interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// Recording logs every call to the request log and to zerolog.
type Recording struct {
	inner    Provider
	provider string
	log      RequestLog
	logger   zerolog.Logger
}

// WithRecording wraps p. provider is the configured provider name.
func WithRecording(p Provider, provider string, log RequestLog, logger zerolog.Logger) *Recording {
	return &Recording{
		inner:    p,
		provider: provider,
		log:      log,
		logger:   logger.With().Str("component", "llm").Str("provider", provider).Logger(),
	}
}

func (r *Recording) Model() string { return r.inner.Model() }

func (r *Recording) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	start := time.Now()
	c, err := r.inner.Complete(ctx, p)
	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:  r.provider,
		Model:     r.inner.Model(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if c != nil {
		data.Model = c.Model
		data.InputTokens = c.Usage.InputTokens
		data.OutputTokens = c.Usage.OutputTokens
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		r.logger.Warn().Err(err).Str("purpose", data.Purpose).Dur("latency", latency).Msg("completion failed")
	} else {
		r.logger.Debug().Str("purpose", data.Purpose).Str("model", data.Model).
			Int("input_tokens", data.InputTokens).Int("output_tokens", data.OutputTokens).
			Dur("latency", latency).Msg("completion")
	}

	if r.log != nil {
		// The log row uses a fresh context so a cancelled request is still recorded.
		if logErr := r.log.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
			r.logger.Warn().Err(logErr).Msg("record llm request")
		}
	}
	return c, err
}
