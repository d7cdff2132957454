// Package llm is a small provider abstraction over hosted language models
// that return schema-constrained JSON.
package llm

import (
	"context"
	"encoding/json"
)

// Provider produces one JSON completion per prompt.
type Provider interface {
	// Complete sends p and returns the model output. When p.Schema is set
	// the output has already been validated against it.
	Complete(ctx context.Context, p Prompt) (*Completion, error)

	// Model returns the resolved model identifier.
	Model() string
}

// Prompt is a single-turn request.
type Prompt struct {
	System      string
	User        string
	Schema      *Schema
	MaxTokens   int
	Temperature float64 // 0 leaves the provider default
}

// StopReason is why generation stopped, normalized across providers.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Completion is a provider response.
type Completion struct {
	JSON  json.RawMessage
	Model string
	Stop  StopReason
	Usage Usage
}

// Decode unmarshals the completion into v.
func (c *Completion) Decode(v any) error {
	if err := json.Unmarshal(c.JSON, v); err != nil {
		return &Error{Kind: KindInvalid, Content: c.JSON, Err: err}
	}
	return nil
}

// Usage is token consumption for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// finish validates raw against the prompt schema and wraps it.
func finish(p Prompt, raw json.RawMessage, model string, stop StopReason, usage Usage) (*Completion, error) {
	if stop == StopMaxTokens {
		return nil, &Error{Kind: KindTruncated, Content: raw}
	}
	if p.Schema != nil {
		if err := p.Schema.Check(raw); err != nil {
			return nil, err
		}
	}
	return &Completion{JSON: raw, Model: model, Stop: stop, Usage: usage}, nil
}

// resolveModel maps a short alias to a provider model ID. Unknown names
// pass through so full IDs work too.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
