// Package coach turns a graded result into short study notes using an
// LLM provider. It never changes the score.
package coach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/llm"
)

// ErrNoBreakdown is returned when the result has no per-question answers.
var ErrNoBreakdown = errors.New("coach: result has no answer breakdown")

// Input is what the coach sees.
type Input struct {
	ExamTitle string
	Subject   string
	Result    exam.Result
	Questions []exam.Question
}

// Notes are the generated study notes.
type Notes struct {
	Summary     string   `json:"summary"`
	FocusTopics []string `json:"focus_topics"`
	Tips        []string `json:"tips"`
	Model       string   `json:"-"`
}

type Coach struct {
	provider    llm.Provider
	timeout     time.Duration
	maxTokens   int
	temperature float64
}

// New returns a Coach. A zero timeout means no deadline beyond ctx.
func New(p llm.Provider, timeout time.Duration) *Coach {
	return &Coach{provider: p, timeout: timeout, maxTokens: 1024, temperature: 0.4}
}

// Generate asks the provider for notes about in.Result.
func (c *Coach) Generate(ctx context.Context, in Input) (*Notes, error) {
	if !in.Result.HasBreakdown() {
		return nil, ErrNoBreakdown
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, "coach")

	comp, err := c.provider.Complete(ctx, llm.Prompt{
		System:      systemPrompt,
		User:        buildUserMessage(in),
		Schema:      NotesSchema,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate notes: %w", err)
	}

	var n Notes
	if err := comp.Decode(&n); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	n.Model = comp.Model
	return &n, nil
}
