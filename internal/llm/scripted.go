package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// Reply is one canned answer for Scripted.
type Reply struct {
	JSON  json.RawMessage
	Usage Usage
	Err   error
}

// Scripted is a deterministic Provider that replays replies in order and
// records prompts. Replies are checked against the prompt schema like a
// real backend. With no replies left it falls back to Fallback, if set.
type Scripted struct {
	mu       sync.Mutex
	replies  []Reply
	Fallback json.RawMessage
	Prompts  []Prompt
}

func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

func (s *Scripted) Model() string { return "mock" }

func (s *Scripted) Complete(_ context.Context, p Prompt) (*Completion, error) {
	s.mu.Lock()
	s.Prompts = append(s.Prompts, p)
	var r Reply
	switch {
	case len(s.replies) > 0:
		r = s.replies[0]
		s.replies = s.replies[1:]
	case s.Fallback != nil:
		r = Reply{JSON: s.Fallback}
	default:
		s.mu.Unlock()
		return nil, &Error{Kind: KindUnavailable, Err: errors.New("no scripted reply")}
	}
	s.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return finish(p, r.JSON, "mock", StopEnd, r.Usage)
}

// Add queues another reply.
func (s *Scripted) Add(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, r)
}

// Calls returns how many prompts were received.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Prompts)
}
