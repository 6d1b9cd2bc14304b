package llm

import (
	"context"
	"errors"
	"fmt"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of conversation history sent to the model.
type Message struct {
	Role    Role
	Content string
}

// Client generates model completions. Implementations must be safe for
// concurrent use.
type Client interface {
	// Generate sends the system prompt and conversation history to the
	// model and returns the assistant's reply text.
	Generate(ctx context.Context, system string, messages []Message) (string, error)
	// Name identifies the backing provider and model.
	Name() string
	Close() error
}

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("llm: model returned empty response")

// ScriptedClient replays canned responses in order. It exists for tests
// and for the dry-run mode of the CLI.
type ScriptedClient struct {
	Responses []string
	Calls     []ScriptedCall
	Err       error
	next      int
}

// ScriptedCall records the arguments of one Generate call.
type ScriptedCall struct {
	System   string
	Messages []Message
}

func (s *ScriptedClient) Generate(_ context.Context, system string, messages []Message) (string, error) {
	recorded := make([]Message, len(messages))
	copy(recorded, messages)
	s.Calls = append(s.Calls, ScriptedCall{System: system, Messages: recorded})
	if s.Err != nil {
		return "", s.Err
	}
	if s.next >= len(s.Responses) {
		return "", fmt.Errorf("scripted client exhausted after %d responses", len(s.Responses))
	}
	resp := s.Responses[s.next]
	s.next++
	return resp, nil
}

func (s *ScriptedClient) Name() string { return "scripted" }

func (s *ScriptedClient) Close() error { return nil }
